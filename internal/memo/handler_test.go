package memo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/memo-backend/internal/database"
	"github.com/yourusername/memo-backend/internal/model"
)

// fakeStore はインメモリのメモストアです。
type fakeStore struct {
	memos  map[int64]model.Memo
	nextID int64
	err    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{memos: map[int64]model.Memo{}, nextID: 1}
}

func (f *fakeStore) Insert(_ context.Context, userID int64, title, content string, now time.Time) (*model.Memo, error) {
	if f.err != nil {
		return nil, f.err
	}
	m := model.Memo{ID: f.nextID, UserID: userID, Title: title, Content: content, CreatedAt: now, UpdatedAt: now}
	f.memos[m.ID] = m
	f.nextID++
	return &m, nil
}

func (f *fakeStore) FindByID(_ context.Context, id int64) (*model.Memo, error) {
	m, ok := f.memos[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &m, nil
}

func (f *fakeStore) Update(_ context.Context, id int64, title, content string, now time.Time) error {
	m, ok := f.memos[id]
	if !ok {
		return nil
	}
	m.Title = title
	m.Content = content
	m.UpdatedAt = now
	f.memos[id] = m
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id int64) (int64, error) {
	if _, ok := f.memos[id]; !ok {
		return 0, nil
	}
	delete(f.memos, id)
	return 1, nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID int64) ([]model.Memo, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := []model.Memo{}
	for id := int64(1); id < f.nextID; id++ {
		if m, ok := f.memos[id]; ok && m.UserID == userID {
			result = append(result, m)
		}
	}
	return result, nil
}

func newMemoRouter(store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(store)
	r.POST("/createMemo", h.CreateMemo)
	r.POST("/editMemo", h.EditMemo)
	r.POST("/deleteMemo", h.DeleteMemo)
	r.POST("/getMemo", h.GetMemo)
	return r
}

func doJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type memoBody struct {
	MemoID    int64  `json:"memo_id"`
	UserID    int64  `json:"user_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedIt string `json:"created_it"`
	UpdatedIt string `json:"updated_it"`
}

func decodeMemo(t *testing.T, rec *httptest.ResponseRecorder) memoBody {
	t.Helper()
	var body memoBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestCreateMemo(t *testing.T) {
	store := newFakeStore()
	r := newMemoRouter(store)

	rec := doJSON(r, "/createMemo", `{"userId":1,"title":"Hi","content":"Body"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}

	body := decodeMemo(t, rec)
	if body.MemoID == 0 || body.Title != "Hi" || body.Content != "Body" {
		t.Fatalf("unexpected memo: %+v", body)
	}
	if body.CreatedIt == "" || body.CreatedIt != body.UpdatedIt {
		t.Fatalf("expected created_it == updated_it, got %q / %q", body.CreatedIt, body.UpdatedIt)
	}
	if _, err := time.Parse(model.DateTimeLayout, body.CreatedIt); err != nil {
		t.Fatalf("created_it has wrong format: %v", err)
	}
}

func TestCreateMemoStoreError(t *testing.T) {
	store := newFakeStore()
	store.err = context.DeadlineExceeded
	r := newMemoRouter(store)

	rec := doJSON(r, "/createMemo", `{"userId":1,"title":"T","content":"C"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestEditMemoPreservesCreatedAt(t *testing.T) {
	store := newFakeStore()
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)
	store.memos[1] = model.Memo{ID: 1, UserID: 1, Title: "Hi", Content: "Body", CreatedAt: created, UpdatedAt: created}
	store.nextID = 2
	r := newMemoRouter(store)

	rec := doJSON(r, "/editMemo", `{"memoId":1,"title":"Hi2","content":"Body2"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}

	body := decodeMemo(t, rec)
	if body.Title != "Hi2" || body.Content != "Body2" {
		t.Fatalf("unexpected memo: %+v", body)
	}
	if body.CreatedIt != model.FormatDateTime(created) {
		t.Fatalf("created_it changed: %q", body.CreatedIt)
	}
	if body.UpdatedIt == body.CreatedIt {
		t.Fatal("updated_it should advance past created_it")
	}

	if store.memos[1].CreatedAt != created {
		t.Fatal("store created_at must not change")
	}
}

func TestEditMemoNotFound(t *testing.T) {
	r := newMemoRouter(newFakeStore())

	rec := doJSON(r, "/editMemo", `{"memoId":99,"title":"T","content":"C"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteMemo(t *testing.T) {
	store := newFakeStore()
	store.memos[1] = model.Memo{ID: 1, UserID: 1}
	store.nextID = 2
	r := newMemoRouter(store)

	rec := doJSON(r, "/deleteMemo", `{"memoId":1}`)
	if rec.Code != http.StatusOK || rec.Body.String() != "Delete complete" {
		t.Fatalf("unexpected response: %d %q", rec.Code, rec.Body.String())
	}

	rec = doJSON(r, "/deleteMemo", `{"memoId":1}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing memo, got %d", rec.Code)
	}
}

func TestGetMemo(t *testing.T) {
	store := newFakeStore()
	r := newMemoRouter(store)

	// 0件は 404
	rec := doJSON(r, "/getMemo", `{"userId":1}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for empty list, got %d", rec.Code)
	}

	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)
	store.memos[1] = model.Memo{ID: 1, UserID: 1, Title: "T1", Content: "C1", CreatedAt: now, UpdatedAt: now}
	store.memos[2] = model.Memo{ID: 2, UserID: 1, Title: "T2", Content: "C2", CreatedAt: now, UpdatedAt: now}
	store.memos[3] = model.Memo{ID: 3, UserID: 2, Title: "other", Content: "x", CreatedAt: now, UpdatedAt: now}
	store.nextID = 4

	rec = doJSON(r, "/getMemo", `{"userId":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}

	var rows []memoBody
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].MemoID != 1 || rows[1].MemoID != 2 {
		t.Fatalf("rows out of order: %+v", rows)
	}
	if rows[0].UserID != 1 {
		t.Fatalf("rows must include user_id: %+v", rows[0])
	}
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	store := newFakeStore()
	r := newMemoRouter(store)

	rec := doJSON(r, "/createMemo", `{"userId":1,"title":"T","content":"C"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("create: unexpected status %d", rec.Code)
	}
	created := decodeMemo(t, rec)

	rec = doJSON(r, "/getMemo", `{"userId":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: unexpected status %d", rec.Code)
	}
	var rows []memoBody
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	got := rows[0]
	if got.Title != "T" || got.Content != "C" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.CreatedIt != created.CreatedIt || got.CreatedIt != got.UpdatedIt {
		t.Fatalf("timestamps mismatch: %+v vs %+v", got, created)
	}
}
