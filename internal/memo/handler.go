// Package memo はメモ系エンドポイントのハンドラーを提供します。
package memo

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/memo-backend/internal/database"
	"github.com/yourusername/memo-backend/internal/model"
)

// Store はハンドラーが必要とするメモストアの操作です。
type Store interface {
	Insert(ctx context.Context, userID int64, title, content string, now time.Time) (*model.Memo, error)
	FindByID(ctx context.Context, id int64) (*model.Memo, error)
	Update(ctx context.Context, id int64, title, content string, now time.Time) error
	Delete(ctx context.Context, id int64) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Memo, error)
}

// Handler はメモ系エンドポイントのハンドラー群です。
type Handler struct {
	memos Store
}

// NewHandler はハンドラーを作成します。
func NewHandler(memos Store) *Handler {
	return &Handler{memos: memos}
}

type createMemoRequest struct {
	UserID  int64  `json:"userId" binding:"required"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type editMemoRequest struct {
	MemoID  int64  `json:"memoId" binding:"required"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type deleteMemoRequest struct {
	MemoID int64 `json:"memoId" binding:"required"`
}

type getMemoRequest struct {
	UserID int64 `json:"userId" binding:"required"`
}

// memoData はメモ作成・編集の成功レスポンスです。
type memoData struct {
	MemoID    int64  `json:"memo_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedIt string `json:"created_it"`
	UpdatedIt string `json:"updated_it"`
}

// memoRow は一覧取得のレスポンス1行です。所有者IDも含みます。
type memoRow struct {
	MemoID    int64  `json:"memo_id"`
	UserID    int64  `json:"user_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedIt string `json:"created_it"`
	UpdatedIt string `json:"updated_it"`
}

// CreateMemo は POST /createMemo のハンドラーです。
// 作成日時と更新日時は同じ値（秒精度）で記録されます。
func (h *Handler) CreateMemo(c *gin.Context) {
	var req createMemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_INPUT",
			"message": "userId is required",
		})
		return
	}

	now := time.Now().Truncate(time.Second)

	m, err := h.memos.Insert(c.Request.Context(), req.UserID, req.Title, req.Content, now)
	if err != nil {
		log.Printf("createMemo: insert: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "Memo create error",
		})
		return
	}

	log.Println("メモ作成成功")
	c.JSON(http.StatusOK, memoData{
		MemoID:    m.ID,
		Title:     m.Title,
		Content:   m.Content,
		CreatedIt: model.FormatDateTime(m.CreatedAt),
		UpdatedIt: model.FormatDateTime(m.UpdatedAt),
	})
}

// EditMemo は POST /editMemo のハンドラーです。
// 作成日時は元の値を保持し、更新日時だけが進みます。
func (h *Handler) EditMemo(c *gin.Context) {
	var req editMemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_INPUT",
			"message": "memoId is required",
		})
		return
	}

	ctx := c.Request.Context()

	// データベースの確認
	existing, err := h.memos.FindByID(ctx, req.MemoID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"code":    "MEMO_NOT_FOUND",
				"message": "Memo not found",
			})
			return
		}
		log.Printf("editMemo: find: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "Error",
		})
		return
	}

	now := time.Now().Truncate(time.Second)

	if err := h.memos.Update(ctx, req.MemoID, req.Title, req.Content, now); err != nil {
		log.Printf("editMemo: update: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "Error",
		})
		return
	}

	log.Println("メモ編集成功")
	c.JSON(http.StatusOK, memoData{
		MemoID:    req.MemoID,
		Title:     req.Title,
		Content:   req.Content,
		CreatedIt: model.FormatDateTime(existing.CreatedAt), // 元の作成日時
		UpdatedIt: model.FormatDateTime(now),
	})
}

// DeleteMemo は POST /deleteMemo のハンドラーです。
func (h *Handler) DeleteMemo(c *gin.Context) {
	var req deleteMemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_INPUT",
			"message": "memoId is required",
		})
		return
	}

	affected, err := h.memos.Delete(c.Request.Context(), req.MemoID)
	if err != nil {
		log.Printf("deleteMemo: delete: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "Error",
		})
		return
	}
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    "MEMO_NOT_FOUND",
			"message": "Memo not found",
		})
		return
	}

	log.Println("削除成功")
	c.String(http.StatusOK, "Delete complete")
}

// GetMemo は POST /getMemo のハンドラーです。
// 所有者のメモが0件の場合は 404 を返します（空一覧とエラーを区別しない挙動を踏襲）。
func (h *Handler) GetMemo(c *gin.Context) {
	var req getMemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_INPUT",
			"message": "userId is required",
		})
		return
	}

	memos, err := h.memos.ListByUser(c.Request.Context(), req.UserID)
	if err != nil {
		log.Printf("getMemo: list: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "Error",
		})
		return
	}
	if len(memos) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    "MEMO_NOT_FOUND",
			"message": "Memo not found",
		})
		return
	}

	rows := make([]memoRow, 0, len(memos))
	for _, m := range memos {
		rows = append(rows, memoRow{
			MemoID:    m.ID,
			UserID:    m.UserID,
			Title:     m.Title,
			Content:   m.Content,
			CreatedIt: model.FormatDateTime(m.CreatedAt),
			UpdatedIt: model.FormatDateTime(m.UpdatedAt),
		})
	}

	log.Println("取得成功")
	c.JSON(http.StatusOK, rows)
}
