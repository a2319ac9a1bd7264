// Package memo はメモレコードの永続化を担当します。
package memo

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/yourusername/memo-backend/internal/database"
	"github.com/yourusername/memo-backend/internal/model"
)

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const table = "memos"

var columns = []string{"memo_id", "user_id", "title", "content", "created_at", "updated_at"}

// Repository はメモのリポジトリです。
type Repository struct {
	q database.Querier
}

// New はメモリポジトリを作成します。
func New(q database.Querier) *Repository {
	return &Repository{q: q}
}

// Insert は新規メモを登録します。作成日時と更新日時はどちらも now になります。
func (r *Repository) Insert(ctx context.Context, userID int64, title, content string, now time.Time) (*model.Memo, error) {
	query, args, err := qb.Insert(table).
		Columns("user_id", "title", "content", "created_at", "updated_at").
		Values(userID, title, content, now, now).
		Suffix("RETURNING memo_id, user_id, title, content, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, err
	}

	var m model.Memo
	if err := pgxscan.Get(ctx, r.q, &m, query, args...); err != nil {
		return nil, database.WrapError(err)
	}
	return &m, nil
}

// FindByID はIDでメモを検索します。存在しない場合は database.ErrNotFound を返します。
func (r *Repository) FindByID(ctx context.Context, id int64) (*model.Memo, error) {
	query, args, err := qb.Select(columns...).
		From(table).
		Where(squirrel.Eq{"memo_id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var m model.Memo
	if err := pgxscan.Get(ctx, r.q, &m, query, args...); err != nil {
		return nil, database.WrapError(err)
	}
	return &m, nil
}

// Update はタイトル・本文・更新日時のみを書き換えます。作成日時は変更しません。
func (r *Repository) Update(ctx context.Context, id int64, title, content string, now time.Time) error {
	query, args, err := qb.Update(table).
		Set("title", title).
		Set("content", content).
		Set("updated_at", now).
		Where(squirrel.Eq{"memo_id": id}).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return database.WrapError(err)
	}
	return nil
}

// Delete はメモを削除し、削除された行数を返します。
func (r *Repository) Delete(ctx context.Context, id int64) (int64, error) {
	query, args, err := qb.Delete(table).
		Where(squirrel.Eq{"memo_id": id}).
		ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return 0, database.WrapError(err)
	}
	return tag.RowsAffected(), nil
}

// ListByUser は指定の所有者のメモを作成順（memo_id 昇順）で返します。
// 0件の場合は空のスライスを返します。エラーではありません。
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]model.Memo, error) {
	query, args, err := qb.Select(columns...).
		From(table).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("memo_id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	memos := []model.Memo{}
	if err := pgxscan.Select(ctx, r.q, &memos, query, args...); err != nil {
		return nil, database.WrapError(err)
	}
	return memos, nil
}

// DeleteByUser は指定の所有者のメモを全件削除します。アカウント削除時に使用します。
func (r *Repository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	query, args, err := qb.Delete(table).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return 0, database.WrapError(err)
	}
	return tag.RowsAffected(), nil
}
