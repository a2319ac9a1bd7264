// Package user はユーザーレコードの永続化を担当します。
package user

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/yourusername/memo-backend/internal/database"
	"github.com/yourusername/memo-backend/internal/model"
)

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const table = "users"

var columns = []string{"id", "name", "email", "password"}

// Repository はユーザーのリポジトリです。
type Repository struct {
	q database.Querier
}

// New はユーザーリポジトリを作成します。
func New(q database.Querier) *Repository {
	return &Repository{q: q}
}

// FindByEmail はメールアドレスでユーザーを検索します。
// 存在しない場合は database.ErrNotFound を返します。
func (r *Repository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", database.ErrInvalidInput)
	}

	query, args, err := qb.Select(columns...).
		From(table).
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var u model.User
	if err := pgxscan.Get(ctx, r.q, &u, query, args...); err != nil {
		return nil, database.WrapError(err)
	}
	return &u, nil
}

// FindByID はIDでユーザーを検索します。
func (r *Repository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	query, args, err := qb.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var u model.User
	if err := pgxscan.Get(ctx, r.q, &u, query, args...); err != nil {
		return nil, database.WrapError(err)
	}
	return &u, nil
}

// Insert は新規ユーザーを登録し、採番済みのレコードを返します。
// メールアドレスが既に存在する場合は database.ErrConflict を返します。
func (r *Repository) Insert(ctx context.Context, name, email, passwordHash string) (*model.User, error) {
	query, args, err := qb.Insert(table).
		Columns("name", "email", "password").
		Values(name, email, passwordHash).
		Suffix("RETURNING id, name, email, password").
		ToSql()
	if err != nil {
		return nil, err
	}

	var u model.User
	if err := pgxscan.Get(ctx, r.q, &u, query, args...); err != nil {
		return nil, database.WrapError(err)
	}
	return &u, nil
}

// Update はユーザーの名前・メールアドレス・パスワードハッシュを更新します。
func (r *Repository) Update(ctx context.Context, id int64, name, email, passwordHash string) error {
	query, args, err := qb.Update(table).
		Set("name", name).
		Set("email", email).
		Set("password", passwordHash).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return database.WrapError(err)
	}
	return nil
}

// Delete はユーザーを削除し、削除された行数を返します。
func (r *Repository) Delete(ctx context.Context, id int64) (int64, error) {
	query, args, err := qb.Delete(table).
		Where(squirrel.Eq{"id": id}).
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
