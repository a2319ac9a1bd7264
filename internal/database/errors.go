package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ストア層のエラー種別。ハンドラーは errors.Is でHTTPステータスに対応付けます。
var (
	// ErrNotFound は対象のレコードが存在しないことを表します。
	ErrNotFound = errors.New("record not found")
	// ErrConflict は一意制約違反（メールアドレス重複など）を表します。
	ErrConflict = errors.New("record already exists")
	// ErrInvalidInput は不正な引数でストアを呼び出したことを表します。
	ErrInvalidInput = errors.New("invalid input")
)

// PostgreSQL のエラーコード。
const (
	pgUniqueViolation = "23505"
)

// WrapError は pgx / scany のエラーをストア層のエラー種別へ変換します。
// 判別できないエラーはそのままラップして返します。
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	// コンテキスト起因のエラーはそのまま伝播させる
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) || pgxscan.NotFound(err) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
		}
	}

	return fmt.Errorf("database: %w", err)
}
