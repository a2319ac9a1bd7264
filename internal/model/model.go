// Package model はデータベースに永続化されるレコードの型を定義します。
package model

import "time"

// DateTimeLayout はクライアントへ返す日時の書式（YYYY-MM-DD HH:MM:SS）です。
const DateTimeLayout = "2006-01-02 15:04:05"

// FormatDateTime は日時を 'YYYY-MM-DD HH:MM:SS' 形式の文字列に変換します。
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}

// User はユーザーアカウントのレコードです。
// Password には bcrypt ハッシュのみを保持し、クライアントへは返しません。
type User struct {
	ID       int64  `db:"id"`
	Name     string `db:"name"`
	Email    string `db:"email"`
	Password string `db:"password"`
}

// Memo はユーザーが所有するメモのレコードです。
// UserID はリクエストで指定された所有者IDをそのまま保持します。
type Memo struct {
	ID        int64     `db:"memo_id"`
	UserID    int64     `db:"user_id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
