package auth

import (
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	// SessionCookieName はセッションIDを運ぶクッキーの名前です。
	SessionCookieName = "memo_session"

	sessionKeyUserID   = "user_id"
	sessionKeyName     = "name"
	sessionKeyEmail    = "email"
	sessionKeyIssuedAt = "issued_at"
)

// sessionLifetime はセッションの有効期間です。作成時刻からの固定値で、
// アクセスがあっても延長されません。
var sessionLifetime = 24 * time.Hour

// SessionMaxAgeSeconds はクッキーの MaxAge に利用する秒数を返します。
func SessionMaxAgeSeconds() int {
	return int(sessionLifetime.Seconds())
}

// Identity はセッションに保存する認証済みユーザーのスナップショットです。
// ストアの最新値ではなく、ログイン時（または最後のプロフィール更新時）の値を保持します。
type Identity struct {
	UserID int64
	Name   string
	Email  string
}

// CreateSession は認証成功時にセッションへ識別情報を書き込みます。
// 有効期限の起点となる発行時刻もここで設定します。
func CreateSession(c *gin.Context, id Identity) error {
	session := sessions.Default(c)
	session.Set(sessionKeyUserID, id.UserID)
	session.Set(sessionKeyName, id.Name)
	session.Set(sessionKeyEmail, id.Email)
	session.Set(sessionKeyIssuedAt, time.Now().Unix())
	return session.Save()
}

// RefreshIdentity はプロフィール更新後にセッションの識別情報を差し替えます。
// 発行時刻は変更しないため、有効期限は作成時のままです。
func RefreshIdentity(c *gin.Context, id Identity) error {
	session := sessions.Default(c)
	session.Set(sessionKeyUserID, id.UserID)
	session.Set(sessionKeyName, id.Name)
	session.Set(sessionKeyEmail, id.Email)
	return session.Save()
}

// CurrentIdentity はセッションから識別情報を読み出します。
// 3つの属性が揃っていて期限内であれば認証済みとみなします。
// 期限切れのセッションは破棄した上で未認証として扱います。
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	session := sessions.Default(c)

	userID, okID := readInt64(session.Get(sessionKeyUserID))
	name, okName := session.Get(sessionKeyName).(string)
	email, okEmail := session.Get(sessionKeyEmail).(string)
	if !okID || !okName || !okEmail || name == "" || email == "" {
		return Identity{}, false
	}

	issuedAt := readUnix(session.Get(sessionKeyIssuedAt))
	if issuedAt.IsZero() || time.Since(issuedAt) > sessionLifetime {
		session.Clear()
		_ = session.Save()
		return Identity{}, false
	}

	return Identity{UserID: userID, Name: name, Email: email}, true
}

// ClearSession はセッションを破棄します。
func ClearSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	return session.Save()
}

func readInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

func readUnix(v interface{}) time.Time {
	switch t := v.(type) {
	case int64:
		return time.Unix(t, 0)
	case int:
		return time.Unix(int64(t), 0)
	case float64:
		return time.Unix(int64(t), 0)
	default:
		return time.Time{}
	}
}
