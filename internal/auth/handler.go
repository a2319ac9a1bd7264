package auth

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/memo-backend/internal/database"
	"github.com/yourusername/memo-backend/internal/model"
)

// UserStore はハンドラーが必要とするユーザーストアの操作です。
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	Insert(ctx context.Context, name, email, passwordHash string) (*model.User, error)
	Update(ctx context.Context, id int64, name, email, passwordHash string) error
	Delete(ctx context.Context, id int64) (int64, error)
}

// MemoDeleter はアカウント削除時にメモを一括削除するための操作です。
type MemoDeleter interface {
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
}

// Handler はアカウント・セッション系エンドポイントのハンドラー群です。
type Handler struct {
	users UserStore
	memos MemoDeleter
}

// NewHandler はハンドラーを作成します。
func NewHandler(users UserStore, memos MemoDeleter) *Handler {
	return &Handler{users: users, memos: memos}
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type editProfileRequest struct {
	UserID          int64   `json:"userId" binding:"required"`
	CurrentPassword string  `json:"currentPassword" binding:"required"`
	NewName         *string `json:"newName"`
	NewEmail        *string `json:"newEmail"`
	NewPassword     *string `json:"newPassword"`
}

type deleteAccountRequest struct {
	UserID int64 `json:"userId" binding:"required"`
}

// userData はアカウント系エンドポイントの成功レスポンスです。
type userData struct {
	UserID int64  `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// Signup は POST /signup のハンドラーです。
// メールアドレスの重複を確認してからユーザーを登録し、セッションを作成します。
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_INPUT",
			"message": "name, email, password are required",
		})
		return
	}

	ctx := c.Request.Context()

	// ユーザーの存在確認
	_, err := h.users.FindByEmail(ctx, req.Email)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"code":    "EMAIL_IN_USE",
			"message": "This email address is already in use.",
		})
		return
	}
	if !errors.Is(err, database.ErrNotFound) {
		log.Printf("signup: find user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "Error",
		})
		return
	}

	// パスワードのハッシュ化
	hash, err := HashPassword(req.Password)
	if err != nil {
		log.Printf("signup: hash password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "Error",
		})
		return
	}

	// ユーザーをデータベースに登録
	// 事前確認とINSERTの間に同じメールアドレスで登録されると一意制約違反になる
	user, err := h.users.Insert(ctx, req.Name, req.Email, hash)
	if err != nil {
		if errors.Is(err, database.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{
				"code":    "EMAIL_IN_USE",
				"message": "This email address is already in use.",
			})
			return
		}
		log.Printf("signup: insert user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "Error in registering user.",
		})
		return
	}

	// セッション情報の設定
	if err := CreateSession(c, Identity{UserID: user.ID, Name: user.Name, Email: user.Email}); err != nil {
		log.Printf("signup: save session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "SESSION_SAVE_FAILED",
			"message": "Error",
		})
		return
	}

	log.Println("サインアップ成功")
	c.JSON(http.StatusOK, userData{UserID: user.ID, Name: user.Name, Email: user.Email})
}

// Login は POST /login のハンドラーです。
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_INPUT",
			"message": "email and password are required",
		})
		return
	}

	ctx := c.Request.Context()

	// ユーザーの存在確認
	user, err := h.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User not found",
			})
			return
		}
		log.Printf("login: find user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "Error",
		})
		return
	}

	// パスワード認証
	if !VerifyPassword(req.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    "INVALID_CREDENTIALS",
			"message": "Invalid username or password.",
		})
		return
	}

	// セッション情報の設定
	if err := CreateSession(c, Identity{UserID: user.ID, Name: user.Name, Email: user.Email}); err != nil {
		log.Printf("login: save session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "SESSION_SAVE_FAILED",
			"message": "Error",
		})
		return
	}

	log.Println("ログイン成功")
	c.JSON(http.StatusOK, userData{UserID: user.ID, Name: user.Name, Email: user.Email})
}

// Logout は POST /logout のハンドラーです。
func (h *Handler) Logout(c *gin.Context) {
	if err := ClearSession(c); err != nil {
		log.Printf("logout: clear session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "SESSION_SAVE_FAILED",
			"message": "Error",
		})
		return
	}
	log.Println("ログアウト成功")
	c.String(http.StatusOK, "Logout successful.")
}

// GetUserData は GET /getUserData のハンドラーです。
// ストアを参照せず、セッションに保存されたスナップショットをそのまま返します。
func (h *Handler) GetUserData(c *gin.Context) {
	id, ok := CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    "SESSION_NOT_FOUND",
			"message": "Session data not found.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":  id.Name,
		"email": id.Email,
	})
}

// CheckSession は GET /checkSession のハンドラーです。
func (h *Handler) CheckSession(c *gin.Context) {
	if _, ok := CurrentIdentity(c); !ok {
		log.Println("セッションが存在しません")
		c.JSON(http.StatusNotFound, gin.H{
			"code":    "SESSION_NOT_FOUND",
			"message": "There is no session",
		})
		return
	}
	log.Println("セッションが存在します")
	c.String(http.StatusOK, "ok")
}

// EditProfile は POST /editProfile のハンドラーです。
// 指定されなかった項目は現在の値を引き継ぎます。新パスワード未指定の場合は
// 現在のパスワードで再ハッシュします。
func (h *Handler) EditProfile(c *gin.Context) {
	var req editProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_INPUT",
			"message": "userId and currentPassword are required",
		})
		return
	}

	ctx := c.Request.Context()

	// ユーザーの存在確認
	user, err := h.users.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			log.Println("ユーザーが存在しません")
			c.JSON(http.StatusNotFound, gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User not found",
			})
			return
		}
		log.Printf("editProfile: find user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "Error",
		})
		return
	}

	newName := user.Name
	if req.NewName != nil {
		newName = *req.NewName
	}
	newEmail := user.Email
	if req.NewEmail != nil {
		newEmail = *req.NewEmail
	}
	newPassword := req.CurrentPassword
	if req.NewPassword != nil {
		newPassword = *req.NewPassword
	}

	// パスワード認証
	if !VerifyPassword(req.CurrentPassword, user.Password) {
		log.Println("パスワードが一致しません")
		c.JSON(http.StatusUnauthorized, gin.H{
			"code":    "INVALID_CREDENTIALS",
			"message": "Invalid password",
		})
		return
	}

	// パスワードハッシュ化
	hash, err := HashPassword(newPassword)
	if err != nil {
		log.Printf("editProfile: hash password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "Error",
		})
		return
	}

	// データベース更新処理
	if err := h.users.Update(ctx, user.ID, newName, newEmail, hash); err != nil {
		log.Printf("editProfile: update user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "Error",
		})
		return
	}

	// セッション情報更新（発行時刻は維持される）
	if err := RefreshIdentity(c, Identity{UserID: req.UserID, Name: newName, Email: newEmail}); err != nil {
		log.Printf("editProfile: refresh session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "SESSION_SAVE_FAILED",
			"message": "Error",
		})
		return
	}

	log.Println("プロフィール編集成功")
	c.JSON(http.StatusOK, userData{UserID: req.UserID, Name: newName, Email: newEmail})
}

// DeleteAccount は POST /deleteAccount のハンドラーです。
// 所有メモを削除してからユーザーを削除します。2つの削除はトランザクションで
// 括られていないため、間で失敗するとメモだけが消えた状態が残ります。
func (h *Handler) DeleteAccount(c *gin.Context) {
	var req deleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "INVALID_INPUT",
			"message": "userId is required",
		})
		return
	}

	ctx := c.Request.Context()

	// メモ削除
	if _, err := h.memos.DeleteByUser(ctx, req.UserID); err != nil {
		log.Printf("deleteAccount: delete memos: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "Error",
		})
		return
	}

	// アカウント削除処理
	affected, err := h.users.Delete(ctx, req.UserID)
	if err != nil {
		log.Printf("deleteAccount: delete user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "Error",
		})
		return
	}
	if affected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    "USER_NOT_FOUND",
			"message": "User not found",
		})
		return
	}

	// セッション破棄
	if err := ClearSession(c); err != nil {
		log.Printf("deleteAccount: clear session: %v", err)
	}

	log.Println("アカウント削除成功")
	c.String(http.StatusOK, "Delete complete")
}
