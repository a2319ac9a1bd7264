// Package main はAPIサーバーのエントリーポイントです。
package main

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	sessionredis "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yourusername/memo-backend/internal/auth"
	"github.com/yourusername/memo-backend/internal/config"
	"github.com/yourusername/memo-backend/internal/database"
	"github.com/yourusername/memo-backend/internal/memo"
	"github.com/yourusername/memo-backend/internal/middleware"
	memorepo "github.com/yourusername/memo-backend/internal/repository/memo"
	userrepo "github.com/yourusername/memo-backend/internal/repository/user"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	// マイグレーションの適用
	if err := database.Migrate(cfg); err != nil {
		log.Fatalf("データベースマイグレーションエラー: %v", err)
	}

	// データベース接続の初期化
	pool, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("データベース接続エラー: %v", err)
	}
	defer pool.Close()
	log.Println("データベースに接続されました。")

	// セッションストアの設定
	store, rdb, err := newSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   auth.SessionMaxAgeSeconds(),
		HttpOnly: true,
		Secure:   false,
	})

	// Ginルーターの初期化（デフォルトミドルウェア: Logger, Recovery）
	router := gin.Default()
	router.Use(middleware.RequestID())
	router.Use(sessions.Sessions(auth.SessionCookieName, store))

	// CORSミドルウェアの設定（フロントエンドからの資格情報付きリクエストを許可）
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.CORSAllowedOrigins, ",")
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// ルーティングの設定
	setupRoutes(router, pool, rdb)

	// サーバーの起動
	addr := ":" + cfg.Port
	log.Printf("Starting API server on %s (mode: %s)", addr, cfg.GinMode)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newSessionStore は設定に応じたセッションストアを作成します。
// redis の場合はヘルスチェック用のクライアントも返します。
func newSessionStore(cfg *config.Config) (sessions.Store, *goredis.Client, error) {
	if !cfg.UseRedisSessions() {
		return cookie.NewStore([]byte(cfg.SessionSecret)), nil, nil
	}

	opts, err := goredis.ParseURL(cfg.SessionRedisURL)
	if err != nil {
		return nil, nil, err
	}

	store, err := sessionredis.NewStore(10, "tcp", opts.Addr, opts.Password, []byte(cfg.SessionSecret))
	if err != nil {
		return nil, nil, err
	}

	return store, goredis.NewClient(opts), nil
}

// setupRoutes はエンドポイントとハンドラーの配線を行います。
func setupRoutes(router *gin.Engine, pool *pgxpool.Pool, rdb *goredis.Client) {
	users := userrepo.New(pool)
	memos := memorepo.New(pool)

	authHandler := auth.NewHandler(users, memos)
	memoHandler := memo.NewHandler(memos)

	router.GET("/health", handleHealth(pool, rdb))

	// アカウント・セッション系
	router.POST("/signup", authHandler.Signup)
	router.POST("/login", authHandler.Login)
	router.POST("/logout", authHandler.Logout)
	router.GET("/getUserData", authHandler.GetUserData)
	router.GET("/checkSession", authHandler.CheckSession)
	router.POST("/editProfile", authHandler.EditProfile)
	router.POST("/deleteAccount", authHandler.DeleteAccount)

	// メモ系。所有者IDはリクエストボディの値を信頼し、セッションとの突き合わせは行わない。
	router.POST("/createMemo", memoHandler.CreateMemo)
	router.POST("/editMemo", memoHandler.EditMemo)
	router.POST("/deleteMemo", memoHandler.DeleteMemo)
	router.POST("/getMemo", memoHandler.GetMemo)
}

// handleHealth はヘルスチェックエンドポイントのハンドラーを返します。
func handleHealth(pool *pgxpool.Pool, rdb *goredis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := gin.H{}
		healthy := true

		if err := pool.Ping(c.Request.Context()); err != nil {
			checks["database"] = err.Error()
			healthy = false
		} else {
			checks["database"] = "ok"
		}

		if rdb != nil {
			if err := rdb.Ping(c.Request.Context()).Err(); err != nil {
				checks["redis"] = err.Error()
				healthy = false
			} else {
				checks["redis"] = "ok"
			}
		}

		status := http.StatusOK
		statusText := "ok"
		if !healthy {
			status = http.StatusServiceUnavailable
			statusText = "degraded"
		}

		c.JSON(status, gin.H{
			"status":  statusText,
			"service": "memo-backend-api",
			"checks":  checks,
		})
	}
}
