// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// データベース設定
	DBHost     string // データベースのホスト名
	DBPort     int    // データベースのポート番号
	DBUser     string // データベースの接続ユーザー
	DBPassword string // データベースの接続パスワード
	DBDatabase string // データベース名

	// サーバー設定
	Port    string // APIサーバーのポート番号
	GinMode string // Ginの実行モード (debug, release, test)

	// CORS設定
	CORSAllowedOrigins string // CORS許可オリジン（カンマ区切り）

	// セッション設定
	SessionSecret   string // セッション署名用の秘密鍵
	SessionStore    string // セッションストアの種別 (cookie, redis)
	SessionRedisURL string // redis ストア使用時の接続URL
}

// Load は環境変数から設定を読み込みます。
// .env.local ファイルが存在する場合はそこから読み込みます。
func Load() (*Config, error) {
	loadEnvFile()

	config := &Config{
		// データベース設定
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvAsInt("DB_PORT", 5432),
		DBUser:     getEnv("DB_USER", ""),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBDatabase: getEnv("DB_DATABASE", ""),

		// サーバー設定
		Port:    getEnv("PORT", "3001"),
		GinMode: getEnv("GIN_MODE", "debug"),

		// CORS設定（フロントエンドのURL）
		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),

		// セッション設定
		SessionSecret:   getEnv("SESSION_SECRET", "your_secret_key"),
		SessionStore:    getEnv("SESSION_STORE", "cookie"),
		SessionRedisURL: getEnv("SESSION_REDIS_URL", "redis://127.0.0.1:6379/0"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func loadEnvFile() {
	if err := godotenv.Load(".env.local"); err == nil {
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}

	_ = godotenv.Load(filepath.Join(parent, ".env.local"))
}

// Validate は設定の妥当性を検証します。
func (c *Config) Validate() error {
	if c.DBUser == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if c.DBDatabase == "" {
		return fmt.Errorf("DB_DATABASE is required")
	}
	if c.SessionStore != "cookie" && c.SessionStore != "redis" {
		return fmt.Errorf("SESSION_STORE must be 'cookie' or 'redis', got %q", c.SessionStore)
	}

	// ローカル開発では既定値で動くが、本番環境では秘密鍵を必須とする
	if c.GinMode == "release" {
		if c.SessionSecret == "" || c.SessionSecret == "your_secret_key" {
			return fmt.Errorf("SESSION_SECRET is required in release mode")
		}
		if c.DBPassword == "" {
			return fmt.Errorf("DB_PASSWORD is required in release mode")
		}
	}

	return nil
}

// UseRedisSessions は redis セッションストアを使うかどうかを返します。
func (c *Config) UseRedisSessions() bool {
	return c.SessionStore == "redis"
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します。
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt は環境変数を整数として取得します。
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
