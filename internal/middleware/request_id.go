// Package middleware はgin用の共通ミドルウェアを提供します。
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// RequestID はリクエストIDをヘッダーに付与するミドルウェアです。
// クライアントが指定した場合はその値をそのまま使います。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Header(requestIDHeader, id)
		c.Next()
	}
}
