// Package auth は HTTP API の認証を行う
package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nzws/flux-downloader/internal/shared/logger"
	"go.uber.org/zap"
)

// 認証不要のパス
var (
	publicPaths    = []string{"/health", "/metrics"}
	publicPrefixes = []string{"/swagger/"}
)

// APIKeyMiddleware はAPI Key認証を行うミドルウェア
// apiKey が空の場合は認証を行わない
func APIKeyMiddleware(apiKey string) gin.HandlerFunc {
	if apiKey == "" {
		logger.Warn("server.api_key is not set, authentication is disabled")
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		if isPublic(c.Request.URL.Path) {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			reject(c, "missing authorization header")
			return
		}

		// Bearer トークンを解析
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			reject(c, "invalid authorization header format")
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(apiKey)) != 1 {
			reject(c, "invalid api key")
			return
		}

		c.Next()
	}
}

func isPublic(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func reject(c *gin.Context, reason string) {
	logger.Warn("Unauthorized request",
		zap.String("reason", reason),
		zap.String("path", c.Request.URL.Path),
		zap.String("client_ip", c.ClientIP()),
	)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": reason})
}
