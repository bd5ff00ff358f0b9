package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/nzws/flux-downloader/internal/server/auth"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterConfig はルーターの設定
type RouterConfig struct {
	Version     string
	APIKey      string   // 空なら認証なし
	CORSOrigins []string // 空なら CORS ヘッダーを付けない
	Swagger     bool
}

// NewRouter は gin エンジンにすべてのルートを登録する
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), AccessLog(), Recovery())

	// 認証ミドルウェアを適用
	r.Use(auth.APIKeyMiddleware(cfg.APIKey))

	// ルート設定
	api := r.Group("/api")
	{
		api.POST("/analyze", h.Analyze)
		api.POST("/download", h.StartDownload)
		api.GET("/progress/:id", h.GetProgress)
		api.GET("/progress/:id/stream", h.StreamProgress)
		api.POST("/cancel/:id", h.Cancel)
		api.GET("/downloads", h.ListDownloads)
		api.POST("/open-folder", h.OpenFolder)
		api.GET("/formats", h.Formats)
	}

	// ヘルスチェック
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": cfg.Version})
	})

	// Prometheusメトリクス
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger UI
	if cfg.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, "Endpoint not found")
	})

	return r
}

// WithCORS はブラウザからの呼び出し用に CORS を付与する
func WithCORS(next http.Handler, origins []string) http.Handler {
	if len(origins) == 0 {
		return next
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", RequestIDHeader},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})(next)
}

// NewHTTPHandler はルーターに CORS を重ねた http.Handler を返す
func NewHTTPHandler(h *Handler, cfg RouterConfig) http.Handler {
	return WithCORS(NewRouter(h, cfg), cfg.CORSOrigins)
}
