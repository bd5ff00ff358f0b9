package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nzws/flux-downloader/internal/fetcher"
	"github.com/nzws/flux-downloader/internal/job"
	"github.com/nzws/flux-downloader/internal/library"
	"github.com/nzws/flux-downloader/internal/server/api"
	"github.com/nzws/flux-downloader/internal/server/health"
	"github.com/nzws/flux-downloader/internal/shared/config"
	"github.com/nzws/flux-downloader/internal/shared/logger"
	"github.com/nzws/flux-downloader/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "github.com/nzws/flux-downloader/docs"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts.configPath)
		},
	}
}

func runServe(parent context.Context, configPath string) error {
	if parent == nil {
		parent = context.Background()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ロガー初期化
	if err := logger.Init(logger.Options{Development: cfg.IsDevelopment(), Level: cfg.Log.Level}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("Starting flux-downloader", zap.String("version", version))
	logger.Info("Server configuration",
		zap.String("port", cfg.Server.Port),
		zap.String("download_dir", cfg.Download.Dir),
		zap.String("storage_type", cfg.Storage.Type),
		zap.Duration("retention", cfg.Jobs.Retention),
		zap.String("grpc_health_addr", cfg.GRPC.HealthAddr),
		zap.Bool("auth", cfg.Server.APIKey != ""),
	)

	// ダウンロードディレクトリ作成
	if err := os.MkdirAll(cfg.Download.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create download directory %s: %w", cfg.Download.Dir, err)
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ytdlp := fetcher.NewYtDlp(fetcher.Options{
		Executable:       cfg.Download.YtdlpPath,
		FFmpegLocation:   cfg.Download.FFmpegLocation,
		ProgressInterval: cfg.Download.ProgressInterval,
		SocketTimeout:    cfg.Download.SocketTimeout,
		Retries:          cfg.Download.Retries,
	}, fetcher.NewYouTubePlaylistLister(cfg.Download.SocketTimeout))

	ytdlpErr := ytdlp.Check()
	if ytdlpErr != nil {
		logger.Warn("yt-dlp is not available, downloads will fail until it is installed", zap.Error(ytdlpErr))
	}

	// アップローダー初期化
	var publisher job.Publisher
	uploader, err := storage.NewUploader(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create uploader (%s): %w", cfg.Storage.Type, err)
	}
	if uploader != nil {
		publisher = storage.NewMirror(uploader, cfg.Storage.Type, cfg.Storage.S3.Prefix)
	}

	registry := job.NewRegistry()
	manager := job.NewManager(registry, ytdlp, job.Options{
		DefaultDir: cfg.Download.Dir,
		Publisher:  publisher,
	})

	go registry.RunJanitor(ctx, cfg.Jobs.Retention, cfg.Jobs.JanitorInterval)

	var healthServer *health.Server
	if cfg.GRPC.HealthAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPC.HealthAddr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", cfg.GRPC.HealthAddr, err)
		}
		healthServer = health.New()
		healthServer.SetServing(ytdlpErr == nil)
		go func() {
			if err := healthServer.Serve(lis); err != nil {
				logger.Error("gRPC health server stopped", zap.Error(err))
			}
		}()
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	handler := api.NewHandler(manager, ytdlp, api.Options{
		DownloadDir:    cfg.Download.Dir,
		Opener:         library.NewOpener(),
		StreamInterval: cfg.Download.ProgressInterval,
	})

	srv := &http.Server{
		Addr: ":" + cfg.Server.Port,
		Handler: api.NewHTTPHandler(handler, api.RouterConfig{
			Version:     version,
			APIKey:      cfg.Server.APIKey,
			CORSOrigins: cfg.Server.CORSOrigins,
			Swagger:     cfg.Server.Swagger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Received shutdown signal, gracefully stopping...")
	}

	if healthServer != nil {
		healthServer.SetServing(false)
	}

	if err := gracefulShutdown(srv, manager, handler, shutdownTimeout); err != nil {
		logger.Warn("Server did not stop cleanly", zap.Error(err))
	}
	if healthServer != nil {
		healthServer.Shutdown()
	}

	logger.Info("Server stopped")
	return nil
}

// gracefulShutdown は進捗ストリームを閉じ、ジョブを中断してから HTTP サーバーを停止する
// 各段階は timeout を個別に持つ
func gracefulShutdown(srv *http.Server, manager *job.Manager, handler *api.Handler, timeout time.Duration) error {
	handler.Close()

	var errs []error

	managerCtx, cancelManager := context.WithTimeout(context.Background(), timeout)
	defer cancelManager()
	if err := manager.Shutdown(managerCtx); err != nil {
		errs = append(errs, fmt.Errorf("download workers: %w", err))
	}

	httpCtx, cancelHTTP := context.WithTimeout(context.Background(), timeout)
	defer cancelHTTP()
	if err := srv.Shutdown(httpCtx); err != nil {
		errs = append(errs, fmt.Errorf("http server: %w", err))
	}

	return errors.Join(errs...)
}
