// Package api は REST API のハンドラーとルーティングを提供する
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nzws/flux-downloader/internal/fetcher"
	"github.com/nzws/flux-downloader/internal/fetcher/preset"
	"github.com/nzws/flux-downloader/internal/job"
	"github.com/nzws/flux-downloader/internal/library"
	"github.com/nzws/flux-downloader/internal/shared/logger"
	"go.uber.org/zap"
)

const defaultStreamInterval = 500 * time.Millisecond

// Jobs はジョブの受付・照会・キャンセルを行う
type Jobs interface {
	Start(req job.Request) (string, error)
	GetProgress(id string) (job.Progress, error)
	Cancel(id string) bool
}

// FolderOpener はフォルダを開く
type FolderOpener interface {
	Open(ctx context.Context, dir string) error
}

// Options は Handler の設定
type Options struct {
	DownloadDir    string        // /api/downloads と /api/open-folder の対象
	Opener         FolderOpener  // nil なら /api/open-folder は 501
	StreamInterval time.Duration // SSE のポーリング間隔
}

// Handler は REST API のハンドラー
type Handler struct {
	jobs           Jobs
	analyzer       fetcher.Analyzer
	opener         FolderOpener
	downloadDir    string
	streamInterval time.Duration

	done      chan struct{} // Close で閉じる
	closeOnce sync.Once
}

// NewHandler は新しい Handler を作成する
func NewHandler(jobs Jobs, analyzer fetcher.Analyzer, opts Options) *Handler {
	if opts.StreamInterval <= 0 {
		opts.StreamInterval = defaultStreamInterval
	}
	return &Handler{
		jobs:           jobs,
		analyzer:       analyzer,
		opener:         opts.Opener,
		downloadDir:    opts.DownloadDir,
		streamInterval: opts.StreamInterval,
		done:           make(chan struct{}),
	}
}

// Close は開いている進捗ストリームをすべて終了させる
// http.Server.Shutdown はリクエストのコンテキストを止めないため、その前に呼ぶ
func (h *Handler) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}

// AnalyzeRequest は解析のリクエスト
type AnalyzeRequest struct {
	URL string `json:"url" example:"https://www.youtube.com/watch?v=dQw4w9WgXcQ"`
}

// AnalyzeResponse は解析のレスポンス
type AnalyzeResponse struct {
	Success bool          `json:"success" example:"true"`
	Info    *fetcher.Info `json:"info"`
}

// DownloadRequest はダウンロード開始のリクエスト
type DownloadRequest struct {
	URL          string `json:"url" example:"https://www.youtube.com/watch?v=dQw4w9WgXcQ"`
	Format       string `json:"format" example:"audio"`
	Quality      string `json:"quality" example:"192"`
	Playlist     bool   `json:"playlist" example:"false"`
	DownloadPath string `json:"download_path" example:"/home/user/Music"`
}

// DownloadResponse はダウンロード開始のレスポンス
type DownloadResponse struct {
	Success    bool   `json:"success" example:"true"`
	DownloadID string `json:"download_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Message    string `json:"message" example:"Download started"`
}

// ProgressResponse は進捗のレスポンス
type ProgressResponse struct {
	Success  bool         `json:"success" example:"true"`
	Progress job.Progress `json:"progress"`
}

// MessageResponse はメッセージのみのレスポンス
type MessageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Download cancelled"`
}

// DownloadsResponse はダウンロード済みファイル一覧のレスポンス
type DownloadsResponse struct {
	Success bool           `json:"success" example:"true"`
	Files   []library.File `json:"files"`
}

// FormatsResponse は形式と品質候補のレスポンス
type FormatsResponse struct {
	Success bool                `json:"success" example:"true"`
	Formats map[string][]string `json:"formats"`
}

// ErrorResponse はエラーレスポンス
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"error message"`
}

func respondError(c *gin.Context, code int, msg string) {
	c.JSON(code, ErrorResponse{Success: false, Error: msg})
}

// bindJSON はボディを読み込む（空や壊れた JSON は false）
func bindJSON(c *gin.Context, dst interface{}) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		respondError(c, http.StatusBadRequest, "No data received")
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "No data received")
		return false
	}
	return true
}

// Analyze は URL のメタデータを取得する
// @Summary Analyze URL
// @Description Fetch metadata for a video or playlist URL without downloading it.
// @Tags downloads
// @Accept json
// @Produce json
// @Param request body AnalyzeRequest true "URL to analyze"
// @Success 200 {object} AnalyzeResponse
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 502 {object} ErrorResponse "Extractor failed"
// @Security bearerAuth
// @Router /analyze [post]
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if !bindJSON(c, &req) {
		return
	}

	url := strings.TrimSpace(req.URL)
	if url == "" {
		respondError(c, http.StatusBadRequest, "URL is required")
		return
	}

	info, err := h.analyzer.Analyze(c.Request.Context(), url)
	if err != nil {
		logger.Warn("Failed to analyze URL", zap.String("url", url), zap.Error(err))
		respondError(c, http.StatusBadGateway, "Could not retrieve video information: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, AnalyzeResponse{Success: true, Info: info})
}

// StartDownload はダウンロードジョブを開始する
// @Summary Start download
// @Description Start a background download job. Returns immediately with the job id.
// @Tags downloads
// @Accept json
// @Produce json
// @Param request body DownloadRequest true "Download parameters"
// @Success 200 {object} DownloadResponse
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 500 {object} ErrorResponse "Job could not be created"
// @Failure 503 {object} ErrorResponse "Server is shutting down"
// @Security bearerAuth
// @Router /download [post]
func (h *Handler) StartDownload(c *gin.Context) {
	var req DownloadRequest
	if !bindJSON(c, &req) {
		return
	}

	if strings.TrimSpace(req.URL) == "" {
		respondError(c, http.StatusBadRequest, "URL is required")
		return
	}

	id, err := h.jobs.Start(job.Request{
		URL:          req.URL,
		Format:       req.Format,
		Quality:      req.Quality,
		Playlist:     req.Playlist,
		DownloadPath: req.DownloadPath,
	})
	if err != nil {
		if errors.Is(err, job.ErrValidation) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, job.ErrShuttingDown) {
			respondError(c, http.StatusServiceUnavailable, "Server is shutting down")
			return
		}
		logger.Error("Failed to start download", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to start download: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, DownloadResponse{
		Success:    true,
		DownloadID: id,
		Message:    "Download started",
	})
}

// GetProgress はジョブの進捗を返す
// @Summary Get progress
// @Description Get the current progress snapshot of a download job.
// @Tags downloads
// @Produce json
// @Param id path string true "Download ID"
// @Success 200 {object} ProgressResponse
// @Failure 404 {object} ErrorResponse "Unknown download id"
// @Security bearerAuth
// @Router /progress/{id} [get]
func (h *Handler) GetProgress(c *gin.Context) {
	progress, err := h.jobs.GetProgress(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Download ID not found")
		return
	}

	c.JSON(http.StatusOK, ProgressResponse{Success: true, Progress: progress})
}

// StreamProgress はジョブの進捗をSSEでストリーム
// @Summary Stream progress
// @Description Stream progress snapshots via Server-Sent Events until the job reaches a terminal state.
// @Tags downloads
// @Produce text/event-stream
// @Param id path string true "Download ID"
// @Success 200 {string} string "SSE stream of progress snapshots"
// @Failure 404 {object} ErrorResponse "Unknown download id"
// @Security bearerAuth
// @Router /progress/{id}/stream [get]
func (h *Handler) StreamProgress(c *gin.Context) {
	id := c.Param("id")

	progress, err := h.jobs.GetProgress(id)
	if err != nil {
		respondError(c, http.StatusNotFound, "Download ID not found")
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		logger.Error("Streaming not supported")
		respondError(c, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	logger.Info("Streaming download progress", zap.String("job_id", id))

	// SSE ヘッダー設定
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no") // Nginxのバッファリング無効化
	c.Status(http.StatusOK)

	ticker := time.NewTicker(h.streamInterval)
	defer ticker.Stop()

	var last *job.Progress
	for {
		// 変化があったときだけ送る
		if last == nil || !reflect.DeepEqual(*last, progress) {
			if err := writeEvent(c, progress); err != nil {
				logger.Warn("Failed to write SSE progress", zap.String("job_id", id), zap.Error(err))
				return
			}
			flusher.Flush()
			snapshot := progress
			last = &snapshot
		}

		if progress.Status.IsTerminal() {
			return
		}

		select {
		case <-ticker.C:
			progress, err = h.jobs.GetProgress(id)
			if err != nil {
				// 保持期間切れで削除された
				logger.Info("Job disappeared while streaming", zap.String("job_id", id))
				return
			}
		case <-c.Request.Context().Done():
			// クライアント切断
			logger.Info("Client disconnected", zap.String("job_id", id))
			return
		case <-h.done:
			logger.Info("Closing progress stream for shutdown", zap.String("job_id", id))
			return
		}
	}
}

func writeEvent(c *gin.Context, progress job.Progress) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.Writer, "data: %s\n\n", data)
	return err
}

// Cancel は実行中のジョブをキャンセルする
// @Summary Cancel download
// @Description Cancel a running download job. Finished or unknown jobs return 404.
// @Tags downloads
// @Produce json
// @Param id path string true "Download ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse "Unknown or finished download"
// @Security bearerAuth
// @Router /cancel/{id} [post]
func (h *Handler) Cancel(c *gin.Context) {
	if !h.jobs.Cancel(c.Param("id")) {
		respondError(c, http.StatusNotFound, "Download not found or already finished")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Download cancelled"})
}

// ListDownloads はダウンロード済みファイルの一覧を返す
// @Summary List downloads
// @Description List files in the default download directory, newest first.
// @Tags library
// @Produce json
// @Success 200 {object} DownloadsResponse
// @Failure 500 {object} ErrorResponse "Directory could not be read"
// @Security bearerAuth
// @Router /downloads [get]
func (h *Handler) ListDownloads(c *gin.Context) {
	files, err := library.List(h.downloadDir)
	if err != nil {
		logger.Error("Failed to list downloads", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to list downloads: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, DownloadsResponse{Success: true, Files: files})
}

// OpenFolder はダウンロードフォルダを開く
// @Summary Open download folder
// @Description Open the default download directory in the host file manager.
// @Tags library
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 500 {object} ErrorResponse "Folder could not be opened"
// @Failure 501 {object} ErrorResponse "Not available on this server"
// @Security bearerAuth
// @Router /open-folder [post]
func (h *Handler) OpenFolder(c *gin.Context) {
	if h.opener == nil {
		respondError(c, http.StatusNotImplemented, "Opening folders is not available on this server")
		return
	}

	if err := h.opener.Open(c.Request.Context(), h.downloadDir); err != nil {
		logger.Warn("Failed to open folder", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "Failed to open folder: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Folder opened"})
}

// Formats は形式ごとの品質候補を返す
// @Summary List formats
// @Description List supported formats and suggested quality values.
// @Tags downloads
// @Produce json
// @Success 200 {object} FormatsResponse
// @Security bearerAuth
// @Router /formats [get]
func (h *Handler) Formats(c *gin.Context) {
	formats := make(map[string][]string)
	for _, f := range preset.Formats() {
		formats[string(f)] = preset.Qualities(f)
	}

	c.JSON(http.StatusOK, FormatsResponse{Success: true, Formats: formats})
}
