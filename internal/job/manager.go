package job

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/nzws/flux-downloader/internal/fetcher"
	"github.com/nzws/flux-downloader/internal/fetcher/preset"
	"github.com/nzws/flux-downloader/internal/folder"
	"github.com/nzws/flux-downloader/internal/shared/logger"
	"go.uber.org/zap"
)

var (
	// ErrValidation はリクエストが不正（ジョブは作成されない）
	ErrValidation = errors.New("invalid request")
	// ErrShuttingDown はシャットダウン開始後に受け付けたリクエスト
	ErrShuttingDown = errors.New("server is shutting down")
)

// Publisher は完了したファイルを外部ストレージに複製する
type Publisher interface {
	Publish(ctx context.Context, jobID string, files []string)
}

// Request はダウンロード要求
type Request struct {
	URL          string
	Format       string // audio / video（空なら audio）
	Quality      string // best / 192 / 720 など（空なら best）
	Playlist     bool
	DownloadPath string // 保存先ヒント（folder.Resolve で解決）
}

// Options は Manager の設定
type Options struct {
	DefaultDir string    // 保存先のデフォルト
	Publisher  Publisher // nil なら複製しない
}

// Manager はジョブの受付・実行・照会を行う
type Manager struct {
	registry   *Registry
	downloader fetcher.Downloader
	defaultDir string
	publisher  Publisher
	newID      func() string

	// closed は Start と Shutdown の間で mu により保護される
	mu     sync.Mutex
	closed bool
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewManager は新しい Manager を作成する
func NewManager(registry *Registry, downloader fetcher.Downloader, opts Options) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		registry:   registry,
		downloader: downloader,
		defaultDir: opts.DefaultDir,
		publisher:  opts.Publisher,
		newID:      func() string { return uuid.New().String() },
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Registry は管理しているレジストリを返す
func (m *Manager) Registry() *Registry {
	return m.registry
}

// Start はジョブを登録してバックグラウンドで実行し、すぐにIDを返す
func (m *Manager) Start(req Request) (string, error) {
	url := strings.TrimSpace(req.URL)
	if url == "" {
		return "", fmt.Errorf("%w: url is required", ErrValidation)
	}

	sel, err := preset.Resolve(req.Format, req.Quality)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", ErrShuttingDown
	}

	id := m.newID()
	if err := m.registry.Register(id); err != nil {
		return "", fmt.Errorf("failed to register job %s: %w", id, err)
	}

	target := folder.Resolve(req.DownloadPath, m.defaultDir)

	ctx, cancel := context.WithCancel(m.ctx)
	if err := m.registry.MarkActive(id, cancel); err != nil {
		// 登録直後なので通常は起きない（保持期間の削除と競合した場合など）
		cancel()
		return "", fmt.Errorf("failed to activate job %s: %w", id, err)
	}

	logger.Info("Download job accepted",
		zap.String("job_id", id),
		zap.String("url", url),
		zap.String("format", string(sel.Format)),
		zap.String("quality", sel.Quality),
		zap.Bool("playlist", req.Playlist),
		zap.String("folder", target),
	)

	m.wg.Add(1)
	go m.run(ctx, cancel, id, fetcher.Request{
		JobID:     id,
		URL:       url,
		Selection: sel,
		Playlist:  req.Playlist,
		Folder:    target,
	})

	return id, nil
}

// GetProgress は進捗を返す
func (m *Manager) GetProgress(id string) (Progress, error) {
	return m.registry.Get(id)
}

// Cancel は実行中のジョブをキャンセルする
// ワーカーの終了は待たない
func (m *Manager) Cancel(id string) bool {
	ok := m.registry.Cancel(id)
	if ok {
		logger.Info("Download job cancelled", zap.String("job_id", id))
	}
	return ok
}

// Wait はすべてのワーカーの終了を待つ
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Shutdown は実行中のジョブを中断し、ワーカーの終了を待つ
// 以降の Start は ErrShuttingDown を返す
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	for _, id := range m.registry.ActiveIDs() {
		m.registry.cancelWith(id, ShutdownMessage)
	}
	m.cancel()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("workers did not stop: %w", ctx.Err())
	}
}
