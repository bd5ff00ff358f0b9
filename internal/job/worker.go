package job

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/nzws/flux-downloader/internal/fetcher"
	"github.com/nzws/flux-downloader/internal/shared/logger"
	"github.com/nzws/flux-downloader/internal/shared/metrics"
	"go.uber.org/zap"
)

// run は1ジョブ分のダウンロードを実行する
func (m *Manager) run(ctx context.Context, cancel context.CancelFunc, id string, req fetcher.Request) {
	log := logger.ForJob(id)
	started := time.Now()
	metrics.ActiveJobs.Inc()

	// 結果に関わらず実行中マーカーを外す
	defer func() {
		metrics.ActiveJobs.Dec()
		m.registry.ClearActive(id)
		cancel()
		m.wg.Done()
	}()

	defer func() {
		if r := recover(); r != nil {
			log.Error("Download worker panicked", zap.Any("panic", r))
			m.fail(id, fmt.Sprintf("%s: %v", GenericErrorMessage, r))
			metrics.JobsTotal.WithLabelValues("error").Inc()
		}
	}()

	sink := func(ev fetcher.Event) {
		// キャンセル後のイベントは捨てる
		if ctx.Err() != nil {
			return
		}
		if err := m.registry.Update(id, func(p *Progress) { p.Apply(ev) }); err != nil {
			log.Debug("Dropping progress event", zap.String("status", string(ev.Status)), zap.Error(err))
		}
	}

	result, err := m.downloader.Download(ctx, req, sink)

	metrics.JobDuration.WithLabelValues(string(req.Selection.Format)).Observe(time.Since(started).Seconds())

	if ctx.Err() != nil {
		// キャンセル済みなら何もしない。未記録ならシャットダウンによる中断
		m.fail(id, ShutdownMessage)
		log.Info("Download stopped after cancellation")
		metrics.JobsTotal.WithLabelValues("cancelled").Inc()
		return
	}

	if err != nil {
		log.Warn("Download failed", zap.Error(err))
		m.fail(id, err.Error())
		metrics.JobsTotal.WithLabelValues("error").Inc()
		return
	}

	var files []string
	if result != nil {
		files = result.Files
	}

	if m.publisher != nil && len(files) > 0 {
		m.publisher.Publish(ctx, id, files)
	}

	filename := ""
	if len(files) > 0 {
		filename = filepath.Base(files[0])
	}
	if err := m.registry.Update(id, func(p *Progress) { p.Complete(filename) }); err != nil {
		log.Warn("Failed to record completion", zap.Error(err))
	}

	metrics.JobsTotal.WithLabelValues("completed").Inc()
	log.Info("Download completed",
		zap.Strings("files", files),
		zap.Duration("elapsed", time.Since(started)),
	)
}

// fail はエラーが未記録ならエラー状態にする
func (m *Manager) fail(id, msg string) {
	if msg == "" {
		msg = GenericErrorMessage
	}
	_ = m.registry.Update(id, func(p *Progress) { p.Fail(msg) })
}
