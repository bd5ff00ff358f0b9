package job

import (
	"context"
	"time"

	"github.com/nzws/flux-downloader/internal/shared/logger"
	"github.com/nzws/flux-downloader/internal/shared/metrics"
	"go.uber.org/zap"
)

// Evict は before より前に終了し、実行中でないジョブを削除する
func (r *Registry) Evict(before time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.entries {
		if e.cancel != nil || !e.progress.Status.IsTerminal() || e.finishedAt.IsZero() {
			continue
		}
		if e.finishedAt.Before(before) {
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}

// RunJanitor は interval ごとに ttl を過ぎた終了済みジョブを削除する
// ctx がキャンセルされるまでブロックする
func (r *Registry) RunJanitor(ctx context.Context, ttl, interval time.Duration) {
	if ttl <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Job retention janitor started",
		zap.Duration("ttl", ttl),
		zap.Duration("interval", interval),
	)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Evict(r.now().Add(-ttl)); n > 0 {
				metrics.JobsEvicted.Add(float64(n))
				logger.Info("Evicted finished jobs",
					zap.Int("count", n),
					zap.Int("remaining", r.Len()),
				)
			}
		}
	}
}
