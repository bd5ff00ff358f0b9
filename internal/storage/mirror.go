package storage

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/nzws/flux-downloader/internal/shared/logger"
	"github.com/nzws/flux-downloader/internal/shared/metrics"
	"go.uber.org/zap"
)

// Mirror は完了したファイルを Uploader に複製する
// 失敗はログとメトリクスに残すだけで、ジョブは失敗させない
type Mirror struct {
	uploader    Uploader
	storageType string
	prefix      string
}

// NewMirror は新しい Mirror を作成する
func NewMirror(uploader Uploader, storageType, prefix string) *Mirror {
	return &Mirror{
		uploader:    uploader,
		storageType: storageType,
		prefix:      prefix,
	}
}

// RemotePath は複製先のキーを返す（<prefix>/<job id>/<ファイル名>）
func (m *Mirror) RemotePath(jobID, localPath string) string {
	return path.Join(m.prefix, jobID, filepath.Base(localPath))
}

// Publish はファイルを順にアップロードする
func (m *Mirror) Publish(ctx context.Context, jobID string, files []string) {
	log := logger.ForJob(jobID)

	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			log.Warn("Skipping mirror of missing file", zap.String("file", file), zap.Error(err))
			metrics.MirrorFailures.WithLabelValues(m.storageType).Inc()
			continue
		}

		start := time.Now()
		url, err := m.uploader.Upload(ctx, file, m.RemotePath(jobID, file))
		if err != nil {
			log.Warn("Failed to mirror file", zap.String("file", file), zap.Error(err))
			metrics.MirrorFailures.WithLabelValues(m.storageType).Inc()
			continue
		}

		metrics.MirrorDuration.WithLabelValues(m.storageType).Observe(time.Since(start).Seconds())
		metrics.MirrorSize.WithLabelValues(m.storageType).Observe(float64(info.Size()))
		log.Info("Mirrored file", zap.String("file", file), zap.String("url", url))
	}
}
