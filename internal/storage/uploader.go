// Package storage は完了したダウンロードを外部ストレージに複製する
package storage

import (
	"context"
	"fmt"

	"github.com/nzws/flux-downloader/internal/shared/config"
)

const (
	TypeNone  = "none"
	TypeLocal = "local"
	TypeS3    = "s3"
)

// Uploader はファイルをアップロードするインターフェース
type Uploader interface {
	// Upload はファイルをアップロードし、アクセス可能なURLを返す
	Upload(ctx context.Context, localPath string, remotePath string) (string, error)
}

// NewUploader は設定から適切な Uploader を作成する
// storage.type が none（または空）の場合は nil を返す
func NewUploader(ctx context.Context, cfg config.StorageConfig) (Uploader, error) {
	switch cfg.Type {
	case "", TypeNone:
		return nil, nil

	case TypeS3:
		if cfg.S3.Bucket == "" {
			return nil, fmt.Errorf("storage.s3.bucket is required")
		}
		region := cfg.S3.Region
		if region == "" {
			region = "us-east-1" // デフォルト
		}
		return NewS3Uploader(ctx, cfg.S3.Bucket, region)

	case TypeLocal:
		if cfg.LocalDir == "" {
			return nil, fmt.Errorf("storage.local_dir is required")
		}
		return NewLocalUploader(cfg.LocalDir), nil

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
