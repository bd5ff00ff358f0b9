package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nzws/flux-downloader/internal/shared/logger"
	"go.uber.org/zap"
)

// LocalUploader はローカルファイルシステムの別ディレクトリにコピーする
type LocalUploader struct {
	baseDir string
}

// NewLocalUploader は新しい LocalUploader を作成する
func NewLocalUploader(baseDir string) *LocalUploader {
	return &LocalUploader{baseDir: baseDir}
}

// Upload はファイルを baseDir 配下にコピーする
func (u *LocalUploader) Upload(ctx context.Context, localPath string, remotePath string) (string, error) {
	destPath := filepath.Join(u.baseDir, filepath.FromSlash(remotePath))

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	srcFile, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open source file: %w", err)
	}
	defer func() {
		if err := srcFile.Close(); err != nil {
			logger.Warn("Failed to close source file", zap.Error(err))
		}
	}()

	// 一時ファイルに書いてから置き換える
	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, srcFile); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to copy file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close destination file: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to move destination file: %w", err)
	}

	return "file://" + destPath, nil
}
