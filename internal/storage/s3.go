package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/nzws/flux-downloader/internal/shared/logger"
	"github.com/nzws/flux-downloader/internal/shared/retry"
	"go.uber.org/zap"
)

// S3Uploader はS3にファイルをアップロードする
type S3Uploader struct {
	client *s3.Client
	bucket string
	region string
}

// NewS3Uploader は新しい S3Uploader を作成する
func NewS3Uploader(ctx context.Context, bucket, region string) (*S3Uploader, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Uploader{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
	}, nil
}

// Upload はファイルをS3にアップロードする
func (u *S3Uploader) Upload(ctx context.Context, localPath string, remotePath string) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Warn("Failed to close source file", zap.Error(err))
		}
	}()

	fileInfo, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to get file info: %w", err)
	}

	logger.Info("Uploading to S3",
		zap.String("bucket", u.bucket),
		zap.String("key", remotePath),
		zap.Int64("size", fileInfo.Size()),
	)

	input := &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(remotePath),
		ContentLength: aws.Int64(fileInfo.Size()),
	}
	if ct := contentType(localPath); ct != "" {
		input.ContentType = aws.String(ct)
	}

	// 一時的な失敗はリトライする
	err = retry.Do(ctx, retry.DefaultConfig, func() error {
		if _, seekErr := file.Seek(0, io.SeekStart); seekErr != nil {
			return &retry.Permanent{Err: fmt.Errorf("failed to seek file: %w", seekErr)}
		}
		input.Body = file
		_, putErr := u.client.PutObject(ctx, input)
		return putErr
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3 after retries: %w", err)
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, remotePath)
	logger.Info("Upload completed", zap.String("url", url))

	return url, nil
}

// contentType は拡張子から Content-Type を推測する
func contentType(path string) string {
	switch ext := filepath.Ext(path); ext {
	case ".mp3":
		return "audio/mpeg"
	case ".m4a":
		return "audio/mp4"
	case ".webm":
		return "video/webm"
	case ".mkv":
		return "video/x-matroska"
	default:
		return mime.TypeByExtension(ext)
	}
}
