package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nzws/flux-downloader/internal/shared/logger"
	"go.uber.org/zap"
)

// Config はリトライの設定
type Config struct {
	MaxAttempts int           // 最大試行回数
	InitialWait time.Duration // 初回待機時間
	MaxWait     time.Duration // 最大待機時間
	Multiplier  float64       // 待機時間の倍率

	// Retryable が false を返したエラーは即座に返す（nil なら全エラーをリトライ）
	Retryable func(error) bool
}

// DefaultConfig はデフォルトのリトライ設定
var DefaultConfig = Config{
	MaxAttempts: 3,
	InitialWait: 1 * time.Second,
	MaxWait:     30 * time.Second,
	Multiplier:  2.0,
	Retryable:   NotCanceled,
}

// NotCanceled はコンテキスト由来のエラー以外をリトライ対象とする
func NotCanceled(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Permanent はリトライしないことを示すエラー
type Permanent struct {
	Err error
}

func (p *Permanent) Error() string { return p.Err.Error() }

func (p *Permanent) Unwrap() error { return p.Err }

// Do はexponential backoffでリトライを実行する
func Do(ctx context.Context, config Config, fn func() error) error {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}

	var lastErr error
	wait := config.InitialWait

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err

		var perm *Permanent
		if errors.As(err, &perm) {
			return perm.Err
		}
		if config.Retryable != nil && !config.Retryable(err) {
			return err
		}

		// 最後の試行ならリトライしない
		if attempt == config.MaxAttempts {
			break
		}

		logger.Warn("Operation failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", config.MaxAttempts),
			zap.Duration("wait", wait),
			zap.Error(err),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-timer.C:
		}

		// 次回の待機時間を計算（exponential backoff）
		wait = time.Duration(float64(wait) * config.Multiplier)
		if config.MaxWait > 0 && wait > config.MaxWait {
			wait = config.MaxWait
		}
	}

	return fmt.Errorf("max retry attempts reached (%d): %w", config.MaxAttempts, lastErr)
}
