package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Log はグローバルロガー
	Log *zap.Logger
)

// Options はロガーの初期化オプション
type Options struct {
	Development bool   // 開発モード（カラー出力・コンソール形式）
	Level       string // debug / info / warn / error
}

// Init はロガーを初期化する
func Init(opts Options) error {
	var config zap.Config

	if opts.Development {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}

	// 設定ファイルのレベルより環境変数 LOG_LEVEL を優先する
	level := opts.Level
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		level = env
	}
	if level != "" {
		var zapLevel zapcore.Level
		if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return err
	}

	Log = logger
	return nil
}

// Sync はロガーをフラッシュする（defer で呼ぶ）
func Sync() {
	if Log != nil {
		if err := Log.Sync(); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, "logger sync failed:", err)
		}
	}
}

// Info は Info レベルのログを出力する
func Info(msg string, fields ...zap.Field) {
	if Log != nil {
		Log.Info(msg, fields...)
	}
}

// Error は Error レベルのログを出力する
func Error(msg string, fields ...zap.Field) {
	if Log != nil {
		Log.Error(msg, fields...)
	}
}

// Warn は Warn レベルのログを出力する
func Warn(msg string, fields ...zap.Field) {
	if Log != nil {
		Log.Warn(msg, fields...)
	}
}

// Debug は Debug レベルのログを出力する
func Debug(msg string, fields ...zap.Field) {
	if Log != nil {
		Log.Debug(msg, fields...)
	}
}

// Fatal は Fatal レベルのログを出力してプログラムを終了する
func Fatal(msg string, fields ...zap.Field) {
	if Log != nil {
		Log.Fatal(msg, fields...)
	}
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}

// With は追加のフィールドを持つ新しいロガーを返す
func With(fields ...zap.Field) *zap.Logger {
	if Log != nil {
		return Log.With(fields...)
	}
	return zap.NewNop()
}

// ForJob はジョブID付きのロガーを返す
func ForJob(jobID string) *zap.Logger {
	return With(zap.String("job_id", jobID))
}
