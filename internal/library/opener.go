package library

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/nzws/flux-downloader/internal/shared/logger"
	"go.uber.org/zap"
)

const (
	osDarwin  = "darwin"
	osWindows = "windows"

	openCommand     = "open"
	explorerCommand = "explorer"
	xdgOpenCommand  = "xdg-open"

	openTimeout = 10 * time.Second
)

// Runner は外部コマンドを実行する
type Runner func(ctx context.Context, name string, args ...string) error

// Opener はフォルダを OS のファイルマネージャーで開く
type Opener struct {
	goos string
	run  Runner
}

// NewOpener は実行中の OS 用の Opener を作成する
func NewOpener() *Opener {
	return NewOpenerFor(runtime.GOOS, execRunner)
}

// NewOpenerFor は OS とコマンド実行を指定して Opener を作成する
func NewOpenerFor(goos string, run Runner) *Opener {
	return &Opener{goos: goos, run: run}
}

// Command は OS ごとのコマンド名を返す
func (o *Opener) Command() string {
	switch o.goos {
	case osDarwin:
		return openCommand
	case osWindows:
		return explorerCommand
	default:
		return xdgOpenCommand
	}
}

// Open は dir を開く
func (o *Opener) Open(ctx context.Context, dir string) error {
	ctx, cancel := context.WithTimeout(ctx, openTimeout)
	defer cancel()

	name := o.Command()
	logger.Info("Opening download folder", zap.String("dir", dir), zap.String("command", name))

	if err := o.run(ctx, name, dir); err != nil {
		return fmt.Errorf("failed to open folder with %s: %w", name, err)
	}
	return nil
}

func execRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	err := cmd.Run()

	// explorer は成功時も終了コード 1 を返す
	var exitErr *exec.ExitError
	if name == explorerCommand && errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return nil
	}
	return err
}
