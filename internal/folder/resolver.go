// Package folder はクライアントが指定した保存先をサーバー上のディレクトリに解決する
package folder

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/nzws/flux-downloader/internal/shared/logger"
	"go.uber.org/zap"
)

// BrowserMarker はブラウザの File System Access API で選ばれたフォルダを示すプレフィックス
// ブラウザのサンドボックス上のパスはサーバーから使えないため、常にデフォルトに落とす
const BrowserMarker = "FSAPI:"

// Resolve は保存先ヒントを実際のディレクトリに解決する
// どの分岐でも使えるパスを返し、エラーは返さない
func Resolve(hint, def string) string {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return def
	}

	if strings.HasPrefix(hint, BrowserMarker) {
		logger.Info("Browser-selected folder is not reachable from the server, using default",
			zap.String("folder", strings.TrimPrefix(hint, BrowserMarker)),
			zap.String("default", def),
		)
		return def
	}

	if !filepath.IsAbs(hint) {
		logger.Info("Relative download path ignored, using default",
			zap.String("hint", hint),
			zap.String("default", def),
		)
		return def
	}

	path := filepath.Clean(hint)
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return hint
	case err == nil:
		logger.Warn("Download path is not a directory, using default",
			zap.String("path", path),
			zap.String("default", def),
		)
		return def
	}

	// 存在しないディレクトリは作成を試みる
	if err := os.MkdirAll(path, 0755); err != nil {
		logger.Warn("Failed to create download path, using default",
			zap.String("path", path),
			zap.String("default", def),
			zap.Error(err),
		)
		return def
	}

	logger.Info("Created download folder", zap.String("path", path))
	return hint
}
