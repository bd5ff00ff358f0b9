// Package library はダウンロード済みファイルの一覧とフォルダを開く操作を提供する
package library

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	TypeAudio = "audio"
	TypeVideo = "video"
)

// 書き込み途中のファイルは一覧に含めない
var skippedExtensions = []string{".part", ".ytdl", ".tmp"}

// File はダウンロード済みファイル
type File struct {
	Name     string    `json:"name" example:"song.mp3"`
	Size     int64     `json:"size" example:"4194304"`
	Modified time.Time `json:"modified" example:"2026-01-02T15:04:05Z"`
	Type     string    `json:"type" example:"audio"`
}

// List は dir 直下の通常ファイルを更新日時の新しい順で返す
// dir が存在しない場合は空の一覧を返す
func List(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []File{}, nil
		}
		return nil, fmt.Errorf("failed to read download directory: %w", err)
	}

	files := make([]File, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || skipped(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// 一覧の取得中に消えたファイル
			continue
		}

		files = append(files, File{
			Name:     entry.Name(),
			Size:     info.Size(),
			Modified: info.ModTime(),
			Type:     fileType(entry.Name()),
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Modified.After(files[j].Modified)
	})

	return files, nil
}

func fileType(name string) string {
	if strings.EqualFold(filepath.Ext(name), ".mp3") {
		return TypeAudio
	}
	return TypeVideo
}

func skipped(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, s := range skippedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}
