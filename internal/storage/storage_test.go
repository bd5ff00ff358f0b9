package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/nzws/flux-downloader/internal/shared/config"
)

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("ディレクトリの作成に失敗: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("テストファイルの作成に失敗: %v", err)
	}
}

func TestLocalUploaderがファイルをコピーできる(t *testing.T) {
	tempDir := t.TempDir()
	baseDir := filepath.Join(tempDir, "storage")
	src := filepath.Join(tempDir, "src", "song.mp3")
	mustWriteFile(t, src, "mp3 data")

	uploader := NewLocalUploader(baseDir)
	url, err := uploader.Upload(context.Background(), src, "mirror/job-1/song.mp3")
	if err != nil {
		t.Fatalf("アップロードに失敗: %v", err)
	}

	if !strings.HasPrefix(url, "file://") {
		t.Errorf("URL のプレフィックスが 'file://' でない: %s", url)
	}

	copied, err := os.ReadFile(filepath.Join(baseDir, "mirror", "job-1", "song.mp3"))
	if err != nil {
		t.Fatalf("コピーされたファイルの読み込みに失敗: %v", err)
	}
	if string(copied) != "mp3 data" {
		t.Errorf("ファイル内容が一致しない: 取得値 '%s'", copied)
	}

	// 一時ファイルが残っていない
	entries, _ := os.ReadDir(filepath.Join(baseDir, "mirror", "job-1"))
	if len(entries) != 1 {
		t.Errorf("余計なファイルが残っている: %d 件", len(entries))
	}
}

func TestLocalUploaderは存在しないファイルでエラーを返す(t *testing.T) {
	uploader := NewLocalUploader(t.TempDir())
	if _, err := uploader.Upload(context.Background(), "/no/such/file.mp3", "x.mp3"); err == nil {
		t.Error("存在しないファイルでエラーが返されるべき")
	}
}

func TestNewUploaderは設定に応じた実装を返す(t *testing.T) {
	u, err := NewUploader(context.Background(), config.StorageConfig{Type: TypeNone})
	if err != nil || u != nil {
		t.Errorf("none では nil が返るべき: %v, %v", u, err)
	}

	u, err = NewUploader(context.Background(), config.StorageConfig{Type: TypeLocal, LocalDir: t.TempDir()})
	if err != nil {
		t.Fatalf("local の作成に失敗: %v", err)
	}
	if _, ok := u.(*LocalUploader); !ok {
		t.Errorf("LocalUploader が返るべき: %T", u)
	}

	for _, cfg := range []config.StorageConfig{
		{Type: "ftp"},
		{Type: TypeLocal},
		{Type: TypeS3},
	} {
		if _, err := NewUploader(context.Background(), cfg); err == nil {
			t.Errorf("%+v でエラーが返されるべき", cfg)
		}
	}
}

type recordingUploader struct {
	mu      sync.Mutex
	remotes []string
	failOn  string
}

func (u *recordingUploader) Upload(ctx context.Context, localPath, remotePath string) (string, error) {
	if filepath.Base(localPath) == u.failOn {
		return "", errors.New("upload failed")
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.remotes = append(u.remotes, remotePath)
	return "mem://" + remotePath, nil
}

func TestMirrorはジョブごとのパスに複製し失敗は飛ばす(t *testing.T) {
	dir := t.TempDir()
	ok1 := filepath.Join(dir, "a.mp3")
	bad := filepath.Join(dir, "b.mp3")
	ok2 := filepath.Join(dir, "c.mp3")
	for _, f := range []string{ok1, bad, ok2} {
		mustWriteFile(t, f, "data")
	}

	up := &recordingUploader{failOn: "b.mp3"}
	mirror := NewMirror(up, "memory", "fluxdl")
	mirror.Publish(context.Background(), "job-1", []string{ok1, bad, filepath.Join(dir, "missing.mp3"), ok2})

	want := []string{"fluxdl/job-1/a.mp3", "fluxdl/job-1/c.mp3"}
	if len(up.remotes) != len(want) {
		t.Fatalf("アップロード数が一致しない: 期待値 %v, 取得値 %v", want, up.remotes)
	}
	for i := range want {
		if up.remotes[i] != want[i] {
			t.Errorf("複製先が一致しない: 期待値 %s, 取得値 %s", want[i], up.remotes[i])
		}
	}
}

func TestRemotePathはプレフィックスが空でも正しい(t *testing.T) {
	m := NewMirror(nil, "none", "")
	if got := m.RemotePath("job", "/d/x.mp4"); got != "job/x.mp4" {
		t.Errorf("RemotePath が一致しない: 取得値 %s", got)
	}
}

func TestContentTypeを拡張子から推測する(t *testing.T) {
	testCases := map[string]string{
		"a.mp3":  "audio/mpeg",
		"a.webm": "video/webm",
		"a.mkv":  "video/x-matroska",
	}
	for file, want := range testCases {
		if got := contentType(file); got != want {
			t.Errorf("contentType(%s): 期待値 %s, 取得値 %s", file, want, got)
		}
	}
}
