package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFileAt(t *testing.T, path string, mod time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
		t.Fatalf("テストファイルの作成に失敗: %v", err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("更新日時の設定に失敗: %v", err)
	}
}

func Test一覧は更新日時の新しい順になる(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	writeFileAt(t, filepath.Join(dir, "old.mp4"), base)
	writeFileAt(t, filepath.Join(dir, "new.mp3"), base.Add(time.Hour))
	writeFileAt(t, filepath.Join(dir, "mid.webm"), base.Add(30*time.Minute))

	files, err := List(dir)
	if err != nil {
		t.Fatalf("一覧の取得に失敗: %v", err)
	}

	want := []struct {
		name string
		typ  string
	}{
		{"new.mp3", TypeAudio},
		{"mid.webm", TypeVideo},
		{"old.mp4", TypeVideo},
	}
	if len(files) != len(want) {
		t.Fatalf("件数が一致しない: 期待値 %d, 取得値 %d", len(want), len(files))
	}
	for i, w := range want {
		if files[i].Name != w.name || files[i].Type != w.typ {
			t.Errorf("%d 番目が一致しない: 期待値 %s/%s, 取得値 %s/%s", i, w.name, w.typ, files[i].Name, files[i].Type)
		}
		if files[i].Size != 4 {
			t.Errorf("サイズが一致しない: 取得値 %d", files[i].Size)
		}
	}
}

func Testディレクトリと書き込み途中のファイルは含めない(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	writeFileAt(t, filepath.Join(dir, "done.mp3"), now)
	writeFileAt(t, filepath.Join(dir, "song.mp3.part"), now)
	writeFileAt(t, filepath.Join(dir, ".hidden"), now)
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatalf("ディレクトリの作成に失敗: %v", err)
	}

	files, err := List(dir)
	if err != nil {
		t.Fatalf("一覧の取得に失敗: %v", err)
	}
	if len(files) != 1 || files[0].Name != "done.mp3" {
		t.Errorf("done.mp3 だけが含まれるべき: %+v", files)
	}
}

func Test存在しないディレクトリは空の一覧になる(t *testing.T) {
	files, err := List(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("エラーが返された: %v", err)
	}
	if files == nil || len(files) != 0 {
		t.Errorf("空の一覧が返るべき: %#v", files)
	}
}

func TestOSごとにフォルダを開くコマンドが選ばれる(t *testing.T) {
	testCases := []struct {
		goos string
		want string
	}{
		{"darwin", "open"},
		{"windows", "explorer"},
		{"linux", "xdg-open"},
		{"freebsd", "xdg-open"},
	}

	for _, tc := range testCases {
		t.Run(tc.goos, func(t *testing.T) {
			var gotName string
			var gotArgs []string
			opener := NewOpenerFor(tc.goos, func(ctx context.Context, name string, args ...string) error {
				gotName = name
				gotArgs = args
				return nil
			})

			if err := opener.Open(context.Background(), "/data/downloads"); err != nil {
				t.Fatalf("エラーが返された: %v", err)
			}
			if gotName != tc.want {
				t.Errorf("コマンドが一致しない: 期待値 %s, 取得値 %s", tc.want, gotName)
			}
			if len(gotArgs) != 1 || gotArgs[0] != "/data/downloads" {
				t.Errorf("引数が一致しない: %v", gotArgs)
			}
		})
	}
}

func Testコマンドの失敗はエラーとして返る(t *testing.T) {
	boom := errors.New("no display")
	opener := NewOpenerFor("linux", func(ctx context.Context, name string, args ...string) error {
		return boom
	})

	err := opener.Open(context.Background(), "/tmp")
	if !errors.Is(err, boom) {
		t.Errorf("元のエラーをラップするべき: %v", err)
	}
}
