package folder

import (
	"os"
	"path/filepath"
	"testing"
)

func Test保存先の解決(t *testing.T) {
	def := t.TempDir()
	existing := t.TempDir()

	file := filepath.Join(t.TempDir(), "not-a-dir.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("テストファイルの作成に失敗: %v", err)
	}

	testCases := []struct {
		name string
		hint string
		want string
	}{
		{"空文字はデフォルト", "", def},
		{"空白のみはデフォルト", "   ", def},
		{"ブラウザ選択フォルダはデフォルト", "FSAPI:Music", def},
		{"既存の絶対パスはそのまま", existing, existing},
		{"相対パスはデフォルト", "relative/path", def},
		{"ファイルを指す絶対パスはデフォルト", file, def},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Resolve(tc.hint, def); got != tc.want {
				t.Errorf("解決結果が一致しない: 期待値 %s, 取得値 %s", tc.want, got)
			}
		})
	}
}

func Test既存の絶対パスは末尾の区切りも含めてそのまま返す(t *testing.T) {
	def := t.TempDir()
	existing := t.TempDir() + string(filepath.Separator)

	if got := Resolve(existing, def); got != existing {
		t.Errorf("ヒントがそのまま返されるべき: 期待値 %s, 取得値 %s", existing, got)
	}
}

func Test存在しない絶対パスは作成される(t *testing.T) {
	def := t.TempDir()
	target := filepath.Join(t.TempDir(), "new", "nested")

	got := Resolve(target, def)
	if got != target {
		t.Fatalf("作成したディレクトリが返されるべき: 期待値 %s, 取得値 %s", target, got)
	}

	info, err := os.Stat(target)
	if err != nil || !info.IsDir() {
		t.Errorf("ディレクトリが作成されていない: %v", err)
	}
}

func Test作成できないパスはデフォルトに落ちる(t *testing.T) {
	def := t.TempDir()

	// 通常ファイルの下にはディレクトリを作れない
	parent := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(parent, []byte("x"), 0644); err != nil {
		t.Fatalf("テストファイルの作成に失敗: %v", err)
	}

	if got := Resolve(filepath.Join(parent, "child"), def); got != def {
		t.Errorf("デフォルトに落ちるべき: 期待値 %s, 取得値 %s", def, got)
	}
}
