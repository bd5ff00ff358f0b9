package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("設定ファイルの作成に失敗: %v", err)
	}
	return path
}

func Test設定ファイルが無くてもデフォルト値で読み込める(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("デフォルト設定の読み込みに失敗: %v", err)
	}

	if cfg.Server.Port != "5000" {
		t.Errorf("ポートが一致しない: 期待値 5000, 取得値 %s", cfg.Server.Port)
	}
	if cfg.Download.ProgressInterval != 500*time.Millisecond {
		t.Errorf("進捗間隔が一致しない: 取得値 %v", cfg.Download.ProgressInterval)
	}
	if cfg.Download.SocketTimeout != 30*time.Second {
		t.Errorf("ソケットタイムアウトが一致しない: 取得値 %v", cfg.Download.SocketTimeout)
	}
	if cfg.Jobs.Retention != 0 {
		t.Errorf("デフォルトでは無期限保持のはず: 取得値 %v", cfg.Jobs.Retention)
	}
	if !filepath.IsAbs(cfg.Download.Dir) {
		t.Errorf("ダウンロード先が絶対パスになっていない: %s", cfg.Download.Dir)
	}
	if cfg.IsDevelopment() {
		t.Error("デフォルトは production のはず")
	}
}

func TestYAMLファイルの値が反映される(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
env: development
server:
  port: "8081"
  api_key: secret
download:
  dir: `+dir+`
  progress_interval: 250ms
jobs:
  retention: 24h
storage:
  type: s3
  s3:
    bucket: media
    prefix: fluxdl
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("設定の読み込みに失敗: %v", err)
	}

	if !cfg.IsDevelopment() {
		t.Error("env: development が反映されていない")
	}
	if cfg.Server.Port != "8081" || cfg.Server.APIKey != "secret" {
		t.Errorf("server セクションが反映されていない: %+v", cfg.Server)
	}
	if cfg.Download.Dir != dir {
		t.Errorf("ダウンロード先が一致しない: 期待値 %s, 取得値 %s", dir, cfg.Download.Dir)
	}
	if cfg.Download.ProgressInterval != 250*time.Millisecond {
		t.Errorf("進捗間隔が一致しない: 取得値 %v", cfg.Download.ProgressInterval)
	}
	if cfg.Jobs.Retention != 24*time.Hour {
		t.Errorf("保持期間が一致しない: 取得値 %v", cfg.Jobs.Retention)
	}
	if cfg.Storage.S3.Bucket != "media" || cfg.Storage.S3.Region != "us-east-1" {
		t.Errorf("s3 設定が一致しない: %+v", cfg.Storage.S3)
	}
}

func Test環境変数が設定ファイルより優先される(t *testing.T) {
	path := writeConfig(t, "server:\n  port: \"8081\"\n")
	t.Setenv("FLUXDL_SERVER_PORT", "9090")
	t.Setenv("FLUXDL_DOWNLOAD_RETRIES", "5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("設定の読み込みに失敗: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("環境変数が反映されていない: 取得値 %s", cfg.Server.Port)
	}
	if cfg.Download.Retries != 5 {
		t.Errorf("retries が反映されていない: 取得値 %d", cfg.Download.Retries)
	}
}

func Test相対パスのダウンロード先は絶対パスに解決される(t *testing.T) {
	path := writeConfig(t, "download:\n  dir: media/out\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("設定の読み込みに失敗: %v", err)
	}
	want, err := filepath.Abs("media/out")
	if err != nil {
		t.Fatalf("期待値の作成に失敗: %v", err)
	}
	if cfg.Download.Dir != want {
		t.Errorf("ダウンロード先が一致しない: 期待値 %s, 取得値 %s", want, cfg.Download.Dir)
	}
}

func Test不正な設定はエラーになる(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"未知のストレージ", "storage:\n  type: ftp\n"},
		{"バケット未指定のs3", "storage:\n  type: s3\n"},
		{"ディレクトリ未指定のlocal", "storage:\n  type: local\n"},
		{"負の保持期間", "jobs:\n  retention: -1h\n"},
		{"空のポート", "server:\n  port: \"\"\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.body)); err == nil {
				t.Errorf("%s でエラーが返されるべき", tc.name)
			}
		})
	}
}

func Test存在しない設定ファイルを指定するとエラーになる(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("存在しないファイルでエラーが返されるべき")
	}
}
