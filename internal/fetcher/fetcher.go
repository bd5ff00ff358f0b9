// Package fetcher は外部ダウンローダー（yt-dlp）との境界を定義する
package fetcher

import (
	"context"

	"github.com/nzws/flux-downloader/internal/fetcher/preset"
)

// EventStatus はダウンローダーが通知する進捗イベントの種類
type EventStatus string

const (
	EventDownloading EventStatus = "downloading"
	EventFinished    EventStatus = "finished" // 1ファイルの転送完了（変換はこれから）
	EventError       EventStatus = "error"
)

// Event はダウンローダーからの進捗イベント
// 数値は 0 を「不明」として扱う
type Event struct {
	Status             EventStatus
	DownloadedBytes    int64
	TotalBytes         int64
	TotalBytesEstimate int64
	Speed              float64 // bytes/sec
	ETA                int64   // 残り秒数
	Filename           string
	Message            string
}

// Sink は進捗イベントの受け口
// 1ジョブについて同時に呼ばれることはない
type Sink func(Event)

// Request は1件のダウンロード要求
type Request struct {
	JobID     string
	URL       string
	Selection preset.Selection
	Playlist  bool
	Folder    string
}

// Result はダウンロード結果
type Result struct {
	Files []string // 出力ファイルのパス（分かる範囲で）
}

// Info は解析結果
type Info struct {
	Title         string  `json:"title"`
	Uploader      string  `json:"uploader"`
	Duration      float64 `json:"duration"`
	ViewCount     int64   `json:"view_count"`
	UploadDate    string  `json:"upload_date"`
	Thumbnail     string  `json:"thumbnail"`
	WebpageURL    string  `json:"webpage_url"`
	IsPlaylist    bool    `json:"is_playlist"`
	PlaylistCount int     `json:"playlist_count"`
}

// Downloader はメディアを取得するインターフェース
type Downloader interface {
	// Download は転送と変換を実行し、進捗を sink に通知する
	// ctx がキャンセルされたら可能な限り早く戻る
	Download(ctx context.Context, req Request, sink Sink) (*Result, error)
}

// Analyzer は URL のメタデータを取得するインターフェース
type Analyzer interface {
	Analyze(ctx context.Context, url string) (*Info, error)
}

// PlaylistLister はプレイリストの件数を数えるインターフェース
type PlaylistLister interface {
	CountItems(ctx context.Context, playlistID string) (int, error)
}
