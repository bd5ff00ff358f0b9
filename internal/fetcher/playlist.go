package fetcher

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	ytplaylist "github.com/ytget/ytdlp/v2"
)

// DefaultPlaylistTimeout はプレイリスト取得のタイムアウト
const DefaultPlaylistTimeout = 30 * time.Second

// YouTubePlaylistLister は ytget/ytdlp でプレイリストの項目を数える
type YouTubePlaylistLister struct {
	timeout time.Duration
}

// NewYouTubePlaylistLister は新しい YouTubePlaylistLister を作成する
func NewYouTubePlaylistLister(timeout time.Duration) *YouTubePlaylistLister {
	if timeout <= 0 {
		timeout = DefaultPlaylistTimeout
	}
	return &YouTubePlaylistLister{timeout: timeout}
}

// CountItems はプレイリストの項目数を返す
func (l *YouTubePlaylistLister) CountItems(ctx context.Context, playlistID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	items, err := ytplaylist.New().GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to get playlist items: %w", err)
	}
	return len(items), nil
}

// PlaylistID は URL の list= パラメータを返す（無ければ空）
func PlaylistID(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("list")
}
