package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/nzws/flux-downloader/internal/fetcher/preset"
	"github.com/nzws/flux-downloader/internal/shared/logger"
	"go.uber.org/zap"
)

const (
	defaultExecutable = "yt-dlp"
	outputTemplate    = "%(title)s.%(ext)s"

	defaultTitle    = "Title not available"
	defaultUploader = "Channel not available"
)

// Options は yt-dlp の実行設定
type Options struct {
	Executable       string        // yt-dlp のパス（空なら PATH から探す）
	FFmpegLocation   string        // ffmpeg のパス（空なら PATH から探す）
	ProgressInterval time.Duration // 進捗通知の間隔
	SocketTimeout    time.Duration
	Retries          int
}

// YtDlp は go-ytdlp を使った Downloader / Analyzer
type YtDlp struct {
	opts   Options
	lister PlaylistLister
}

// NewYtDlp は新しい YtDlp を作成する
// lister が nil の場合、URL 内の list= からのプレイリスト検出は行わない
func NewYtDlp(opts Options, lister PlaylistLister) *YtDlp {
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = 500 * time.Millisecond
	}
	return &YtDlp{opts: opts, lister: lister}
}

// Check は yt-dlp の実行ファイルが見つかるか確認する
func (y *YtDlp) Check() error {
	exe := y.opts.Executable
	if exe == "" {
		exe = defaultExecutable
	}
	if _, err := exec.LookPath(exe); err != nil {
		return fmt.Errorf("yt-dlp executable not found (%s): %w", exe, err)
	}
	return nil
}

func (y *YtDlp) command() *ytdlp.Command {
	cmd := ytdlp.New().NoWarnings()
	if y.opts.Executable != "" {
		cmd.SetExecutable(y.opts.Executable)
	}
	if y.opts.SocketTimeout > 0 {
		cmd.SocketTimeout(y.opts.SocketTimeout.Seconds())
	}
	if y.opts.Retries > 0 {
		cmd.Retries(strconv.Itoa(y.opts.Retries))
	}
	if y.opts.FFmpegLocation != "" {
		cmd.FFmpegLocation(y.opts.FFmpegLocation)
	}
	return cmd
}

// Download はメディアを req.Folder に保存する
func (y *YtDlp) Download(ctx context.Context, req Request, sink Sink) (*Result, error) {
	log := logger.ForJob(req.JobID)

	cmd := y.command().
		Format(req.Selection.FormatSelector).
		Output(filepath.Join(req.Folder, outputTemplate))

	if req.Selection.ExtractAudio {
		cmd.ExtractAudio().
			AudioFormat(req.Selection.AudioFormat).
			AudioQuality(req.Selection.AudioQuality)
	}

	if req.Playlist {
		cmd.YesPlaylist()
	} else {
		cmd.NoPlaylist()
	}

	cmd.ProgressFunc(y.opts.ProgressInterval, func(update ytdlp.ProgressUpdate) {
		if ev, ok := eventFromUpdate(update, time.Now()); ok {
			sink(ev)
		}
	})

	log.Info("Starting yt-dlp",
		zap.String("url", req.URL),
		zap.String("format", string(req.Selection.Format)),
		zap.String("quality", req.Selection.Quality),
		zap.String("folder", req.Folder),
		zap.Bool("playlist", req.Playlist),
	)

	result, err := cmd.Run(ctx, req.URL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, runError(result, err)
	}

	files := outputFiles(result, req.Selection)
	log.Info("yt-dlp finished", zap.Strings("files", files))

	return &Result{Files: files}, nil
}

// Analyze は URL のメタデータを取得する（ダウンロードはしない）
func (y *YtDlp) Analyze(ctx context.Context, url string) (*Info, error) {
	cmd := y.command().
		DumpSingleJSON().
		SkipDownload().
		FlatPlaylist().
		NoPlaylist()

	result, err := cmd.Run(ctx, url)
	if err != nil {
		return nil, runError(result, err)
	}

	info, err := decodeInfo([]byte(result.Stdout), url)
	if err != nil {
		return nil, err
	}

	// watch?v=...&list=... の形式は単一動画として返るので、list= を別途数える
	if !info.IsPlaylist && y.lister != nil {
		if id := PlaylistID(url); id != "" {
			count, err := y.lister.CountItems(ctx, id)
			if err != nil {
				logger.Warn("Failed to count playlist items",
					zap.String("playlist_id", id),
					zap.Error(err),
				)
			} else if count > 0 {
				info.IsPlaylist = true
				info.PlaylistCount = count
			}
		}
	}

	return info, nil
}

// eventFromUpdate は go-ytdlp の進捗を Event に変換する
func eventFromUpdate(update ytdlp.ProgressUpdate, now time.Time) (Event, bool) {
	switch update.Status {
	case ytdlp.ProgressStatusDownloading:
		ev := Event{
			Status:          EventDownloading,
			DownloadedBytes: int64(update.DownloadedBytes),
			TotalBytes:      int64(update.TotalBytes),
			Filename:        update.Filename,
		}
		if !update.Started.IsZero() {
			if elapsed := now.Sub(update.Started).Seconds(); elapsed > 0 {
				ev.Speed = float64(update.DownloadedBytes) / elapsed
			}
		}
		if eta := update.ETA(); eta > 0 {
			ev.ETA = int64(eta.Seconds())
		}
		return ev, true

	case ytdlp.ProgressStatusFinished, ytdlp.ProgressStatusPostProcessing:
		return Event{Status: EventFinished, Filename: update.Filename}, true

	case ytdlp.ProgressStatusError:
		return Event{Status: EventError, Filename: update.Filename, Message: "yt-dlp reported a download error"}, true

	default:
		return Event{}, false
	}
}

// runError は yt-dlp の失敗を stderr の最後の行付きのエラーにする
func runError(result *ytdlp.Result, err error) error {
	if result != nil {
		if line := lastLine(result.Stderr); line != "" {
			return fmt.Errorf("%s: %w", line, err)
		}
	}
	return fmt.Errorf("yt-dlp failed: %w", err)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

// outputFiles は yt-dlp の結果から出力ファイルを集める
func outputFiles(result *ytdlp.Result, sel preset.Selection) []string {
	if result == nil {
		return nil
	}
	infos, err := result.GetExtractedInfo()
	if err != nil {
		logger.Debug("No extracted info in yt-dlp result", zap.Error(err))
		return nil
	}

	var files []string
	for _, info := range infos {
		if info == nil || info.Filename == nil || *info.Filename == "" {
			continue
		}
		files = append(files, finalPath(*info.Filename, sel.Extension))
	}
	return files
}

// finalPath は変換後の拡張子のファイルがあればそちらを返す
func finalPath(path, ext string) string {
	if ext == "" || strings.EqualFold(filepath.Ext(path), "."+ext) {
		return path
	}
	converted := strings.TrimSuffix(path, filepath.Ext(path)) + "." + ext
	if _, err := os.Stat(converted); err == nil {
		return converted
	}
	return path
}

// rawInfo は yt-dlp の -J 出力のうち使うフィールド
type rawInfo struct {
	Type          string            `json:"_type"`
	Title         *string           `json:"title"`
	Uploader      *string           `json:"uploader"`
	Channel       *string           `json:"channel"`
	Duration      *float64          `json:"duration"`
	ViewCount     *int64            `json:"view_count"`
	UploadDate    *string           `json:"upload_date"`
	Thumbnail     *string           `json:"thumbnail"`
	WebpageURL    *string           `json:"webpage_url"`
	Entries       []json.RawMessage `json:"entries"`
	PlaylistCount *int              `json:"playlist_count"`
}

func decodeInfo(data []byte, url string) (*Info, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("yt-dlp returned no metadata")
	}

	var raw rawInfo
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode yt-dlp metadata: %w", err)
	}

	info := &Info{
		Title:      stringOr(raw.Title, defaultTitle),
		Uploader:   stringOr(raw.Uploader, stringOr(raw.Channel, defaultUploader)),
		UploadDate: stringOr(raw.UploadDate, ""),
		Thumbnail:  stringOr(raw.Thumbnail, ""),
		WebpageURL: stringOr(raw.WebpageURL, url),
		IsPlaylist: raw.Type == "playlist",
	}
	if raw.Duration != nil {
		info.Duration = *raw.Duration
	}
	if raw.ViewCount != nil {
		info.ViewCount = *raw.ViewCount
	}
	if info.IsPlaylist {
		info.PlaylistCount = len(raw.Entries)
		if info.PlaylistCount == 0 && raw.PlaylistCount != nil {
			info.PlaylistCount = *raw.PlaylistCount
		}
	}

	return info, nil
}

func stringOr(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}
