package job

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/nzws/flux-downloader/internal/fetcher"
)

// Status はジョブの状態
type Status string

const (
	StatusStarting    Status = "starting"
	StatusDownloading Status = "downloading"
	StatusProcessing  Status = "processing"
	StatusCompleted   Status = "completed"
	StatusError       Status = "error"
)

// IsTerminal は終了状態かどうかを返す
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusError
}

const (
	// ProcessingPercentage は転送完了・変換中に表示する固定値
	ProcessingPercentage = 95.0

	CancelMessage       = "Download cancelled by user"
	ShutdownMessage     = "Download interrupted by server shutdown"
	GenericErrorMessage = "Download failed"
	UnknownErrorMessage = "Unknown error"
)

var statusTexts = map[Status]string{
	StatusStarting:    "Starting download...",
	StatusDownloading: "Downloading...",
	StatusProcessing:  "Processing file...",
	StatusCompleted:   "Download completed",
}

// Progress はジョブの進捗状態
// completed と status=completed、error と status=error は常に対応する
type Progress struct {
	Status     Status  `json:"status"`
	Percentage float64 `json:"percentage"`
	Speed      *string `json:"speed"`
	ETA        *string `json:"eta"`
	Filename   *string `json:"filename"`
	Error      *string `json:"error"`
	StatusText string  `json:"status_text"`
	Completed  bool    `json:"completed"`
}

func newProgress() Progress {
	return Progress{
		Status:     StatusStarting,
		StatusText: statusTexts[StatusStarting],
	}
}

func (p *Progress) setStatus(s Status) {
	p.Status = s
	if text, ok := statusTexts[s]; ok {
		p.StatusText = text
	}
}

// Apply はダウンローダーのイベントを反映する
// 終了状態の後に届いたイベントは無視する
func (p *Progress) Apply(ev fetcher.Event) {
	if p.Status.IsTerminal() {
		return
	}

	switch ev.Status {
	case fetcher.EventDownloading:
		// 変換中から戻ってきたら次のファイル（プレイリスト）なので進捗をやり直す
		if p.Status == StatusProcessing {
			p.Percentage = 0
		}
		p.setStatus(StatusDownloading)

		if pct, ok := percentage(ev); ok && pct > p.Percentage {
			p.Percentage = pct
		}
		if ev.Speed > 0 {
			p.Speed = strPtr(FormatSpeed(ev.Speed))
		}
		if ev.ETA > 0 {
			p.ETA = strPtr(FormatETA(ev.ETA))
		}

	case fetcher.EventFinished:
		p.setStatus(StatusProcessing)
		p.Percentage = ProcessingPercentage
		if ev.Filename != "" {
			p.Filename = strPtr(filepath.Base(ev.Filename))
		}

	case fetcher.EventError:
		msg := ev.Message
		if msg == "" {
			msg = UnknownErrorMessage
		}
		p.Fail(msg)
	}
}

// Complete はジョブを完了状態にする
func (p *Progress) Complete(filename string) {
	if p.Status.IsTerminal() {
		return
	}
	p.setStatus(StatusCompleted)
	p.Percentage = 100
	p.Completed = true
	if filename != "" {
		p.Filename = strPtr(filepath.Base(filename))
	}
}

// Fail はジョブをエラー状態にする
func (p *Progress) Fail(msg string) {
	if p.Status.IsTerminal() {
		return
	}
	if msg == "" {
		msg = GenericErrorMessage
	}
	p.Status = StatusError
	p.Error = strPtr(msg)
	p.StatusText = "Error: " + msg
}

func percentage(ev fetcher.Event) (float64, bool) {
	total := ev.TotalBytes
	if total <= 0 {
		total = ev.TotalBytesEstimate
	}
	if total <= 0 || ev.DownloadedBytes < 0 {
		return 0, false
	}
	pct := float64(ev.DownloadedBytes) / float64(total) * 100
	return math.Min(pct, 100), true
}

// FormatSpeed は bytes/sec を "512.0 KB/s" / "2.5 MB/s" 形式にする
func FormatSpeed(bytesPerSec float64) string {
	kbps := bytesPerSec / 1024
	if kbps < 1024 {
		return fmt.Sprintf("%.1f KB/s", kbps)
	}
	return fmt.Sprintf("%.1f MB/s", kbps/1024)
}

// FormatETA は残り秒数を MM:SS 形式にする
func FormatETA(seconds int64) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func strPtr(s string) *string {
	return &s
}
