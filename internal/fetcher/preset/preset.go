package preset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Format はダウンロード形式
type Format string

const (
	Audio Format = "audio"
	Video Format = "video"
)

// BestQuality は品質指定なしを表す
const BestQuality = "best"

const (
	minAudioBitrate = 32
	maxAudioBitrate = 320
	maxVideoHeight  = 4320
)

// Selection は yt-dlp に渡すフォーマット設定
type Selection struct {
	Format         Format // audio / video
	Quality        string // 正規化後の品質指定
	FormatSelector string // -f に渡す値
	ExtractAudio   bool   // 音声抽出（ffmpeg による変換）を行うか
	AudioFormat    string // 抽出後の音声コーデック
	AudioQuality   string // --audio-quality に渡す値
	Extension      string // 変換後の拡張子（不明なら空）
}

// commonQualities は UI に提示する品質の候補
var commonQualities = map[Format][]string{
	Audio: {BestQuality, "320", "256", "192", "128"},
	Video: {BestQuality, "2160", "1440", "1080", "720", "480", "360"},
}

// Resolve は形式と品質から Selection を作る
// format が空なら audio、quality が空なら best として扱う
func Resolve(format, quality string) (Selection, error) {
	f := Format(strings.ToLower(strings.TrimSpace(format)))
	if f == "" {
		f = Audio
	}
	q := strings.ToLower(strings.TrimSpace(quality))
	if q == "" {
		q = BestQuality
	}

	switch f {
	case Audio:
		return resolveAudio(q)
	case Video:
		return resolveVideo(q)
	default:
		return Selection{}, fmt.Errorf("unsupported format: %s", format)
	}
}

func resolveAudio(quality string) (Selection, error) {
	sel := Selection{
		Format:         Audio,
		Quality:        quality,
		FormatSelector: "bestaudio/best",
		ExtractAudio:   true,
		AudioFormat:    "mp3",
		Extension:      "mp3",
	}

	if quality == BestQuality {
		sel.AudioQuality = "0" // VBR 最高品質
		return sel, nil
	}

	kbps, err := parseNumber(strings.TrimSuffix(quality, "k"))
	if err != nil || kbps < minAudioBitrate || kbps > maxAudioBitrate {
		return Selection{}, fmt.Errorf("unsupported audio quality: %s", quality)
	}
	sel.Quality = strconv.Itoa(kbps)
	sel.AudioQuality = strconv.Itoa(kbps) + "K"
	return sel, nil
}

func resolveVideo(quality string) (Selection, error) {
	sel := Selection{
		Format:  Video,
		Quality: quality,
	}

	if quality == BestQuality {
		sel.FormatSelector = "best"
		return sel, nil
	}

	height, err := parseNumber(strings.TrimSuffix(quality, "p"))
	if err != nil || height <= 0 || height > maxVideoHeight {
		return Selection{}, fmt.Errorf("unsupported video quality: %s", quality)
	}
	sel.Quality = strconv.Itoa(height)
	sel.FormatSelector = fmt.Sprintf("best[height<=%d]/best", height)
	return sel, nil
}

func parseNumber(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty number")
	}
	return strconv.Atoi(s)
}

// Qualities は形式ごとの品質候補を返す
func Qualities(format Format) []string {
	list := commonQualities[format]
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// Formats は利用可能な形式を返す
func Formats() []Format {
	formats := make([]Format, 0, len(commonQualities))
	for f := range commonQualities {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}
