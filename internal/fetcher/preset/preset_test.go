package preset

import (
	"testing"
)

func Test音声形式の解決(t *testing.T) {
	testCases := []struct {
		name         string
		quality      string
		wantQuality  string
		wantAudioArg string
	}{
		{"best は VBR 最高品質", "best", "best", "0"},
		{"空文字は best 扱い", "", "best", "0"},
		{"192kbps", "192", "192", "192K"},
		{"k 付きでも受け付ける", "320k", "320", "320K"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sel, err := Resolve("audio", tc.quality)
			if err != nil {
				t.Fatalf("解決に失敗: %v", err)
			}
			if sel.FormatSelector != "bestaudio/best" {
				t.Errorf("フォーマット指定が一致しない: 取得値 %s", sel.FormatSelector)
			}
			if !sel.ExtractAudio || sel.AudioFormat != "mp3" || sel.Extension != "mp3" {
				t.Errorf("mp3 抽出設定になっていない: %+v", sel)
			}
			if sel.Quality != tc.wantQuality {
				t.Errorf("品質が一致しない: 期待値 %s, 取得値 %s", tc.wantQuality, sel.Quality)
			}
			if sel.AudioQuality != tc.wantAudioArg {
				t.Errorf("音声品質が一致しない: 期待値 %s, 取得値 %s", tc.wantAudioArg, sel.AudioQuality)
			}
		})
	}
}

func Test動画形式の解決(t *testing.T) {
	testCases := []struct {
		quality  string
		selector string
	}{
		{"best", "best"},
		{"720", "best[height<=720]/best"},
		{"1080p", "best[height<=1080]/best"},
	}

	for _, tc := range testCases {
		t.Run(tc.quality, func(t *testing.T) {
			sel, err := Resolve("video", tc.quality)
			if err != nil {
				t.Fatalf("解決に失敗: %v", err)
			}
			if sel.FormatSelector != tc.selector {
				t.Errorf("フォーマット指定が一致しない: 期待値 %s, 取得値 %s", tc.selector, sel.FormatSelector)
			}
			if sel.ExtractAudio {
				t.Error("動画では音声抽出しないはず")
			}
		})
	}
}

func Test形式省略時は音声になる(t *testing.T) {
	sel, err := Resolve("", "")
	if err != nil {
		t.Fatalf("解決に失敗: %v", err)
	}
	if sel.Format != Audio {
		t.Errorf("形式が一致しない: 期待値 %s, 取得値 %s", Audio, sel.Format)
	}
}

func Test不正な指定はエラーになる(t *testing.T) {
	testCases := []struct {
		format  string
		quality string
	}{
		{"flac", "best"},
		{"audio", "9999"},
		{"audio", "abc"},
		{"video", "0"},
		{"video", "-720"},
		{"video", "hd"},
	}

	for _, tc := range testCases {
		t.Run(tc.format+"_"+tc.quality, func(t *testing.T) {
			if _, err := Resolve(tc.format, tc.quality); err == nil {
				t.Errorf("'%s/%s' でエラーが返されるべき", tc.format, tc.quality)
			}
		})
	}
}

func Test品質候補はコピーが返る(t *testing.T) {
	list := Qualities(Audio)
	if len(list) == 0 || list[0] != BestQuality {
		t.Fatalf("先頭は best のはず: %v", list)
	}
	list[0] = "changed"
	if Qualities(Audio)[0] != BestQuality {
		t.Error("内部のリストが書き換えられた")
	}

	if got := len(Formats()); got != 2 {
		t.Errorf("形式数が一致しない: 期待値 2, 取得値 %d", got)
	}
}
