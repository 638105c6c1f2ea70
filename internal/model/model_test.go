package model

import (
	"encoding/json"
	"path/filepath"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file.mp4", "normal-file.mp4"},
		{"file:with:colons.mp4", "file_with_colons.mp4"},
		{"file/with\\slashes.mp4", "file_with_slashes.mp4"},
		{"file?with*wildcards.mp4", "file_with_wildcards.mp4"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces", "multiple spaces"},
		{"trailing spaces   ", "trailing spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := sanitizeFileName(tt.input)
			if got != tt.want {
				t.Errorf("sanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatDescriptor_NormalizedExtension(t *testing.T) {
	tests := []struct {
		name string
		d    FormatDescriptor
		want string
	}{
		{"extension wins", FormatDescriptor{Extension: "MP4", Format: "webm"}, "mp4"},
		{"ext fallback", FormatDescriptor{Ext: "M4A"}, "m4a"},
		{"format fallback", FormatDescriptor{Format: " Mp3 "}, "mp3"},
		{"blank extension skipped", FormatDescriptor{Extension: "  ", Format: "ogg"}, "ogg"},
		{"all absent", FormatDescriptor{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.NormalizedExtension(); got != tt.want {
				t.Errorf("NormalizedExtension() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatDescriptor_EffectiveBitrate(t *testing.T) {
	if got := (FormatDescriptor{Bitrate: 320, AudioBitrate: 128}).EffectiveBitrate(); got != 320 {
		t.Errorf("EffectiveBitrate() = %d, want 320", got)
	}
	if got := (FormatDescriptor{AudioBitrate: 128}).EffectiveBitrate(); got != 128 {
		t.Errorf("EffectiveBitrate() = %d, want 128", got)
	}
}

func TestVideoInfo_UnmarshalDuration(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"title":"a","duration":125}`, "2:05"},
		{`{"title":"a","duration":3725.4}`, "1:02:05"},
		{`{"title":"a","duration":"4:20"}`, "4:20"},
		{`{"title":"a","duration":null}`, "Unknown"},
		{`{"title":"a"}`, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var info VideoInfo
			if err := json.Unmarshal([]byte(tt.body), &info); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if got := info.Duration.String(); got != tt.want {
				t.Errorf("Duration.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVideoInfo_UnmarshalFormats(t *testing.T) {
	body := `{"title":"t","formats":[
		{"extension":"mp4","quality":"720p","height":720,"type":"video"},
		{"format":"mp3","quality":"128kbps","height":null,"type":"audio","audioBitrate":128}
	]}`

	var info VideoInfo
	if err := json.Unmarshal([]byte(body), &info); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(info.Formats) != 2 {
		t.Fatalf("len(Formats) = %d, want 2", len(info.Formats))
	}
	if !info.Formats[0].IsVideo() || info.Formats[0].Height != 720 {
		t.Errorf("Formats[0] = %+v", info.Formats[0])
	}
	if !info.Formats[1].IsAudio() || info.Formats[1].EffectiveBitrate() != 128 {
		t.Errorf("Formats[1] = %+v", info.Formats[1])
	}
}

func TestVideoInfo_FilePath(t *testing.T) {
	cfg := &PathConfig{
		DownloadsPath:  "/videos/{platform}",
		FileNameFormat: "{title} [{quality}].{ext}",
	}
	info := &VideoInfo{Title: "My: Video/Clip", Platform: "Youtube"}
	d := FormatDescriptor{Extension: "MP4", Quality: "1080p"}

	want := filepath.Join("/videos/Youtube", "My_ Video_Clip [1080p].mp4")
	if got := info.FilePath(d, cfg); got != want {
		t.Errorf("FilePath() = %q, want %q", got, want)
	}
}

func TestVideoInfo_FilePathDefaults(t *testing.T) {
	cfg := &PathConfig{
		DownloadsPath:  "/videos/{uploader}",
		FileNameFormat: "{title}.{ext}",
	}
	info := &VideoInfo{}

	want := filepath.Join("/videos/unknown", "video.bin")
	if got := info.FilePath(FormatDescriptor{}, cfg); got != want {
		t.Errorf("FilePath() = %q, want %q", got, want)
	}
}

func TestNewDownloadRequest(t *testing.T) {
	req := NewDownloadRequest("https://youtu.be/x", FormatDescriptor{Extension: "MP3", Quality: "128kbps"})
	if req.Format != "mp3" || req.Quality != "128kbps" || req.URL != "https://youtu.be/x" {
		t.Errorf("NewDownloadRequest() = %+v", req)
	}
}
