package model

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// VideoInfo is the metadata the backend returns for a media URL.
//
// Example response body:
//
//	{
//	  "title": "Some video",
//	  "thumbnail": "https://i.ytimg.com/vi/x/hq.jpg",
//	  "duration": 123,
//	  "uploader": "Channel",
//	  "platform": "Youtube",
//	  "formats": [{"extension": "mp4", "quality": "720p", "height": 720, "type": "video"}]
//	}
type VideoInfo struct {
	Title     string             `json:"title"`
	Thumbnail string             `json:"thumbnail,omitempty"`
	Duration  Duration           `json:"duration"`
	Uploader  string             `json:"uploader,omitempty"`
	Platform  string             `json:"platform,omitempty"`
	Formats   []FormatDescriptor `json:"formats"`
}

// HasThumbnail reports whether the backend sent a thumbnail URL.
func (v *VideoInfo) HasThumbnail() bool {
	return v.Thumbnail != ""
}

// Duration accepts both a number of seconds and a preformatted string.
type Duration struct {
	Seconds int
	Text    string
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == "" {
		*d = Duration{}
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*d = Duration{Text: text}
		if n, err := strconv.Atoi(text); err == nil {
			d.Seconds = n
		}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	*d = Duration{Seconds: int(f)}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	if d.Text != "" && d.Seconds == 0 {
		return json.Marshal(d.Text)
	}
	return json.Marshal(d.Seconds)
}

// String renders seconds as H:MM:SS or M:SS, or the backend's text as-is.
func (d Duration) String() string {
	if d.Seconds <= 0 {
		if d.Text != "" {
			return d.Text
		}
		return "Unknown"
	}
	h := d.Seconds / 3600
	m := (d.Seconds / 60) % 60
	s := d.Seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// DownloadRequest is the body of POST /video/download.
type DownloadRequest struct {
	URL     string `json:"url"`
	Format  string `json:"format"`
	Quality string `json:"quality"`
}

// NewDownloadRequest builds a request for the chosen descriptor.
func NewDownloadRequest(url string, d FormatDescriptor) DownloadRequest {
	return DownloadRequest{
		URL:     url,
		Format:  d.NormalizedExtension(),
		Quality: d.Quality,
	}
}

// DownloadResult is the redirect variant of the download response.
type DownloadResult struct {
	DownloadURL string `json:"download_url"`
	Filename    string `json:"filename"`
	Message     string `json:"message,omitempty"`
}

// PathConfig holds download path formatting settings.
type PathConfig struct {
	// DownloadsPath is the target directory template.
	DownloadsPath string

	// FileNameFormat is the file name template. It should end in {ext}.
	FileNameFormat string
}

// FilePath computes where a download of d for this video is saved.
//
// Invalid filename characters are replaced with underscores in every
// substituted value, so a title containing "/" cannot escape the folder.
func (v *VideoInfo) FilePath(d FormatDescriptor, cfg *PathConfig) string {
	replace := func(s string) string {
		s = strings.ReplaceAll(s, "{platform}", orDefault(sanitizeFileName(v.Platform), "unknown"))
		s = strings.ReplaceAll(s, "{uploader}", orDefault(sanitizeFileName(v.Uploader), "unknown"))
		return s
	}

	dir := replace(cfg.DownloadsPath)

	name := replace(cfg.FileNameFormat)
	name = strings.ReplaceAll(name, "{title}", orDefault(sanitizeFileName(v.Title), "video"))
	name = strings.ReplaceAll(name, "{quality}", sanitizeFileName(d.Quality))
	name = strings.ReplaceAll(name, "{ext}", orDefault(d.NormalizedExtension(), "bin"))
	name = sanitizeFileName(name)

	return filepath.Join(dir, name)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

var (
	invalidFileChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots     = regexp.MustCompile(`\.+$`)
	multiSpace       = regexp.MustCompile(`\s+`)
)

// sanitizeFileName removes or replaces characters that are invalid in file names.
func sanitizeFileName(name string) string {
	name = invalidFileChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = multiSpace.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}
