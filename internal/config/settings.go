package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/handiism/link2video/internal/format"
	"github.com/handiism/link2video/internal/model"
)

// Environment variable names honoured by ApplyEnv.
const (
	EnvAPIURL        = "LINK2VIDEO_API_URL"
	EnvDownloadsPath = "LINK2VIDEO_DOWNLOADS_PATH"
)

// Settings holds all configuration options.
type Settings struct {
	// Backend settings
	APIBaseURL     string  `json:"api_base_url"`
	RequestTimeout float64 `json:"request_timeout"` // seconds

	// Download settings
	DownloadsPath  string `json:"downloads_path"`
	FileNameFormat string `json:"file_name_format"`

	// Format menu
	FilterMode        string   `json:"filter_mode"` // allowlist, permissive
	AllowedExtensions []string `json:"allowed_extensions"`
	ExtensionOrder    []string `json:"extension_order"`
	DedupeFormats     bool     `json:"dedupe_formats"`

	// Tag settings (mp3 downloads only)
	ModifyTags             bool `json:"modify_tags"`
	SaveThumbnailInTags    bool `json:"save_thumbnail_in_tags"`
	ThumbnailInTagsResize  bool `json:"thumbnail_in_tags_resize"`
	ThumbnailInTagsMaxSize int  `json:"thumbnail_in_tags_max_size"`
	ConvertThumbnailToJPG  bool `json:"convert_thumbnail_to_jpg"`

	// Proxy settings
	ProxyType    string `json:"proxy_type"` // none, system, manual
	ProxyAddress string `json:"proxy_address"`
	ProxyPort    int    `json:"proxy_port"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		APIBaseURL:     "http://localhost:8000/api",
		RequestTimeout: 60,

		DownloadsPath:  filepath.Join(homeDir, "Downloads", "Link2Video", "{platform}"),
		FileNameFormat: "{title} [{quality}].{ext}",

		FilterMode:        format.ModeAllowList.String(),
		AllowedExtensions: []string{"mp4", "mp3", "m4a"},

		ModifyTags:             true,
		SaveThumbnailInTags:    true,
		ThumbnailInTagsResize:  true,
		ThumbnailInTagsMaxSize: 600,
		ConvertThumbnailToJPG:  true,

		ProxyType: "system",
	}
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv loads the given .env files (a missing file is not an error) and
// overrides settings from LINK2VIDEO_* variables. With no files it tries
// ".env" in the working directory.
func (s *Settings) ApplyEnv(envFiles ...string) error {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		s.APIBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDownloadsPath)); v != "" {
		s.DownloadsPath = v
	}
	return nil
}

// Timeout returns RequestTimeout as a duration, defaulting to 60 seconds.
func (s *Settings) Timeout() time.Duration {
	if s.RequestTimeout <= 0 {
		return 60 * time.Second
	}
	return time.Duration(s.RequestTimeout * float64(time.Second))
}

// ProxyURL returns the manual proxy address, or "" for system/none.
func (s *Settings) ProxyURL() string {
	if s.ProxyType != "manual" || s.ProxyAddress == "" {
		return ""
	}
	addr := s.ProxyAddress
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	if s.ProxyPort > 0 {
		addr = fmt.Sprintf("%s:%d", strings.TrimRight(addr, "/"), s.ProxyPort)
	}
	return addr
}

// ToPolicy converts settings to a format.Policy.
func (s *Settings) ToPolicy() format.Policy {
	mode := format.ParseMode(s.FilterMode)

	var p format.Policy
	if mode == format.ModePermissive {
		p = format.PermissivePolicy()
	} else {
		p = format.DefaultPolicy()
		if len(s.AllowedExtensions) > 0 {
			p.Allowed = append([]string(nil), s.AllowedExtensions...)
		}
	}
	if len(s.ExtensionOrder) > 0 {
		p.Order = append([]string(nil), s.ExtensionOrder...)
	}
	p.Dedupe = s.DedupeFormats
	return p
}

// ToPathConfig converts settings to PathConfig.
func (s *Settings) ToPathConfig() *model.PathConfig {
	return &model.PathConfig{
		DownloadsPath:  s.DownloadsPath,
		FileNameFormat: s.FileNameFormat,
	}
}
