package model

import (
	"strings"
)

// MediaType is the kind of stream a format carries.
type MediaType string

const (
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
)

// ExtensionMHTML is the storyboard artifact some extractors list as a
// format. It is never downloadable.
const ExtensionMHTML = "mhtml"

// FormatDescriptor describes one downloadable rendition as received from
// the backend. There is no identity field; list position is the only key.
type FormatDescriptor struct {
	// Extension, Ext and Format all name the container. Different backend
	// revisions fill different fields; any of them may be empty.
	Extension string `json:"extension,omitempty"`
	Ext       string `json:"ext,omitempty"`
	Format    string `json:"format,omitempty"`

	// Quality is a free-form label such as "720p" or "128kbps".
	Quality string `json:"quality"`

	// Type should be "video" or "audio" but the sender does not enforce it.
	Type MediaType `json:"type"`

	// Height is the video resolution proxy. Zero when absent.
	Height int `json:"height,omitempty"`

	// Bitrate and AudioBitrate are the audio rate proxy in kbps.
	Bitrate      int `json:"bitrate,omitempty"`
	AudioBitrate int `json:"audioBitrate,omitempty"`

	FPS       float64 `json:"fps,omitempty"`
	VCodec    string  `json:"vcodec,omitempty"`
	ACodec    string  `json:"acodec,omitempty"`
	Size      string  `json:"size,omitempty"`
	SizeBytes int64   `json:"size_bytes,omitempty"`
	FormatID  string  `json:"format_id,omitempty"`
}

// RawExtension returns the first non-empty extension field, unmodified.
func (d FormatDescriptor) RawExtension() string {
	switch {
	case strings.TrimSpace(d.Extension) != "":
		return d.Extension
	case strings.TrimSpace(d.Ext) != "":
		return d.Ext
	case strings.TrimSpace(d.Format) != "":
		return d.Format
	}
	return ""
}

// NormalizedExtension returns the extension lower-cased and trimmed, or ""
// when the descriptor carries none.
func (d FormatDescriptor) NormalizedExtension() string {
	return strings.ToLower(strings.TrimSpace(d.RawExtension()))
}

// EffectiveBitrate returns Bitrate, falling back to AudioBitrate.
func (d FormatDescriptor) EffectiveBitrate() int {
	if d.Bitrate > 0 {
		return d.Bitrate
	}
	return d.AudioBitrate
}

// IsVideo reports whether the descriptor is tagged as a video stream.
func (d FormatDescriptor) IsVideo() bool {
	return d.Type == MediaVideo
}

// IsAudio reports whether the descriptor is tagged as an audio stream.
func (d FormatDescriptor) IsAudio() bool {
	return d.Type == MediaAudio
}
