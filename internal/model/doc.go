// Package model defines the core data structures used throughout
// the link2video client.
//
// # FormatDescriptor
//
// FormatDescriptor is one downloadable rendition as the backend sends it.
// Older backend revisions spell the extension as "ext", "extension" or
// "format", so the descriptor keeps all three and exposes a single
// normalised view:
//
//	d := model.FormatDescriptor{Format: "MP4", Quality: "1080p", Type: model.MediaVideo, Height: 1080}
//	d.NormalizedExtension() // "mp4"
//
// # VideoInfo
//
// VideoInfo is the metadata returned by POST /video/info, including the
// raw format list.
//
// # Path Configuration
//
// PathConfig controls where a download is saved using placeholders:
//
//	cfg := &model.PathConfig{
//	    DownloadsPath:  "/videos/{platform}",
//	    FileNameFormat: "{title} [{quality}].{ext}",
//	}
//
// Available placeholders: {platform}, {uploader}, {title}, {quality}, {ext}
package model
