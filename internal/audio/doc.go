// Package audio writes ID3 tags to downloaded mp3 files.
//
// # ID3 Tagging
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	err := tagger.SaveTags(path, audio.Metadata{
//	    Title:     info.Title,
//	    Artist:    info.Uploader,
//	    SourceURL: url,
//	}, coverBytes)
//
// The tagger supports:
//   - Title, Artist, Album Artist, Album
//   - Length (from the video duration)
//   - Source URL comment
//   - Cover Art from the video thumbnail
package audio
