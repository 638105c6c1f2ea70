package audio

import (
	"strconv"
	"strings"

	"github.com/bogem/id3v2"

	"github.com/handiism/link2video/internal/model"
)

// TagEditAction defines how to handle individual ID3 tags.
type TagEditAction int

const (
	// TagEmpty clears the tag value.
	TagEmpty TagEditAction = iota

	// TagModify updates the tag with the value from the backend metadata.
	TagModify

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify
)

// TagConfig holds tagging configuration for each ID3 field.
type TagConfig struct {
	// ModifyTags is a master switch. If false, no text frames are modified.
	ModifyTags bool

	Title       TagEditAction // TIT2
	Artist      TagEditAction // TPE1
	AlbumArtist TagEditAction // TPE2
	Album       TagEditAction // TALB
	Length      TagEditAction // TLEN
	Comments    TagEditAction // COMM
}

// DefaultTagConfig returns the default tag configuration: every field is
// written from the backend metadata.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags:  true,
		Title:       TagModify,
		Artist:      TagModify,
		AlbumArtist: TagModify,
		Album:       TagModify,
		Length:      TagModify,
		Comments:    TagModify,
	}
}

// Metadata is what gets written into the tags.
type Metadata struct {
	Title     string
	Artist    string
	Album     string
	Seconds   int
	SourceURL string
}

// MetadataFromVideo maps backend video info to tag metadata. A single
// video is tagged as its own album, the way singles are.
func MetadataFromVideo(info *model.VideoInfo, sourceURL string) Metadata {
	return Metadata{
		Title:     info.Title,
		Artist:    info.Uploader,
		Album:     info.Title,
		Seconds:   info.Duration.Seconds,
		SourceURL: sourceURL,
	}
}

// Tagger writes ID3 tags to mp3 files.
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// IsTaggable reports whether path names a file the tagger can handle.
func IsTaggable(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".mp3")
}

// SaveTags writes ID3 tags to the mp3 file at path.
//
// artwork is embedded as the front cover when non-nil; it should be JPEG.
func (t *Tagger) SaveTags(path string, meta Metadata, artwork []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	if t.config.ModifyTags {
		t.updateTextTags(tag, meta)
	}

	if artwork != nil {
		t.updateArtwork(tag, artwork)
	}

	return tag.Save()
}

func (t *Tagger) updateTextTags(tag *id3v2.Tag, meta Metadata) {
	switch t.config.Title {
	case TagEmpty:
		tag.SetTitle("")
	case TagModify:
		tag.SetTitle(meta.Title)
	}

	switch t.config.Artist {
	case TagEmpty:
		tag.SetArtist("")
	case TagModify:
		tag.SetArtist(meta.Artist)
	}

	switch t.config.AlbumArtist {
	case TagEmpty:
		tag.DeleteFrames("TPE2")
	case TagModify:
		if meta.Artist != "" {
			tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, meta.Artist)
		}
	}

	switch t.config.Album {
	case TagEmpty:
		tag.SetAlbum("")
	case TagModify:
		tag.SetAlbum(meta.Album)
	}

	switch t.config.Length {
	case TagEmpty:
		tag.DeleteFrames("TLEN")
	case TagModify:
		if meta.Seconds > 0 {
			tag.AddTextFrame("TLEN", id3v2.EncodingUTF8, strconv.Itoa(meta.Seconds*1000))
		}
	}

	switch t.config.Comments {
	case TagEmpty:
		tag.DeleteFrames(tag.CommonID("Comments"))
	case TagModify:
		tag.DeleteFrames(tag.CommonID("Comments"))
		if meta.SourceURL != "" {
			tag.AddCommentFrame(id3v2.CommentFrame{
				Encoding:    id3v2.EncodingUTF8,
				Language:    "eng",
				Description: "Source",
				Text:        meta.SourceURL,
			})
		}
	}
}

// updateArtwork embeds cover art as an attached picture frame.
func (t *Tagger) updateArtwork(tag *id3v2.Tag, artwork []byte) {
	tag.DeleteFrames(tag.CommonID("Attached picture"))

	tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/jpeg",
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     artwork,
	})
}
