package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"

	"github.com/handiism/link2video/internal/model"
)

func writeFakeMP3(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp3")
	// id3v2 only looks for a tag header, so any untagged bytes will do.
	data := append([]byte{0xFF, 0xFB, 0x90, 0x00}, make([]byte, 124)...)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTagger_SaveTags(t *testing.T) {
	path := writeFakeMP3(t)
	info := &model.VideoInfo{
		Title:    "Test Clip",
		Uploader: "Some Channel",
		Duration: model.Duration{Seconds: 125},
	}

	tagger := NewTagger(nil)
	if err := tagger.SaveTags(path, MetadataFromVideo(info, "https://youtu.be/x"), []byte{0xFF, 0xD8, 0xFF}); err != nil {
		t.Fatalf("SaveTags() error = %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatal(err)
	}
	defer tag.Close()

	if tag.Title() != "Test Clip" {
		t.Errorf("Title() = %q", tag.Title())
	}
	if tag.Artist() != "Some Channel" {
		t.Errorf("Artist() = %q", tag.Artist())
	}
	if tag.Album() != "Test Clip" {
		t.Errorf("Album() = %q", tag.Album())
	}
	if got := tag.GetTextFrame("TLEN").Text; got != "125000" {
		t.Errorf("TLEN = %q, want 125000", got)
	}
	if pics := tag.GetFrames(tag.CommonID("Attached picture")); len(pics) != 1 {
		t.Errorf("attached pictures = %d, want 1", len(pics))
	}
	comments := tag.GetFrames(tag.CommonID("Comments"))
	if len(comments) != 1 {
		t.Fatalf("comments = %d, want 1", len(comments))
	}
	if cf, ok := comments[0].(id3v2.CommentFrame); !ok || cf.Text != "https://youtu.be/x" {
		t.Errorf("comment = %+v", comments[0])
	}
}

func TestTagger_ModifyTagsDisabled(t *testing.T) {
	path := writeFakeMP3(t)

	tagger := NewTagger(&TagConfig{ModifyTags: false, Title: TagModify})
	if err := tagger.SaveTags(path, Metadata{Title: "ignored"}, nil); err != nil {
		t.Fatalf("SaveTags() error = %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatal(err)
	}
	defer tag.Close()
	if tag.Title() != "" {
		t.Errorf("Title() = %q, want empty", tag.Title())
	}
}

func TestTagger_MissingFile(t *testing.T) {
	err := NewTagger(nil).SaveTags(filepath.Join(t.TempDir(), "missing.mp3"), Metadata{}, nil)
	if err == nil {
		t.Error("SaveTags() error = nil for missing file")
	}
}

func TestIsTaggable(t *testing.T) {
	tests := map[string]bool{
		"a.mp3": true,
		"A.MP3": true,
		"a.m4a": false,
		"a.mp4": false,
		"noext": false,
	}
	for path, want := range tests {
		if got := IsTaggable(path); got != want {
			t.Errorf("IsTaggable(%q) = %v, want %v", path, got, want)
		}
	}
}
