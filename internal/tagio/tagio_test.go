package tagio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"

	"tagmatch/internal/model"
)

// untaggedMP3 is a minimal audio payload without an ID3v2 tag. It must be at
// least as long as an ID3v2 header (10 bytes) so opening parses it as a
// tagless file instead of rejecting a truncated header.
var untaggedMP3 = []byte{0xFF, 0xFB, 0x90, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}

func TestOpenUnsupportedExtension(t *testing.T) {
	_, err := Open("track.ogg")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
}

func TestMP3ApplyAndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.mp3")
	if err := os.WriteFile(path, untaggedMP3, 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	rec := &model.Record{
		Title:  "Some Title",
		Track:  3,
		Artist: "Some Artist",
		Year:   2001,
	}
	if err := f.Apply(rec); err != nil {
		t.Fatal(err)
	}
	if err := f.Save(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	title, err := Reader{}.ReadTitle(path)
	if err != nil {
		t.Fatal(err)
	}
	if title != "Some Title" {
		t.Errorf("ReadTitle = %q, want %q", title, "Some Title")
	}
}

func TestMP3ApplyKeepsUnsetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.mp3")
	if err := os.WriteFile(path, untaggedMP3, 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Apply(&model.Record{Title: "First", Artist: "Keep Me"}); err != nil {
		t.Fatal(err)
	}
	if err := f.Save(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	// second pass overrides the title only
	f, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Apply(&model.Record{Title: "Second"}); err != nil {
		t.Fatal(err)
	}
	if err := f.Save(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatal(err)
	}
	defer tag.Close()
	if got := tag.Title(); got != "Second" {
		t.Errorf("Title = %q, want %q", got, "Second")
	}
	if got := tag.Artist(); got != "Keep Me" {
		t.Errorf("Artist = %q, want untouched %q", got, "Keep Me")
	}
}
