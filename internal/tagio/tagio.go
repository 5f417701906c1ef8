package tagio

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"tagmatch/internal/model"
)

// ErrUnsupported reports a file whose extension maps to no tag backend.
var ErrUnsupported = errors.New("unsupported audio format")

// File is the editable tag surface of an open audio file.
//
// Apply overlays the record's set fields onto the embedded tags; fields the
// record leaves unset keep their current value. Nothing is written until
// Save.
type File interface {
	// Title returns the embedded title, or "" when none is set.
	Title() string

	// Apply stages the record's set fields as tag updates.
	Apply(rec *model.Record) error

	// Save writes the staged tags back to the file.
	Save() error

	// Close releases the underlying file handle without saving.
	Close() error
}

// Open opens the audio file with the backend matching its extension.
// MP3 files get an ID3v2 tag surface, FLAC files a Vorbis-comment one.
func Open(path string) (File, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return openMP3(path)
	case ".flac":
		return openFLAC(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(path))
	}
}

// Reader reads embedded titles through the extension-dispatched backends.
// It satisfies the match engine's TitleReader.
type Reader struct{}

// ReadTitle returns the embedded title tag of the file at path.
func (Reader) ReadTitle(path string) (string, error) {
	f, err := Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return f.Title(), nil
}
