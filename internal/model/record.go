package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Metadata field names as they appear in configuration files and rename
// templates. They double as the tag names handed to the tag backend.
const (
	FieldTitle       = "title"
	FieldTrack       = "track"
	FieldDuration    = "duration"
	FieldArtist      = "artist"
	FieldAlbum       = "album"
	FieldAlbumArtist = "album_artist"
	FieldGenre       = "genre"
	FieldYear        = "year"
	FieldCover       = "cover"
	FieldFile        = "file"
)

// FieldNames lists every settable metadata field, in output order.
var FieldNames = []string{
	FieldTrack,
	FieldTitle,
	FieldArtist,
	FieldAlbum,
	FieldAlbumArtist,
	FieldGenre,
	FieldYear,
	FieldDuration,
}

// ErrFileAlreadyAssigned reports an attempt to match an already-assigned
// record to a second file. This is an invariant violation: the match engine
// must never reconsider a claimed record.
var ErrFileAlreadyAssigned = errors.New("record already assigned to a file")

// Cover references an album cover image, either on disk or held in memory
// after retrieval from a URL.
type Cover struct {
	// Path is the local file path, when the cover came from disk.
	Path string

	// Data holds the raw image bytes once loaded or fetched.
	Data []byte

	// MIME is the image MIME type ("image/jpeg", "image/png").
	MIME string
}

// Record holds one track's metadata fields, corresponding to one row of a
// metadata configuration file.
//
// Title is the only required field. Track and Year use 0 for "unset"
// (both are 1-based in practice). String fields use "" for "unset".
// File is a back-reference to the physical audio file, set at most once by
// the match engine.
type Record struct {
	Title       string
	Track       int
	Duration    Duration
	Artist      string
	Album       string
	AlbumArtist string
	Genre       string
	Year        int
	Cover       *Cover

	// File is the assigned audio file path. Empty until matched.
	File string
}

// NewRecord creates a record with the given title.
func NewRecord(title string) *Record {
	return &Record{Title: title}
}

// AssignFile sets the file back-reference. Assigning twice is an error.
func (r *Record) AssignFile(path string) error {
	if r.File != "" {
		return fmt.Errorf("%w: [%s] already matched with [%s]", ErrFileAlreadyAssigned, r.Title, r.File)
	}
	r.File = path
	return nil
}

// Assigned reports whether the record has been matched to a file.
func (r *Record) Assigned() bool {
	return r.File != ""
}

// SetField coerces a raw textual value into the named field.
// Blank values leave the field unset. Track numbers below 1 unset the track,
// mirroring "no track number" semantics of blank input.
func (r *Record) SetField(name, value string) error {
	value = strings.TrimSpace(value)
	switch strings.ToLower(name) {
	case FieldTitle:
		r.Title = value
	case FieldArtist:
		r.Artist = value
	case FieldAlbum:
		r.Album = value
	case FieldAlbumArtist:
		r.AlbumArtist = value
	case FieldGenre:
		r.Genre = value
	case FieldTrack:
		if value == "" {
			r.Track = 0
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid track number %q: %w", value, err)
		}
		if n < 1 {
			n = 0
		}
		r.Track = n
	case FieldYear:
		if value == "" {
			r.Year = 0
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid year %q: %w", value, err)
		}
		r.Year = n
	case FieldDuration:
		if value == "" {
			r.Duration = 0
			return nil
		}
		d, err := ParseDuration(value)
		if err != nil {
			return err
		}
		r.Duration = d
	case FieldCover:
		if value != "" {
			r.Cover = &Cover{Path: value}
		}
	case FieldFile:
		r.File = value
	default:
		return fmt.Errorf("unknown field %q", name)
	}
	return nil
}

// Field returns the named field rendered as a string, and whether it is set.
// Field names are case-insensitive. Used by rename templates and the output
// writer.
func (r *Record) Field(name string) (string, bool) {
	switch strings.ToLower(name) {
	case FieldTitle:
		return r.Title, r.Title != ""
	case FieldArtist:
		return r.Artist, r.Artist != ""
	case FieldAlbum:
		return r.Album, r.Album != ""
	case FieldAlbumArtist:
		return r.AlbumArtist, r.AlbumArtist != ""
	case FieldGenre:
		return r.Genre, r.Genre != ""
	case FieldTrack:
		if r.Track == 0 {
			return "", false
		}
		return strconv.Itoa(r.Track), true
	case FieldYear:
		if r.Year == 0 {
			return "", false
		}
		return strconv.Itoa(r.Year), true
	case FieldDuration:
		if r.Duration == 0 {
			return "", false
		}
		return r.Duration.String(), true
	case FieldFile:
		return r.File, r.File != ""
	}
	return "", false
}

// Overlay copies every set field of other onto r. Unset fields of other are
// left alone, so later metadata sources only override what they provide.
func (r *Record) Overlay(other *Record) {
	if other.Title != "" {
		r.Title = other.Title
	}
	if other.Track != 0 {
		r.Track = other.Track
	}
	if other.Duration != 0 {
		r.Duration = other.Duration
	}
	if other.Artist != "" {
		r.Artist = other.Artist
	}
	if other.Album != "" {
		r.Album = other.Album
	}
	if other.AlbumArtist != "" {
		r.AlbumArtist = other.AlbumArtist
	}
	if other.Genre != "" {
		r.Genre = other.Genre
	}
	if other.Year != 0 {
		r.Year = other.Year
	}
	if other.Cover != nil {
		r.Cover = other.Cover
	}
}

// Clone returns an independently mutable deep copy of the record.
func (r *Record) Clone() *Record {
	out := *r
	if r.Cover != nil {
		cover := *r.Cover
		if r.Cover.Data != nil {
			cover.Data = append([]byte(nil), r.Cover.Data...)
		}
		out.Cover = &cover
	}
	return &out
}

// Map returns the set fields as a plain map for output serialization.
// Track and year stay numeric so YAML/JSON output keeps their type.
func (r *Record) Map() map[string]any {
	out := make(map[string]any)
	if r.Track != 0 {
		out[FieldTrack] = r.Track
	}
	if r.Title != "" {
		out[FieldTitle] = r.Title
	}
	if r.Artist != "" {
		out[FieldArtist] = r.Artist
	}
	if r.Album != "" {
		out[FieldAlbum] = r.Album
	}
	if r.AlbumArtist != "" {
		out[FieldAlbumArtist] = r.AlbumArtist
	}
	if r.Genre != "" {
		out[FieldGenre] = r.Genre
	}
	if r.Year != 0 {
		out[FieldYear] = r.Year
	}
	if r.Duration != 0 {
		out[FieldDuration] = r.Duration.String()
	}
	if r.File != "" {
		out[FieldFile] = r.File
	}
	return out
}

// String renders like "3. Some Title - 04:05" for diagnostics.
func (r *Record) String() string {
	var b strings.Builder
	if r.Track > 0 {
		fmt.Fprintf(&b, "%d. ", r.Track)
	}
	b.WriteString(r.Title)
	if r.Duration != 0 {
		fmt.Fprintf(&b, " - %s", r.Duration)
	}
	return b.String()
}
