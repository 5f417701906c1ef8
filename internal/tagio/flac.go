package tagio

import (
	"fmt"
	"strconv"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"

	"tagmatch/internal/model"
)

// flacFile edits the Vorbis comment and picture blocks of a FLAC file.
type flacFile struct {
	path     string
	file     *flac.File
	fields   map[string]string
	picture  *flacpicture.MetadataBlockPicture
	modified bool
}

func openFLAC(path string) (File, error) {
	file, err := flac.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parsing FLAC file: %w", err)
	}
	f := &flacFile{path: path, file: file, fields: make(map[string]string)}
	if comment := f.vorbisComment(); comment != nil {
		for _, name := range []string{
			flacvorbis.FIELD_TITLE,
			flacvorbis.FIELD_ARTIST,
			flacvorbis.FIELD_ALBUM,
			flacvorbis.FIELD_TRACKNUMBER,
			flacvorbis.FIELD_GENRE,
			flacvorbis.FIELD_DATE,
			"ALBUMARTIST",
		} {
			if values, err := comment.Get(name); err == nil && len(values) > 0 {
				f.fields[name] = values[0]
			}
		}
	}
	return f, nil
}

func (f *flacFile) vorbisComment() *flacvorbis.MetaDataBlockVorbisComment {
	for _, block := range f.file.Meta {
		if block.Type != flac.VorbisComment {
			continue
		}
		comment, err := flacvorbis.ParseFromMetaDataBlock(*block)
		if err != nil {
			continue
		}
		return comment
	}
	return nil
}

func (f *flacFile) Title() string {
	return f.fields[flacvorbis.FIELD_TITLE]
}

func (f *flacFile) Apply(rec *model.Record) error {
	set := func(name, value string) {
		if value != "" {
			f.fields[name] = value
			f.modified = true
		}
	}
	set(flacvorbis.FIELD_TITLE, rec.Title)
	set(flacvorbis.FIELD_ARTIST, rec.Artist)
	set(flacvorbis.FIELD_ALBUM, rec.Album)
	set("ALBUMARTIST", rec.AlbumArtist)
	set(flacvorbis.FIELD_GENRE, rec.Genre)
	if rec.Track != 0 {
		set(flacvorbis.FIELD_TRACKNUMBER, strconv.Itoa(rec.Track))
	}
	if rec.Year != 0 {
		set(flacvorbis.FIELD_DATE, strconv.Itoa(rec.Year))
	}
	if rec.Cover != nil && rec.Cover.Data != nil {
		mime := rec.Cover.MIME
		if mime == "" {
			mime = "image/jpeg"
		}
		picture, err := flacpicture.NewFromImageData(
			flacpicture.PictureTypeFrontCover, "Front cover", rec.Cover.Data, mime)
		if err != nil {
			return fmt.Errorf("encoding FLAC picture block: %w", err)
		}
		f.picture = picture
		f.modified = true
	}
	return nil
}

// Save rebuilds the Vorbis comment block from the staged fields and rewrites
// the file. Existing picture blocks survive unless a new cover was staged.
func (f *flacFile) Save() error {
	if !f.modified {
		return nil
	}
	comment := flacvorbis.New()
	for _, name := range []string{
		flacvorbis.FIELD_TITLE,
		flacvorbis.FIELD_ARTIST,
		flacvorbis.FIELD_ALBUM,
		"ALBUMARTIST",
		flacvorbis.FIELD_GENRE,
		flacvorbis.FIELD_TRACKNUMBER,
		flacvorbis.FIELD_DATE,
	} {
		if value, ok := f.fields[name]; ok {
			if err := comment.Add(name, value); err != nil {
				return fmt.Errorf("staging FLAC comment %s: %w", name, err)
			}
		}
	}

	var meta []*flac.MetaDataBlock
	for _, block := range f.file.Meta {
		if block.Type == flac.VorbisComment {
			continue
		}
		if block.Type == flac.Picture && f.picture != nil {
			continue
		}
		meta = append(meta, block)
	}
	commentBlock := comment.Marshal()
	meta = append(meta, &commentBlock)
	if f.picture != nil {
		pictureBlock := f.picture.Marshal()
		meta = append(meta, &pictureBlock)
	}
	f.file.Meta = meta

	return f.file.Save(f.path)
}

func (f *flacFile) Close() error {
	return nil
}
