package tagio

import (
	"strconv"

	"github.com/bogem/id3v2"

	"tagmatch/internal/model"
)

// mp3File edits the ID3v2 tag of an MP3 file.
type mp3File struct {
	tag *id3v2.Tag
}

func openMP3(path string) (File, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	return &mp3File{tag: tag}, nil
}

func (f *mp3File) Title() string {
	return f.tag.Title()
}

func (f *mp3File) Apply(rec *model.Record) error {
	if rec.Title != "" {
		f.tag.SetTitle(rec.Title)
	}
	if rec.Artist != "" {
		f.tag.SetArtist(rec.Artist)
	}
	if rec.Album != "" {
		f.tag.SetAlbum(rec.Album)
	}
	if rec.AlbumArtist != "" {
		// TPE2 (Album artist)
		f.tag.AddTextFrame("TPE2", id3v2.EncodingUTF8, rec.AlbumArtist)
	}
	if rec.Genre != "" {
		f.tag.SetGenre(rec.Genre)
	}
	if rec.Track != 0 {
		// TRCK (Track number)
		f.tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, strconv.Itoa(rec.Track))
	}
	if rec.Year != 0 {
		// TYER for ID3v2.3 readers, TDRC for ID3v2.4
		year := strconv.Itoa(rec.Year)
		f.tag.AddTextFrame("TYER", id3v2.EncodingUTF8, year)
		f.tag.AddTextFrame("TDRC", id3v2.EncodingUTF8, year)
	}
	if rec.Cover != nil && rec.Cover.Data != nil {
		f.setPicture(rec.Cover)
	}
	return nil
}

func (f *mp3File) setPicture(cover *model.Cover) {
	f.tag.DeleteFrames(f.tag.CommonID("Attached picture"))
	mime := cover.MIME
	if mime == "" {
		mime = "image/jpeg"
	}
	f.tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    mime,
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     cover.Data,
	})
}

func (f *mp3File) Save() error {
	return f.tag.Save()
}

func (f *mp3File) Close() error {
	return f.tag.Close()
}
