// Package tagio reads and writes embedded audio metadata behind one
// format-agnostic surface.
//
// Open dispatches on the file extension: MP3 files are edited through their
// ID3v2 tag, FLAC files through their Vorbis comment and picture blocks.
// Apply overlays a record's set fields onto the existing tags, so values the
// record does not provide are never cleared.
//
//	f, err := tagio.Open("03 intro.mp3")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//	if err := f.Apply(rec); err != nil {
//	    return err
//	}
//	return f.Save()
package tagio
