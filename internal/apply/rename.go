package apply

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/unicode/norm"

	"tagmatch/internal/fileio"
	"tagmatch/internal/model"
)

// templateVar matches rename template variables like "%(title)s".
// Variable names are case-insensitive metadata field names.
var templateVar = regexp.MustCompile(`%\(([A-Za-z_]+)\)s`)

// MissingFieldError reports a rename template variable that has no value in
// a matched record. Renaming aborts rather than produce half-filled names.
type MissingFieldError struct {
	Field string
	File  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("cannot rename [%s]: missing required field [%s]", e.File, e.Field)
}

// RenameOptions controls file renaming after tagging.
type RenameOptions struct {
	// Format is the rename template, e.g. "%(track)s - %(title)s".
	Format string

	// RenameTitle renames files to their bare title, ignoring Format.
	RenameTitle bool

	// PrefixTrack renames files to the title prefixed with the
	// zero-padded track number, ignoring Format.
	PrefixTrack bool

	// Dry reports intended renames without touching the filesystem.
	Dry bool
}

// Rename renames every assigned record's file according to the template and
// updates the record's file back-reference. New names are sanitized for
// cross-platform validity and NFKD-normalized. Files already carrying their
// target name are left alone.
func Rename(set *model.RecordSet, opts RenameOptions) error {
	if set.Len() == 0 {
		log.Error().Msg("no metadata records to process")
		return nil
	}

	format := opts.Format
	trackWidth := 0
	if opts.RenameTitle || opts.PrefixTrack {
		if opts.PrefixTrack {
			log.Debug().Msg("renaming with zero-padded track prefix and title")
			format = "%(track)s %(title)s"
			trackWidth = len(strconv.Itoa(set.Len()))
		} else {
			log.Debug().Msg("renaming with title only")
			format = "%(title)s"
		}
	}
	if format == "" {
		log.Warn().Msg("no rename format or rename flag specified, not renaming anything")
		return nil
	}
	if !templateVar.MatchString(format) {
		log.Error().Str("format", format).Msg("rename format holds no template variable, not renaming anything")
		return nil
	}

	// A failed rename only loses that file's new name; the rest of the
	// batch still gets processed.
	var errs []error
	for _, rec := range set.Records {
		if !rec.Assigned() {
			continue
		}
		if _, err := os.Stat(rec.File); err != nil {
			log.Error().Err(err).Str("file", rec.File).Msg("file to rename cannot be found")
			continue
		}
		name, err := expand(format, rec, trackWidth)
		if err != nil {
			log.Error().Err(err).Str("file", rec.File).Msg("cannot expand rename template")
			errs = append(errs, err)
			continue
		}
		name = norm.NFKD.String(fileio.SanitizeFileName(name))

		dir, origin := filepath.Split(rec.File)
		ext := filepath.Ext(origin)
		originName := strings.TrimSuffix(origin, ext)
		target := filepath.Join(dir, name+ext)

		if opts.Dry {
			log.Info().Str("from", originName).Str("to", name).Msg("would rename file")
			continue
		}
		if originName == name {
			log.Info().Str("file", originName).Msg("file already named")
			continue
		}
		if err := os.Rename(rec.File, target); err != nil {
			log.Error().Err(err).Str("file", rec.File).Msg("rename failed")
			errs = append(errs, fmt.Errorf("renaming [%s]: %w", rec.File, err))
			continue
		}
		log.Info().Str("from", originName).Str("to", name).Msg("adjusted file name")
		rec.File = target
	}
	return errors.Join(errs...)
}

// expand substitutes every template variable with the record's field value.
// trackWidth > 0 zero-pads the track number to that width.
func expand(format string, rec *model.Record, trackWidth int) (string, error) {
	var missing *MissingFieldError
	out := templateVar.ReplaceAllStringFunc(format, func(match string) string {
		field := strings.ToLower(templateVar.FindStringSubmatch(match)[1])
		if field == model.FieldTrack && trackWidth > 0 && rec.Track != 0 {
			return fmt.Sprintf("%0*d", trackWidth, rec.Track)
		}
		value, ok := rec.Field(field)
		if !ok {
			if missing == nil {
				missing = &MissingFieldError{Field: field, File: rec.File}
			}
			return ""
		}
		return value
	})
	if missing != nil {
		return "", missing
	}
	return out, nil
}
