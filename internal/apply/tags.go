package apply

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"tagmatch/internal/model"
	"tagmatch/internal/tagio"
)

// Tags writes each assigned record's metadata into its audio file's embedded
// tags. Unassigned records are skipped. In dry mode the staged updates are
// reported instead of written.
func Tags(set *model.RecordSet, dry bool) error {
	for _, rec := range set.Records {
		if !rec.Assigned() {
			continue
		}
		if dry {
			log.Info().
				Str("file", rec.File).
				Fields(rec.Map()).
				Msg("would apply tag updates")
			continue
		}
		if err := writeTags(rec); err != nil {
			return err
		}
		log.Debug().Str("file", rec.File).Stringer("record", rec).Msg("applied tag updates")
	}
	return nil
}

func writeTags(rec *model.Record) error {
	f, err := tagio.Open(rec.File)
	if err != nil {
		return fmt.Errorf("opening [%s] for tagging: %w", rec.File, err)
	}
	defer f.Close()
	if err := f.Apply(rec); err != nil {
		return fmt.Errorf("staging tags for [%s]: %w", rec.File, err)
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("saving tags for [%s]: %w", rec.File, err)
	}
	return nil
}
