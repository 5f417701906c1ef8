package match

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"tagmatch/internal/model"
)

// Source is one metadata input: a record set plus a flag indicating whether
// its fields apply to all audio files (true) or per index (false).
type Source struct {
	Shared bool
	Set    *model.RecordSet
}

// MergeOptions controls how sources are combined.
type MergeOptions struct {
	// MatchArtist copies artist into album_artist for records missing one.
	MatchArtist bool

	// SharedHint forces the merged set to be treated as shared across files.
	SharedHint bool

	// DeleteDuplicates allows removal of redundant file copies when the
	// file count exceeds the first source's record count.
	DeleteDuplicates bool

	// DryRun reports intended deletions without touching the filesystem.
	DryRun bool

	// NameThreshold and SizeThreshold tune the duplicate filter.
	// Zero values fall back to the calibrated defaults.
	NameThreshold float64
	SizeThreshold float64
}

// Merge combines multiple partial metadata sources into one ordered record
// set whose length matches the file count. The first source is foundational:
// used as-is when its size already matches, broadcast when it holds a single
// record, or reconciled by duplicate-file removal when enabled. Later sources
// overlay their non-empty fields onto the result.
//
// Returns the merged set and the retained file list (shorter than the input
// when duplicates were removed). A *ShapeMismatchError means the counts
// cannot be reconciled; it is returned before any filesystem mutation.
func Merge(sources []Source, files []string, opts MergeOptions) (*model.RecordSet, []string, error) {
	if len(sources) == 0 {
		return nil, files, fmt.Errorf("no metadata sources to merge")
	}
	if opts.NameThreshold == 0 {
		opts.NameThreshold = DefaultNameThreshold
	}
	if opts.SizeThreshold == 0 {
		opts.SizeThreshold = DefaultSizeThreshold
	}

	target := 0
	for _, src := range sources {
		if src.Set.Len() > target {
			target = src.Set.Len()
		}
	}
	shared := opts.SharedHint
	if !shared {
		shared = true
		for _, src := range sources {
			if !src.Shared {
				shared = false
				break
			}
		}
	}
	if shared {
		target = len(files)
	} else if len(files) > target {
		target = len(files)
	}

	merged := model.NewRecordSet(shared)
	retained := files

	for i, src := range sources {
		size := src.Set.Len()
		if i == 0 {
			switch {
			case size == target:
				merged.Append(src.Set.Records...)
			case size == 1:
				// broadcast: a single applies-to-all record becomes the
				// per-file default, each slot independently mutable
				for n := 0; n < target; n++ {
					merged.Append(src.Set.Records[0].Clone())
				}
			default:
				if opts.DeleteDuplicates && target > size {
					resolved := FilterDuplicates(files, opts.NameThreshold, opts.SizeThreshold)
					if len(resolved) == size {
						log.Debug().Msg("resolved duplicate audio files to align with metadata records")
						if err := removeDuplicates(files, resolved, opts.DryRun); err != nil {
							return nil, files, err
						}
						retained = resolved
						target = size
						merged.Append(src.Set.Records...)
						continue
					}
				}
				return nil, files, &ShapeMismatchError{Target: target, Size: size}
			}
		} else {
			switch {
			case size == target:
				for n, rec := range src.Set.Records {
					merged.Records[n].Overlay(rec)
				}
			case size == 1:
				for _, rec := range merged.Records {
					rec.Overlay(src.Set.Records[0])
				}
			default:
				// generic partial overlay is intentionally not supported
				log.Warn().
					Int("source_size", size).
					Int("target", target).
					Msg("metadata source size does not match the merge target, skipping")
			}
		}
	}

	if opts.MatchArtist {
		for _, rec := range merged.Records {
			if rec.AlbumArtist == "" && rec.Artist != "" {
				rec.AlbumArtist = rec.Artist
			}
		}
	}
	return merged, retained, nil
}

func removeDuplicates(files, resolved []string, dry bool) error {
	keep := make(map[string]bool, len(resolved))
	for _, path := range resolved {
		keep[path] = true
	}
	for _, path := range files {
		if keep[path] {
			continue
		}
		if dry {
			log.Info().Str("file", path).Msg("would remove duplicate audio file")
			continue
		}
		log.Warn().Str("file", path).Msg("removing detected duplicate audio file")
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("removing duplicate %s: %w", path, err)
		}
	}
	return nil
}
