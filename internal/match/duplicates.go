package match

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"tagmatch/internal/textmatch"
)

// Default thresholds for the duplicate file filter.
//
// The name threshold is strict: it must tolerate only minor formatting or
// styling differences ("This Song!" vs "This Song_") while never treating two
// genuinely different titles ("This Song" vs "This Song (Extended)") as
// duplicates. The size threshold confirms near-identical content; tag
// differences shift a file's size slightly, the audio data does not.
const (
	DefaultNameThreshold = 0.95
	DefaultSizeThreshold = 0.95
)

type dupCandidate struct {
	path    string
	partner string
}

// FilterDuplicates proposes the subset of paths to retain after collapsing
// near-duplicate files. A file is a duplicate of another when their base
// names score above nameThreshold and their byte sizes are within
// sizeThreshold of each other. Exactly one file of each duplicate group is
// retained; deletion of the rest is the caller's decision.
func FilterDuplicates(paths []string, nameThreshold, sizeThreshold float64) []string {
	if len(paths) < 2 {
		return paths
	}

	// Base names only: a shared parent directory would inflate every score.
	names := make([]string, len(paths))
	for i, path := range paths {
		names[i] = filepath.Base(path)
	}
	sizes := make([]float64, len(paths))
	for i, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("cannot stat file for duplicate detection")
			sizes[i] = -1
			continue
		}
		sizes[i] = float64(info.Size())
	}

	var candidates []dupCandidate
	for i, path := range paths {
		if sizes[i] <= 0 {
			continue
		}
		others := make([]string, 0, len(names)-1)
		others = append(others, names[:i]...)
		others = append(others, names[i+1:]...)

		idx, matchName, ratio := textmatch.BestMatchStrings(names[i], others)
		if ratio <= nameThreshold {
			continue
		}
		j := idx
		if idx >= i {
			j = idx + 1
		}
		if sizes[j] <= 0 {
			continue
		}
		sizeRatio := 1 - abs(sizes[j]-sizes[i])/sizes[i]
		if sizeRatio <= sizeThreshold {
			continue
		}
		log.Debug().
			Str("file", names[i]).
			Str("match", matchName).
			Float64("name_ratio", ratio).
			Float64("size_ratio", sizeRatio).
			Msg("duplicate candidate")
		candidates = append(candidates, dupCandidate{path: path, partner: paths[j]})
	}

	// True duplicates reference each other (the match is symmetric), so each
	// connected pair collapses to its first member in file order.
	isDup := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		isDup[c.path] = true
	}

	var retained []string
	kept := make(map[string]bool)
	remaining := candidates
	for _, path := range paths {
		if !isDup[path] {
			retained = append(retained, path)
			continue
		}
		for _, c := range remaining {
			if c.path != path {
				continue
			}
			if !kept[path] {
				retained = append(retained, path)
				kept[path] = true
				// the group is represented now; drop the back-references
				next := remaining[:0:0]
				for _, o := range remaining {
					if o.partner != path {
						next = append(next, o)
					}
				}
				remaining = next
			}
			break
		}
	}
	return retained
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
