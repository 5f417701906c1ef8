package match

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"tagmatch/internal/model"
	"tagmatch/internal/textmatch"
)

// Default scoring thresholds for the matching pipeline.
//
// The word threshold must be low enough to tolerate extra unmatched words on
// either side, yet high enough not to match arbitrary names. The last-item
// threshold is looser: with a single file and a single record left, the
// over-matching risk is greatly reduced, but a match must still be validated
// so that a genuinely unrelated leftover never gets claimed.
const (
	DefaultWordThreshold     = 0.6
	DefaultLastItemThreshold = 0.4
)

// TitleReader reads the embedded title tag of an audio file. Implemented by
// the tag backends; faked in tests.
type TitleReader interface {
	ReadTitle(path string) (string, error)
}

// Options tunes the matching pipeline.
type Options struct {
	// UseTagMatch enables the heuristics that read embedded title tags.
	UseTagMatch bool

	// UseWordMatch enables the word-overlap heuristics.
	UseWordMatch bool

	// StopwordsMatch is excluded from word-overlap scoring.
	// StopwordsRename is excluded from the name normalization used by the
	// substring check (and later by file renaming).
	StopwordsMatch  textmatch.Stopwords
	StopwordsRename textmatch.Stopwords

	// WordThreshold and LastItemThreshold override the defaults when nonzero.
	WordThreshold     float64
	LastItemThreshold float64
}

// Engine associates audio files with metadata records. It never reads
// anything but file names and title tags, and it never mutates files.
type Engine struct {
	titles TitleReader
	opts   Options
}

// NewEngine builds an engine. titles may be nil when tag matching is
// disabled.
func NewEngine(titles TitleReader, opts Options) *Engine {
	if opts.WordThreshold == 0 {
		opts.WordThreshold = DefaultWordThreshold
	}
	if opts.LastItemThreshold == 0 {
		opts.LastItemThreshold = DefaultLastItemThreshold
	}
	if titles == nil {
		opts.UseTagMatch = false
	}
	return &Engine{titles: titles, opts: opts}
}

// Apply matches every file it can to a record of set and claims the record by
// assigning the file path to it. Matching runs in fixed stages, cheapest
// first, each stage restricted to files and records the earlier stages left
// unmatched:
//
//  1. positional (shared sets) or normalized title-in-filename substring
//  2. word overlap between file names and titles
//  3. exact title-tag equality
//  4. word overlap between title tags and titles
//  5. last-item fallback with a relaxed threshold
//
// Returns the file-to-record associations. Files with no association are
// reported with a warning and left out of the result; the caller decides
// whether unresolved files abort the run.
func (e *Engine) Apply(files []string, set *model.RecordSet) (map[string]*model.Record, error) {
	matches := make(map[string]*model.Record, len(files))
	claimed := make(map[*model.Record]bool, set.Len())

	for i, path := range files {
		rec := e.matchByName(i, path, set, claimed)
		if rec != nil {
			matches[path] = rec
			claimed[rec] = true
		}
	}

	// Long file names often pack extra metadata around the actual title
	// ("[Artist] - Title (feat. Other) [Album]"), defeating the substring
	// check. Fall through increasingly aggressive heuristics on leftovers.
	stages := []struct {
		enabled bool
		run     func(files []string, records []*model.Record) map[string]*model.Record
	}{
		{e.opts.UseWordMatch, func(f []string, r []*model.Record) map[string]*model.Record {
			return e.wordMatch(f, r, e.opts.WordThreshold, true)
		}},
		{e.opts.UseTagMatch, e.tagMatch},
		{e.opts.UseTagMatch && e.opts.UseWordMatch, e.tagWordMatch},
		{e.opts.UseWordMatch, e.lastItem},
	}
	for _, stage := range stages {
		leftoverFiles := unmatchedFiles(files, matches)
		if len(leftoverFiles) == 0 {
			break
		}
		if !stage.enabled {
			continue
		}
		leftoverRecords := unclaimedRecords(set, claimed)
		if len(leftoverRecords) == 0 {
			break
		}
		for path, rec := range stage.run(leftoverFiles, leftoverRecords) {
			matches[path] = rec
			claimed[rec] = true
		}
	}

	for _, path := range files {
		rec, ok := matches[path]
		if !ok {
			log.Warn().Str("file", path).Msg("no metadata record matched for file")
			continue
		}
		log.Debug().Str("file", path).Stringer("record", rec).Msg("matched file")
		if err := rec.AssignFile(path); err != nil {
			return matches, err
		}
	}
	return matches, nil
}

// matchByName is the cheapest stage: positional association for shared sets,
// otherwise a substring test of the normalized title inside the normalized
// file name. Multiple substring candidates are settled by fuzzy-matching the
// raw file name against their titles.
func (e *Engine) matchByName(i int, path string, set *model.RecordSet, claimed map[*model.Record]bool) *model.Record {
	name := filepath.Base(path)
	if set.Shared {
		if i < set.Len() && !claimed[set.Records[i]] {
			return set.Records[i]
		}
		return nil
	}

	cleanName := cleanJoin(name, e.opts.StopwordsRename)
	var possible []*model.Record
	for _, rec := range set.Records {
		if claimed[rec] {
			continue
		}
		cleanTitle := cleanJoin(rec.Title, e.opts.StopwordsRename)
		if cleanTitle != "" && strings.Contains(cleanName, cleanTitle) {
			possible = append(possible, rec)
		}
	}
	switch len(possible) {
	case 0:
		return nil
	case 1:
		return possible[0]
	default:
		// several titles appear in this file name, pick the closest
		titles := make([]string, len(possible))
		for n, rec := range possible {
			titles[n] = rec.Title
		}
		idx, title, ratio := textmatch.BestMatchStrings(name, titles)
		log.Debug().
			Str("file", path).
			Str("best", title).
			Float64("ratio", ratio).
			Msg("fuzzy title search settled multiple substring candidates")
		return possible[idx]
	}
}

// wordMatch associates files with records by word overlap between the
// normalized file names and the normalized titles. stripExt controls whether
// a file extension is removed first; the tag-title variant passes raw titles
// where a trailing ".something" is legitimate text.
//
// Conflicting claims are dropped on every claimant: keeping one of them would
// promote an arbitrary winner of what was an ambiguous score.
func (e *Engine) wordMatch(files []string, records []*model.Record, threshold float64, stripExt bool) map[string]*model.Record {
	fileWords := make([][]string, len(files))
	for i, file := range files {
		name := filepath.Base(file)
		if stripExt {
			name = strings.TrimSuffix(name, filepath.Ext(name))
		}
		fileWords[i] = textmatch.CleanWords(name, e.opts.StopwordsMatch)
	}
	// Shared prefixes like a repeated artist or album name in every file
	// name drag all scores down; only discriminative words should count.
	fileWords = textmatch.StripSharedAffix(fileWords)

	recordWords := make([][]string, len(records))
	for i, rec := range records {
		recordWords[i] = textmatch.CleanWords(rec.Title, e.opts.StopwordsMatch)
	}

	matches := make(map[string]*model.Record, len(files))
	for i, file := range files {
		idx, _, ratio := textmatch.BestMatch(fileWords[i], recordWords)
		if ratio > threshold {
			log.Debug().
				Str("file", file).
				Str("title", records[idx].Title).
				Float64("ratio", ratio).
				Msg("potential word match")
			matches[file] = records[idx]
		} else {
			log.Debug().
				Str("file", file).
				Float64("ratio", ratio).
				Msg("no word match, score too low")
		}
	}

	counts := make(map[*model.Record]int, len(matches))
	for _, rec := range matches {
		counts[rec]++
	}
	for file, rec := range matches {
		if counts[rec] > 1 {
			log.Debug().
				Str("file", file).
				Str("title", rec.Title).
				Msg("word match caused duplicate claim, dropping it")
			delete(matches, file)
		}
	}
	return matches
}

// tagMatch associates files with records by exact, case-sensitive equality
// between the embedded title tag and the record title. Each record is taken
// out of play as soon as it matches.
func (e *Engine) tagMatch(files []string, records []*model.Record) map[string]*model.Record {
	matches := make(map[string]*model.Record)
	used := make(map[*model.Record]bool)
	for _, path := range files {
		title := e.readTitle(path)
		if title == "" {
			continue
		}
		for _, rec := range records {
			if used[rec] || rec.Title != title {
				continue
			}
			log.Debug().Str("file", path).Msg("exact embedded-title match")
			used[rec] = true
			matches[path] = rec
			break
		}
	}
	return matches
}

// tagWordMatch runs the word-overlap heuristic on embedded title tags
// instead of file names.
func (e *Engine) tagWordMatch(files []string, records []*model.Record) map[string]*model.Record {
	titleFiles := make(map[string]string, len(files))
	titles := make([]string, 0, len(files))
	for _, path := range files {
		title := e.readTitle(path)
		if title == "" {
			continue
		}
		if _, seen := titleFiles[title]; !seen {
			titles = append(titles, title)
		}
		titleFiles[title] = path
	}
	if len(titles) == 0 {
		return nil
	}
	matches := make(map[string]*model.Record)
	for title, rec := range e.wordMatch(titles, records, e.opts.WordThreshold, false) {
		matches[titleFiles[title]] = rec
	}
	return matches
}

// lastItem is the final fallback: with exactly one file and one record left,
// retry the word match with the relaxed threshold.
func (e *Engine) lastItem(files []string, records []*model.Record) map[string]*model.Record {
	if len(files) != 1 || len(records) != 1 {
		return nil
	}
	matches := e.wordMatch(files, records, e.opts.LastItemThreshold, true)
	if len(matches) > 0 {
		log.Debug().Str("file", files[0]).Msg("found last-item word match")
	}
	return matches
}

func (e *Engine) readTitle(path string) string {
	title, err := e.titles.ReadTitle(path)
	if err != nil {
		log.Debug().Err(err).Str("file", path).Msg("cannot read embedded title")
		return ""
	}
	return strings.TrimSpace(title)
}

func unmatchedFiles(files []string, matches map[string]*model.Record) []string {
	var out []string
	for _, path := range files {
		if matches[path] == nil {
			out = append(out, path)
		}
	}
	return out
}

func unclaimedRecords(set *model.RecordSet, claimed map[*model.Record]bool) []*model.Record {
	var out []*model.Record
	for _, rec := range set.Records {
		if !claimed[rec] {
			out = append(out, rec)
		}
	}
	return out
}

func cleanJoin(text string, stopwords textmatch.Stopwords) string {
	return strings.Join(textmatch.CleanWords(text, stopwords), " ")
}
