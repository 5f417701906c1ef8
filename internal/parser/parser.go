package parser

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"tagmatch/internal/model"
)

// Mode identifies a metadata configuration format.
type Mode string

const (
	// ModeAny tries every parser in ranked order.
	ModeAny Mode = "any"

	ModeCSV  Mode = "csv"
	ModeTab  Mode = "tab"
	ModeList Mode = "list"
	ModeJSON Mode = "json"
	ModeYAML Mode = "yaml"
)

// modeExtensions maps each mode to the file extensions it claims.
var modeExtensions = map[Mode][]string{
	ModeCSV:  {"csv"},
	ModeTab:  {"tsv", "tab", "cfg", "config", "meta", "info", "txt"},
	ModeList: {"ls", "lst", "list"},
	ModeJSON: {"json"},
	ModeYAML: {"yml", "yaml"},
}

// ParseModes lists every input mode, selectable on the command line.
var ParseModes = []Mode{ModeAny, ModeCSV, ModeTab, ModeList, ModeJSON, ModeYAML}

// Extensions returns every file extension a metadata config may carry,
// for default input discovery.
func Extensions() []string {
	var exts []string
	for _, mode := range ParseModes {
		exts = append(exts, modeExtensions[mode]...)
	}
	return exts
}

// ModeFromName resolves a mode from its name or one of its extensions.
func ModeFromName(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
	if name == string(ModeAny) {
		return ModeAny, nil
	}
	for mode, exts := range modeExtensions {
		if name == string(mode) {
			return mode, nil
		}
		for _, ext := range exts {
			if name == ext {
				return mode, nil
			}
		}
	}
	return "", fmt.Errorf("invalid parser mode: [%s]", name)
}

var (
	// numberedLine matches a leading track number with its decoration,
	// capturing the number and the remaining text.
	numberedLine = regexp.MustCompile(`^[\s\-#.]*([0-9]+)[\s\-#.]*(.*)$`)

	// durationText matches a duration like "3:45" or "1:02:33".
	durationText = regexp.MustCompile(`[0-9]+:[0-5][0-9](?::[0-5][0-9])?`)
)

// ParseFile reads a metadata configuration file in the given mode.
// ModeAny attempts every format in ranked order (CSV, TAB, YAML/JSON, LIST;
// LIST last since it is the easiest to match by accident) and returns the
// first successful parse.
func ParseFile(path string, mode Mode) (*model.RecordSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading metadata config: %w", err)
	}
	return Parse(data, mode)
}

// Parse is ParseFile over in-memory content.
func Parse(data []byte, mode Mode) (*model.RecordSet, error) {
	attempts := []struct {
		modes []Mode
		name  string
		parse func([]byte) (*model.RecordSet, error)
	}{
		{[]Mode{ModeCSV}, "csv", parseCSV},
		{[]Mode{ModeTab}, "tab", parseTab},
		{[]Mode{ModeJSON, ModeYAML}, "yaml/json", parseObjects},
		{[]Mode{ModeList}, "list", parseList},
	}
	for _, attempt := range attempts {
		if mode != ModeAny && !containsMode(attempt.modes, mode) {
			continue
		}
		log.Debug().Str("mode", attempt.name).Msg("attempting metadata parse")
		set, err := attempt.parse(data)
		if err != nil {
			if mode != ModeAny {
				return nil, fmt.Errorf("parsing as [%s]: %w", attempt.name, err)
			}
			log.Debug().Err(err).Str("mode", attempt.name).Msg("parse attempt failed, moving on")
			continue
		}
		log.Debug().Str("mode", attempt.name).Int("records", set.Len()).Msg("metadata parse succeeded")
		return set, nil
	}
	return nil, fmt.Errorf("no parsing method matched the metadata config")
}

func containsMode(modes []Mode, mode Mode) bool {
	for _, m := range modes {
		if m == mode {
			return true
		}
	}
	return false
}

// buildRecords converts parsed field maps into a record set, enforcing the
// title requirement on every record.
func buildRecords(rows []map[string]string) (*model.RecordSet, error) {
	set := model.NewRecordSet(false)
	for i, row := range rows {
		rec := model.NewRecord("")
		for name, value := range row {
			if value == "" {
				continue
			}
			if err := rec.SetField(name, value); err != nil {
				return nil, fmt.Errorf("record %d: %w", i+1, err)
			}
		}
		if rec.Title == "" {
			return nil, fmt.Errorf("record %d: missing required title", i+1)
		}
		set.Append(rec)
	}
	if set.Len() == 0 {
		return nil, fmt.Errorf("no records parsed")
	}
	return set, nil
}

func splitLines(data []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
