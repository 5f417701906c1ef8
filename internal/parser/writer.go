package parser

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"tagmatch/internal/model"
)

// Format identifies an output listing format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatTab  Format = "tab"
)

// OutputFormats lists every output format, selectable on the command line.
var OutputFormats = []Format{FormatYAML, FormatJSON, FormatCSV, FormatTab}

// formatExtensions maps each output format to its canonical extension.
var formatExtensions = map[Format]string{
	FormatYAML: "yml",
	FormatJSON: "json",
	FormatCSV:  "csv",
	FormatTab:  "cfg",
}

// FormatFromName resolves an output format from its name or extension.
func FormatFromName(name string) (Format, error) {
	name = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
	switch name {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "tab", "tsv", "cfg":
		return FormatTab, nil
	}
	return "", fmt.Errorf("invalid output format: [%s]", name)
}

// SaveRecordSet writes the resolved records to path in the given format,
// fixing the file extension when it disagrees with the format. Records are
// sorted by track when every record carries one, by title otherwise. In dry
// mode only the target path is reported.
func SaveRecordSet(set *model.RecordSet, path string, format Format, dry bool) (string, error) {
	ext := filepath.Ext(path)
	want := "." + formatExtensions[format]
	if !extensionMatches(format, ext) {
		if ext != "" {
			log.Warn().
				Str("extension", ext).
				Str("format", string(format)).
				Msg("output extension doesn't match the requested format, fixing")
		}
		path = strings.TrimSuffix(path, ext) + want
	}
	if dry {
		log.Info().Str("file", path).Msg("would save the output listing")
		return path, nil
	}

	data, err := renderRecords(sortedRecords(set), format)
	if err != nil {
		return path, err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return path, fmt.Errorf("saving output listing: %w", err)
	}
	log.Info().Str("file", path).Msg("saved the output listing")
	return path, nil
}

func extensionMatches(format Format, ext string) bool {
	if ext == "" {
		return false
	}
	got, err := FormatFromName(ext)
	return err == nil && got == format
}

func sortedRecords(set *model.RecordSet) []*model.Record {
	records := append([]*model.Record(nil), set.Records...)
	allTracked := true
	for _, rec := range records {
		if rec.Track == 0 {
			allTracked = false
			break
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		if allTracked {
			return records[i].Track < records[j].Track
		}
		ti, tj := records[i].Title, records[j].Title
		if ti == "" {
			ti = records[i].File
		}
		if tj == "" {
			tj = records[j].File
		}
		return ti < tj
	})
	return records
}

func renderRecords(records []*model.Record, format Format) ([]byte, error) {
	maps := make([]map[string]any, len(records))
	for i, rec := range records {
		maps[i] = rec.Map()
	}
	switch format {
	case FormatJSON:
		return json.MarshalIndent(maps, "", "  ")
	case FormatYAML:
		return yaml.Marshal(maps)
	case FormatCSV:
		return renderCSV(records)
	case FormatTab:
		return renderTab(records), nil
	}
	return nil, fmt.Errorf("unknown output format: [%s]", format)
}

func renderCSV(records []*model.Record) ([]byte, error) {
	header := append([]string{}, model.FieldNames...)
	header = append(header, model.FieldFile)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, rec := range records {
		row := make([]string, len(header))
		for i, name := range header {
			row[i], _ = rec.Field(name)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// renderTab writes aligned "track. title duration" columns.
func renderTab(records []*model.Record) []byte {
	allTracked := true
	maxTitle := 0
	for _, rec := range records {
		if rec.Track == 0 {
			allTracked = false
		}
		if len(rec.Title) > maxTitle {
			maxTitle = len(rec.Title)
		}
	}
	maxTrack := 0
	if allTracked {
		for _, rec := range records {
			if n := len(fmt.Sprintf("%d.", rec.Track)); n > maxTrack {
				maxTrack = n
			}
		}
	}

	var buf bytes.Buffer
	for _, rec := range records {
		track := ""
		if allTracked {
			track = fmt.Sprintf("%d.", rec.Track)
		}
		duration := ""
		if rec.Duration != 0 {
			duration = rec.Duration.String()
		}
		fmt.Fprintf(&buf, "%-*s %-*s %s\n", maxTrack, track, maxTitle, rec.Title, duration)
	}
	return buf.Bytes()
}
