package parser

import (
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"tagmatch/internal/model"
)

// csvRow is one line of a CSV metadata config. The header row names the
// fields; absent columns leave their fields unset.
type csvRow struct {
	Track       string `csv:"track"`
	Title       string `csv:"title"`
	Duration    string `csv:"duration"`
	Artist      string `csv:"artist"`
	Album       string `csv:"album"`
	AlbumArtist string `csv:"album_artist"`
	Genre       string `csv:"genre"`
	Year        string `csv:"year"`
	Cover       string `csv:"cover"`
}

// parseCSV reads a CSV config with a header row. The header must name a
// title column; this also rejects headerless single-column files that the
// list parser should claim instead.
func parseCSV(data []byte) (*model.RecordSet, error) {
	header, _, _ := strings.Cut(strings.TrimSpace(string(data)), "\n")
	if !headerHasTitle(header) {
		return nil, fmt.Errorf("no title column in CSV header")
	}

	var csvRows []csvRow
	if err := gocsv.UnmarshalBytes(data, &csvRows); err != nil {
		return nil, err
	}
	rows := make([]map[string]string, len(csvRows))
	for i, row := range csvRows {
		rows[i] = map[string]string{
			model.FieldTrack:       row.Track,
			model.FieldTitle:       row.Title,
			model.FieldDuration:    row.Duration,
			model.FieldArtist:      row.Artist,
			model.FieldAlbum:       row.Album,
			model.FieldAlbumArtist: row.AlbumArtist,
			model.FieldGenre:       row.Genre,
			model.FieldYear:        row.Year,
			model.FieldCover:       row.Cover,
		}
	}
	return buildRecords(rows)
}

func headerHasTitle(header string) bool {
	for _, column := range strings.Split(header, ",") {
		if strings.EqualFold(strings.TrimSpace(column), model.FieldTitle) {
			return true
		}
	}
	return false
}

// parseTab reads "[track] title [duration]" lines. Track prefix and trailing
// duration are both optional per line, but a file where no line carries
// either is indistinguishable from arbitrary text and is rejected so later
// parsers get their chance.
func parseTab(data []byte) (*model.RecordSet, error) {
	lines := splitLines(data)
	if len(lines) == 0 {
		return nil, fmt.Errorf("empty config")
	}
	var rows []map[string]string
	hinted := false
	for _, line := range lines {
		track := ""
		rest := line
		if m := numberedLine.FindStringSubmatch(line); m != nil {
			track = m[1]
			rest = m[2]
		}
		duration := ""
		matches := durationText.FindAllString(rest, -1)
		if len(matches) > 0 {
			// assume the duration is the last one if multiple matches
			last := matches[len(matches)-1]
			if strings.HasSuffix(strings.TrimSpace(rest), last) {
				duration = last
				rest = strings.TrimSpace(rest)
				rest = rest[:len(rest)-len(last)]
			}
		}
		if track != "" || duration != "" {
			hinted = true
		}
		title := strings.TrimSpace(rest)
		if strings.HasSuffix(title, ":") {
			// "duration: 3:45" is a structured key line, not tab data
			return nil, fmt.Errorf("line looks like a structured document, not tab data")
		}
		rows = append(rows, map[string]string{
			model.FieldTrack:    track,
			model.FieldTitle:    title,
			model.FieldDuration: duration,
		})
	}
	if !hinted {
		return nil, fmt.Errorf("no track or duration hint on any line")
	}
	return buildRecords(rows)
}

// parseObjects reads a YAML or JSON list of objects (JSON being a YAML
// subset, one parser covers both):
//
//	- track: 1
//	  title: Some Title
//	  duration: "4:20"
//	- ...
//
// A single top-level object is treated as a one-record list.
func parseObjects(data []byte) (*model.RecordSet, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	items, ok := raw.([]any)
	if !ok {
		items = []any{raw}
	}
	var rows []map[string]string
	for i, item := range items {
		object, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("record %d: not an object", i+1)
		}
		row := make(map[string]string, len(object))
		for name, value := range object {
			if value == nil {
				continue
			}
			row[name] = fmt.Sprintf("%v", value)
		}
		rows = append(rows, row)
	}
	return buildRecords(rows)
}

// parseList reads one field per line in fixed intervals:
//
//	[track-1]
//	title-1
//	[duration-1]
//	[track-2]
//	...
//
// Either the track or the duration lines (or both) must be present. When the
// line count divides evenly both ways, the three-field layout is tried first
// since it is the harder one to match by accident.
func parseList(data []byte) (*model.RecordSet, error) {
	lines := splitLines(data)
	if len(lines) == 0 {
		return nil, fmt.Errorf("empty config")
	}

	var rows []map[string]string
	if len(lines)%3 == 0 {
		rows = parseListFields3(lines)
	}
	if rows == nil && len(lines)%2 == 0 {
		rows = parseListFields2(lines)
	}
	if rows == nil {
		return nil, fmt.Errorf("lines do not form track/title/duration intervals")
	}
	return buildRecords(rows)
}

func parseListFields3(lines []string) []map[string]string {
	var rows []map[string]string
	for i := 0; i < len(lines); i += 3 {
		track, ok := wholeLineTrack(lines[i])
		if !ok {
			return nil
		}
		duration, ok := wholeLineDuration(lines[i+2])
		if !ok {
			return nil
		}
		rows = append(rows, map[string]string{
			model.FieldTrack:    track,
			model.FieldTitle:    lines[i+1],
			model.FieldDuration: duration,
		})
	}
	return rows
}

func parseListFields2(lines []string) []map[string]string {
	// track/title intervals
	rows := make([]map[string]string, 0, len(lines)/2)
	valid := true
	for i := 0; i < len(lines); i += 2 {
		track, ok := wholeLineTrack(lines[i])
		if !ok {
			valid = false
			break
		}
		rows = append(rows, map[string]string{
			model.FieldTrack: track,
			model.FieldTitle: lines[i+1],
		})
	}
	if valid {
		return rows
	}

	// title/duration intervals
	rows = rows[:0]
	for i := 0; i < len(lines); i += 2 {
		duration, ok := wholeLineDuration(lines[i+1])
		if !ok {
			return nil
		}
		rows = append(rows, map[string]string{
			model.FieldTitle:    lines[i],
			model.FieldDuration: duration,
		})
	}
	return rows
}

// wholeLineTrack accepts a line holding nothing but a decorated track number.
func wholeLineTrack(line string) (string, bool) {
	m := numberedLine.FindStringSubmatch(line)
	if m == nil || m[2] != "" {
		return "", false
	}
	return m[1], true
}

// wholeLineDuration accepts a line holding a parsable duration.
func wholeLineDuration(line string) (string, bool) {
	m := durationText.FindString(line)
	if m == "" {
		return "", false
	}
	if _, err := model.ParseDuration(m); err != nil {
		return "", false
	}
	return m, true
}
