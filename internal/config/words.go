package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"tagmatch/internal/textmatch"
)

// LoadStopwords reads a stopword file: one word per line, '#' starts a
// comment line, blanks ignored. An empty path yields an empty set.
func LoadStopwords(path string) (textmatch.Stopwords, error) {
	if path == "" {
		return nil, nil
	}
	lines, err := readWordLines(path)
	if err != nil {
		return nil, fmt.Errorf("loading stopwords: %w", err)
	}
	return textmatch.NewStopwords(lines), nil
}

// LoadExceptions reads an exceptions file: "match: replacement" per line,
// '#' starts a comment line. Matches are lowercased; replacements keep their
// exact casing. An empty path yields an empty map.
func LoadExceptions(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	lines, err := readWordLines(path)
	if err != nil {
		return nil, fmt.Errorf("loading exceptions: %w", err)
	}
	exceptions := make(map[string]string, len(lines))
	for _, line := range lines {
		match, replacement, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("loading exceptions: line %q is not a \"match: replacement\" pair", line)
		}
		match = strings.ToLower(strings.TrimSpace(match))
		replacement = strings.TrimSpace(replacement)
		if match == "" || replacement == "" {
			return nil, fmt.Errorf("loading exceptions: line %q has an empty match or replacement", line)
		}
		exceptions[match] = replacement
	}
	return exceptions, nil
}

func readWordLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}
