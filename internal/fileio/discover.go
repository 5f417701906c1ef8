package fileio

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// audioExtensions are the file extensions handled by the tag backends.
var audioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
}

// ImageExtensions are the cover image formats accepted for embedding.
var ImageExtensions = []string{"tif", "png", "jpg", "jpeg"}

// IsAudioFile reports whether the path has a supported audio extension.
func IsAudioFile(path string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(path))]
}

// ListAudioFiles retrieves the supported audio files from path, which may be
// a single file or a directory. Directory entries are returned sorted so
// positional matching stays deterministic across runs.
func ListAudioFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	if !info.IsDir() {
		if !IsAudioFile(path) {
			return nil, fmt.Errorf("unsupported audio file: [%s]", path)
		}
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !IsAudioFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(path, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// FindDefaultFile looks in dir for the first file (in sorted order) whose
// base name matches any of names and whose extension is one of exts.
// Used to discover conventional companions like "info.yml" or "cover.jpg"
// next to the audio files.
func FindDefaultFile(dir string, names, exts []string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	wantName := make(map[string]bool, len(names))
	for _, n := range names {
		wantName[strings.ToLower(n)] = true
	}
	wantExt := make(map[string]bool, len(exts))
	for _, e := range exts {
		wantExt[strings.ToLower(strings.TrimPrefix(e, "."))] = true
	}

	found := make([]string, 0, 1)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext == "" {
			continue
		}
		base := strings.TrimSuffix(entry.Name(), ext)
		if wantName[strings.ToLower(base)] && wantExt[strings.ToLower(strings.TrimPrefix(ext, "."))] {
			found = append(found, entry.Name())
		}
	}
	if len(found) == 0 {
		return "", false
	}
	sort.Strings(found)
	return filepath.Join(dir, found[0]), true
}
