package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Settings holds all configuration options.
type Settings struct {
	// Matching settings
	WordMatchThreshold     float64 `json:"word_match_threshold"`
	LastItemThreshold      float64 `json:"last_item_threshold"`
	DuplicateNameThreshold float64 `json:"duplicate_name_threshold"`
	DuplicateSizeThreshold float64 `json:"duplicate_size_threshold"`
	UseTagMatch            bool    `json:"use_tag_match"`
	UseWordMatch           bool    `json:"use_word_match"`
	MatchArtist            bool    `json:"match_artist"`

	// Word lists
	StopwordsMatchPath  string `json:"stopwords_match_path"`
	StopwordsRenamePath string `json:"stopwords_rename_path"`
	ExceptionsPath      string `json:"exceptions_path"`
	Beautify            bool   `json:"beautify"`

	// File renaming
	RenameFormat string `json:"rename_format"`
	RenameTitle  bool   `json:"rename_title"`
	PrefixTrack  bool   `json:"prefix_track"`

	// Output listing
	OutputName   string `json:"output_name"`
	OutputFormat string `json:"output_format"` // yaml, json, csv, tab

	// Cover art settings
	SaveCoverInFolder bool `json:"save_cover_in_folder"`
	SaveCoverInTags   bool `json:"save_cover_in_tags"`
	CoverResize       bool `json:"cover_resize"`
	CoverMaxSize      int  `json:"cover_max_size"`
	ConvertCoverToJPG bool `json:"convert_cover_to_jpg"`

	// Batch settings
	MaxConcurrentAlbums int    `json:"max_concurrent_albums"`
	BackupDirName       string `json:"backup_dir_name"`

	// Proxy settings
	ProxyType    string `json:"proxy_type"` // none, system, manual
	ProxyAddress string `json:"proxy_address"`
	ProxyPort    int    `json:"proxy_port"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		WordMatchThreshold:     0.6,
		LastItemThreshold:      0.4,
		DuplicateNameThreshold: 0.95,
		DuplicateSizeThreshold: 0.95,
		UseTagMatch:            true,
		UseWordMatch:           true,
		MatchArtist:            true,

		StopwordsMatchPath:  "",
		StopwordsRenamePath: "",
		ExceptionsPath:      "",
		Beautify:            false,

		RenameFormat: "",
		RenameTitle:  false,
		PrefixTrack:  false,

		OutputName:   "output.cfg",
		OutputFormat: "yaml",

		SaveCoverInFolder: false,
		SaveCoverInTags:   true,
		CoverResize:       true,
		CoverMaxSize:      1000,
		ConvertCoverToJPG: true,

		MaxConcurrentAlbums: 1,
		BackupDirName:       "backup",

		ProxyType: "system",
	}
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
