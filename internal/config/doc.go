// Package config provides configuration management for tagmatch.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Loading stopword and exception word lists
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Calibrated matching thresholds
//	// Tag and word matching enabled
//	// Cover embedding with resize and JPEG conversion
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Saving Settings
//
//	settings.OutputFormat = "json"
//	err := settings.Save("/path/to/config.json")
//
// # Word Lists
//
// Stopword files hold one word per line; exception files hold
// "match: replacement" pairs. Both accept '#' comment lines:
//
//	# words excluded from fuzzy matching
//	the
//	feat
//
//	# casing the beautifier cannot derive
//	bbc: BBC
//	mccartney: McCartney
package config
