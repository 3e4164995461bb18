// Package config provides configuration management for tracktag.
//
// This package handles:
//   - Loading and saving settings from TOML files
//   - Default configuration values
//   - Validation of ranges and enumerations
//   - Conversion to the configuration types of other packages
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// flac --best, one job per CPU
//	// ReplayGain enabled
//	// covers embedded at their original size
//
// # Loading from File
//
//	settings, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    // the file exists but is malformed or invalid
//	}
//
// A missing file is not an error; the defaults are returned.
//
// # Saving Settings
//
//	settings.CoverMaxSize = 1000
//	err := settings.Save(config.DefaultPath())
//
// # Configuration Options
//
// Settings includes options for:
//   - External tool binaries
//   - Concurrency and compression level
//   - ReplayGain and output verification
//   - Cover art extraction and resizing
//   - File name portability and length budget
//   - Playlist generation
package config
