package model

import (
	ioutils "github.com/handiism/tracktag/internal/io"
)

// UnknownAlbumDir is the directory used for tracks without an ALBUM.
const UnknownAlbumDir = "UnknownAlbum"

// PathConfig holds output naming settings.
//
// Example configuration:
//
//	cfg := &PathConfig{
//	    Portable:     true,                      // strip characters Windows rejects
//	    MaxNameBytes: ioutils.MaxFileNameBytes,
//	    Encoding:     ioutils.EncodingUTF8,
//	}
type PathConfig struct {
	// Portable additionally sanitizes names for Windows compatibility.
	Portable bool

	// MaxNameBytes is the file name budget; zero means MaxFileNameBytes.
	MaxNameBytes int

	// Encoding is used to measure the file name budget; empty means the
	// platform default.
	Encoding ioutils.NameEncoding
}

// DefaultPathConfig returns the naming rules of a plain run.
func DefaultPathConfig() *PathConfig {
	return &PathConfig{
		MaxNameBytes: ioutils.MaxFileNameBytes,
		Encoding:     ioutils.DefaultNameEncoding(),
	}
}

// WithDefaults returns a copy of c with unset limits filled in. A nil
// config yields DefaultPathConfig.
func (c *PathConfig) WithDefaults() *PathConfig {
	if c == nil {
		return DefaultPathConfig()
	}
	cfg := *c
	if cfg.MaxNameBytes <= 0 {
		cfg.MaxNameBytes = ioutils.MaxFileNameBytes
	}
	if cfg.Encoding == "" {
		cfg.Encoding = ioutils.DefaultNameEncoding()
	}
	return &cfg
}

// AlbumDir returns the directory name for an album.
//
// Example:
//
//	AlbumDir(NamedAlbum("AC/DC Live"), nil) // Returns "AC_DC Live"
//	AlbumDir(UnknownAlbum, nil)             // Returns "UnknownAlbum"
func AlbumDir(album AlbumKey, cfg *PathConfig) string {
	if !album.Known {
		return UnknownAlbumDir
	}
	name := ioutils.ReplaceSeparators(album.Name)
	if cfg != nil && cfg.Portable {
		name = ioutils.SanitizeFileName(name)
		if name == "" {
			name = UnknownAlbumDir
		}
	}
	return name
}
