package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/handiism/tracktag/internal/archive"
	"github.com/handiism/tracktag/internal/audio"
	"github.com/handiism/tracktag/internal/codec"
	ioutils "github.com/handiism/tracktag/internal/io"
	"github.com/handiism/tracktag/internal/model"
)

// Picture extractor names.
const (
	ExtractorMetaflac = "metaflac"
	ExtractorBuiltin  = "builtin"
)

// Settings holds all configuration options.
type Settings struct {
	// External tools
	FlacBinary     string `toml:"flac_binary" validate:"required"`
	MetaflacBinary string `toml:"metaflac_binary" validate:"required"`
	UnrarBinary    string `toml:"unrar_binary" validate:"required"`
	SevenZipBinary string `toml:"sevenzip_binary" validate:"required"`

	// Encoding
	Jobs             int  `toml:"jobs" validate:"gte=1,lte=512"`
	CompressionLevel int  `toml:"compression_level" validate:"gte=-1,lte=8"` // -1 is --best
	ReplayGain       bool `toml:"replay_gain"`
	VerifyOutput     bool `toml:"verify_output"`

	// Cover art
	PictureExtractor string `toml:"picture_extractor" validate:"oneof=metaflac builtin"`
	CoverMaxSize     int    `toml:"cover_max_size" validate:"gte=0"`

	// File naming
	PortableNames    bool   `toml:"portable_names"`
	MaxFilenameBytes int    `toml:"max_filename_bytes" validate:"gte=16,lte=1024"`
	FilenameEncoding string `toml:"filename_encoding" validate:"oneof=utf-8 utf-16"`

	// Playlist settings
	CreatePlaylist bool   `toml:"create_playlist"`
	PlaylistFormat string `toml:"playlist_format" validate:"oneof=m3u pls wpl zpl"` // m3u, pls, wpl, zpl
	M3UExtended    bool   `toml:"m3u_extended"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		FlacBinary:     "flac",
		MetaflacBinary: "metaflac",
		UnrarBinary:    "unrar",
		SevenZipBinary: "7za",

		Jobs:             runtime.NumCPU(),
		CompressionLevel: codec.BestCompression,
		ReplayGain:       true,
		VerifyOutput:     false,

		PictureExtractor: ExtractorMetaflac,
		CoverMaxSize:     0,

		PortableNames:    false,
		MaxFilenameBytes: ioutils.MaxFileNameBytes,
		FilenameEncoding: string(ioutils.DefaultNameEncoding()),

		CreatePlaylist: false,
		PlaylistFormat: "m3u",
		M3UExtended:    true,
	}
}

// DefaultPath returns the settings file used when none is given:
// $XDG_CONFIG_HOME/tracktag/config.toml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "tracktag", "config.toml")
}

// Load reads settings from a TOML file. A missing file yields the defaults;
// keys absent from the file keep their default value.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	settings := DefaultSettings()
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(settings); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return settings, nil
}

// Save writes settings to a TOML file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

var validate = validator.New()

// Validate checks value ranges and enumerations.
func (s *Settings) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, fmt.Sprintf("%s: %v does not satisfy %s", tomlName(fe.StructField()), fe.Value(), ruleText(fe)))
	}
	return fmt.Errorf("invalid settings: %s", strings.Join(problems, "; "))
}

func ruleText(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// tomlName converts a Go field name to its TOML key.
func tomlName(field string) string {
	if f, ok := settingsFields[field]; ok {
		return f
	}
	return field
}

var settingsFields = map[string]string{
	"FlacBinary":       "flac_binary",
	"MetaflacBinary":   "metaflac_binary",
	"UnrarBinary":      "unrar_binary",
	"SevenZipBinary":   "sevenzip_binary",
	"Jobs":             "jobs",
	"CompressionLevel": "compression_level",
	"PictureExtractor": "picture_extractor",
	"CoverMaxSize":     "cover_max_size",
	"MaxFilenameBytes": "max_filename_bytes",
	"FilenameEncoding": "filename_encoding",
	"PlaylistFormat":   "playlist_format",
}

// ToPathConfig converts settings to PathConfig.
func (s *Settings) ToPathConfig() *model.PathConfig {
	return &model.PathConfig{
		Portable:     s.PortableNames,
		MaxNameBytes: s.MaxFilenameBytes,
		Encoding:     ioutils.NameEncoding(s.FilenameEncoding),
	}
}

// ToCodecConfig converts settings to the flac tool configuration.
func (s *Settings) ToCodecConfig() codec.Config {
	return codec.Config{
		FlacBinary:       s.FlacBinary,
		MetaflacBinary:   s.MetaflacBinary,
		CompressionLevel: codec.Level(s.CompressionLevel),
	}
}

// Extractors returns the archive extractors for the configured binaries.
func (s *Settings) Extractors() map[string]archive.Extractor {
	return archive.DefaultExtractors(s.UnrarBinary, s.SevenZipBinary)
}

// Playlist returns the playlist format.
func (s *Settings) Playlist() audio.PlaylistFormat {
	format, err := audio.ParsePlaylistFormat(s.PlaylistFormat)
	if err != nil {
		return audio.FormatM3U
	}
	return format
}
