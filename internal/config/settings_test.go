package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/tracktag/internal/audio"
	"github.com/handiism/tracktag/internal/codec"
	ioutils "github.com/handiism/tracktag/internal/io"
)

func TestDefaultSettingsAreValid(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.Validate())
	assert.GreaterOrEqual(t, s.Jobs, 1)
	assert.Equal(t, codec.BestCompression, s.CompressionLevel)
	assert.True(t, s.ReplayGain)
	assert.Equal(t, ExtractorMetaflac, s.PictureExtractor)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
jobs = 3
compression_level = 5
picture_extractor = "builtin"
create_playlist = true
playlist_format = "pls"
`), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Jobs)
	assert.Equal(t, 5, s.CompressionLevel)
	assert.Equal(t, ExtractorBuiltin, s.PictureExtractor)
	assert.Equal(t, audio.FormatPLS, s.Playlist())
	assert.Equal(t, "flac", s.FlacBinary)
	assert.True(t, s.ReplayGain)
}

func TestLoad_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown key":       "jbos = 2\n",
		"bad toml":          "jobs = \n",
		"bad enum":          "playlist_format = \"xspf\"\n",
		"out of range":      "compression_level = 9\n",
		"empty binary":      "flac_binary = \"\"\n",
		"bad encoding":      "filename_encoding = \"latin1\"\n",
		"zero jobs":         "jobs = 0\n",
		"tiny name budget":  "max_filename_bytes = 4\n",
		"negative cover px": "cover_max_size = -1\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestValidate_NamesTOMLKey(t *testing.T) {
	s := DefaultSettings()
	s.PlaylistFormat = "xspf"
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "playlist_format")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	s := DefaultSettings()
	s.CoverMaxSize = 800
	s.PortableNames = true
	require.NoError(t, s.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestConversions(t *testing.T) {
	s := DefaultSettings()
	s.PortableNames = true
	s.FilenameEncoding = "utf-16"
	s.MaxFilenameBytes = 128

	pc := s.ToPathConfig()
	assert.True(t, pc.Portable)
	assert.Equal(t, 128, pc.MaxNameBytes)
	assert.Equal(t, ioutils.EncodingUTF16, pc.Encoding)

	cc := s.ToCodecConfig()
	assert.Equal(t, "flac", cc.FlacBinary)
	assert.Equal(t, "metaflac", cc.MetaflacBinary)
	assert.Nil(t, cc.CompressionLevel, "default level maps to --best")

	s.CompressionLevel = 0
	require.NotNil(t, s.ToCodecConfig().CompressionLevel)
	assert.Equal(t, 0, *s.ToCodecConfig().CompressionLevel)

	assert.Len(t, s.Extractors(), 3)
	assert.Contains(t, DefaultPath(), filepath.Join("tracktag", "config.toml"))
}
