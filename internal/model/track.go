package model

import (
	"fmt"
	"path/filepath"
	"strconv"

	ioutils "github.com/handiism/tracktag/internal/io"
)

// OutputExt is the extension of every produced file.
const OutputExt = ".flac"

// FileName builds the output file name of a track before truncation.
//
// The name is the zero-padded disc number and a dot (when the track has a
// disc), the zero-padded track number, then ". Artist - Title", ". Title" or
// ". Artist" depending on which fields are set:
//
//	1.01. The Beatles - Come Together.flac
//	07. Interlude.flac
func FileName(fields Fields, discWidth, trackWidth int) string {
	var name string
	if disc, ok := fields[FieldDiscNumber]; ok {
		name += padField(disc, discWidth) + "."
	}
	name += padField(fields[FieldTrackNumber], trackWidth)

	title, hasTitle := fields[FieldTitle]
	artist, hasArtist := fields[FieldArtist]
	switch {
	case hasTitle && hasArtist:
		name += ". " + artist + " - " + title
	case hasTitle:
		name += ". " + title
	case hasArtist:
		name += ". " + artist
	}
	return ioutils.ReplaceSeparators(name) + OutputExt
}

// OutputPath computes the destination of a track below outDir. It is a pure
// function of its inputs. The boolean result reports whether the file name
// had to be truncated to fit the filesystem budget.
func OutputPath(outDir string, fields Fields, discWidth, trackWidth int, cfg *PathConfig) (string, bool, error) {
	cfg = cfg.WithDefaults()

	name := FileName(fields, discWidth, trackWidth)
	if cfg.Portable {
		name = ioutils.SanitizeFileName(name)
	}
	name, truncated, err := ioutils.TruncateFileName(name, cfg.MaxNameBytes, cfg.Encoding)
	if err != nil {
		return "", false, fmt.Errorf("output name for %s: %w", fields.id(), err)
	}

	return filepath.Join(outDir, AlbumDir(fields.Album(), cfg), name), truncated, nil
}

func (f Fields) id() TrackID {
	return TrackID{Album: f.Album(), Disc: f.Disc(), Number: f.TrackNumber()}
}

func padField(value string, width int) string {
	n, err := strconv.Atoi(value)
	if err != nil {
		return value
	}
	return zeroPad(n, width)
}
