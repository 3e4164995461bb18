package codec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	flac "github.com/go-flac/go-flac"
)

// ErrNoPicture is returned when a FLAC file has no embedded picture.
var ErrNoPicture = errors.New("no embedded picture")

// PictureExtractor writes the embedded picture of a FLAC file to w.
type PictureExtractor interface {
	ExtractPicture(ctx context.Context, src string, w io.Writer) error
}

// readMetadata parses the metadata blocks of path without reading frames.
func readMetadata(path string) (*flac.File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return flac.ParseMetadata(fh)
}

// Builtin extracts pictures with go-flac instead of metaflac.
type Builtin struct{}

// ExtractPicture writes the front cover of src, or its first picture when
// none is marked as front cover.
func (Builtin) ExtractPicture(ctx context.Context, src string, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := readMetadata(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}

	var chosen *flacpicture.MetadataBlockPicture
	for _, block := range f.Meta {
		if block.Type != flac.Picture {
			continue
		}
		pic, err := flacpicture.ParseFromMetaDataBlock(*block)
		if err != nil {
			return fmt.Errorf("read picture of %s: %w", src, err)
		}
		if chosen == nil || (chosen.PictureType != flacpicture.PictureTypeFrontCover && pic.PictureType == flacpicture.PictureTypeFrontCover) {
			chosen = pic
		}
	}
	if chosen == nil {
		return fmt.Errorf("%s: %w", src, ErrNoPicture)
	}
	_, err = w.Write(chosen.ImageData)
	return err
}

// Duration returns the play time recorded in the STREAMINFO block of path.
func Duration(path string) (time.Duration, error) {
	f, err := readMetadata(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	info, err := f.GetStreamInfo()
	if err != nil {
		return 0, fmt.Errorf("read stream info of %s: %w", path, err)
	}
	if info.SampleRate <= 0 {
		return 0, nil
	}
	return time.Duration(info.SampleCount) * time.Second / time.Duration(info.SampleRate), nil
}

// Comment returns the values of a Vorbis comment field of path.
func Comment(path, field string) ([]string, error) {
	f, err := readMetadata(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	for _, block := range f.Meta {
		if block.Type != flac.VorbisComment {
			continue
		}
		cmt, err := flacvorbis.ParseFromMetaDataBlock(*block)
		if err != nil {
			return nil, fmt.Errorf("read comments of %s: %w", path, err)
		}
		return cmt.Get(field)
	}
	return nil, nil
}
