package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"

	"github.com/handiism/tracktag/internal/codec"
	ioutils "github.com/handiism/tracktag/internal/io"
	"github.com/handiism/tracktag/internal/model"
)

// CoverDirName is the scratch subdirectory holding extracted covers.
const CoverDirName = "covers"

// ErrNoEmbeddedPicture is returned for an MP3 cover without an attached
// picture.
var ErrNoEmbeddedPicture = errors.New("no attached picture")

// CoverMap maps a declared cover path to the file handed to the encoder.
type CoverMap map[string]string

// Lookup returns the physical cover for a declared cover path.
func (m CoverMap) Lookup(cover string) (string, bool) {
	path, ok := m[cover]
	return path, ok
}

// CoverOption configures a CoverResolver.
type CoverOption func(*CoverResolver)

// WithMaxSize shrinks covers larger than size pixels on either side.
// Zero disables resizing.
func WithMaxSize(size int) CoverOption {
	return func(r *CoverResolver) {
		r.maxSize = size
	}
}

// WithErrorHandler receives covers that could not be resolved. Those covers
// are left out of the map.
func WithErrorHandler(fn func(cover string, err error)) CoverOption {
	return func(r *CoverResolver) {
		r.onError = fn
	}
}

// CoverResolver decides which file is embedded as cover art for each track.
//
// Covers that are FLAC files have their embedded picture extracted once per
// path by a codec.PictureExtractor; MP3 covers have their ID3v2 attached
// picture extracted in-process. Other files are used as they are, or as a
// shrunk JPEG copy when a maximum size is set.
//
// Example:
//
//	resolver := NewCoverResolver(scratch.Root(), codec.Builtin{},
//	    WithMaxSize(1000),
//	    WithErrorHandler(func(cover string, err error) {
//	        log.Printf("could not extract cover art from %s: %v", cover, err)
//	    }))
//	covers := resolver.MapCovers(ctx, tree)
type CoverResolver struct {
	dir       string
	extractor codec.PictureExtractor
	images    *ioutils.ImageService
	maxSize   int
	onError   func(string, error)
}

// NewCoverResolver creates a CoverResolver writing below
// scratchDir/covers.
func NewCoverResolver(scratchDir string, extractor codec.PictureExtractor, opts ...CoverOption) *CoverResolver {
	r := &CoverResolver{
		dir:       filepath.Join(scratchDir, CoverDirName),
		extractor: extractor,
		images:    ioutils.NewImageService(),
		onError:   func(string, error) {},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MapCovers resolves the COVER of every track in tree. Each distinct cover
// is handled once.
func (r *CoverResolver) MapCovers(ctx context.Context, tree model.Tree) CoverMap {
	covers := make(CoverMap)
	failed := make(map[string]struct{})

	_ = tree.Walk(func(_ model.TrackID, f model.Fields) error {
		cover, ok := f[model.FieldCover]
		if !ok {
			return nil
		}
		if _, done := covers[cover]; done {
			return nil
		}
		if _, done := failed[cover]; done {
			return nil
		}

		path, err := r.resolve(ctx, cover)
		if err != nil {
			failed[cover] = struct{}{}
			r.onError(cover, err)
			return nil
		}
		covers[cover] = path
		return nil
	})
	return covers
}

func (r *CoverResolver) resolve(ctx context.Context, cover string) (string, error) {
	switch strings.ToLower(filepath.Ext(cover)) {
	case ".flac":
		return r.extract(ctx, cover, func(w io.Writer) error {
			return r.extractor.ExtractPicture(ctx, cover, w)
		})
	case ".mp3":
		return r.extract(ctx, cover, func(w io.Writer) error {
			return id3Picture(cover, w)
		})
	}

	path := cover
	if r.maxSize > 0 {
		var err error
		if path, err = r.shrink(ctx, cover); err != nil {
			return "", err
		}
	}
	if path == cover && strings.Contains(cover, "|") {
		return r.copy(ctx, cover)
	}
	return path, nil
}

// copy places cover in the cover directory. flac splits --picture
// specifications on '|', so such paths cannot be passed through.
func (r *CoverResolver) copy(ctx context.Context, cover string) (string, error) {
	if err := ioutils.EnsureDir(r.dir); err != nil {
		return "", err
	}
	file, err := os.CreateTemp(r.dir, "cover-*"+filepath.Ext(cover))
	if err != nil {
		return "", err
	}
	file.Close()
	if err := ioutils.CopyFile(ctx, cover, file.Name()); err != nil {
		os.Remove(file.Name())
		return "", err
	}
	return file.Name(), nil
}

// extract writes a picture into a fresh file of the cover directory.
func (r *CoverResolver) extract(ctx context.Context, cover string, write func(io.Writer) error) (string, error) {
	if err := ioutils.EnsureDir(r.dir); err != nil {
		return "", err
	}
	file, err := os.CreateTemp(r.dir, "cover-*")
	if err != nil {
		return "", err
	}

	if err := write(file); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", err
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", err
	}

	if r.maxSize <= 0 {
		return file.Name(), nil
	}
	return r.shrink(ctx, file.Name())
}

// shrink returns a resized JPEG copy of path when it exceeds the maximum
// size, and path itself otherwise.
func (r *CoverResolver) shrink(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	width, height, err := r.images.ImageSize(ctx, data)
	if err != nil {
		return "", fmt.Errorf("read cover size: %w", err)
	}
	if width <= r.maxSize && height <= r.maxSize {
		return path, nil
	}

	resized, err := r.images.ResizeImage(ctx, data, r.maxSize, r.maxSize)
	if err != nil {
		return "", fmt.Errorf("resize cover: %w", err)
	}
	if err := ioutils.EnsureDir(r.dir); err != nil {
		return "", err
	}
	file, err := os.CreateTemp(r.dir, "cover-*.jpg")
	if err != nil {
		return "", err
	}
	if _, err := file.Write(resized); err != nil {
		file.Close()
		return "", err
	}
	return file.Name(), file.Close()
}

// id3Picture writes the front cover of an MP3 file, or its first attached
// picture.
func id3Picture(path string, w io.Writer) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true, ParseFrames: []string{"Attached picture"}})
	if err != nil {
		return err
	}
	defer tag.Close()

	var chosen *id3v2.PictureFrame
	for _, frame := range tag.GetFrames(tag.CommonID("Attached picture")) {
		pic, ok := frame.(id3v2.PictureFrame)
		if !ok {
			continue
		}
		if chosen == nil || (chosen.PictureType != id3v2.PTFrontCover && pic.PictureType == id3v2.PTFrontCover) {
			chosen = &pic
		}
	}
	if chosen == nil {
		return fmt.Errorf("%s: %w", path, ErrNoEmbeddedPicture)
	}
	_, err = w.Write(chosen.Picture)
	return err
}
