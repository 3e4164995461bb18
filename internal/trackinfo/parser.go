package trackinfo

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/handiism/tracktag/internal/archive"
	"github.com/handiism/tracktag/internal/model"
)

// ScanInputs checks the whole manifest and returns its distinct INPUT
// paths, absolute and cleaned, in the order they first appear. Relative
// paths are taken relative to baseDir.
//
// Every line is validated here, so a malformed manifest is rejected before
// any archive is expanded.
func ScanInputs(r io.Reader, baseDir string) ([]string, error) {
	var inputs []string
	seen := make(map[string]struct{})

	err := eachEntry(r, func(e entry) error {
		if e.kind != KindInput || e.value == "" {
			return nil
		}
		path := resolvePath(baseDir, e.value)
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			inputs = append(inputs, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inputs, nil
}

// ScanInputsFile runs ScanInputs on the manifest at path.
func ScanInputsFile(path string) ([]string, error) {
	f, baseDir, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ScanInputs(f, baseDir)
}

// Parse reads a manifest into a model.Tree. INPUT values are looked up in
// inputs, which must hold every path ScanInputs returned. warn receives
// advisory messages and may be nil.
func Parse(r io.Reader, baseDir string, inputs archive.InputMap, warn func(string)) (model.Tree, error) {
	if warn == nil {
		warn = func(string) {}
	}
	st := &state{
		baseDir: baseDir,
		inputs:  inputs,
		warn:    warn,
		global:  model.Fields{},
		tree:    model.Tree{},
	}

	if err := eachEntry(r, st.apply); err != nil {
		return nil, err
	}
	if err := st.checkInputs(); err != nil {
		return nil, err
	}
	return st.tree, nil
}

// ParseFile runs Parse on the manifest at path, resolving relative paths
// against the manifest's directory.
func ParseFile(path string, inputs archive.InputMap, warn func(string)) (model.Tree, error) {
	f, baseDir, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, baseDir, inputs, warn)
}

func open(path string) (*os.File, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, "", fmt.Errorf("open trackinfo: %w", err)
	}
	return f, filepath.Dir(abs), nil
}

// state is the running parser state. global holds the document scope that
// new tracks copy; it also decides the album and disc they are filed under.
type state struct {
	baseDir string
	inputs  archive.InputMap
	warn    func(string)

	global model.Fields
	tree   model.Tree
}

func (s *state) apply(e entry) error {
	if !model.IsStandardField(e.key) {
		s.warn(fmt.Sprintf("line %d: '%s' is not a standard key", e.line, e.key))
	}

	dst := s.global
	if e.hasTrack {
		dst = s.track(e)
	}

	if e.value == "" {
		delete(dst, e.key)
		return nil
	}

	switch e.kind {
	case KindInput:
		path := resolvePath(s.baseDir, e.value)
		physical, ok := s.inputs[path]
		if !ok {
			return &UnresolvedInputError{Line: e.line, Path: path}
		}
		dst[e.key] = physical
	case KindCover:
		dst[e.key] = s.coverPath(dst, e.value)
	case KindDiscNumber:
		disc, _ := parseDisc(e.value)
		dst[e.key] = strconv.Itoa(disc.Number)
	default:
		dst[e.key] = e.value
	}
	return nil
}

// track returns the record a track-scoped entry writes to, creating it from
// a copy of the document scope on first reference. ALBUM and DISCNUMBER
// entries file the track under their own value instead of the running one.
func (s *state) track(e entry) model.Fields {
	album := s.global.Album()
	disc := s.global.Disc()
	switch e.kind {
	case KindAlbum:
		album = model.NamedAlbum(e.value)
	case KindDiscNumber:
		disc, _ = parseDisc(e.value)
	}

	id := model.TrackID{Album: album, Disc: disc, Number: e.track}
	return s.tree.Ensure(id, func() model.Fields {
		f := s.global.Clone()
		f[model.FieldTrackNumber] = strconv.Itoa(e.track)
		return f
	})
}

// coverPath resolves a COVER value: absolute paths are kept, otherwise the
// path is relative to the record's INPUT or, without one, to the manifest.
func (s *state) coverPath(dst model.Fields, value string) string {
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	if input, ok := dst[model.FieldInput]; ok {
		return filepath.Join(input, value)
	}
	return filepath.Join(s.baseDir, value)
}

func (s *state) checkInputs() error {
	return s.tree.Walk(func(id model.TrackID, f model.Fields) error {
		if _, ok := f[model.FieldInput]; !ok {
			return &ValidationError{Msg: fmt.Sprintf("track %s has no INPUT", id)}
		}
		return nil
	})
}

func resolvePath(baseDir, value string) string {
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(baseDir, value)
}
