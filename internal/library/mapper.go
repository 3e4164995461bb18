package library

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/handiism/tracktag/internal/model"
)

var sourceRe = regexp.MustCompile(`(?i)^.*?([0-9]+).*\.flac$`)

// TrackFiles maps every track to the name of its source file inside the
// track's INPUT directory.
type TrackFiles map[model.AlbumKey]map[model.DiscKey]map[int]string

// Lookup returns the source file name of id.
func (tf TrackFiles) Lookup(id model.TrackID) (string, bool) {
	name, ok := tf[id.Album][id.Disc][id.Number]
	return name, ok
}

func (tf TrackFiles) set(id model.TrackID, name string) {
	discs, ok := tf[id.Album]
	if !ok {
		discs = make(map[model.DiscKey]map[int]string)
		tf[id.Album] = discs
	}
	tracks, ok := discs[id.Disc]
	if !ok {
		tracks = make(map[int]string)
		discs[id.Disc] = tracks
	}
	tracks[id.Number] = name
}

// TrackNotFoundError is returned when no file in a track's input matches
// its number.
type TrackNotFoundError struct {
	ID         model.TrackID
	Dir        string
	DiscWidth  int
	TrackWidth int
}

func (e *TrackNotFoundError) Error() string {
	return fmt.Sprintf("could not find file for track %s", e.ID.Format(e.DiscWidth, e.TrackWidth))
}

// MapTracks finds the source file of every track in tree. Each INPUT
// directory is listed once, in name order; the first matching file wins.
func MapTracks(tree model.Tree) (TrackFiles, error) {
	padding := model.CalcPadding(tree)
	listings := make(map[string][]os.DirEntry)
	files := make(TrackFiles)

	err := tree.Walk(func(id model.TrackID, f model.Fields) error {
		dir := f[model.FieldInput]
		entries, ok := listings[dir]
		if !ok {
			var err error
			entries, err = os.ReadDir(dir)
			if err != nil {
				return fmt.Errorf("list input of %s: %w", id, err)
			}
			listings[dir] = entries
		}

		name, ok := match(entries, id.Number)
		if !ok {
			discWidth, trackWidth := padding.Widths(id)
			return &TrackNotFoundError{ID: id, Dir: dir, DiscWidth: discWidth, TrackWidth: trackWidth}
		}
		files.set(id, name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// SourcePath joins a track's INPUT with its mapped file name.
func SourcePath(fields model.Fields, name string) string {
	return filepath.Join(fields[model.FieldInput], name)
}

func match(entries []os.DirEntry, number int) (string, bool) {
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if n, ok := TrackNumberOf(entry.Name()); ok && n == number {
			return entry.Name(), true
		}
	}
	return "", false
}

// TrackNumberOf returns the first number in a FLAC file name.
func TrackNumberOf(name string) (int, bool) {
	m := sourceRe.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}
