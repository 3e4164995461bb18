package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/handiism/tracktag/internal/audio"
	"github.com/handiism/tracktag/internal/library"
	"github.com/handiism/tracktag/internal/model"
)

// ErrOutputCollision is returned by Prepare when two tracks would write the
// same file or two albums would share a directory.
var ErrOutputCollision = errors.New("output path collision")

// Job is everything the Runner needs. All maps are read-only during a run.
type Job struct {
	OutputDir string
	Tree      model.Tree
	Files     library.TrackFiles
	Covers    audio.CoverMap
	Padding   model.Padding
}

// Unit is the phase 1 work of one track.
type Unit struct {
	ID         model.TrackID
	Fields     model.Fields
	Source     string
	Output     string
	DiscWidth  int
	TrackWidth int
	Truncated  bool
}

// Label formats the track as "Album":#d.t with its padding.
func (u *Unit) Label() string {
	return u.ID.Format(u.DiscWidth, u.TrackWidth)
}

// Plan lists the units of a job in album, disc and track order.
type Plan struct {
	Units     []*Unit
	Albums    []model.AlbumKey
	AlbumDirs map[model.AlbumKey]string
}

// Prepare computes sources and output paths for every track of job.
// Truncated names are reported as warnings.
func (r *Runner) Prepare(job Job) (*Plan, error) {
	plan := &Plan{
		Albums:    job.Tree.Albums(),
		AlbumDirs: make(map[model.AlbumKey]string),
	}
	outputs := make(map[string]*Unit)
	dirOwners := make(map[string]model.AlbumKey)

	err := job.Tree.Walk(func(id model.TrackID, fields model.Fields) error {
		name, ok := job.Files.Lookup(id)
		if !ok {
			return fmt.Errorf("no source file mapped for track %s", id)
		}
		discWidth, trackWidth := job.Padding.Widths(id)
		output, truncated, err := model.OutputPath(job.OutputDir, fields, discWidth, trackWidth, r.paths)
		if err != nil {
			return err
		}

		unit := &Unit{
			ID:         id,
			Fields:     fields,
			Source:     library.SourcePath(fields, name),
			Output:     output,
			DiscWidth:  discWidth,
			TrackWidth: trackWidth,
			Truncated:  truncated,
		}
		if truncated {
			r.progress(ProgressEvent{
				Message: fmt.Sprintf("File name for %s has been truncated to '%s'", unit.Label(), filepath.Base(output)),
				Level:   LevelWarning,
			})
		}
		if prev, ok := outputs[output]; ok {
			return fmt.Errorf("%w: %s and %s both write %s", ErrOutputCollision, prev.Label(), unit.Label(), output)
		}
		outputs[output] = unit

		dir := filepath.Dir(output)
		if owner, ok := dirOwners[dir]; ok && owner != id.Album {
			return fmt.Errorf("%w: %s and %s both write to %s", ErrOutputCollision, albumLabel(owner), albumLabel(id.Album), dir)
		}
		dirOwners[dir] = id.Album

		plan.Units = append(plan.Units, unit)
		plan.AlbumDirs[id.Album] = dir
		return nil
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}
