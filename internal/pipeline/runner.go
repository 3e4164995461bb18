package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/handiism/tracktag/internal/audio"
	"github.com/handiism/tracktag/internal/codec"
	"github.com/handiism/tracktag/internal/config"
	ioutils "github.com/handiism/tracktag/internal/io"
	"github.com/handiism/tracktag/internal/model"
)

// Encoder produces one tagged output file from a source file.
type Encoder interface {
	Transcode(ctx context.Context, src, dst string, args []string) error
}

// Normalizer adds album loudness tags to the files of one album.
type Normalizer interface {
	AddReplayGain(ctx context.Context, files []string) error
}

// Runner coordinates the two encoding phases.
type Runner struct {
	settings   *config.Settings
	encoder    Encoder
	normalizer Normalizer
	paths      *model.PathConfig
	playlist   *audio.PlaylistCreator

	verify   func(path string, fields model.Fields) error
	duration func(path string) (time.Duration, error)

	totalTracks int32
	doneTracks  int32

	onProgress func(ProgressEvent)
}

// NewRunner creates a new Runner.
func NewRunner(settings *config.Settings, encoder Encoder, normalizer Normalizer, onProgress func(ProgressEvent)) *Runner {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	return &Runner{
		settings:   settings,
		encoder:    encoder,
		normalizer: normalizer,
		paths:      settings.ToPathConfig().WithDefaults(),
		playlist:   audio.NewPlaylistCreator(settings.Playlist(), settings.M3UExtended),
		verify:     audio.VerifyOutput,
		duration:   codec.Duration,
		onProgress: onProgress,
	}
}

// Run prepares the job, runs phase 1 over every track and, after all of
// them have finished, phase 2 over every album. Per-track and per-album
// failures are recorded in the Report; the error is non-nil only when the
// run could not start or ctx was cancelled.
func (r *Runner) Run(ctx context.Context, job Job) (*Report, error) {
	plan, err := r.Prepare(job)
	if err != nil {
		return nil, err
	}
	if err := r.makeAlbumDirs(plan); err != nil {
		return nil, err
	}

	r.progress(ProgressEvent{Message: "Compressing ...", Level: LevelInfo})
	report := &Report{Tracks: r.Encode(ctx, plan, audio.NewTagger(job.Covers))}
	report.Albums = r.Normalize(ctx, plan, report.Tracks)

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// GetProgress returns how many tracks finished phase 1.
func (r *Runner) GetProgress() (done, total int32) {
	return atomic.LoadInt32(&r.doneTracks), atomic.LoadInt32(&r.totalTracks)
}

func (r *Runner) makeAlbumDirs(plan *Plan) error {
	for _, album := range plan.Albums {
		dir := plan.AlbumDirs[album]
		if err := ioutils.EnsureDir(dir); err != nil {
			return fmt.Errorf("create album directory: %w", err)
		}
		r.progress(ProgressEvent{Message: fmt.Sprintf("Created album directory: %s", dir), Level: LevelVerbose})
	}
	return nil
}

// Encode runs phase 1 and returns one result per unit, in plan order. It
// returns only after every unit has finished.
func (r *Runner) Encode(ctx context.Context, plan *Plan, tagger *audio.Tagger) []TrackResult {
	results := make([]TrackResult, len(plan.Units))
	atomic.StoreInt32(&r.totalTracks, int32(len(plan.Units)))
	atomic.StoreInt32(&r.doneTracks, 0)

	var g errgroup.Group
	g.SetLimit(max(r.settings.Jobs, 1))

	for i, unit := range plan.Units {
		results[i] = TrackResult{ID: unit.ID, Output: unit.Output, State: StatePending}
		g.Go(func() error {
			results[i] = r.encodeTrack(ctx, unit, tagger)
			atomic.AddInt32(&r.doneTracks, 1)
			return nil // Continue with other tracks
		})
	}

	_ = g.Wait()
	return results
}

func (r *Runner) encodeTrack(ctx context.Context, unit *Unit, tagger *audio.Tagger) TrackResult {
	result := TrackResult{ID: unit.ID, Output: unit.Output, State: StateTranscoding}
	r.progress(ProgressEvent{
		Message: fmt.Sprintf("%s → %s", unit.Label(), filepath.Base(unit.Output)),
		Level:   LevelInfo,
		Track:   &TrackUpdate{ID: unit.ID, Output: unit.Output, State: StateTranscoding},
	})

	if _, ok := unit.Fields[model.FieldCover]; ok && !tagger.HasPicture(unit.Fields) {
		r.progress(ProgressEvent{Message: fmt.Sprintf("Encoding %s without cover art", unit.Label()), Level: LevelVerbose})
	}

	err := r.encoder.Transcode(ctx, unit.Source, unit.Output, tagger.Args(unit.Fields))
	if err == nil && r.settings.VerifyOutput {
		err = r.verify(unit.Output, unit.Fields)
	}
	if err != nil {
		result.State = StateFailed
		result.Err = err
		r.progress(ProgressEvent{
			Message: fmt.Sprintf("Problem creating output '%s': %v", unit.Output, err),
			Level:   LevelError,
			Track:   &TrackUpdate{ID: unit.ID, Output: unit.Output, State: StateFailed},
		})
		return result
	}

	result.State = StateTagged
	r.progress(ProgressEvent{
		Message: fmt.Sprintf("Created: %s", filepath.Base(unit.Output)),
		Level:   LevelVerbose,
		Track:   &TrackUpdate{ID: unit.ID, Output: unit.Output, State: StateTagged},
	})
	return result
}

// Normalize runs phase 2: one unit per album over the files that phase 1
// produced, followed by the album playlist when enabled.
func (r *Runner) Normalize(ctx context.Context, plan *Plan, tracks []TrackResult) []AlbumResult {
	byAlbum := make(map[model.AlbumKey][]int)
	for i, t := range tracks {
		if t.State == StateTagged {
			byAlbum[t.ID.Album] = append(byAlbum[t.ID.Album], i)
		}
	}

	results := make([]AlbumResult, len(plan.Albums))
	var g errgroup.Group
	g.SetLimit(max(r.settings.Jobs, 1))

	for i, album := range plan.Albums {
		results[i] = AlbumResult{Album: album}
		indexes := byAlbum[album]
		if len(indexes) == 0 {
			results[i].Skipped = true
			r.progress(ProgressEvent{
				Message: fmt.Sprintf("No files in %s to add ReplayGain tags to!", albumLabel(album)),
				Level:   LevelWarning,
			})
			continue
		}

		files := make([]string, len(indexes))
		for j, idx := range indexes {
			files[j] = tracks[idx].Output
		}
		results[i].Files = files

		g.Go(func() error {
			r.finishAlbum(ctx, plan, &results[i], tracks, indexes)
			return nil // Continue with other albums
		})
	}

	_ = g.Wait()
	return results
}

func (r *Runner) finishAlbum(ctx context.Context, plan *Plan, result *AlbumResult, tracks []TrackResult, indexes []int) {
	if r.settings.ReplayGain {
		r.progress(ProgressEvent{Message: fmt.Sprintf("Adding ReplayGain tags to %s ...", albumLabel(result.Album)), Level: LevelInfo})
		if err := r.normalizer.AddReplayGain(ctx, result.Files); err != nil {
			result.Err = err
			r.progress(ProgressEvent{
				Message: fmt.Sprintf("Problem adding ReplayGain tags to %s: %v", albumLabel(result.Album), err),
				Level:   LevelError,
			})
			return
		}
	}

	if r.settings.CreatePlaylist {
		path, err := r.writePlaylist(plan, result.Album, tracks, indexes)
		if err != nil {
			r.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: LevelWarning})
		} else {
			result.Playlist = path
			r.progress(ProgressEvent{Message: fmt.Sprintf("Created playlist for %s", albumLabel(result.Album)), Level: LevelSuccess})
		}
	}

	r.progress(ProgressEvent{Message: fmt.Sprintf("Finished %s", albumLabel(result.Album)), Level: LevelSuccess})
}

func (r *Runner) writePlaylist(plan *Plan, album model.AlbumKey, tracks []TrackResult, indexes []int) (string, error) {
	unitsByOutput := make(map[string]*Unit, len(plan.Units))
	for _, u := range plan.Units {
		unitsByOutput[u.Output] = u
	}

	dir := plan.AlbumDirs[album]
	content := &audio.PlaylistAlbum{Title: album.Name}
	if !album.Known {
		content.Title = model.UnknownAlbumDir
	}
	for _, idx := range indexes {
		out := tracks[idx].Output
		fields := unitsByOutput[out].Fields
		duration, err := r.duration(out)
		if err != nil {
			r.progress(ProgressEvent{Message: fmt.Sprintf("Could not read duration of %s: %v", filepath.Base(out), err), Level: LevelVerbose})
		}
		content.Tracks = append(content.Tracks, audio.PlaylistTrack{
			Path:     out,
			Title:    fields[model.FieldTitle],
			Artist:   fields[model.FieldArtist],
			Duration: duration,
		})
	}

	name, _, err := ioutils.TruncateFileName(filepath.Base(dir)+r.settings.Playlist().Extension(), r.paths.MaxNameBytes, r.paths.Encoding)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := r.playlist.WritePlaylist(file, content); err != nil {
		file.Close()
		return "", err
	}
	return path, file.Close()
}

func (r *Runner) progress(event ProgressEvent) {
	if r.onProgress != nil {
		r.onProgress(event)
	}
}

func albumLabel(album model.AlbumKey) string {
	if !album.Known {
		return "unknown album"
	}
	return fmt.Sprintf("%q", album.Name)
}
