package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/tracktag/internal/config"
	"github.com/handiism/tracktag/internal/library"
	"github.com/handiism/tracktag/internal/model"
)

type fakeEncoder struct {
	mu       sync.Mutex
	calls    map[string][]string
	finished atomic.Int32
	fail     func(src string) bool
}

func (e *fakeEncoder) Transcode(ctx context.Context, src, dst string, args []string) error {
	defer e.finished.Add(1)
	time.Sleep(5 * time.Millisecond)

	e.mu.Lock()
	if e.calls == nil {
		e.calls = make(map[string][]string)
	}
	e.calls[dst] = args
	e.mu.Unlock()

	if e.fail != nil && e.fail(src) {
		return errors.New("flac: encoder exited with status 1")
	}
	return os.WriteFile(dst, []byte(src), 0o644)
}

type fakeNormalizer struct {
	mu      sync.Mutex
	batches [][]string
	// encodedAtCall records how many encodes had finished when each batch started.
	encodedAtCall []int32
	encoder       *fakeEncoder
	err           error
}

func (n *fakeNormalizer) AddReplayGain(ctx context.Context, files []string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.batches = append(n.batches, files)
	if n.encoder != nil {
		n.encodedAtCall = append(n.encodedAtCall, n.encoder.finished.Load())
	}
	return n.err
}

type eventLog struct {
	mu     sync.Mutex
	events []ProgressEvent
}

func (l *eventLog) add(e ProgressEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) messages(level ProgressLevel) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, e := range l.events {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

// newJob lays out one source directory per album with a file per track.
func newJob(t *testing.T, albums map[string][]int) Job {
	t.Helper()
	tree := model.Tree{}
	for name, tracks := range albums {
		input := filepath.Join(t.TempDir(), name)
		require.NoError(t, os.MkdirAll(input, 0o755))
		album := model.NamedAlbum(name)
		for _, n := range tracks {
			file := filepath.Join(input, strconv.Itoa(n)+" - src.flac")
			require.NoError(t, os.WriteFile(file, nil, 0o644))
			tree.Ensure(model.TrackID{Album: album, Disc: model.NoDisc, Number: n}, func() model.Fields {
				return model.Fields{
					model.FieldInput:       input,
					model.FieldAlbum:       name,
					model.FieldTitle:       "Song " + strconv.Itoa(n),
					model.FieldTrackNumber: strconv.Itoa(n),
				}
			})
		}
	}
	files, err := library.MapTracks(tree)
	require.NoError(t, err)
	return Job{
		OutputDir: t.TempDir(),
		Tree:      tree,
		Files:     files,
		Padding:   model.CalcPadding(tree),
	}
}

func testSettings() *config.Settings {
	s := config.DefaultSettings()
	s.Jobs = 4
	return s
}

func TestRunFailedTrackIsExcludedFromNormalization(t *testing.T) {
	job := newJob(t, map[string][]int{"Album": {1, 2, 3}})
	encoder := &fakeEncoder{fail: func(src string) bool { return strings.Contains(filepath.Base(src), "2 - ") }}
	normalizer := &fakeNormalizer{encoder: encoder}
	log := &eventLog{}

	report, err := NewRunner(testSettings(), encoder, normalizer, log.add).Run(context.Background(), job)
	require.NoError(t, err)

	require.Len(t, report.Tracks, 3)
	assert.Equal(t, StateTagged, report.Tracks[0].State)
	assert.Equal(t, StateFailed, report.Tracks[1].State)
	assert.Error(t, report.Tracks[1].Err)
	assert.Equal(t, StateTagged, report.Tracks[2].State)
	assert.False(t, report.OK())
	assert.Equal(t, 1, report.FailedTracks())
	assert.Equal(t, 0, report.FailedAlbums())

	require.Len(t, normalizer.batches, 1)
	albumDir := filepath.Join(job.OutputDir, "Album")
	assert.Equal(t, []string{
		filepath.Join(albumDir, "1. Song 1.flac"),
		filepath.Join(albumDir, "3. Song 3.flac"),
	}, normalizer.batches[0])

	assert.Contains(t, log.messages(LevelInfo), `"Album":#1 → 1. Song 1.flac`)

	errs := log.messages(LevelError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Problem creating output '"+filepath.Join(albumDir, "2. Song 2.flac")+"'")
}

func TestRunNormalizesOnlyAfterEveryEncode(t *testing.T) {
	job := newJob(t, map[string][]int{"A": {1, 2, 3, 4}, "B": {1, 2, 3, 4, 5}})
	encoder := &fakeEncoder{}
	normalizer := &fakeNormalizer{encoder: encoder}

	settings := testSettings()
	settings.Jobs = 2
	report, err := NewRunner(settings, encoder, normalizer, nil).Run(context.Background(), job)
	require.NoError(t, err)
	assert.True(t, report.OK())

	require.Len(t, normalizer.encodedAtCall, 2)
	for _, n := range normalizer.encodedAtCall {
		assert.Equal(t, int32(9), n)
	}
}

func TestRunAlbumWithoutOutputsIsSkipped(t *testing.T) {
	job := newJob(t, map[string][]int{"Good": {1}, "Bad": {1}})
	encoder := &fakeEncoder{fail: func(src string) bool { return strings.Contains(src, "Bad") }}
	normalizer := &fakeNormalizer{}
	log := &eventLog{}

	report, err := NewRunner(testSettings(), encoder, normalizer, log.add).Run(context.Background(), job)
	require.NoError(t, err)

	require.Len(t, report.Albums, 2)
	assert.Equal(t, model.NamedAlbum("Bad"), report.Albums[0].Album)
	assert.True(t, report.Albums[0].Skipped)
	assert.False(t, report.Albums[1].Skipped)
	require.Len(t, normalizer.batches, 1)

	assert.Contains(t, log.messages(LevelWarning), `No files in "Bad" to add ReplayGain tags to!`)
}

func TestRunNormalizerFailureIsPerAlbum(t *testing.T) {
	job := newJob(t, map[string][]int{"A": {1}})
	normalizer := &fakeNormalizer{err: errors.New("metaflac: cannot analyse")}

	report, err := NewRunner(testSettings(), &fakeEncoder{}, normalizer, nil).Run(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, 0, report.FailedTracks())
	assert.Equal(t, 1, report.FailedAlbums())
	assert.EqualError(t, report.Albums[0].Err, "metaflac: cannot analyse")
}

func TestRunWithoutReplayGain(t *testing.T) {
	job := newJob(t, map[string][]int{"A": {1, 2}})
	normalizer := &fakeNormalizer{}
	settings := testSettings()
	settings.ReplayGain = false

	report, err := NewRunner(settings, &fakeEncoder{}, normalizer, nil).Run(context.Background(), job)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Empty(t, normalizer.batches)
}

func TestRunPassesTagArguments(t *testing.T) {
	job := newJob(t, map[string][]int{"A": {7}})
	encoder := &fakeEncoder{}

	_, err := NewRunner(testSettings(), encoder, &fakeNormalizer{}, nil).Run(context.Background(), job)
	require.NoError(t, err)

	args := encoder.calls[filepath.Join(job.OutputDir, "A", "7. Song 7.flac")]
	assert.Equal(t, []string{"--tag=ALBUM=A", "--tag=TITLE=Song 7", "--tag=TRACKNUMBER=7"}, args)
}

func TestRunVerifyFailureMarksTrackFailed(t *testing.T) {
	job := newJob(t, map[string][]int{"A": {1}})
	settings := testSettings()
	settings.VerifyOutput = true
	normalizer := &fakeNormalizer{}

	runner := NewRunner(settings, &fakeEncoder{}, normalizer, nil)
	runner.verify = func(path string, fields model.Fields) error {
		return errors.New("TITLE missing")
	}
	report, err := runner.Run(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, StateFailed, report.Tracks[0].State)
	assert.True(t, report.Albums[0].Skipped)
	assert.Empty(t, normalizer.batches)
}

func TestRunWritesPlaylist(t *testing.T) {
	job := newJob(t, map[string][]int{"A": {1, 2}})
	settings := testSettings()
	settings.CreatePlaylist = true

	runner := NewRunner(settings, &fakeEncoder{}, &fakeNormalizer{}, nil)
	runner.duration = func(string) (time.Duration, error) { return 90 * time.Second, nil }
	report, err := runner.Run(context.Background(), job)
	require.NoError(t, err)

	path := filepath.Join(job.OutputDir, "A", "A.m3u")
	assert.Equal(t, path, report.Albums[0].Playlist)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "#EXTINF:90,Song 1")
	assert.Contains(t, string(data), "\n2. Song 2.flac\n")
}

func TestPrepareMissingSource(t *testing.T) {
	job := newJob(t, map[string][]int{"A": {1}})
	job.Files = library.TrackFiles{}

	_, err := NewRunner(testSettings(), &fakeEncoder{}, &fakeNormalizer{}, nil).Prepare(job)
	assert.ErrorContains(t, err, "no source file mapped")
}

func TestPrepareOrdersUnits(t *testing.T) {
	job := newJob(t, map[string][]int{"B": {2, 1}, "A": {10, 9}})

	plan, err := NewRunner(testSettings(), &fakeEncoder{}, &fakeNormalizer{}, nil).Prepare(job)
	require.NoError(t, err)

	var labels []string
	for _, u := range plan.Units {
		labels = append(labels, u.Label())
	}
	assert.Equal(t, []string{`"A":#09`, `"A":#10`, `"B":#1`, `"B":#2`}, labels)
	assert.Equal(t, filepath.Join(job.OutputDir, "A", "09. Song 9.flac"), plan.Units[0].Output)
}

func TestPrepareRejectsCollidingOutputs(t *testing.T) {
	job := newJob(t, map[string][]int{"A/B": {1}, "A_B": {1}})
	encoder := &fakeEncoder{}

	_, err := NewRunner(testSettings(), encoder, &fakeNormalizer{}, nil).Run(context.Background(), job)
	require.ErrorIs(t, err, ErrOutputCollision)
	assert.ErrorContains(t, err, filepath.Join(job.OutputDir, "A_B", "1. Song 1.flac"))
	assert.Empty(t, encoder.calls, "nothing is encoded")
}

func TestPrepareRejectsSharedAlbumDirectory(t *testing.T) {
	job := newJob(t, map[string][]int{"A/B": {1}, "A_B": {2}})

	_, err := NewRunner(testSettings(), &fakeEncoder{}, &fakeNormalizer{}, nil).Prepare(job)
	require.ErrorIs(t, err, ErrOutputCollision)
	assert.ErrorContains(t, err, `"A/B" and "A_B" both write to`)
}

func TestRunCancelled(t *testing.T) {
	job := newJob(t, map[string][]int{"A": {1}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(testSettings(), &fakeEncoder{}, &fakeNormalizer{}, nil).Run(ctx, job)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGetProgress(t *testing.T) {
	job := newJob(t, map[string][]int{"A": {1, 2, 3}})
	runner := NewRunner(testSettings(), &fakeEncoder{}, &fakeNormalizer{}, nil)
	_, err := runner.Run(context.Background(), job)
	require.NoError(t, err)

	done, total := runner.GetProgress()
	assert.Equal(t, int32(3), done)
	assert.Equal(t, int32(3), total)
}
