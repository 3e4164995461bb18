package session

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/tracktag/internal/config"
	"github.com/handiism/tracktag/internal/library"
	"github.com/handiism/tracktag/internal/model"
	"github.com/handiism/tracktag/internal/pipeline"
	"github.com/handiism/tracktag/internal/trackinfo"
	"github.com/handiism/tracktag/internal/workspace"
)

type events struct {
	mu   sync.Mutex
	list []pipeline.ProgressEvent
}

func (e *events) add(ev pipeline.ProgressEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.list = append(e.list, ev)
}

func (e *events) at(level pipeline.ProgressLevel) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []string
	for _, ev := range e.list {
		if ev.Level == level {
			out = append(out, ev.Message)
		}
	}
	return out
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeZip(t *testing.T, path string, names ...string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	for _, name := range names {
		_, err := w.Create(name)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
}

func newManager(t *testing.T, ev *events) *Manager {
	t.Helper()
	m := NewManager(config.DefaultSettings(), ev.add, WithScratchParent(t.TempDir()))
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestInitializeBuildsTrackMap(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "cd1", "01 Intro.flac"), "")
	writeFile(t, filepath.Join(dir, "cd1", "02 Song.flac"), "")
	writeZip(t, filepath.Join(dir, "cd2.zip"), "Disc 2/01 Other.flac")
	writeFile(t, filepath.Join(dir, "trackinfo.txt"), `ALBUM=Live
DISCNUMBER=1
INPUT=cd1
TITLE[1]=Intro
TITLE[2]=Song
DISCNUMBER=2
INPUT=cd2.zip
TITLE[1]=Other
VERSION=1
`)

	ev := &events{}
	m := newManager(t, ev)
	require.NoError(t, m.Initialize(context.Background(), filepath.Join(dir, "trackinfo.txt"), t.TempDir()))

	entries := m.TrackMap()
	require.Len(t, entries, 3)
	assert.Equal(t, `"Live":#1.1`, entries[0].Label)
	assert.Equal(t, filepath.Join(dir, "cd1", "01 Intro.flac"), entries[0].Source)
	assert.Equal(t, `"Live":#2.1`, entries[2].Label)
	assert.Equal(t, "01 Other.flac", filepath.Base(entries[2].Source))
	assert.True(t, filepath.IsAbs(entries[2].Source))
	assert.NotContains(t, entries[2].Source, dir, "archive tracks are read from the scratch directory")

	assert.Equal(t, []string{"Live"}, m.GetAlbumNames())
	assert.Contains(t, ev.at(pipeline.LevelWarning), "line 9: 'VERSION' is not a standard key")
	assert.Contains(t, ev.at(pipeline.LevelInfo), "Found 3 track(s) in 1 album(s)")
}

func TestInitializeValidatesBeforeExtracting(t *testing.T) {
	dir := t.TempDir()
	writeZip(t, filepath.Join(dir, "src.zip"), "01.flac")
	writeFile(t, filepath.Join(dir, "trackinfo.txt"), `INPUT=src.zip
TITLE[1]=A
DISCNUMBER=one
`)

	ev := &events{}
	m := newManager(t, ev)
	err := m.Initialize(context.Background(), filepath.Join(dir, "trackinfo.txt"), t.TempDir())

	var verr *trackinfo.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 3, verr.Line)
	for _, msg := range ev.at(pipeline.LevelVerbose) {
		assert.NotContains(t, msg, "Extracting")
	}
}

func TestInitializeMissingTrack(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "01.flac"), "")
	writeFile(t, filepath.Join(dir, "trackinfo.txt"), "INPUT=src\nTITLE[1]=A\nTITLE[2]=B\n")

	m := newManager(t, &events{})
	err := m.Initialize(context.Background(), filepath.Join(dir, "trackinfo.txt"), t.TempDir())

	var nf *library.TrackNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, model.TrackID{Number: 2}, nf.ID)
}

func TestStartRequiresInitialize(t *testing.T) {
	m := newManager(t, &events{})
	_, err := m.Start(context.Background())
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestStartRefusesLockedOutput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "01.flac"), "")
	writeFile(t, filepath.Join(dir, "trackinfo.txt"), "INPUT=src\nTITLE[1]=A\n")
	out := t.TempDir()

	m := newManager(t, &events{})
	require.NoError(t, m.Initialize(context.Background(), filepath.Join(dir, "trackinfo.txt"), out))

	held, err := workspace.LockOutput(out)
	require.NoError(t, err)
	defer held.Unlock()

	_, err = m.Start(context.Background())
	assert.True(t, errors.Is(err, workspace.ErrOutputLocked), "got %v", err)
}

func TestCloseRemovesScratch(t *testing.T) {
	dir := t.TempDir()
	writeZip(t, filepath.Join(dir, "src.zip"), "01.flac")
	writeFile(t, filepath.Join(dir, "trackinfo.txt"), "INPUT=src.zip\nTITLE[1]=A\n")
	parent := t.TempDir()

	m := NewManager(config.DefaultSettings(), nil, WithScratchParent(parent))
	require.NoError(t, m.Initialize(context.Background(), filepath.Join(dir, "trackinfo.txt"), t.TempDir()))

	entries, err := os.ReadDir(parent)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.NoError(t, m.Close())
	entries, err = os.ReadDir(parent)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
