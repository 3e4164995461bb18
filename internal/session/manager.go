package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/handiism/tracktag/internal/archive"
	"github.com/handiism/tracktag/internal/audio"
	"github.com/handiism/tracktag/internal/codec"
	"github.com/handiism/tracktag/internal/config"
	ioutils "github.com/handiism/tracktag/internal/io"
	"github.com/handiism/tracktag/internal/library"
	"github.com/handiism/tracktag/internal/model"
	"github.com/handiism/tracktag/internal/pipeline"
	"github.com/handiism/tracktag/internal/trackinfo"
	"github.com/handiism/tracktag/internal/workspace"
)

// ErrNotInitialized is returned by Start before a successful Initialize.
var ErrNotInitialized = errors.New("session not initialized")

// Option configures a Manager.
type Option func(*Manager)

// WithCommandTrace registers a callback invoked with every external
// command the run starts.
func WithCommandTrace(fn func(name string, args []string)) Option {
	return func(m *Manager) {
		m.trace = fn
	}
}

// WithScratchParent places the scratch directory below dir instead of the
// system temporary directory.
func WithScratchParent(dir string) Option {
	return func(m *Manager) {
		m.scratchParent = dir
	}
}

// TrackMapEntry pairs a track with the source file it will be encoded from.
type TrackMapEntry struct {
	ID     model.TrackID
	Label  string
	Source string
}

// Manager coordinates one run.
type Manager struct {
	settings      *config.Settings
	tools         *codec.Tools
	runner        *pipeline.Runner
	trace         func(string, []string)
	scratchParent string

	scratch   *workspace.Scratch
	outputDir string
	tree      model.Tree
	padding   model.Padding
	files     library.TrackFiles

	onProgress func(pipeline.ProgressEvent)
}

// NewManager creates a new Manager.
func NewManager(settings *config.Settings, onProgress func(pipeline.ProgressEvent), opts ...Option) *Manager {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	m := &Manager{
		settings:   settings,
		onProgress: onProgress,
	}
	for _, opt := range opts {
		opt(m)
	}

	codecCfg := settings.ToCodecConfig()
	codecCfg.Trace = m.trace
	m.tools = codec.New(codecCfg)
	m.runner = pipeline.NewRunner(settings, m.tools, m.tools, onProgress)
	return m
}

// Initialize resolves inputs, parses the manifest and maps source files.
// Any error is fatal for the run.
func (m *Manager) Initialize(ctx context.Context, manifest, outputDir string) error {
	outDir, err := filepath.Abs(outputDir)
	if err != nil {
		return fmt.Errorf("output directory: %w", err)
	}
	m.outputDir = outDir

	// Validates the whole manifest before anything is extracted.
	paths, err := trackinfo.ScanInputsFile(manifest)
	if err != nil {
		return err
	}

	if m.scratch == nil {
		m.scratch, err = workspace.NewScratch(m.scratchParent)
		if err != nil {
			return err
		}
	}
	extractDir, err := m.scratch.UniqueDir("inputs")
	if err != nil {
		return err
	}

	resolver := archive.NewResolver(extractDir,
		archive.WithExtractors(m.withTrace(m.settings.Extractors())),
		archive.WithExtractHook(func(path string) {
			m.progress(pipeline.ProgressEvent{Message: fmt.Sprintf("Extracting %s", path), Level: pipeline.LevelVerbose})
		}))
	inputs, err := resolver.Resolve(ctx, paths)
	if err != nil {
		return err
	}

	tree, err := trackinfo.ParseFile(manifest, inputs, func(msg string) {
		m.progress(pipeline.ProgressEvent{Message: msg, Level: pipeline.LevelWarning})
	})
	if err != nil {
		return err
	}

	files, err := library.MapTracks(tree)
	if err != nil {
		return err
	}

	m.tree = tree
	m.padding = model.CalcPadding(tree)
	m.files = files
	m.progress(pipeline.ProgressEvent{
		Message: fmt.Sprintf("Found %d track(s) in %d album(s)", tree.Len(), len(tree.Albums())),
		Level:   pipeline.LevelInfo,
	})
	return nil
}

// TrackMap lists every track with its source file, in album, disc and
// track order.
func (m *Manager) TrackMap() []TrackMapEntry {
	var entries []TrackMapEntry
	_ = m.tree.Walk(func(id model.TrackID, fields model.Fields) error {
		name, _ := m.files.Lookup(id)
		discWidth, trackWidth := m.padding.Widths(id)
		entries = append(entries, TrackMapEntry{
			ID:     id,
			Label:  id.Format(discWidth, trackWidth),
			Source: library.SourcePath(fields, name),
		})
		return nil
	})
	return entries
}

// GetAlbumNames returns the display names of all albums.
func (m *Manager) GetAlbumNames() []string {
	var names []string
	for _, album := range m.tree.Albums() {
		names = append(names, album.String())
	}
	return names
}

// GetProgress returns how many tracks have been encoded so far.
func (m *Manager) GetProgress() (done, total int32) {
	return m.runner.GetProgress()
}

// Start encodes every track and normalizes every album. The output
// directory is locked for the duration.
func (m *Manager) Start(ctx context.Context) (*pipeline.Report, error) {
	if m.tree == nil {
		return nil, ErrNotInitialized
	}

	if err := ioutils.EnsureDir(m.outputDir); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	lock, err := workspace.LockOutput(m.outputDir)
	if err != nil {
		return nil, err
	}
	defer lock.Unlock()
	m.progress(pipeline.ProgressEvent{Message: fmt.Sprintf("Locked %s", lock.Path()), Level: pipeline.LevelVerbose})

	covers := m.coverResolver().MapCovers(ctx, m.tree)

	return m.runner.Run(ctx, pipeline.Job{
		OutputDir: m.outputDir,
		Tree:      m.tree,
		Files:     m.files,
		Covers:    covers,
		Padding:   m.padding,
	})
}

// Close removes the scratch directory.
func (m *Manager) Close() error {
	return m.scratch.Close()
}

func (m *Manager) coverResolver() *audio.CoverResolver {
	var extractor codec.PictureExtractor = m.tools
	if m.settings.PictureExtractor == config.ExtractorBuiltin {
		extractor = codec.Builtin{}
	}
	return audio.NewCoverResolver(m.scratch.Root(), extractor,
		audio.WithMaxSize(m.settings.CoverMaxSize),
		audio.WithErrorHandler(func(cover string, err error) {
			m.progress(pipeline.ProgressEvent{
				Message: fmt.Sprintf("Could not extract cover art from %s: %v", cover, err),
				Level:   pipeline.LevelError,
			})
		}))
}

func (m *Manager) withTrace(extractors map[string]archive.Extractor) map[string]archive.Extractor {
	if m.trace == nil {
		return extractors
	}
	for ext, e := range extractors {
		if cmd, ok := e.(archive.CommandExtractor); ok {
			extractors[ext] = archive.ExtractorFunc(func(ctx context.Context, src, dest string) error {
				m.trace(cmd.Binary, cmd.Args(src, dest))
				return cmd.Extract(ctx, src, dest)
			})
		}
	}
	return extractors
}

func (m *Manager) progress(event pipeline.ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
