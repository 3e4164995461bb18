package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"

	"github.com/handiism/tracktag/internal/cli"
	"github.com/handiism/tracktag/internal/pipeline"
	"github.com/handiism/tracktag/internal/session"
)

// renderTrackMap prints every track next to its source file.
func renderTrackMap(entries []session.TrackMapEntry) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Track", "Source"})
	for _, e := range entries {
		tw.AppendRow(table.Row{e.Label, e.Source})
	}
	return tw.Render()
}

func summarize(report *pipeline.Report, logger zerolog.Logger) error {
	if report.OK() {
		logger.Info().Int("tracks", len(report.Tracks)).Int("albums", len(report.Albums)).Msg("All tracks tagged")
		return nil
	}
	logger.Error().
		Int("failedTracks", report.FailedTracks()).
		Int("failedAlbums", report.FailedAlbums()).
		Msg("Finished with errors")
	return cli.ErrPartialFailure
}
