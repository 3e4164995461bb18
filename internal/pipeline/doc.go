// Package pipeline runs the encoding of a parsed manifest.
//
// # Runner
//
// The Runner coordinates the whole run:
//
//  1. Compute output paths for every track
//  2. Create album directories
//  3. Transcode and tag tracks concurrently (phase 1)
//  4. Wait for every track of every album
//  5. Add ReplayGain tags per album over the tracks that succeeded (phase 2)
//  6. Generate playlists (optional)
//
// # Basic Usage
//
//	tools := codec.New(settings.ToCodecConfig())
//	runner := pipeline.NewRunner(settings, tools, tools, func(event pipeline.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	report, err := runner.Run(ctx, pipeline.Job{
//	    OutputDir: "/music",
//	    Tree:      tree,
//	    Files:     files,
//	    Covers:    covers,
//	    Padding:   model.CalcPadding(tree),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !report.OK() {
//	    os.Exit(1)
//	}
//
// # Concurrency
//
// Both phases share one limit, settings.Jobs. A failing track or album is
// reported and does not cancel its siblings.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	    Track   *TrackUpdate  // set for track state changes
//	}
//
// The callback is invoked from worker goroutines and must be safe for
// concurrent use.
package pipeline
