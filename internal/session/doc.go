// Package session runs one tracktag invocation end to end.
//
// A Manager owns the scratch directory of a run. Initialize resolves the
// manifest's inputs (extracting archives), parses it and maps every track
// to a source file; nothing is written to the output directory yet, so a
// dry run stops here and prints TrackMap. Start locks the output
// directory, resolves covers and hands the job to a pipeline.Runner.
//
//	manager := session.NewManager(settings, onProgress)
//	defer manager.Close()
//
//	if err := manager.Initialize(ctx, "trackinfo.txt", "/music"); err != nil {
//	    return err
//	}
//	for _, entry := range manager.TrackMap() {
//	    fmt.Println(entry.Label, "←", entry.Source)
//	}
//	report, err := manager.Start(ctx)
package session
