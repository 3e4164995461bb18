package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/handiism/tracktag/internal/cli"
	"github.com/handiism/tracktag/internal/config"
	"github.com/handiism/tracktag/internal/logging"
	"github.com/handiism/tracktag/internal/pipeline"
	"github.com/handiism/tracktag/internal/session"
	"github.com/handiism/tracktag/internal/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	os.Exit(cli.ExitCode(err, os.Stderr))
}

func newRootCommand() *cobra.Command {
	var flags cli.Flags

	cmd := &cobra.Command{
		Use:           "tracktag-tui TRACKINFO",
		Short:         "Run tracktag with a terminal progress view",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), &flags, args[0], cmd.OutOrStdout())
		},
	}
	flags.Register(cmd)
	return cmd
}

func run(ctx context.Context, flags *cli.Flags, manifest string, out io.Writer) error {
	settings, err := flags.Settings()
	if err != nil {
		return err
	}

	// The view owns the terminal; the log file still records everything.
	closeLog := logging.SetupLogger(flags.Verbose, io.Discard)
	defer closeLog()
	fileLog := logging.NewEventLogger(logging.GetLogger("pipeline"))

	if flags.DryRun {
		return dryRun(ctx, settings, flags, manifest, fileLog, out)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan pipeline.ProgressEvent, 64)
	onProgress := func(event pipeline.ProgressEvent) {
		fileLog.Handle(event)
		select {
		case events <- event:
		case <-ctx.Done():
		}
	}

	manager := session.NewManager(settings, onProgress, session.WithCommandTrace(logging.LogCommand))
	defer manager.Close()

	final, err := tui.Run(ctx, manager, events, manifest, flags.OutputDir, flags.Verbose > 0)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return err
	}
	if err := final.Err(); err != nil {
		return err
	}
	if report := final.Report(); report != nil && !report.OK() {
		return cli.ErrPartialFailure
	}
	return nil
}

// dryRun has no view reading events, so progress only reaches the log file.
func dryRun(ctx context.Context, settings *config.Settings, flags *cli.Flags, manifest string, fileLog *logging.EventLogger, out io.Writer) error {
	manager := session.NewManager(settings, fileLog.Handle, session.WithCommandTrace(logging.LogCommand))
	defer manager.Close()

	if err := manager.Initialize(ctx, manifest, flags.OutputDir); err != nil {
		return err
	}
	for _, entry := range manager.TrackMap() {
		fmt.Fprintf(out, "%s ← %s\n", entry.Label, entry.Source)
	}
	return nil
}
