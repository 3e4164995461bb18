package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/handiism/tracktag/internal/cli"
	"github.com/handiism/tracktag/internal/logging"
	"github.com/handiism/tracktag/internal/session"
)

func newRootCommand() *cobra.Command {
	var flags cli.Flags

	cmd := &cobra.Command{
		Use:   "tracktag TRACKINFO",
		Short: "Transcode, tag and normalize FLAC albums described by a trackinfo file",
		Long: `tracktag reads a trackinfo manifest, finds the source FLAC file of every
track it declares (extracting zip, rar and 7z archives as needed), and writes
tagged, re-encoded copies into one directory per album. ReplayGain tags are
added per album once every track has been encoded.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, &flags, args[0])
		},
	}
	flags.Register(cmd)
	return cmd
}

func run(cmd *cobra.Command, flags *cli.Flags, manifest string) error {
	settings, err := flags.Settings()
	if err != nil {
		return err
	}

	closeLog := logging.SetupLogger(flags.Verbose, cmd.ErrOrStderr())
	defer closeLog()
	logger := logging.GetLogger("tracktag")
	events := logging.NewEventLogger(logging.GetLogger("pipeline"))

	manager := session.NewManager(settings, events.Handle, session.WithCommandTrace(logging.LogCommand))
	defer func() {
		if err := manager.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to remove scratch directory")
		}
	}()

	ctx := cmd.Context()
	start := time.Now()
	if err := manager.Initialize(ctx, manifest, flags.OutputDir); err != nil {
		return err
	}
	logging.LogDuration(start, "initialize")

	fmt.Fprintln(cmd.OutOrStdout(), renderTrackMap(manager.TrackMap()))
	if flags.DryRun {
		logger.Info().Msg("Dry run, nothing written")
		return nil
	}

	report, err := manager.Start(ctx)
	if err != nil {
		return err
	}
	logging.LogDuration(start, "run")
	return summarize(report, logger)
}
