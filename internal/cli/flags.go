// Package cli holds the flags and exit handling shared by the tracktag
// commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/handiism/tracktag/internal/config"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitInterrupted = 130
)

// ErrPartialFailure reports that some tracks or albums failed. The details
// have already been logged.
var ErrPartialFailure = errors.New("some tracks or albums failed")

// Flags are the options every tracktag command accepts.
type Flags struct {
	ConfigPath string
	OutputDir  string
	Verbose    int
	Jobs       int
	DryRun     bool
}

// Register adds the flags to cmd.
func (f *Flags) Register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.OutputDir, "output-dir", "o", ".", "Directory the albums are written to")
	flags.StringVar(&f.ConfigPath, "config", "", "Configuration file path (default $XDG_CONFIG_HOME/tracktag/config.toml)")
	flags.CountVarP(&f.Verbose, "verbose", "v", "Increase log verbosity (repeatable)")
	flags.IntVar(&f.Jobs, "jobs", 0, "Number of parallel encoders (default from config)")
	flags.BoolVar(&f.DryRun, "dry-run", false, "Print the track map and stop")
}

// Settings loads the configuration file and applies flag overrides.
func (f *Flags) Settings() (*config.Settings, error) {
	path := f.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	settings, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if f.Jobs != 0 {
		settings.Jobs = f.Jobs
		if err := settings.Validate(); err != nil {
			return nil, fmt.Errorf("--jobs: %w", err)
		}
	}
	return settings, nil
}

// ExitCode maps the error returned by a command to the process exit
// status, printing it to stderr when it has not been reported yet.
func ExitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, ErrPartialFailure):
		return ExitFailure
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitFailure
	}
}
