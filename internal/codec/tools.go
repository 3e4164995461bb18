package codec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// commandContext is overridden in tests.
var commandContext = exec.CommandContext

// BestCompression selects flac --best.
const BestCompression = -1

// Level returns a CompressionLevel for n. Values outside 0-8, including
// BestCompression, yield nil.
func Level(n int) *int {
	if n < 0 || n > 8 {
		return nil
	}
	return &n
}

// Config names the external binaries.
type Config struct {
	FlacBinary     string
	MetaflacBinary string

	// CompressionLevel is 0-8. Nil selects --best.
	CompressionLevel *int

	// Trace, when set, is called with every command before it starts.
	Trace func(name string, args []string)
}

// Tools runs flac and metaflac.
type Tools struct {
	cfg Config
}

// New returns Tools for cfg. Empty binary names default to "flac" and
// "metaflac".
func New(cfg Config) *Tools {
	if cfg.FlacBinary == "" {
		cfg.FlacBinary = "flac"
	}
	if cfg.MetaflacBinary == "" {
		cfg.MetaflacBinary = "metaflac"
	}
	return &Tools{cfg: cfg}
}

func (t *Tools) command(ctx context.Context, name string, args ...string) *exec.Cmd {
	if t.cfg.Trace != nil {
		t.cfg.Trace(name, args)
	}
	return commandContext(ctx, name, args...) //nolint:gosec
}

// EncoderArgs returns the arguments of the encoding half of Transcode.
func (t *Tools) EncoderArgs(dst string, extra []string) []string {
	args := make([]string, 0, len(extra)+3)
	args = append(args, t.compressionFlag())
	args = append(args, extra...)
	return append(args, "--output-name="+dst, "-")
}

func (t *Tools) compressionFlag() string {
	level := t.cfg.CompressionLevel
	if level == nil || *level < 0 || *level > 8 {
		return "--best"
	}
	return "-" + strconv.Itoa(*level)
}

// Transcode decodes src and encodes the audio into dst with the given
// extra encoder arguments (tags, pictures).
func (t *Tools) Transcode(ctx context.Context, src, dst string, extra []string) error {
	reader, writer, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("transcode pipe: %w", err)
	}

	var decErr, encOut bytes.Buffer
	decoder := t.command(ctx, t.cfg.FlacBinary, "--decode", "--stdout", src)
	decoder.Stdout = writer
	decoder.Stderr = &decErr

	encoder := t.command(ctx, t.cfg.FlacBinary, t.EncoderArgs(dst, extra)...)
	encoder.Stdin = reader
	encoder.Stdout = &encOut
	encoder.Stderr = &encOut

	if err := decoder.Start(); err != nil {
		reader.Close()
		writer.Close()
		return fmt.Errorf("start decoder: %w", err)
	}
	if err := encoder.Start(); err != nil {
		reader.Close()
		writer.Close()
		_ = decoder.Wait()
		return fmt.Errorf("start encoder: %w", err)
	}
	// The children hold their own ends; closing ours lets EOF and broken
	// pipes propagate.
	reader.Close()
	writer.Close()

	encodeErr := encoder.Wait()
	decodeErr := decoder.Wait()
	if encodeErr != nil {
		return fmt.Errorf("encode %s: %w: %s", dst, encodeErr, strings.TrimSpace(encOut.String()))
	}
	if decodeErr != nil {
		return fmt.Errorf("decode %s: %w: %s", src, decodeErr, strings.TrimSpace(decErr.String()))
	}
	return nil
}

// ExtractPicture writes the first embedded picture of src to w using
// metaflac.
func (t *Tools) ExtractPicture(ctx context.Context, src string, w io.Writer) error {
	var stderr bytes.Buffer
	cmd := t.command(ctx, t.cfg.MetaflacBinary, "--export-picture-to=-", src)
	cmd.Stdout = w
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("export picture from %s: %w: %s", src, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// AddReplayGain computes album and track gain over files, which must all
// belong to one album.
func (t *Tools) AddReplayGain(ctx context.Context, files []string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"--add-replay-gain"}, files...)
	cmd := t.command(ctx, t.cfg.MetaflacBinary, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("add replay gain: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
