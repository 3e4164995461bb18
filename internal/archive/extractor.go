package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Recognized archive extensions, lower case.
const (
	ExtZip      = ".zip"
	ExtRar      = ".rar"
	ExtSevenZip = ".7z"
)

// IsArchiveExt reports whether ext (any case) names a supported archive.
func IsArchiveExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ExtZip, ExtRar, ExtSevenZip:
		return true
	}
	return false
}

// Extractor expands an archive into an existing, empty directory.
type Extractor interface {
	Extract(ctx context.Context, archive, dest string) error
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(ctx context.Context, archive, dest string) error

// Extract calls f.
func (f ExtractorFunc) Extract(ctx context.Context, archive, dest string) error {
	return f(ctx, archive, dest)
}

// commandContext is overridden in tests.
var commandContext = exec.CommandContext

// DefaultExtractors returns the extractor for every supported extension.
// Zip files are read in-process; rar and 7z archives are handed to the
// given binaries.
func DefaultExtractors(unrarBinary, sevenZipBinary string) map[string]Extractor {
	if unrarBinary == "" {
		unrarBinary = "unrar"
	}
	if sevenZipBinary == "" {
		sevenZipBinary = "7za"
	}
	return map[string]Extractor{
		ExtZip:      ZipExtractor{},
		ExtRar:      CommandExtractor{Binary: unrarBinary, Args: unrarArgs},
		ExtSevenZip: CommandExtractor{Binary: sevenZipBinary, Args: sevenZipArgs},
	}
}

func unrarArgs(archive, dest string) []string {
	return []string{"x", archive, dest + string(filepath.Separator)}
}

func sevenZipArgs(archive, dest string) []string {
	return []string{"x", "-o" + dest, archive}
}

// CommandExtractor runs an external extraction program.
type CommandExtractor struct {
	Binary string
	Args   func(archive, dest string) []string
}

// Extract runs the program and fails on a non-zero exit, including the
// program's output in the error.
func (c CommandExtractor) Extract(ctx context.Context, archive, dest string) error {
	cmd := commandContext(ctx, c.Binary, c.Args(archive, dest)...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", filepath.Base(c.Binary), err, strings.TrimSpace(string(output)))
	}
	return nil
}

// ZipExtractor expands zip archives with archive/zip.
type ZipExtractor struct{}

// Extract writes every entry of the archive below dest. Entries that would
// land outside dest are rejected.
func (ZipExtractor) Extract(ctx context.Context, archive, dest string) error {
	reader, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer reader.Close()

	root, err := filepath.Abs(dest)
	if err != nil {
		return err
	}

	for _, file := range reader.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := extractZipEntry(file, root); err != nil {
			return err
		}
	}
	return nil
}

func extractZipEntry(file *zip.File, root string) error {
	target := filepath.Join(root, filepath.FromSlash(file.Name))
	if target != root && !strings.HasPrefix(target, root+string(filepath.Separator)) {
		return fmt.Errorf("zip entry %q escapes destination", file.Name)
	}

	if file.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
