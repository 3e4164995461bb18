package ioutils

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file.flac", "normal-file.flac"},
		{"file:with:colons.flac", "file_with_colons.flac"},
		{"file<with>brackets.flac", "file_with_brackets.flac"},
		{"file/with\\slashes.flac", "file_with_slashes.flac"},
		{"file|with|pipes.flac", "file_with_pipes.flac"},
		{"file?with*wildcards.flac", "file_with_wildcards.flac"},
		{"file\"with\"quotes.flac", "file_with_quotes.flac"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces", "multiple spaces"},
		{"trailing spaces   ", "trailing spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SanitizeFileName(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestReplaceSeparators(t *testing.T) {
	if got := ReplaceSeparators("AC/DC/Live"); got != "AC_DC_Live" {
		t.Errorf("ReplaceSeparators() = %q", got)
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("cover"), 0644))

	require.NoError(t, CopyFile(context.Background(), src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "cover", string(data))
}

func TestCopyFile_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, CopyFile(ctx, "a", "b"), context.Canceled)
}
