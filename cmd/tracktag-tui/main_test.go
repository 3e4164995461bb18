package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)
}

func TestDryRunWithManyWarnings(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "01 a.flac"), nil, 0o644))

	var manifest strings.Builder
	manifest.WriteString("ALBUM=Demo\nINPUT=src\nTITLE[1]=A\n")
	for i := range 80 {
		fmt.Fprintf(&manifest, "MOOD[1]=calm %d\n", i)
	}
	path := filepath.Join(dir, "trackinfo.txt")
	require.NoError(t, os.WriteFile(path, []byte(manifest.String()), 0o644))
	out := filepath.Join(dir, "out")

	var stdout bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs([]string{path, "-o", out, "--dry-run"})
	cmd.SetOut(&stdout)

	done := make(chan error, 1)
	go func() { done <- cmd.Execute() }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("dry run did not return")
	}

	assert.Contains(t, stdout.String(), `"Demo":#1 ← `+filepath.Join(dir, "src", "01 a.flac"))
	assert.NoDirExists(t, out)
}

func TestDryRunInvalidManifest(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "trackinfo.txt")
	require.NoError(t, os.WriteFile(path, []byte("not a manifest\n"), 0o644))

	cmd := newRootCommand()
	cmd.SetArgs([]string{path, "--dry-run"})
	cmd.SetOut(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}
