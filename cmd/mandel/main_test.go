package main

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	mandel "github.com/marben/strip_mandel"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_WritesImage(t *testing.T) {
	out := filepath.Join(t.TempDir(), "m.png")
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--width", "64", "--height", "48", "-i", "50", "--zoom", "16", "-w", "3", "-o", out})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	t.Cleanup(func() { mandel.SetLogger(nil) })

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, 64, img.Bounds().Dx())
	require.Equal(t, 48, img.Bounds().Dy())
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	out := filepath.Join(t.TempDir(), "m.png")
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--width", "0", "-o", out})
	require.ErrorIs(t, cmd.ExecuteContext(context.Background()), mandel.ErrInvalidParams)

	_, err := os.Stat(out)
	require.True(t, os.IsNotExist(err))
}

func TestRootCmd_BadFormat(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--format", "gif", "-o", filepath.Join(t.TempDir(), "m.gif")})
	require.Error(t, cmd.ExecuteContext(context.Background()))
}

func TestRegionsCmd(t *testing.T) {
	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"regions"})
	require.NoError(t, cmd.Execute())
	for _, name := range mandel.RegionNames() {
		require.Contains(t, buf.String(), name)
	}
}
