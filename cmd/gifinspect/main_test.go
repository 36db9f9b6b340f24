package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/khalladay/gif-read/internal/playconfig"
	"github.com/stretchr/testify/require"
)

// twoFrameGIF is a hand-built 1x1, two-frame GIF89a: signature, a global
// color table (red, green), a graphics-control + image-descriptor pair
// per frame, trailer. Same layout as gifset's fixture.
var twoFrameGIF = []byte{
	'G', 'I', 'F', '8', '9', 'a',
	0x01, 0x00, 0x01, 0x00,
	0x81, 0x00, 0x00,
	255, 0, 0,
	0, 255, 0,
	0, 0, 0,
	0, 0, 0,

	0x21, 0xF9, 0x04, 0x00, 0x0A, 0x00, 0x00, 0x00,
	0x2C, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00,
	0x02, 0x02, 68, 1, 0x00,

	0x21, 0xF9, 0x04, 0x00, 0x0A, 0x00, 0x00, 0x00,
	0x2C, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00,
	0x02, 0x02, 76, 1, 0x00,

	0x3B,
}

func writeTestGIF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.gif")
	require.NoError(t, os.WriteFile(path, twoFrameGIF, 0o644))
	return path
}

func TestDecodeWithModeDispatchesOnJobMode(t *testing.T) {
	for _, mode := range []string{
		playconfig.MODE_RANDOM_ACCESS,
		playconfig.MODE_INDEX_STREAM,
		playconfig.MODE_COMPRESSED,
		"",
	} {
		img, err := decodeWithMode(twoFrameGIF, mode)
		require.Nil(t, err, "mode %q", mode)
		require.Equal(t, 2, img.FrameCount(), "mode %q", mode)
	}
}

func TestFrameForModeMatchesAcrossModes(t *testing.T) {
	ra, err := decodeWithMode(twoFrameGIF, playconfig.MODE_RANDOM_ACCESS)
	require.Nil(t, err)
	want, ferr := frameForMode(ra, playconfig.MODE_RANDOM_ACCESS, 1)
	require.Nil(t, ferr)

	streamed, err := decodeWithMode(twoFrameGIF, playconfig.MODE_COMPRESSED)
	require.Nil(t, err)
	got, ferr := frameForMode(streamed, playconfig.MODE_COMPRESSED, 1)
	require.Nil(t, ferr)

	require.Equal(t, want, got)
}

func TestRunJobDumpsEveryFrame(t *testing.T) {
	input := writeTestGIF(t)
	outDir := t.TempDir()

	job := playconfig.Job{
		Input:     input,
		Mode:      playconfig.MODE_RANDOM_ACCESS,
		OutputDir: outDir,
		Export:    playconfig.EXPORT_PNG,
		FrameStep: 1,
	}
	require.NoError(t, runJob(job))

	for _, name := range []string{"sample_frame0000.png", "sample_frame0001.png"} {
		fi, err := os.Stat(filepath.Join(outDir, name))
		require.NoError(t, err)
		require.False(t, fi.IsDir())
	}
}

func TestRunJobHonorsFrameStep(t *testing.T) {
	input := writeTestGIF(t)
	outDir := t.TempDir()

	job := playconfig.Job{
		Input:     input,
		Mode:      playconfig.MODE_RANDOM_ACCESS,
		OutputDir: outDir,
		Export:    playconfig.EXPORT_BMP,
		FrameStep: 2,
	}
	require.NoError(t, runJob(job))

	_, err := os.Stat(filepath.Join(outDir, "sample_frame0000.bmp"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "sample_frame0001.bmp"))
	require.Error(t, err)
}
