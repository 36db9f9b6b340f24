package gifexport_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/khalladay/gif-read/gifexport"
	"github.com/stretchr/testify/require"
)

func solidRGBA(w, h int, r, g, b, a byte) []byte {
	buf := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		buf[i*4+0] = r
		buf[i*4+1] = g
		buf[i*4+2] = b
		buf[i*4+3] = a
	}
	return buf
}

func TestParseFormat(t *testing.T) {
	f, err := gifexport.ParseFormat("png")
	require.NoError(t, err)
	require.Equal(t, gifexport.FormatPNG, f)

	f, err = gifexport.ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, gifexport.FormatPNG, f)

	f, err = gifexport.ParseFormat("bmp")
	require.NoError(t, err)
	require.Equal(t, gifexport.FormatBMP, f)

	_, err = gifexport.ParseFormat("tiff")
	require.Error(t, err)
}

func TestEncodeRejectsMismatchedBufferSize(t *testing.T) {
	var buf bytes.Buffer
	err := gifexport.Encode(&buf, []byte{1, 2, 3}, 2, 2, gifexport.FormatPNG)
	require.Error(t, err)
}

func TestEncodePNGProducesValidHeader(t *testing.T) {
	var buf bytes.Buffer
	rgba := solidRGBA(2, 2, 255, 0, 0, 255)
	err := gifexport.Encode(&buf, rgba, 2, 2, gifexport.FormatPNG)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")))
}

func TestEncodeBMPProducesValidHeader(t *testing.T) {
	var buf bytes.Buffer
	rgba := solidRGBA(2, 2, 0, 255, 0, 255)
	err := gifexport.Encode(&buf, rgba, 2, 2, gifexport.FormatBMP)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("BM")))
}

func TestWriteFrameFileCreatesDirAndFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "output")
	rgba := solidRGBA(1, 1, 1, 2, 3, 255)

	path, err := gifexport.WriteFrameFile(dir, "frame0000", rgba, 1, 1, gifexport.FormatPNG)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "frame0000.png"), path)

	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.False(t, fi.IsDir())
	require.Greater(t, fi.Size(), int64(0))
}
