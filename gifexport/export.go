/*
Package gifexport writes a decoded GIF frame's RGBA raster out to a
standard image file, the way palette.Import recognizes and decodes
BMP/PNG/GIF interchangeably on the way in.

gif-read is released under the BSD 2-clause license. See LICENSE in the
project's root folder for more details.
*/
package gifexport

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
)

// Format selects the on-disk encoding a frame is written in.
type Format int

const (
	FormatPNG Format = iota
	FormatBMP
)

// ParseFormat maps the export names used by internal/playconfig batch
// jobs and CLI flags to a Format.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "png", "":
		return FormatPNG, nil
	case "bmp":
		return FormatBMP, nil
	default:
		return 0, fmt.Errorf("gifexport: unrecognized format %q", name)
	}
}

func (f Format) String() string {
	switch f {
	case FormatBMP:
		return "bmp"
	default:
		return "png"
	}
}

// Extension returns the conventional file extension for f, including the
// leading dot.
func (f Format) Extension() string {
	switch f {
	case FormatBMP:
		return ".bmp"
	default:
		return ".png"
	}
}

// toImage wraps a tightly-packed RGBA raster (as produced by every
// gif.DecodedImage frame accessor) in a standard image.Image without
// copying the pixel data.
func toImage(rgba []byte, width, height int) (*image.RGBA, error) {
	want := width * height * 4
	if len(rgba) != want {
		return nil, fmt.Errorf("gifexport: frame buffer has %d bytes, want %d for %dx%d", len(rgba), want, width, height)
	}
	return &image.RGBA{
		Pix:    rgba,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}

// Encode writes one frame's RGBA raster to w in the requested format.
func Encode(w io.Writer, rgba []byte, width, height int, format Format) error {
	img, err := toImage(rgba, width, height)
	if err != nil {
		return err
	}
	switch format {
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatPNG:
		return png.Encode(w, img)
	default:
		return errors.New("gifexport: unknown format")
	}
}

// WriteFrameFile encodes one frame to a file at dir/name.ext, creating dir
// if it does not already exist. name should not carry an extension; the
// format's conventional extension is appended.
func WriteFrameFile(dir, name string, rgba []byte, width, height int, format Format) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("gifexport: creating output directory %q: %w", dir, err)
	}

	path := filepath.Join(dir, name+format.Extension())
	fout, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("gifexport: creating %q: %w", path, err)
	}
	defer fout.Close()

	if err := Encode(fout, rgba, width, height, format); err != nil {
		return "", fmt.Errorf("gifexport: encoding %q: %w", path, err)
	}
	return path, nil
}
