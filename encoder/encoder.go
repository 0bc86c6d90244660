// Package encoder writes rendered frames to disk in a number of image formats.
package encoder

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/achilleasa/spheretrace/log"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
)

var logger = log.New("encoder")

// An EncodeFunc writes an image to w.
type EncodeFunc func(w io.Writer, img image.Image) error

var encoders = map[string]EncodeFunc{
	"ppm":  EncodePPM,
	"png":  png.Encode,
	"webp": encodeWebP,
	"tga":  tga.Encode,
}

// Get the list of supported output formats.
func Formats() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Detect the output format from a file extension.
func FormatFromPath(path string) (string, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if _, exists := encoders[format]; !exists {
		return "", fmt.Errorf("encoder: unsupported output format %q; supported formats: %v", format, Formats())
	}
	return format, nil
}

// Encode image using the specified format.
func Encode(w io.Writer, img image.Image, format string) error {
	encodeFn, exists := encoders[format]
	if !exists {
		return fmt.Errorf("encoder: unsupported output format %q; supported formats: %v", format, Formats())
	}
	return encodeFn(w, img)
}

// Write image to a file. If format is empty it is detected from the file
// extension.
func EncodeFile(path string, img image.Image, format string) error {
	var err error
	if format == "" {
		if format, err = FormatFromPath(path); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err = Encode(f, img, format); err != nil {
		return fmt.Errorf("encoder: could not write %s image to %s: %w", format, path, err)
	}

	b := img.Bounds()
	logger.Noticef("wrote %dx%d %s image to %s", b.Dx(), b.Dy(), format, path)
	return f.Close()
}

// EncodePPM writes img as a plain text (P3) portable pixmap: a header with
// the image dimensions and max channel value followed by one "R G B" line
// per pixel in row-major order starting from the top row.
func EncodePPM(w io.Writer, img image.Image) error {
	b := img.Bounds()
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", b.Dx(), b.Dy()); err != nil {
		return err
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", c.R, c.G, c.B); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

func encodeWebP(w io.Writer, img image.Image) error {
	return nativewebp.Encode(w, img, nil)
}

// Resize image by a scale factor using CatmullRom resampling. A scale of 1
// returns the input unchanged.
func Resize(img image.Image, scale float64) (image.Image, error) {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("encoder: invalid scale factor %f", scale)
	}
	if scale == 1 {
		return img, nil
	}

	b := img.Bounds()
	dstW := max(1, int(math.Round(float64(b.Dx())*scale)))
	dstH := max(1, int(math.Round(float64(b.Dy())*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst, nil
}
