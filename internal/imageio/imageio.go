// Package imageio converts between encoded images and luminance grids.
//
// Decoding accepts PNG, JPEG, GIF, BMP, TIFF and WebP. Color input is
// reduced to ITU-R 601 luma and scaled to [0,1].
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"math"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/cwbudde/algo-spectral2d/dsp/grid"
)

var (
	// ErrEmptyImage is returned for images with no pixels.
	ErrEmptyImage = errors.New("imageio: empty image")
	// ErrDecode wraps failures of the underlying image decoders.
	ErrDecode = errors.New("imageio: decode failed")
)

// DecodeOption configures Decode.
type DecodeOption func(*decodeConfig)

type decodeConfig struct {
	maxSize int
}

// WithMaxSize downscales images whose longer side exceeds n pixels,
// keeping the aspect ratio. n <= 0 disables scaling.
func WithMaxSize(n int) DecodeOption {
	return func(c *decodeConfig) {
		c.maxSize = n
	}
}

// Decode reads an encoded image and returns its luminance grid and the
// detected format name.
func Decode(r io.Reader, opts ...DecodeOption) (grid.Grid, string, error) {
	cfg := decodeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	img, format, err := image.Decode(r)
	if err != nil {
		return grid.Grid{}, "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if img.Bounds().Empty() {
		return grid.Grid{}, format, ErrEmptyImage
	}

	img = downscale(img, cfg.maxSize)
	return Luma(img), format, nil
}

// DecodeBytes is Decode over an in-memory buffer.
func DecodeBytes(b []byte, opts ...DecodeOption) (grid.Grid, string, error) {
	return Decode(bytes.NewReader(b), opts...)
}

// DecodeFile opens and decodes the image at path.
func DecodeFile(path string, opts ...DecodeOption) (grid.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return grid.Grid{}, fmt.Errorf("imageio: open %s: %w", path, err)
	}
	defer f.Close()

	g, _, err := Decode(f, opts...)
	if err != nil {
		return grid.Grid{}, fmt.Errorf("imageio: %s: %w", path, err)
	}
	return g, nil
}

// Luma converts img to a grid of ITU-R 601 luminance in [0,1]. Gray input
// is copied through unchanged.
func Luma(img image.Image) grid.Grid {
	b := img.Bounds()
	g := grid.New(b.Dy(), b.Dx())

	if gray, ok := img.(*image.Gray); ok {
		for y := 0; y < g.Rows; y++ {
			row := g.Row(y)
			for x := range row {
				row[x] = float64(gray.GrayAt(b.Min.X+x, b.Min.Y+y).Y) / 255
			}
		}
		return g
	}

	for y := 0; y < g.Rows; y++ {
		row := g.Row(y)
		for x := range row {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			l := (int(c.R)*299 + int(c.G)*587 + int(c.B)*114) / 1000
			row[x] = float64(l) / 255
		}
	}
	return g
}

func downscale(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}

	scale := float64(maxSize) / float64(max(w, h))
	nw := max(1, int(math.Round(float64(w)*scale)))
	nh := max(1, int(math.Round(float64(h)*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Scale selects how ToGray maps grid values to 8-bit gray.
type Scale int

const (
	// ScaleClamp maps [0,1] to [0,255] and clamps values outside.
	ScaleClamp Scale = iota
	// ScaleMinMax stretches the grid's own min..max to 0..255. A flat grid
	// renders black.
	ScaleMinMax
)

// ToGray renders g as an 8-bit gray image.
func ToGray(g grid.Grid, scale Scale) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Cols, g.Rows))
	if len(g.Data) == 0 {
		return img
	}

	lo, hi := 0.0, 1.0
	if scale == ScaleMinMax {
		lo, hi = math.Inf(1), math.Inf(-1)
		for _, v := range g.Data {
			if math.IsNaN(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	span := hi - lo

	for i, v := range g.Data {
		var t float64
		if span > 0 && !math.IsNaN(v) {
			t = (v - lo) / span
		}
		img.Pix[i] = uint8(math.Round(255 * math.Min(1, math.Max(0, t))))
	}
	return img
}

// EncodePNG writes g as a gray PNG.
func EncodePNG(w io.Writer, g grid.Grid, scale Scale) error {
	if err := png.Encode(w, ToGray(g, scale)); err != nil {
		return fmt.Errorf("imageio: encode png: %w", err)
	}
	return nil
}

// PNGBytes returns g encoded as a gray PNG.
func PNGBytes(g grid.Grid, scale Scale) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, g, scale); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePNG encodes g to a file at path.
func WritePNG(path string, g grid.Grid, scale Scale) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}
	if err := EncodePNG(f, g, scale); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
