package imageio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cwbudde/algo-spectral2d/dsp/grid"
)

func encode(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeLuma(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 0, color.NRGBA{G: 255, A: 255})
	img.Set(2, 0, color.NRGBA{B: 255, A: 255})
	img.Set(0, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	g, format, err := DecodeBytes(encode(t, img))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if format != "png" {
		t.Fatalf("format = %q, want png", format)
	}
	if g.Rows != 2 || g.Cols != 3 {
		t.Fatalf("dims = %dx%d, want 2x3", g.Rows, g.Cols)
	}

	want := []float64{76.0 / 255, 149.0 / 255, 29.0 / 255, 1, 0, 0}
	for i, w := range want {
		if g.Data[i] != w {
			t.Fatalf("luma[%d] = %v, want %v", i, g.Data[i], w)
		}
	}
}

func TestDecodeGrayPassthrough(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.Pix = []uint8{0, 51, 102, 255}

	g, _, err := DecodeBytes(encode(t, img))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i, p := range img.Pix {
		if g.Data[i] != float64(p)/255 {
			t.Fatalf("pixel %d = %v, want %v", i, g.Data[i], float64(p)/255)
		}
	}
}

func TestDecodeMaxSize(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 200, 100))
	g, _, err := DecodeBytes(encode(t, img), WithMaxSize(50))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if g.Cols != 50 || g.Rows != 25 {
		t.Fatalf("dims = %dx%d, want 25x50", g.Rows, g.Cols)
	}

	g, _, err = DecodeBytes(encode(t, img), WithMaxSize(500))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if g.Cols != 200 || g.Rows != 100 {
		t.Fatalf("small image was rescaled to %dx%d", g.Rows, g.Cols)
	}
}

func TestDecodeGarbage(t *testing.T) {
	_, _, err := Decode(strings.NewReader("not an image"))
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("err = %v, want ErrDecode", err)
	}
}

func TestToGrayScales(t *testing.T) {
	g, _ := grid.FromSlice(1, 4, []float64{-1, 0, 0.5, 2})

	clamp := ToGray(g, ScaleClamp)
	if got := clamp.Pix; got[0] != 0 || got[1] != 0 || got[2] != 128 || got[3] != 255 {
		t.Fatalf("clamp pixels = %v", got)
	}

	stretch := ToGray(g, ScaleMinMax)
	if got := stretch.Pix; got[0] != 0 || got[3] != 255 || got[1] != 85 {
		t.Fatalf("min-max pixels = %v", got)
	}

	flat := ToGray(grid.New(2, 2), ScaleMinMax)
	for _, p := range flat.Pix {
		if p != 0 {
			t.Fatalf("flat grid should render black, got %v", flat.Pix)
		}
	}
}

func TestPNGRoundTrip(t *testing.T) {
	ref := Reference(32)
	path := filepath.Join(t.TempDir(), "ref.png")
	if err := WritePNG(path, ref, ScaleClamp); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}

	back, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	diff, err := grid.MaxAbsDiff(ref, back)
	if err != nil {
		t.Fatalf("MaxAbsDiff: %v", err)
	}
	// One 8-bit quantization step.
	if diff > 0.5/255+1e-12 {
		t.Fatalf("round-trip diff = %v", diff)
	}
}

func TestDecodeFileMissing(t *testing.T) {
	_, err := DecodeFile(filepath.Join(t.TempDir(), "missing.png"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want ErrNotExist", err)
	}
}

func TestReference(t *testing.T) {
	g := Reference(64)
	if g.Rows != 64 || g.Cols != 64 {
		t.Fatalf("dims = %dx%d", g.Rows, g.Cols)
	}
	lo, hi := 1.0, 0.0
	for _, v := range g.Data {
		if v < 0 || v > 1 {
			t.Fatalf("value %v out of [0,1]", v)
		}
		lo, hi = min(lo, v), max(hi, v)
	}
	if lo != 0 || hi != 1 {
		t.Fatalf("range = [%v,%v], want [0,1]", lo, hi)
	}
	if Reference(0).Len() != 0 {
		t.Fatal("Reference(0) should be empty")
	}
}
