package frequency

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-spectral2d/dsp/fft2d"
	"github.com/cwbudde/algo-spectral2d/dsp/grid"
	"github.com/cwbudde/algo-spectral2d/dsp/mask"
	"github.com/cwbudde/algo-spectral2d/dsp/spectrum"
	"github.com/cwbudde/algo-spectral2d/internal/testutil"
)

const tolerance = 1e-10

func shiftedSpectrum(t *testing.T, img grid.Grid) grid.CGrid {
	t.Helper()
	freq, err := fft2d.ForwardReal(img)
	if err != nil {
		t.Fatalf("ForwardReal: %v", err)
	}
	shifted, err := fft2d.Shifted(freq)
	if err != nil {
		t.Fatalf("Shifted: %v", err)
	}
	return shifted
}

func TestCalculateConstantImage(t *testing.T) {
	s := CalculateFromComplex(shiftedSpectrum(t, testutil.ConstantGrid(0.5, 8, 8)))

	if math.Abs(s.DCFraction-1) > tolerance {
		t.Fatalf("DCFraction = %v, want 1", s.DCFraction)
	}
	if s.Centroid > tolerance || s.Rolloff != 0 {
		t.Fatalf("constant image should have Centroid 0 and Rolloff 0, got %v / %d", s.Centroid, s.Rolloff)
	}
	// DC = (64 * 0.5)^2
	if math.Abs(s.DC-1024) > 1e-8 {
		t.Fatalf("DC = %v, want 1024", s.DC)
	}
}

func TestCalculateSingleFrequency(t *testing.T) {
	// Zero-mean cosine with 3 cycles along columns: energy sits at distance 3.
	img := testutil.CosineGrid(16, 16, 0, 3, 0.25)
	for i := range img.Data {
		img.Data[i] -= 0.5
	}
	s := CalculateFromComplex(shiftedSpectrum(t, img))

	if s.DCFraction > tolerance {
		t.Fatalf("DCFraction = %v, want 0", s.DCFraction)
	}
	if math.Abs(s.Centroid-3) > 1e-9 {
		t.Fatalf("Centroid = %v, want 3", s.Centroid)
	}
	if s.Spread > 1e-6 {
		t.Fatalf("Spread = %v, want 0", s.Spread)
	}
	if s.Rolloff != 3 {
		t.Fatalf("Rolloff = %d, want 3", s.Rolloff)
	}
}

func TestEnergyFractionMatchesMasks(t *testing.T) {
	power := spectrum.PowerGrid(shiftedSpectrum(t, testutil.NoiseGrid(3, 12, 10)))

	low := mask.Circular(12, 10, 3)
	lowFrac, err := EnergyFraction(power, low)
	if err != nil {
		t.Fatalf("EnergyFraction: %v", err)
	}
	highFrac, err := EnergyFraction(power, mask.Complement(low))
	if err != nil {
		t.Fatalf("EnergyFraction: %v", err)
	}
	if math.Abs(lowFrac+highFrac-1) > tolerance {
		t.Fatalf("low+high energy fraction = %v, want 1", lowFrac+highFrac)
	}

	all, _ := EnergyFraction(power, mask.Circular(12, 10, mask.AllPassRadius(12, 10)))
	if math.Abs(all-1) > tolerance {
		t.Fatalf("all-pass fraction = %v, want 1", all)
	}

	if _, err := EnergyFraction(power, grid.New(3, 3)); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("err = %v, want ErrShapeMismatch", err)
	}
}

func TestRolloffRadiusMonotonic(t *testing.T) {
	power := testutil.NoiseGrid(9, 15, 15)
	prev := 0
	for _, p := range []float64{0.1, 0.5, 0.85, 0.99, 1} {
		r := RolloffRadius(power, p)
		if r < prev {
			t.Fatalf("RolloffRadius(%v) = %d < %d", p, r, prev)
		}
		prev = r
	}
	if prev != mask.AllPassRadius(15, 15) {
		t.Fatalf("RolloffRadius(1) = %d, want %d", prev, mask.AllPassRadius(15, 15))
	}
	if RolloffRadius(grid.New(4, 4), 0.5) != 0 {
		t.Fatal("zero spectrum should give radius 0")
	}
}

func TestFlatness(t *testing.T) {
	flat := testutil.ConstantGrid(2, 5, 5)
	if f := Calculate(flat).Flatness; math.Abs(f-1) > tolerance {
		t.Fatalf("Flatness(flat) = %v, want 1", f)
	}

	spiky := grid.New(5, 5)
	spiky.Set(0, 0, 1)
	if f := Calculate(spiky).Flatness; f != 0 {
		t.Fatalf("Flatness(spiky) = %v, want 0", f)
	}
}

func TestCeilSqrt(t *testing.T) {
	tests := map[int]int{0: 0, 1: 1, 2: 2, 4: 2, 5: 3, 9: 3, 10: 4, 99: 10, 100: 10}
	for in, want := range tests {
		if got := ceilSqrt(in); got != want {
			t.Fatalf("ceilSqrt(%d) = %d, want %d", in, got, want)
		}
	}
}
