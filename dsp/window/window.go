// Package window generates separable 2D apodization windows.
//
// A window tapers an image towards its borders before the forward
// transform. This suppresses the cross-shaped leakage that the implicit
// periodic extension of a non-periodic image produces in the spectrum.
package window

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-spectral2d/dsp/grid"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeTukey
	TypeKaiser
)

var typeNames = map[Type]string{
	TypeRectangular: "rectangular",
	TypeHann:        "hann",
	TypeHamming:     "hamming",
	TypeBlackman:    "blackman",
	TypeTukey:       "tukey",
	TypeKaiser:      "kaiser",
}

// ErrUnknownType is returned by ParseType for unsupported names.
var ErrUnknownType = errors.New("window: unknown type")

// ErrShapeMismatch is returned when a window does not match the image.
var ErrShapeMismatch = errors.New("window: shape mismatch")

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType maps a name such as "hann" to its Type. "none" and the empty
// string mean rectangular.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "none" {
		return TypeRectangular, nil
	}
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return TypeRectangular, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// Option configures window generation.
type Option func(*config)

type config struct {
	alpha    float64
	periodic bool
}

func defaultConfig() config {
	return config{alpha: math.NaN()}
}

// WithAlpha sets the shape parameter: the tapered fraction for Tukey
// (default 0.5) and beta for Kaiser (default 8.6).
func WithAlpha(v float64) Option {
	return func(c *config) {
		c.alpha = v
	}
}

// WithPeriodic generates the periodic form (denominator n instead of n-1).
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

var (
	hannCoeffs     = []float64{0.5, -0.5}
	hammingCoeffs  = []float64{0.54, -0.46}
	blackmanCoeffs = []float64{0.42, -0.5, 0.08}
)

// Generate returns a 1D window of the given length. A length of 1 yields
// [1].
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	if length == 1 {
		out[0] = 1
		return out
	}
	for i := range out {
		out[i] = evalWindow(t, samplePosition(i, length, cfg.periodic), cfg)
	}
	return out
}

// Separable returns the rows x cols outer product of two 1D windows.
func Separable(t Type, rows, cols int, opts ...Option) grid.Grid {
	g := grid.New(rows, cols)
	wr := Generate(t, rows, opts...)
	wc := Generate(t, cols, opts...)
	for r := 0; r < rows; r++ {
		vecmath.ScaleBlock(g.Row(r), wc, wr[r])
	}
	return g
}

// Apply returns img multiplied cell by cell with w.
func Apply(img, w grid.Grid) (grid.Grid, error) {
	if !grid.SameShape(img, w) || len(img.Data) != len(w.Data) {
		return grid.Grid{}, fmt.Errorf("%w: %dx%d image vs %dx%d window", ErrShapeMismatch, img.Rows, img.Cols, w.Rows, w.Cols)
	}
	out := grid.New(img.Rows, img.Cols)
	vecmath.MulBlock(out.Data, img.Data, w.Data)
	return out, nil
}

// CoherentGain returns the mean window value, the factor by which the
// window scales the DC bin.
func CoherentGain(w grid.Grid) float64 {
	if len(w.Data) == 0 {
		return 0
	}
	return vecmath.Sum(w.Data) / float64(len(w.Data))
}

func evalWindow(t Type, x float64, cfg config) float64 {
	switch t {
	case TypeHann:
		return cosineFromCoeffs(x, hannCoeffs)
	case TypeHamming:
		return cosineFromCoeffs(x, hammingCoeffs)
	case TypeBlackman:
		return math.Max(0, cosineFromCoeffs(x, blackmanCoeffs))
	case TypeTukey:
		alpha := cfg.alpha
		if math.IsNaN(alpha) {
			alpha = 0.5
		}
		return tukeyAt(x, alpha)
	case TypeKaiser:
		beta := cfg.alpha
		if math.IsNaN(beta) {
			beta = 8.6
		}
		return kaiserAt(x, beta)
	default:
		return 1
	}
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

func samplePosition(n, size int, periodic bool) float64 {
	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}

	return float64(n) / den
}

func kaiserAt(x, beta float64) float64 {
	if beta <= 0 {
		return 1
	}

	r := 2*x - 1
	term := math.Sqrt(math.Max(0, 1-r*r))

	return besselI0(beta*term) / besselI0(beta)
}

func tukeyAt(x, alpha float64) float64 {
	if alpha <= 0 {
		return 1
	}

	if alpha >= 1 {
		return cosineFromCoeffs(x, hannCoeffs)
	}

	a := alpha / 2
	switch {
	case x < a:
		return 0.5 * (1 + math.Cos(math.Pi*(2*x/alpha-1)))
	case x <= 1-a:
		return 1
	default:
		return 0.5 * (1 + math.Cos(math.Pi*(2*x/alpha-2/alpha+1)))
	}
}

// besselI0 returns a numerical approximation of the modified Bessel function I0.
func besselI0(x float64) float64 {
	ax := math.Abs(x)
	if ax < 3.75 {
		y := x / 3.75
		y *= y

		return 1.0 + y*(3.5156229+y*(3.0899424+y*(1.2067492+y*(0.2659732+y*(0.0360768+y*0.0045813)))))
	}

	y := 3.75 / ax

	return (math.Exp(ax) / math.Sqrt(ax)) *
		(0.39894228 + y*(0.01328592+y*(0.00225319+y*(-0.00157565+y*(0.00916281+y*(-0.02057706+y*(0.02635537+y*(-0.01647633+y*0.00392377))))))))
}
