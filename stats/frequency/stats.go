// Package frequency computes radial statistics of center-shifted 2D power
// spectra.
//
// Distances are measured in frequency cells from the zero-frequency
// position (rows/2, cols/2), the same convention the circular masks use, so
// a radius reported here can be fed straight back into a filter.
package frequency

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-spectral2d/dsp/grid"
	"github.com/cwbudde/algo-spectral2d/dsp/mask"
	"github.com/cwbudde/algo-spectral2d/dsp/spectrum"
)

// ErrShapeMismatch is returned when a mask does not match the spectrum.
var ErrShapeMismatch = errors.New("frequency: shape mismatch")

// DefaultRolloffPercent is the energy share used by [Calculate] for Rolloff.
const DefaultRolloffPercent = 0.85

// acFloor is the share of total energy below which the non-DC cells are
// treated as empty.
const acFloor = 1e-20

// Stats holds radial statistics of a center-shifted power spectrum.
type Stats struct {
	Rows   int
	Cols   int
	Energy float64 // sum of |X|^2
	DC     float64 // |X|^2 at the center
	// DCFraction is DC / Energy, the share of energy in the image mean.
	DCFraction float64
	Centroid   float64 // energy-weighted mean radius, DC excluded
	Spread     float64 // energy-weighted radius deviation around Centroid, DC excluded
	Flatness   float64 // spectral flatness of |X| (Wiener entropy), DC excluded, 0..1
	Rolloff    int     // smallest radius holding DefaultRolloffPercent of the energy
}

// Calculate computes radial statistics of a center-shifted power grid
// (|X|^2, linear scale).
func Calculate(power grid.Grid) Stats {
	s := Stats{Rows: power.Rows, Cols: power.Cols}
	if len(power.Data) == 0 || power.Cols == 0 {
		return s
	}

	crow, ccol := mask.Center(power.Rows, power.Cols)
	center := crow*power.Cols + ccol

	for _, v := range power.Data {
		s.Energy += v
	}
	s.DC = power.Data[center]
	if s.Energy > 0 {
		s.DCFraction = s.DC / s.Energy
	}

	acEnergy := 0.0
	for i, v := range power.Data {
		if i != center {
			acEnergy += v
		}
	}
	// Rounding residue from the transform of a flat image is not signal.
	if acEnergy > acFloor*s.Energy {
		weighted := 0.0
		eachCell(power, func(i int, dist float64) {
			if i != center {
				weighted += dist * power.Data[i]
			}
		})
		s.Centroid = weighted / acEnergy

		sq := 0.0
		eachCell(power, func(i int, dist float64) {
			if i != center {
				d := dist - s.Centroid
				sq += d * d * power.Data[i]
			}
		})
		s.Spread = math.Sqrt(sq / acEnergy)
	}

	s.Flatness = flatness(power, center)
	s.Rolloff = RolloffRadius(power, DefaultRolloffPercent)
	return s
}

// CalculateFromComplex derives the power of a center-shifted spectrum and
// delegates to [Calculate].
func CalculateFromComplex(shifted grid.CGrid) Stats {
	return Calculate(spectrum.PowerGrid(shifted))
}

// EnergyFraction returns the share of spectral energy that m passes:
// sum(power*m) / sum(power). A zero spectrum gives 0.
func EnergyFraction(power, m grid.Grid) (float64, error) {
	if !grid.SameShape(power, m) || len(power.Data) != len(m.Data) {
		return 0, fmt.Errorf("%w: %dx%d spectrum vs %dx%d mask", ErrShapeMismatch, power.Rows, power.Cols, m.Rows, m.Cols)
	}
	total, passed := 0.0, 0.0
	for i, v := range power.Data {
		total += v
		passed += v * m.Data[i]
	}
	if total == 0 {
		return 0, nil
	}
	return passed / total, nil
}

// Centroid returns the energy-weighted mean distance from the center,
// excluding the DC cell.
func Centroid(power grid.Grid) float64 {
	return Calculate(power).Centroid
}

// RolloffRadius returns the smallest integer radius r such that the cells
// with (row-crow)^2 + (col-ccol)^2 <= r^2 hold at least percent (0..1) of
// the total energy. A zero spectrum gives 0.
func RolloffRadius(power grid.Grid, percent float64) int {
	if len(power.Data) == 0 || power.Cols == 0 {
		return 0
	}

	// Energy per ring, where ring r holds the cells first admitted at radius r.
	rings := make([]float64, mask.AllPassRadius(power.Rows, power.Cols)+1)
	total := 0.0
	crow, ccol := mask.Center(power.Rows, power.Cols)
	for i, v := range power.Data {
		dy, dx := i/power.Cols-crow, i%power.Cols-ccol
		rings[ceilSqrt(dx*dx+dy*dy)] += v
		total += v
	}
	if total == 0 {
		return 0
	}

	threshold := percent * total
	cum := 0.0
	for r, e := range rings {
		cum += e
		if cum >= threshold {
			return r
		}
	}
	return len(rings) - 1
}

// eachCell calls fn with every flat index and its Euclidean distance to
// the center.
func eachCell(g grid.Grid, fn func(i int, dist float64)) {
	crow, ccol := mask.Center(g.Rows, g.Cols)
	for i := range g.Data {
		dy, dx := float64(i/g.Cols-crow), float64(i%g.Cols-ccol)
		fn(i, math.Hypot(dx, dy))
	}
}

// flatness is exp(mean(log|X|)) / mean(|X|) over every non-DC cell.
func flatness(power grid.Grid, center int) float64 {
	n := len(power.Data) - 1
	if n < 1 {
		return 0
	}

	sumLin, sumLog := 0.0, 0.0
	for i, p := range power.Data {
		if i == center {
			continue
		}
		v := math.Sqrt(p)
		if v <= 0 {
			// A zero cell makes the geometric mean zero.
			return 0
		}
		sumLin += v
		sumLog += math.Log(v)
	}

	meanLin := sumLin / float64(n)
	if meanLin == 0 {
		return 0
	}
	return math.Exp(sumLog/float64(n)) / meanLin
}

// ceilSqrt returns the smallest r >= 0 with r*r >= d2.
func ceilSqrt(d2 int) int {
	r := int(math.Sqrt(float64(d2)))
	for r*r < d2 {
		r++
	}
	for r > 0 && (r-1)*(r-1) >= d2 {
		r--
	}
	return r
}
