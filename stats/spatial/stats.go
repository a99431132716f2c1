// Package spatial computes image-domain statistics of sample grids.
package spatial

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-spectral2d/dsp/grid"
	"github.com/cwbudde/algo-vecmath"
)

// ErrShapeMismatch is returned by comparisons of differently sized grids.
var ErrShapeMismatch = errors.New("spatial: shape mismatch")

// Stats holds image-domain statistics of a grid.
type Stats struct {
	Rows     int
	Cols     int
	Mean     float64
	RMS      float64
	Max      float64
	MaxRow   int
	MaxCol   int
	Min      float64
	MinRow   int
	MinCol   int
	Range    float64 // max - min
	Energy   float64 // sum of squares
	Power    float64 // energy / sample count
	Variance float64
	StdDev   float64
	Skewness float64
	Kurtosis float64 // excess kurtosis
	// Contrast is the RMS contrast StdDev / Mean; 0 for a zero mean.
	Contrast float64
}

// Calculate computes all statistics in a single pass using Welford's
// online algorithm for numerical stability on higher-order moments.
func Calculate(g grid.Grid) Stats {
	n := len(g.Data)
	if n == 0 || g.Cols == 0 {
		return Stats{Rows: g.Rows, Cols: g.Cols}
	}

	var (
		mean float64
		m2   float64
		m3   float64
		m4   float64
	)

	maxVal, maxPos := g.Data[0], 0
	minVal, minPos := g.Data[0], 0

	for i, x := range g.Data {
		ni := float64(i + 1)
		delta := x - mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * float64(i)

		// M4 must be updated before M3, and M3 before M2.
		m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*m2 - 4*deltaN*m3
		m3 += term1*deltaN*(float64(i)-1) - 3*deltaN*m2
		m2 += term1
		mean += deltaN

		if x > maxVal {
			maxVal, maxPos = x, i
		}
		if x < minVal {
			minVal, minPos = x, i
		}
	}

	nf := float64(n)
	energy := vecmath.DotProduct(g.Data, g.Data)
	variance := m2 / nf
	stdDev := math.Sqrt(variance)

	var skewness, kurtosis float64
	if variance > 0 {
		skewness = (m3 / nf) / (variance * stdDev)
		kurtosis = (m4/nf)/(variance*variance) - 3
	}

	var contrast float64
	if mean != 0 {
		contrast = stdDev / math.Abs(mean)
	}

	return Stats{
		Rows:     g.Rows,
		Cols:     g.Cols,
		Mean:     mean,
		RMS:      math.Sqrt(energy / nf),
		Max:      maxVal,
		MaxRow:   maxPos / g.Cols,
		MaxCol:   maxPos % g.Cols,
		Min:      minVal,
		MinRow:   minPos / g.Cols,
		MinCol:   minPos % g.Cols,
		Range:    maxVal - minVal,
		Energy:   energy,
		Power:    energy / nf,
		Variance: variance,
		StdDev:   stdDev,
		Skewness: skewness,
		Kurtosis: kurtosis,
		Contrast: contrast,
	}
}

// Mean returns the average sample value.
func Mean(g grid.Grid) float64 {
	if len(g.Data) == 0 {
		return 0
	}
	return vecmath.Sum(g.Data) / float64(len(g.Data))
}

// RMS returns the root-mean-square sample value.
func RMS(g grid.Grid) float64 {
	if len(g.Data) == 0 {
		return 0
	}
	return math.Sqrt(vecmath.DotProduct(g.Data, g.Data) / float64(len(g.Data)))
}

// MSE returns the mean squared error between two equally sized grids.
func MSE(reference, test grid.Grid) (float64, error) {
	if !grid.SameShape(reference, test) || len(reference.Data) != len(test.Data) {
		return 0, fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, reference.Rows, reference.Cols, test.Rows, test.Cols)
	}
	if len(reference.Data) == 0 {
		return 0, nil
	}
	sum := 0.0
	for i, v := range reference.Data {
		d := v - test.Data[i]
		sum += d * d
	}
	return sum / float64(len(reference.Data)), nil
}

// PSNR returns the peak signal-to-noise ratio of test against reference in
// dB, for samples whose full scale is peak (1 for normalized images).
// Identical grids give +Inf.
func PSNR(reference, test grid.Grid, peak float64) (float64, error) {
	mse, err := MSE(reference, test)
	if err != nil {
		return 0, err
	}
	if mse == 0 {
		return math.Inf(1), nil
	}
	return 10 * math.Log10(peak*peak/mse), nil
}
