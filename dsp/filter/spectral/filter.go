package spectral

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-spectral2d/dsp/fft2d"
	"github.com/cwbudde/algo-spectral2d/dsp/grid"
	"github.com/cwbudde/algo-spectral2d/dsp/mask"
	"github.com/cwbudde/algo-spectral2d/dsp/spectrum"
	"github.com/cwbudde/algo-spectral2d/dsp/window"
)

// ErrInvalidInput is returned when the image has a zero dimension or its
// sample slice does not match its dimensions.
var ErrInvalidInput = errors.New("spectral: invalid input image")

// Result holds every output of one [Filter] call. All grids have the
// input's dimensions.
type Result struct {
	LowPass   grid.Grid // low-pass reconstruction
	HighPass  grid.Grid // high-pass reconstruction
	Magnitude grid.Grid // log(1+|F|) of the center-shifted spectrum, display only
	LowMask   grid.Grid
	HighMask  grid.Grid

	// Spectrum is the center-shifted forward transform. It is kept for
	// analysis (energy statistics); the display magnitude is derived from it.
	Spectrum grid.CGrid

	// Radius is the radius the masks were built with, after negative
	// values were mapped to 0.
	Radius int

	// LowClipped and HighClipped count samples changed by clamping.
	LowClipped  int
	HighClipped int
}

// Clone returns a deep copy of r.
func (r Result) Clone() Result {
	out := r
	out.LowPass = r.LowPass.Clone()
	out.HighPass = r.HighPass.Clone()
	out.Magnitude = r.Magnitude.Clone()
	out.LowMask = r.LowMask.Clone()
	out.HighMask = r.HighMask.Clone()
	out.Spectrum = r.Spectrum.Clone()
	return out
}

// Filter applies a circular low-pass mask of the given radius, and its
// high-pass complement, to img in the frequency domain.
func Filter(img grid.Grid, radius int, opts ...Option) (Result, error) {
	if err := img.Validate(); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	cfg := ApplyOptions(opts...)

	plan, err := fft2d.NewPlan(img.Rows, img.Cols)
	if err != nil {
		return Result{}, fmt.Errorf("spectral: failed to create 2D FFT plan: %w", err)
	}

	freq := img.Complex()
	if err := plan.Forward(freq, freq); err != nil {
		return Result{}, fmt.Errorf("spectral: forward transform failed: %w", err)
	}

	shifted, err := fft2d.Shifted(freq)
	if err != nil {
		return Result{}, fmt.Errorf("spectral: center shift failed: %w", err)
	}

	res := Result{
		Magnitude: spectrum.LogMagnitudeGrid(shifted),
		LowMask:   mask.Circular(img.Rows, img.Cols, radius),
		Spectrum:  shifted,
		Radius:    mask.EffectiveRadius(radius),
	}
	res.HighMask = mask.Complement(res.LowMask)

	if cfg.DisplayWindow != window.TypeRectangular {
		res.Magnitude, err = windowedMagnitude(plan, img, cfg.DisplayWindow)
		if err != nil {
			return Result{}, fmt.Errorf("spectral: windowed magnitude failed: %w", err)
		}
	}

	res.LowPass, err = reconstruct(plan, shifted, res.LowMask)
	if err != nil {
		return Result{}, fmt.Errorf("spectral: low-pass reconstruction failed: %w", err)
	}

	res.HighPass, err = reconstruct(plan, shifted, res.HighMask)
	if err != nil {
		return Result{}, fmt.Errorf("spectral: high-pass reconstruction failed: %w", err)
	}

	if cfg.Clip {
		res.LowClipped = res.LowPass.Clip(cfg.ClipMin, cfg.ClipMax)
		res.HighClipped = res.HighPass.Clip(cfg.ClipMin, cfg.ClipMax)
	}

	return res, nil
}

// reconstruct masks a center-shifted spectrum, undoes the shift and
// returns the real part of the inverse transform.
func reconstruct(plan *fft2d.Plan, shifted grid.CGrid, m grid.Grid) (grid.Grid, error) {
	masked, err := shifted.MulReal(m)
	if err != nil {
		return grid.Grid{}, err
	}

	unshifted, err := fft2d.Unshifted(masked)
	if err != nil {
		return grid.Grid{}, err
	}

	if err := plan.Inverse(unshifted, unshifted); err != nil {
		return grid.Grid{}, err
	}

	return unshifted.Real(), nil
}

func windowedMagnitude(plan *fft2d.Plan, img grid.Grid, t window.Type) (grid.Grid, error) {
	tapered, err := window.Apply(img, window.Separable(t, img.Rows, img.Cols))
	if err != nil {
		return grid.Grid{}, err
	}

	freq := tapered.Complex()
	if err := plan.Forward(freq, freq); err != nil {
		return grid.Grid{}, err
	}

	shifted, err := fft2d.Shifted(freq)
	if err != nil {
		return grid.Grid{}, err
	}
	return spectrum.LogMagnitudeGrid(shifted), nil
}
