// Package spectrum provides spectrum-domain utilities for 2D frequency
// grids.
//
// The package does not implement the transform itself. It operates on
// complex coefficients produced by [github.com/cwbudde/algo-spectral2d/dsp/fft2d]
// and derives magnitude, power and log-magnitude views for analysis and
// display.
package spectrum
