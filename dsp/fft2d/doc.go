// Package fft2d computes forward and inverse 2D discrete Fourier transforms
// of complex grids, plus the center shift used to place the zero-frequency
// coefficient in the middle of a spectrum.
//
// The transform is separable: every row is transformed, then every column.
// Each axis chooses its own 1D backend. Power-of-two lengths run on
// algo-fft; all other lengths (including 1) run on gonum's mixed-radix
// FFTPACK port, so any image size is accepted.
//
// Forward is unnormalized. Inverse scales by 1/(rows*cols), so
// Inverse(Forward(x)) == x up to rounding.
package fft2d
