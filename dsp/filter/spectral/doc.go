// Package spectral filters grayscale images in the frequency domain with
// an ideal circular low-pass mask and its high-pass complement.
//
// [Filter] runs the whole pipeline for one image and one radius:
//
//  1. forward 2D DFT, center-shifted so the zero-frequency coefficient
//     sits at (rows/2, cols/2)
//  2. log(1 + |F|) magnitude spectrum for display, optionally of a
//     window-tapered copy of the image (see [WithDisplayWindow])
//  3. circular low-pass mask of the given radius and its complement
//  4. masking, inverse shift, inverse 2D DFT, real part
//  5. clamping of both results to [0,1]
//
// Step 5 is a display-safety step and not part of the filter itself: the
// inverse transform leaves tiny out-of-range values from rounding, and the
// high-pass result is zero-mean, so roughly half of it is negative and is
// cut to 0. Use [WithoutClipping] to get the unclamped reconstruction.
//
// Filter is a pure function. It never writes to its input and allocates
// every output, so it may be called concurrently on independent inputs.
//
// # Radius conventions
//
// A cell is in the low-pass band when (col-ccol)^2 + (row-crow)^2 <= radius^2.
// Radius 0 therefore still passes the zero-frequency cell: the low-pass image
// is the image mean and the high-pass image is the mean-free residue.
// Negative radii are treated as 0. Radii at or beyond
// [mask.AllPassRadius] pass every coefficient, so the low-pass image equals
// the input and the high-pass image is zero.
package spectral
