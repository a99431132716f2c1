// Package grid provides row-major 2D sample containers for image-domain
// and frequency-domain processing.
//
// [Grid] holds real samples, [CGrid] holds complex coefficients. Both are
// plain value types over a flat slice so that per-row work can hand rows
// straight to 1D routines without copying. [Pool] recycles complex line
// buffers for separable transforms.
package grid
