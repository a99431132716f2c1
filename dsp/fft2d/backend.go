package fft2d

import (
	"fmt"

	algofft "github.com/cwbudde/algo-fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Backend names reported by [Plan.Backends].
const (
	BackendAlgoFFT = "algo-fft"
	BackendGonum   = "gonum"
)

// axis is a 1D complex transform of a fixed length. Both methods may be
// called with dst and src aliasing the same slice.
type axis interface {
	forward(dst, src []complex128) error
	inverse(dst, src []complex128) error
	name() string
}

// newAxis picks a backend for length n.
func newAxis(n int) (axis, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: axis length %d", ErrInvalidSize, n)
	}
	if isPowerOf2(n) && n >= 2 {
		plan, err := algofft.NewPlan64(n)
		if err == nil {
			return &algoAxis{plan: plan}, nil
		}
		// algo-fft rejected the size; the FFTPACK port handles every length.
	}
	return &gonumAxis{fft: fourier.NewCmplxFFT(n), scale: 1 / float64(n)}, nil
}

type algoAxis struct {
	plan *algofft.Plan[complex128]
}

func (a *algoAxis) forward(dst, src []complex128) error {
	if err := a.plan.Forward(dst, src); err != nil {
		return fmt.Errorf("fft2d: forward FFT failed: %w", err)
	}
	return nil
}

// inverse relies on algo-fft normalizing its inverse transform.
func (a *algoAxis) inverse(dst, src []complex128) error {
	if err := a.plan.Inverse(dst, src); err != nil {
		return fmt.Errorf("fft2d: inverse FFT failed: %w", err)
	}
	return nil
}

func (a *algoAxis) name() string { return BackendAlgoFFT }

type gonumAxis struct {
	fft   *fourier.CmplxFFT
	scale float64
}

func (g *gonumAxis) forward(dst, src []complex128) error {
	g.fft.Coefficients(dst, src)
	return nil
}

// inverse scales by 1/n; gonum's Sequence is unnormalized.
func (g *gonumAxis) inverse(dst, src []complex128) error {
	g.fft.Sequence(dst, src)
	for i, v := range dst {
		dst[i] = complex(real(v)*g.scale, imag(v)*g.scale)
	}
	return nil
}

func (g *gonumAxis) name() string { return BackendGonum }

func isPowerOf2(n int) bool {
	return n > 0 && n&(n-1) == 0
}
