package spectrum

import (
	"math"
	"sync"

	"github.com/cwbudde/algo-spectral2d/dsp/grid"
	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// Magnitude returns |X[k]| for each complex coefficient.
//
// This function uses SIMD-optimized implementations when available (AVX2, SSE2, NEON).
// Scratch buffers are pooled internally, so in steady state this allocates
// only the output slice.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(out, re, im)
	putScratch(buf)
	return out
}

// Power returns |X[k]|^2 for each complex coefficient.
func Power(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Power(out, re, im)
	putScratch(buf)
	return out
}

// LogMagnitude returns log(1 + |X[k]|) for each complex coefficient.
// The log1p compresses the dynamic range so that the DC peak does not hide
// the rest of the spectrum on screen.
func LogMagnitude(in []complex128) []float64 {
	out := Magnitude(in)
	for i, m := range out {
		out[i] = math.Log1p(m)
	}
	return out
}

// MagnitudeGrid returns |X| for every coefficient of g.
func MagnitudeGrid(g grid.CGrid) grid.Grid {
	return grid.Grid{Rows: g.Rows, Cols: g.Cols, Data: orEmpty(Magnitude(g.Data))}
}

// LogMagnitudeGrid returns log(1 + |X|) for every coefficient of g.
// The result is a display view; it cannot be inverted back to g.
func LogMagnitudeGrid(g grid.CGrid) grid.Grid {
	return grid.Grid{Rows: g.Rows, Cols: g.Cols, Data: orEmpty(LogMagnitude(g.Data))}
}

// PowerGrid returns |X|^2 for every coefficient of g.
func PowerGrid(g grid.CGrid) grid.Grid {
	return grid.Grid{Rows: g.Rows, Cols: g.Cols, Data: orEmpty(Power(g.Data))}
}

func orEmpty(s []float64) []float64 {
	if s == nil {
		return []float64{}
	}
	return s
}
