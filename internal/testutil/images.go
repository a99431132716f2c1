package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-spectral2d/dsp/grid"
)

// NoiseGrid generates a rows x cols grid of uniform noise in [0,1) with a
// fixed seed for reproducibility.
func NoiseGrid(seed int64, rows, cols int) grid.Grid {
	g := grid.New(rows, cols)
	rng := rand.New(rand.NewSource(seed))
	for i := range g.Data {
		g.Data[i] = rng.Float64()
	}
	return g
}

// ConstantGrid returns a rows x cols grid filled with value.
func ConstantGrid(value float64, rows, cols int) grid.Grid {
	g := grid.New(rows, cols)
	g.Fill(value)
	return g
}

// ImpulseGrid returns a zero grid with a single 1 at (r, c).
func ImpulseGrid(rows, cols, r, c int) grid.Grid {
	g := grid.New(rows, cols)
	if r >= 0 && r < rows && c >= 0 && c < cols {
		g.Set(r, c, 1)
	}
	return g
}

// CosineGrid returns 0.5 + amplitude*cos(2*pi*(fr*r/rows + fc*c/cols)),
// a single spatial frequency at (fr, fc) cycles per image on top of a
// mid-gray DC level.
func CosineGrid(rows, cols int, fr, fc, amplitude float64) grid.Grid {
	g := grid.New(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			phase := 2 * math.Pi * (fr*float64(r)/float64(rows) + fc*float64(c)/float64(cols))
			g.Set(r, c, 0.5+amplitude*math.Cos(phase))
		}
	}
	return g
}
