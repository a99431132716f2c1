package imageio

import (
	"math"

	"github.com/cwbudde/algo-spectral2d/dsp/grid"
)

// Reference returns a size x size synthetic test chart with content at
// several spatial frequencies: a smooth disc (low), vertical bars of
// increasing frequency, a horizontal gradient and a fine checkerboard
// (high). Values lie in [0,1].
func Reference(size int) grid.Grid {
	if size <= 0 {
		return grid.Grid{}
	}
	g := grid.New(size, size)
	half := size / 2
	fs := float64(size)

	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			var v float64
			switch {
			case r < half && c < half:
				// Soft-edged disc on black.
				dx := float64(c) - fs/4
				dy := float64(r) - fs/4
				d := math.Hypot(dx, dy) / (fs / 6)
				v = 0.5 * (1 - math.Tanh(4*(d-1)))
			case r < half:
				// Bars whose period shrinks from 16 to 2 pixels across the quadrant.
				x := float64(c-half) / float64(max(1, size-half))
				period := 16 - 14*x
				v = 0.5 + 0.5*math.Cos(2*math.Pi*float64(c)/period)
			case c < half:
				v = float64(c) / float64(max(1, half-1))
			default:
				if (r+c)%2 == 0 {
					v = 1
				}
			}
			g.Set(r, c, math.Min(1, math.Max(0, v)))
		}
	}
	return g
}
