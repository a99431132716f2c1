// Package mask builds binary frequency-selection masks for center-shifted
// 2D spectra.
package mask

import "github.com/cwbudde/algo-spectral2d/dsp/grid"

// Center returns the zero-frequency position of a center-shifted
// rows x cols spectrum.
func Center(rows, cols int) (crow, ccol int) {
	return rows / 2, cols / 2
}

// Circular returns a low-pass mask: 1 where the squared distance to the
// center is at most radius^2, 0 elsewhere. The center cell is always 1.
//
// A negative radius is treated as 0. A radius at or beyond the distance
// from the center to the farthest corner yields an all-ones mask.
func Circular(rows, cols, radius int) grid.Grid {
	// Capping at the all-pass radius keeps radius^2 from overflowing.
	radius = min(EffectiveRadius(radius), AllPassRadius(rows, cols))
	m := grid.New(rows, cols)
	crow, ccol := Center(rows, cols)
	r2 := radius * radius

	for r := 0; r < rows; r++ {
		dy := r - crow
		row := m.Row(r)
		for c := range row {
			dx := c - ccol
			if dx*dx+dy*dy <= r2 {
				row[c] = 1
			}
		}
	}
	return m
}

// Complement returns 1 - m, cell by cell.
func Complement(m grid.Grid) grid.Grid {
	out := grid.New(m.Rows, m.Cols)
	for i, v := range m.Data {
		out.Data[i] = 1 - v
	}
	return out
}

// EffectiveRadius maps a requested radius to the one Circular uses.
func EffectiveRadius(radius int) int {
	if radius < 0 {
		return 0
	}
	return radius
}

// AllPassRadius returns the smallest radius for which Circular returns an
// all-ones mask on a rows x cols grid.
func AllPassRadius(rows, cols int) int {
	crow, ccol := Center(rows, cols)
	// The farthest corner is (0,0): the center sits at or past the midpoint.
	d2 := crow*crow + ccol*ccol
	r := 0
	for r*r < d2 {
		r++
	}
	return r
}

// PassCount returns the number of cells set to 1.
func PassCount(m grid.Grid) int {
	n := 0
	for _, v := range m.Data {
		if v == 1 {
			n++
		}
	}
	return n
}
