package spatial_test

import (
	"fmt"

	"github.com/cwbudde/algo-spectral2d/dsp/grid"
	"github.com/cwbudde/algo-spectral2d/stats/spatial"
)

func ExampleCalculate() {
	g, _ := grid.FromRows([][]float64{
		{0.0, 0.5},
		{0.5, 1.0},
	})
	s := spatial.Calculate(g)
	fmt.Printf("mean=%.2f min=%.1f max=%.1f\n", s.Mean, s.Min, s.Max)
	// Output:
	// mean=0.50 min=0.0 max=1.0
}
