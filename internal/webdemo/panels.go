package webdemo

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-spectral2d/dsp/filter/spectral"
	"github.com/cwbudde/algo-spectral2d/dsp/grid"
	"github.com/cwbudde/algo-spectral2d/internal/imageio"
)

// Panel names, in display order.
const (
	PanelOriginal = "original"
	PanelSpectrum = "spectrum"
	PanelLowMask  = "low_mask"
	PanelHighMask = "high_mask"
	PanelLowPass  = "low_pass"
	PanelHighPass = "high_pass"
)

// PanelNames lists every panel in display order.
var PanelNames = []string{
	PanelOriginal,
	PanelSpectrum,
	PanelLowMask,
	PanelHighMask,
	PanelLowPass,
	PanelHighPass,
}

// PanelTitles maps panel names to display captions.
var PanelTitles = map[string]string{
	PanelOriginal: "Original image",
	PanelSpectrum: "Magnitude spectrum (log)",
	PanelLowMask:  "Low-pass mask",
	PanelHighMask: "High-pass mask",
	PanelLowPass:  "Low-pass filtered",
	PanelHighPass: "High-pass filtered",
}

// ErrUnknownPanel is returned for names not in PanelNames.
var ErrUnknownPanel = errors.New("webdemo: unknown panel")

// PanelGrid selects the grid behind a panel and how it should be scaled
// to 8 bits. The spectrum is auto-contrasted, everything else is shown on
// the fixed [0,1] range.
func PanelGrid(name string, img grid.Grid, res spectral.Result) (grid.Grid, imageio.Scale, error) {
	switch name {
	case PanelOriginal:
		return img, imageio.ScaleClamp, nil
	case PanelSpectrum:
		return res.Magnitude, imageio.ScaleMinMax, nil
	case PanelLowMask:
		return res.LowMask, imageio.ScaleClamp, nil
	case PanelHighMask:
		return res.HighMask, imageio.ScaleClamp, nil
	case PanelLowPass:
		return res.LowPass, imageio.ScaleClamp, nil
	case PanelHighPass:
		return res.HighPass, imageio.ScaleClamp, nil
	default:
		return grid.Grid{}, imageio.ScaleClamp, fmt.Errorf("%w: %q", ErrUnknownPanel, name)
	}
}

// PanelPNG renders one panel as PNG.
func PanelPNG(name string, img grid.Grid, res spectral.Result) ([]byte, error) {
	g, scale, err := PanelGrid(name, img, res)
	if err != nil {
		return nil, err
	}
	return imageio.PNGBytes(g, scale)
}

// RenderPanels renders every panel as PNG, keyed by name.
func RenderPanels(img grid.Grid, res spectral.Result) (map[string][]byte, error) {
	out := make(map[string][]byte, len(PanelNames))
	for _, name := range PanelNames {
		b, err := PanelPNG(name, img, res)
		if err != nil {
			return nil, err
		}
		out[name] = b
	}
	return out, nil
}
