package webdemo

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cwbudde/algo-spectral2d/dsp/filter/spectral"
	"github.com/cwbudde/algo-spectral2d/dsp/grid"
	"github.com/cwbudde/algo-spectral2d/internal/config"
	"github.com/cwbudde/algo-spectral2d/internal/imageio"
)

// ErrNoImage is returned by accessors before an image has been set.
var ErrNoImage = errors.New("webdemo: no image loaded")

// Engine holds the explorer state: the current image, the radius and the
// last filter result. Every change that affects the output triggers exactly
// one spectral.Filter call. Engine is safe for concurrent use.
type Engine struct {
	mu       sync.Mutex
	img      grid.Grid
	radius   int
	opts     []spectral.Option
	result   spectral.Result
	ready    bool
	onUpdate func(spectral.Result)
}

// NewEngine creates an engine at the default radius with no image.
func NewEngine(opts ...spectral.Option) *Engine {
	return &Engine{
		radius: config.DefaultRadius,
		opts:   opts,
	}
}

// ClampRadius limits r to the slider range.
func ClampRadius(r int) int {
	return min(max(r, config.MinRadius), config.MaxRadius)
}

// OnUpdate registers fn to receive every new result. fn runs outside the
// engine lock and receives its own copy.
func (e *Engine) OnUpdate(fn func(spectral.Result)) {
	e.mu.Lock()
	e.onUpdate = fn
	e.mu.Unlock()
}

// SetImage replaces the image and recomputes.
func (e *Engine) SetImage(img grid.Grid) error {
	e.mu.Lock()
	res, err := spectral.Filter(img, e.radius, e.opts...)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.img = img.Clone()
	e.result = res
	e.ready = true
	fn := e.onUpdate
	e.mu.Unlock()

	if fn != nil {
		fn(res.Clone())
	}
	return nil
}

// LoadImage decodes an encoded image and sets it.
func (e *Engine) LoadImage(data []byte, maxSize int) error {
	img, _, err := imageio.DecodeBytes(data, imageio.WithMaxSize(maxSize))
	if err != nil {
		return fmt.Errorf("webdemo: load image: %w", err)
	}
	return e.SetImage(img)
}

// SetRadius clamps r to the slider range, stores it and recomputes when an
// image is present. It returns the radius actually used.
func (e *Engine) SetRadius(r int) (int, error) {
	r = ClampRadius(r)

	e.mu.Lock()
	if r == e.radius || !e.ready {
		e.radius = r
		e.mu.Unlock()
		return r, nil
	}
	res, err := spectral.Filter(e.img, r, e.opts...)
	if err != nil {
		e.mu.Unlock()
		return e.radius, err
	}
	e.radius = r
	e.result = res
	fn := e.onUpdate
	e.mu.Unlock()

	if fn != nil {
		fn(res.Clone())
	}
	return r, nil
}

// Radius returns the current radius.
func (e *Engine) Radius() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.radius
}

// Result returns a copy of the last filter result.
func (e *Engine) Result() (spectral.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return spectral.Result{}, ErrNoImage
	}
	return e.result.Clone(), nil
}

// Image returns a copy of the current input image.
func (e *Engine) Image() (grid.Grid, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return grid.Grid{}, ErrNoImage
	}
	return e.img.Clone(), nil
}

// Panel returns one named panel as PNG.
func (e *Engine) Panel(name string) ([]byte, error) {
	e.mu.Lock()
	img, res, ready := e.img, e.result, e.ready
	e.mu.Unlock()
	if !ready {
		return nil, ErrNoImage
	}
	return PanelPNG(name, img, res)
}

// Panels returns every panel as PNG, keyed by name.
func (e *Engine) Panels() (map[string][]byte, error) {
	e.mu.Lock()
	img, res, ready := e.img, e.result, e.ready
	e.mu.Unlock()
	if !ready {
		return nil, ErrNoImage
	}
	return RenderPanels(img, res)
}
