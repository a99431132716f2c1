package spectral

import "github.com/cwbudde/algo-spectral2d/dsp/window"

// Config holds tunable filter settings.
type Config struct {
	// Clip clamps both reconstructions to [ClipMin, ClipMax].
	Clip    bool
	ClipMin float64
	ClipMax float64

	// DisplayWindow tapers the image before computing Result.Magnitude.
	// It does not affect the filtered images or Result.Spectrum.
	DisplayWindow window.Type
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the display-oriented defaults: clamp to [0,1].
func DefaultConfig() Config {
	return Config{
		Clip:    true,
		ClipMin: 0,
		ClipMax: 1,
	}
}

// WithoutClipping returns the raw real part of the inverse transform.
func WithoutClipping() Option {
	return func(cfg *Config) {
		cfg.Clip = false
	}
}

// WithClipRange clamps to [lo, hi] instead of [0,1]. Ignored if lo > hi.
func WithClipRange(lo, hi float64) Option {
	return func(cfg *Config) {
		if lo <= hi {
			cfg.Clip = true
			cfg.ClipMin = lo
			cfg.ClipMax = hi
		}
	}
}

// WithDisplayWindow apodizes the image with a separable window before
// computing the display magnitude, which hides the cross-shaped leakage of
// non-periodic images.
func WithDisplayWindow(t window.Type) Option {
	return func(cfg *Config) {
		cfg.DisplayWindow = t
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
