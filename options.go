package juliafx

import (
	"log/slog"

	"github.com/gogpu/juliafx/kernel"
	"github.com/gogpu/juliafx/region"
)

// MaxTextureSize is the largest image edge the effect accepts.
const MaxTextureSize = 8216

// DefaultTileLimits bounds a single dispatch. 2048x2048 BGRA pixels fit in
// the 128 MiB storage binding every WebGPU device supports.
var DefaultTileLimits = region.Limits{MaxWidth: 2048, MaxHeight: 2048}

// Option configures an Effect during creation.
//
// Example:
//
//	fx, err := juliafx.New(backend,
//	    juliafx.WithTileLimits(region.Limits{MaxWidth: 512, MaxHeight: 512}),
//	    juliafx.WithCustomRegionHandling(true),
//	)
type Option func(*options)

type options struct {
	limits       region.Limits
	customRegion bool
	kernelPath   string
	logger       *slog.Logger
}

func defaultOptions() options {
	return options{
		limits:     DefaultTileLimits,
		kernelPath: kernel.DefaultPath,
	}
}

// WithTileLimits sets the maximum tile size. A zero dimension is unbounded.
func WithTileLimits(l region.Limits) Option {
	return func(o *options) {
		o.limits = l
	}
}

// WithCustomRegionHandling makes the first render over the full image after
// each configuration change paint the whole selection in one pass.
func WithCustomRegionHandling(enabled bool) Option {
	return func(o *options) {
		o.customRegion = enabled
	}
}

// WithKernel selects the kernel program by resource path.
// The path must be registered with the kernel package.
func WithKernel(path string) Option {
	return func(o *options) {
		o.kernelPath = path
	}
}

// WithLogger installs l as the package logger, as SetLogger does.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
