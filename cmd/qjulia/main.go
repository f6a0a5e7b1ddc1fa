// Command qjulia renders a quaternion Julia set to an image file.
//
// Usage:
//
//	qjulia [flags]
//
// Examples:
//
//	qjulia -width 1920 -height 1080 -out julia.png
//	qjulia -angle 30 -tilt 45 -mu1 20000 -zoom 14 -out julia.tiff -format tiff
//	qjulia -backend webgpu -tile 512x512 -preview 256 -v
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gogpu/juliafx"
	"github.com/gogpu/juliafx/compute"
	"github.com/gogpu/juliafx/compute/webgpu"
	"github.com/gogpu/juliafx/region"
	"github.com/gogpu/juliafx/surface"
)

type config struct {
	width, height int
	out           string
	format        string
	preview       int
	backend       string
	tile          region.Limits
	noFallback    bool
	custom        bool
	verbose       bool
	params        juliafx.Params
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "qjulia:", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		fmt.Fprintln(os.Stderr, "qjulia:", err)
		os.Exit(1)
	}
}

// maxTileBytes is the storage binding size every WebGPU device supports.
const maxTileBytes = 128 << 20

// tileBytes is the output size of the largest tile limits produce for a
// width x height image. A zero limit leaves that axis unbounded.
func tileBytes(limits region.Limits, width, height int) int {
	w, h := width, height
	if limits.MaxWidth > 0 && limits.MaxWidth < w {
		w = limits.MaxWidth
	}
	if limits.MaxHeight > 0 && limits.MaxHeight < h {
		h = limits.MaxHeight
	}
	return w * h * 4
}

func parseFlags(args []string) (*config, error) {
	fs := flag.NewFlagSet("qjulia", flag.ContinueOnError)
	p := juliafx.DefaultParams()
	cfg := &config{}
	var tile string

	fs.IntVar(&cfg.width, "width", 800, "image width")
	fs.IntVar(&cfg.height, "height", 600, "image height")
	fs.StringVar(&cfg.out, "out", "julia.png", "output file")
	fs.StringVar(&cfg.format, "format", "", "output format: png, bmp or tiff (default from -out extension)")
	fs.IntVar(&cfg.preview, "preview", 0, "also write a preview with this maximum edge (0 = off)")
	fs.StringVar(&cfg.backend, "backend", "hal", "compute backend: hal or webgpu")
	fs.StringVar(&tile, "tile", "2048x2048", "maximum tile size WxH (0 = unbounded)")
	fs.BoolVar(&cfg.noFallback, "no-fallback", false, "do not fall back to a software adapter")
	fs.BoolVar(&cfg.custom, "full", true, "render the whole image in one region pass")
	fs.BoolVar(&cfg.verbose, "v", false, "verbose logging")

	fs.Float64Var(&p.Rotation.Angle, "angle", p.Rotation.Angle, "rotation angle in degrees [-180, 180]")
	fs.Float64Var(&p.Rotation.TiltDirection, "tilt-dir", p.Rotation.TiltDirection, "tilt direction in degrees [-180, 180]")
	fs.Float64Var(&p.Rotation.TiltAmount, "tilt", p.Rotation.TiltAmount, "tilt amount in degrees [0, 90]")
	fs.Float64Var(&p.LightRotation.TiltDirection, "light-dir", p.LightRotation.TiltDirection, "light tilt direction in degrees [-180, 180]")
	fs.Float64Var(&p.LightRotation.TiltAmount, "light-tilt", p.LightRotation.TiltAmount, "light tilt amount in degrees [0, 90]")
	fs.Float64Var(&p.Mu1, "mu1", p.Mu1, "dimension 1 [0, 32767]")
	fs.Float64Var(&p.Mu2, "mu2", p.Mu2, "dimension 2 [0, 32767]")
	fs.Float64Var(&p.Mu3, "mu3", p.Mu3, "dimension 3 [0, 32767]")
	fs.Float64Var(&p.Mu4, "mu4", p.Mu4, "dimension 4 [0, 32767]")
	fs.Float64Var(&p.Zoom, "zoom", p.Zoom, "zoom [0, 40]")
	fs.BoolVar(&p.SelfShadow, "shadow", p.SelfShadow, "self shadow")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	limits, err := parseTile(tile)
	if err != nil {
		return nil, err
	}
	cfg.tile = limits

	if cfg.format == "" {
		cfg.format = formatFromPath(cfg.out)
	}
	if _, ok := encoders[cfg.format]; !ok {
		return nil, fmt.Errorf("unknown format %q", cfg.format)
	}
	if cfg.width <= 0 || cfg.height <= 0 ||
		cfg.width > juliafx.MaxTextureSize || cfg.height > juliafx.MaxTextureSize {
		return nil, fmt.Errorf("size %dx%d not in [1, %d]", cfg.width, cfg.height, juliafx.MaxTextureSize)
	}
	if n := tileBytes(cfg.tile, cfg.width, cfg.height); n > maxTileBytes {
		return nil, fmt.Errorf("tile %s: %d-byte output binding exceeds %d bytes, set a smaller -tile", tile, n, maxTileBytes)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	cfg.params = p
	return cfg, nil
}

func newBackend(name string, fallback bool) (compute.Backend, error) {
	switch name {
	case "hal":
		return compute.NewHALBackend(compute.WithSoftwareFallback(fallback)), nil
	case "webgpu":
		return webgpu.New(webgpu.WithSoftwareFallback(fallback)), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

func run(ctx context.Context, cfg *config) error {
	level := slog.LevelWarn
	if cfg.verbose {
		level = slog.LevelDebug
	}
	juliafx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	backend, err := newBackend(cfg.backend, !cfg.noFallback)
	if err != nil {
		return err
	}

	fx, err := juliafx.New(backend,
		juliafx.WithTileLimits(cfg.tile),
		juliafx.WithCustomRegionHandling(cfg.custom),
	)
	if err != nil {
		return err
	}
	defer func() { _ = fx.Close() }()

	if err := fx.Configure(cfg.params); err != nil {
		return err
	}
	if err := fx.PreRender(ctx); err != nil {
		return fmt.Errorf("%w: %w", compute.ErrBackendUnavailable, err)
	}

	dst := surface.New(cfg.width, cfg.height)
	stats, err := fx.RenderImage(ctx, dst)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("interrupted after %d of %d tiles", stats.Written, stats.Planned)
		}
		return err
	}
	juliafx.Logger().Info("rendered", "tiles", stats.Written, "full", stats.FullRender)

	img := dst.ToNRGBA()
	if err := writeImage(cfg.out, cfg.format, img); err != nil {
		return err
	}
	if cfg.preview > 0 {
		path := previewPath(cfg.out)
		if err := writeImage(path, cfg.format, scaleToFit(img, cfg.preview)); err != nil {
			return err
		}
	}
	return nil
}
