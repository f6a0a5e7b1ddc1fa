package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/gogpu/juliafx/region"
)

var encoders = map[string]func(io.Writer, image.Image) error{
	"png": png.Encode,
	"bmp": bmp.Encode,
	"tiff": func(w io.Writer, m image.Image) error {
		return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	},
}

// formatFromPath maps a file extension to an encoder name, defaulting to png.
func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	default:
		return "png"
	}
}

func writeImage(path, format string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := encoders[format](f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// previewPath inserts ".preview" before the extension.
func previewPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".preview" + ext
}

// scaleToFit downscales img so that neither edge exceeds maxEdge.
// Images already small enough are returned as is.
func scaleToFit(img image.Image, maxEdge int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxEdge && h <= maxEdge {
		return img
	}
	if w >= h {
		h = max(1, h*maxEdge/w)
		w = maxEdge
	} else {
		w = max(1, w*maxEdge/h)
		h = maxEdge
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// parseTile parses "WxH". A bare "0" means unbounded.
func parseTile(s string) (region.Limits, error) {
	if s == "0" {
		return region.Limits{}, nil
	}
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return region.Limits{}, fmt.Errorf("tile %q: want WxH", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil || w < 0 {
		return region.Limits{}, fmt.Errorf("tile %q: bad width", s)
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h < 0 {
		return region.Limits{}, fmt.Errorf("tile %q: bad height", s)
	}
	return region.Limits{MaxWidth: w, MaxHeight: h}, nil
}
