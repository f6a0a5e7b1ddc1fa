package main

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/juliafx"
	"github.com/gogpu/juliafx/region"
)

func TestParseTile(t *testing.T) {
	tests := []struct {
		in      string
		want    region.Limits
		wantErr bool
	}{
		{"2048x2048", region.Limits{MaxWidth: 2048, MaxHeight: 2048}, false},
		{"512X256", region.Limits{MaxWidth: 512, MaxHeight: 256}, false},
		{"0x64", region.Limits{MaxWidth: 0, MaxHeight: 64}, false},
		{"0", region.Limits{}, false},
		{"64", region.Limits{}, true},
		{"ax2", region.Limits{}, true},
		{"2x-1", region.Limits{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTile(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTile(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseTile(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"a.png":  "png",
		"a.BMP":  "bmp",
		"a.tif":  "tiff",
		"a.tiff": "tiff",
		"a":      "png",
	}
	for in, want := range tests {
		if got := formatFromPath(in); got != want {
			t.Errorf("formatFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseFlags(t *testing.T) {
	cfg, err := parseFlags([]string{
		"-width", "64", "-height", "32", "-out", "x.bmp",
		"-angle", "45", "-mu1", "0", "-zoom", "20", "-shadow=false", "-tile", "16x16",
	})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	if cfg.width != 64 || cfg.height != 32 {
		t.Errorf("size = %dx%d", cfg.width, cfg.height)
	}
	if cfg.format != "bmp" {
		t.Errorf("format = %q, want bmp", cfg.format)
	}
	if cfg.tile != (region.Limits{MaxWidth: 16, MaxHeight: 16}) {
		t.Errorf("tile = %+v", cfg.tile)
	}
	want := juliafx.DefaultParams()
	want.Rotation.Angle = 45
	want.Mu1 = 0
	want.Zoom = 20
	want.SelfShadow = false
	if cfg.params != want {
		t.Errorf("params = %+v, want %+v", cfg.params, want)
	}
}

func TestParseFlagsRejects(t *testing.T) {
	tests := [][]string{
		{"-zoom", "41"},
		{"-width", "0"},
		{"-height", "9000"},
		{"-format", "gif"},
		{"-tile", "big"},
		{"-tile", "0", "-width", "8216", "-height", "8216"},
		{"-tile", "0x5000", "-width", "8216", "-height", "8216"},
		{"-tile", "8216x8216", "-width", "8216", "-height", "8216"},
	}
	for _, args := range tests {
		if _, err := parseFlags(args); err == nil {
			t.Errorf("parseFlags(%v) should fail", args)
		}
	}
}

func TestParseFlagsTileBinding(t *testing.T) {
	tests := []struct {
		args []string
		want region.Limits
	}{
		{[]string{"-tile", "0", "-width", "800", "-height", "600"}, region.Limits{}},
		{[]string{"-tile", "0x1024", "-width", "8216", "-height", "4000"}, region.Limits{MaxHeight: 1024}},
		{[]string{"-width", "8216", "-height", "8216"}, region.Limits{MaxWidth: 2048, MaxHeight: 2048}},
	}
	for _, tt := range tests {
		cfg, err := parseFlags(tt.args)
		if err != nil {
			t.Errorf("parseFlags(%v) error = %v", tt.args, err)
			continue
		}
		if cfg.tile != tt.want {
			t.Errorf("parseFlags(%v) tile = %+v, want %+v", tt.args, cfg.tile, tt.want)
		}
	}
}

func TestTileBytes(t *testing.T) {
	tests := []struct {
		limits        region.Limits
		width, height int
		want          int
	}{
		{region.Limits{}, 8216, 8216, 8216 * 8216 * 4},
		{region.Limits{MaxWidth: 2048, MaxHeight: 2048}, 8216, 8216, 2048 * 2048 * 4},
		{region.Limits{MaxWidth: 2048, MaxHeight: 2048}, 100, 50, 100 * 50 * 4},
		{region.Limits{MaxHeight: 16}, 300, 200, 300 * 16 * 4},
	}
	for _, tt := range tests {
		if got := tileBytes(tt.limits, tt.width, tt.height); got != tt.want {
			t.Errorf("tileBytes(%+v, %d, %d) = %d, want %d", tt.limits, tt.width, tt.height, got, tt.want)
		}
	}
}

func TestScaleToFit(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 400, 100))
	got := scaleToFit(img, 100).Bounds()
	if got.Dx() != 100 || got.Dy() != 25 {
		t.Errorf("scaled = %v, want 100x25", got)
	}

	small := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	if scaleToFit(small, 100) != image.Image(small) {
		t.Error("small image should be returned unchanged")
	}
}

func TestWriteImage(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.NRGBA{R: 255, A: 255})

	for _, format := range []string{"png", "bmp", "tiff"} {
		path := filepath.Join(dir, "out."+format)
		if err := writeImage(path, format, img); err != nil {
			t.Fatalf("writeImage(%s) error = %v", format, err)
		}
		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		st, _ := f.Stat()
		f.Close()
		if st.Size() == 0 {
			t.Errorf("%s output is empty", format)
		}
	}
}

func TestPreviewPath(t *testing.T) {
	if got := previewPath("/tmp/julia.png"); got != "/tmp/julia.preview.png" {
		t.Errorf("previewPath() = %q", got)
	}
}
