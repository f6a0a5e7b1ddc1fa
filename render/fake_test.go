// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/gogpu/juliafx/compute"
	"github.com/gogpu/juliafx/kernel"
	"github.com/gogpu/juliafx/region"
)

// fakeBackend records dispatches and fills each tile with a pixel value
// derived from the dispatch index, so tests can tell tiles apart.
type fakeBackend struct {
	ready    bool
	requests []compute.Request

	// onDispatch, if set, runs at the start of each dispatch with the
	// 1-based dispatch count. A non-nil error fails the dispatch.
	onDispatch func(n int) error

	// shortResult makes the backend return one byte less than requested.
	shortResult bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{ready: true}
}

func (f *fakeBackend) Init(context.Context) error {
	f.ready = true
	return nil
}

func (f *fakeBackend) Ready() bool                      { return f.ready }
func (f *fakeBackend) LoadProgram(kernel.Program) error { return nil }

func (f *fakeBackend) Close() error {
	f.ready = false
	return nil
}

func (f *fakeBackend) Dispatch(_ context.Context, req compute.Request) (*compute.Result, error) {
	f.requests = append(f.requests, req)
	n := len(f.requests)
	if f.onDispatch != nil {
		if err := f.onDispatch(n); err != nil {
			return nil, err
		}
	}
	size := req.OutputSize()
	if f.shortResult {
		size--
	}
	out := make([]byte, size)
	for i := 0; i+3 < len(out); i += 4 {
		out[i] = byte(n)
		out[i+3] = 0xFF
	}
	return compute.NewResult(out, nil), nil
}

// fakeEffect is a render Effect with fixed settings.
type fakeEffect struct {
	limits region.Limits
	custom bool
}

func (e *fakeEffect) TileLimits() region.Limits  { return e.limits }
func (e *fakeEffect) CustomRegionHandling() bool { return e.custom }

func (e *fakeEffect) BaseConstants(width, height int) kernel.Constants {
	return kernel.Constants{
		Diffuse: kernel.DefaultDiffuse,
		Epsilon: kernel.DefaultEpsilon,
		Width:   int32(width),
		Height:  int32(height),
		Zoom:    1,
	}
}

// decodeTile extracts the geometry fields from an encoded constants record.
func decodeTile(b []byte) (x, y, w float32, imgW, imgH int32) {
	f := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b[off:])) }
	return f(180), f(184), f(188),
		int32(binary.LittleEndian.Uint32(b[36:])), int32(binary.LittleEndian.Uint32(b[40:]))
}
