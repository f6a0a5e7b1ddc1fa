// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package juliafx

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/juliafx/compute"
	"github.com/gogpu/juliafx/kernel"
	"github.com/gogpu/juliafx/region"
	"github.com/gogpu/juliafx/render"
	"github.com/gogpu/juliafx/surface"
)

// Effect is the quaternion Julia set effect.
//
// Effect is safe for concurrent use. Render calls are serialized by the
// orchestrator.
type Effect struct {
	backend compute.Backend
	opts    options
	orch    *render.Orchestrator

	// lifeMu serializes PreRender and Close. It is never taken while mu is
	// held, and mu is never held across orchestrator calls.
	lifeMu sync.Mutex

	mu          sync.RWMutex
	params      Params
	initialized bool
	closed      bool
}

var _ render.Effect = (*Effect)(nil)

// New creates an effect that dispatches to backend. The backend is not
// initialized until PreRender. The effect starts with DefaultParams and a
// pending configuration change.
func New(backend compute.Backend, opts ...Option) (*Effect, error) {
	if backend == nil {
		return nil, errors.New("juliafx: nil backend")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger != nil {
		SetLogger(o.logger)
	}
	if _, err := kernel.Lookup(o.kernelPath); err != nil {
		return nil, err
	}

	e := &Effect{
		backend: backend,
		opts:    o,
		params:  DefaultParams(),
	}
	e.orch = render.NewOrchestrator(e, nil)
	e.orch.Configure()
	return e, nil
}

// TileLimits implements render.Effect.
func (e *Effect) TileLimits() region.Limits { return e.opts.limits }

// CustomRegionHandling implements render.Effect.
func (e *Effect) CustomRegionHandling() bool { return e.opts.customRegion }

// BaseConstants implements render.Effect.
func (e *Effect) BaseConstants(width, height int) kernel.Constants {
	e.mu.RLock()
	p := e.params
	e.mu.RUnlock()
	return p.constants(width, height)
}

// Params returns the current properties.
func (e *Effect) Params() Params {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.params
}

// Configure applies new properties. Invalid properties leave the current
// ones in place.
func (e *Effect) Configure(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.params = p
	e.mu.Unlock()

	e.orch.Configure()
	Logger().Debug("juliafx: configured",
		"mu", p.mu(), "zoom", p.Zoom, "shadow", p.SelfShadow)
	return nil
}

// PreRender re-creates the device and loads the kernel. It releases any
// previous device state first. On failure the effect stays uninitialized
// and every render skips its tiles with compute.ErrBackendUnavailable.
func (e *Effect) PreRender(ctx context.Context) error {
	e.lifeMu.Lock()
	defer e.lifeMu.Unlock()
	if e.isClosed() {
		return ErrClosed
	}

	e.setInitialized(false)
	e.orch.SetDispatcher(nil)

	program, err := kernel.Lookup(e.opts.kernelPath)
	if err != nil {
		return err
	}
	if err := e.backend.Init(ctx); err != nil {
		Logger().Warn("juliafx: device creation failed", "err", err)
		return err
	}
	if err := e.backend.LoadProgram(program); err != nil {
		Logger().Warn("juliafx: kernel load failed", "path", program.Path, "err", err)
		return err
	}

	e.orch.SetDispatcher(render.NewDispatcher(e.backend, program))
	e.setInitialized(true)
	Logger().Info("juliafx: ready", "kernel", program.Path)
	return nil
}

func (e *Effect) isClosed() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.closed
}

func (e *Effect) setInitialized(v bool) {
	e.mu.Lock()
	e.initialized = v
	e.mu.Unlock()
}

// Initialized reports whether the last PreRender succeeded.
func (e *Effect) Initialized() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.initialized
}

// RenderRegion renders rois of dst, where sel is the host's current
// selection. See render.Orchestrator.Render for the region rules and the
// returned errors.
func (e *Effect) RenderRegion(ctx context.Context, dst *surface.Surface, sel region.Selection, rois []region.Rect) (render.Stats, error) {
	if e.isClosed() {
		return render.Stats{}, ErrClosed
	}
	if dst.Width() > MaxTextureSize || dst.Height() > MaxTextureSize {
		return render.Stats{}, fmt.Errorf("%w: %dx%d exceeds %d",
			render.ErrInvalidTileGeometry, dst.Width(), dst.Height(), MaxTextureSize)
	}
	return e.orch.Render(ctx, dst, sel, rois)
}

// RenderImage renders the whole of dst as a full selection.
func (e *Effect) RenderImage(ctx context.Context, dst *surface.Surface) (render.Stats, error) {
	b := dst.Bounds()
	return e.RenderRegion(ctx, dst, region.NewSelection(b), []region.Rect{b})
}

// Close releases the kernel, device and instance. Close is idempotent.
func (e *Effect) Close() error {
	e.lifeMu.Lock()
	defer e.lifeMu.Unlock()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.initialized = false
	e.mu.Unlock()

	// Waits for an in-flight render to finish.
	e.orch.SetDispatcher(nil)

	if err := e.backend.Close(); err != nil {
		return fmt.Errorf("juliafx: close backend: %w", err)
	}
	return nil
}
