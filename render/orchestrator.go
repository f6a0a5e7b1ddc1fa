// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"fmt"
	"sync"

	"github.com/gogpu/juliafx/kernel"
	"github.com/gogpu/juliafx/region"
	"github.com/gogpu/juliafx/surface"
)

// Effect is what the orchestrator needs from a concrete effect.
type Effect interface {
	// TileLimits bounds the size of a single dispatch.
	TileLimits() region.Limits

	// CustomRegionHandling reports whether the effect renders the whole
	// selection on the first invocation after a configuration change.
	CustomRegionHandling() bool

	// BaseConstants returns the kernel constants shared by every tile of a
	// pass over a width x height image.
	BaseConstants(width, height int) kernel.Constants
}

// State is the orchestrator lifecycle state.
type State int

// Orchestrator states.
const (
	StateIdle State = iota
	StateConfigChanged
	StateRendering
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateConfigChanged:
		return "ConfigChanged"
	case StateRendering:
		return "Rendering"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Stats summarizes one render invocation.
type Stats struct {
	// Planned is the number of non-empty tiles produced by slicing.
	// Without cancellation or error it equals Dispatched and Written.
	Planned int

	// Dispatched is the number of tiles sent to the backend.
	Dispatched int

	// Written is the number of tiles copied into the surface.
	Written int

	// FullRender is true when the invocation rendered the whole selection
	// bounds instead of the supplied regions.
	FullRender bool

	// Cancelled is true when the pass stopped on context cancellation.
	Cancelled bool

	// Err is the error that stopped the pass, if any.
	Err error
}

// Orchestrator drives render passes for one effect instance.
//
// Orchestrator is safe for concurrent use; concurrent Render calls are
// serialized.
type Orchestrator struct {
	mu         sync.Mutex
	effect     Effect
	dispatcher *Dispatcher

	state      State
	fullRender bool // next full-selection invocation renders the bounds
	warned     bool // backend unavailability reported for this configuration
}

// NewOrchestrator creates an orchestrator in the Idle state.
func NewOrchestrator(effect Effect, dispatcher *Dispatcher) *Orchestrator {
	return &Orchestrator{effect: effect, dispatcher: dispatcher}
}

// SetDispatcher replaces the dispatcher, typically after the device or
// kernel was re-created.
func (o *Orchestrator) SetDispatcher(d *Dispatcher) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.dispatcher = d
}

// Configure records a configuration change. The next invocation over a
// full selection renders the whole selection bounds.
func (o *Orchestrator) Configure() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = StateConfigChanged
	o.fullRender = true
	o.warned = false
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// PendingFullRender reports whether the full-selection render is still due.
func (o *Orchestrator) PendingFullRender() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.fullRender
}

// Render renders into dst the regions chosen from sel and rois.
//
// An empty rois returns immediately. Tiles are dispatched and written one
// at a time in slicing order. The pass stops before the next tile when ctx
// is done or the backend is no longer ready; it stops after the failing
// tile when a dispatch fails. Tiles written before the stop are kept.
//
// The returned error is ctx.Err() on cancellation, ErrBackendUnavailable
// when the backend is not ready, or the dispatch error.
func (o *Orchestrator) Render(ctx context.Context, dst *surface.Surface, sel region.Selection, rois []region.Rect) (Stats, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	var stats Stats
	if len(rois) == 0 {
		return stats, nil
	}

	regions := rois
	if o.effect.CustomRegionHandling() && o.fullRender && sel.IsFull(dst.Bounds()) {
		regions = []region.Rect{sel.Bounds()}
		o.fullRender = false
		stats.FullRender = true
	}

	o.state = StateRendering
	defer func() { o.state = StateIdle }()

	tiles := nonEmpty(region.Slice(regions, o.effect.TileLimits()))
	stats.Planned = len(tiles)
	base := o.effect.BaseConstants(dst.Width(), dst.Height())

	slogger().Debug("render: pass",
		"regions", len(regions), "tiles", len(tiles), "full", stats.FullRender)

	for _, tile := range tiles {
		if err := ctx.Err(); err != nil {
			stats.Cancelled = true
			stats.Err = err
			slogger().Debug("render: cancelled", "written", stats.Written, "planned", stats.Planned)
			return stats, err
		}
		if o.dispatcher == nil || !o.dispatcher.Backend().Ready() {
			stats.Err = ErrBackendUnavailable
			o.reportUnavailable()
			return stats, stats.Err
		}
		if !dst.Bounds().Contains(tile) {
			stats.Err = fmt.Errorf("%w: tile %v outside surface %v", ErrInvalidTileGeometry, tile, dst.Bounds())
			return stats, stats.Err
		}

		if err := o.renderTile(ctx, dst, tile, base, &stats); err != nil {
			stats.Err = err
			slogger().Warn("render: tile failed, stopping pass",
				"tile", tile.String(), "written", stats.Written, "err", err)
			return stats, err
		}
	}
	return stats, nil
}

// nonEmpty returns tiles without zero-area rectangles. tiles may alias the
// caller's regions, so it is copied rather than filtered in place.
func nonEmpty(tiles []region.Rect) []region.Rect {
	n := 0
	for _, t := range tiles {
		if !t.Empty() {
			n++
		}
	}
	if n == len(tiles) {
		return tiles
	}
	out := make([]region.Rect, 0, n)
	for _, t := range tiles {
		if !t.Empty() {
			out = append(out, t)
		}
	}
	return out
}

// renderTile dispatches one tile and writes it. The result is released on
// every path. Caller must hold o.mu.
func (o *Orchestrator) renderTile(ctx context.Context, dst *surface.Surface, tile region.Rect, base kernel.Constants, stats *Stats) error {
	stats.Dispatched++
	res, err := o.dispatcher.DispatchTile(ctx, tile, base)
	if err != nil {
		return err
	}
	defer res.Release()

	surface.WriteTile(dst, res.Bytes(), tile)
	stats.Written++
	return nil
}

// reportUnavailable logs backend unavailability once per configuration.
// Caller must hold o.mu.
func (o *Orchestrator) reportUnavailable() {
	if o.warned {
		return
	}
	o.warned = true
	slogger().Warn("render: compute backend not initialized, skipping render")
}
