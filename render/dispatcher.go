// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/juliafx/compute"
	"github.com/gogpu/juliafx/kernel"
	"github.com/gogpu/juliafx/region"
)

// Dispatcher runs the kernel for a single tile.
//
// It holds no per-tile state; every GPU buffer a dispatch needs is created
// and released by the backend within DispatchTile.
type Dispatcher struct {
	backend compute.Backend
	program kernel.Program
}

// NewDispatcher creates a dispatcher for program on backend.
// The program must already be loaded on the backend.
func NewDispatcher(backend compute.Backend, program kernel.Program) *Dispatcher {
	return &Dispatcher{backend: backend, program: program}
}

// Backend returns the compute backend.
func (d *Dispatcher) Backend() compute.Backend { return d.backend }

// Program returns the kernel program.
func (d *Dispatcher) Program() kernel.Program { return d.program }

// Request builds the dispatch request for tile from the pass-wide
// constants. Only the tile geometry differs between tiles of a pass.
func (d *Dispatcher) Request(tile region.Rect, base kernel.Constants) (compute.Request, error) {
	consts, err := base.WithTile(tile).AppendBinary(make([]byte, 0, kernel.Size))
	if err != nil {
		return compute.Request{}, fmt.Errorf("%w: encode constants: %w", compute.ErrInvalidRequest, err)
	}
	return compute.Request{
		Constants:   consts,
		Width:       tile.Width,
		Height:      tile.Height,
		Groups:      d.program.Groups(tile.Width, tile.Height),
		ElementSize: d.program.BytesPerElement(),
	}, nil
}

// DispatchTile runs the kernel over tile and returns its output.
// The caller must Release the result once it has been consumed.
//
// It fails with ErrBackendUnavailable if the backend is not ready and with
// ErrDeviceLost if the dispatch itself fails. Context errors are returned
// unchanged.
func (d *Dispatcher) DispatchTile(ctx context.Context, tile region.Rect, base kernel.Constants) (*compute.Result, error) {
	if !d.backend.Ready() {
		return nil, ErrBackendUnavailable
	}

	req, err := d.Request(tile, base)
	if err != nil {
		return nil, err
	}
	res, err := d.backend.Dispatch(ctx, req)
	switch {
	case err == nil:
	case errors.Is(err, ErrBackendUnavailable), errors.Is(err, ErrDeviceLost),
		errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, err
	default:
		return nil, fmt.Errorf("%w: tile %v: %w", ErrDeviceLost, tile, err)
	}

	if res.Len() != req.OutputSize() {
		res.Release()
		return nil, fmt.Errorf("%w: tile %v: backend returned %d bytes, want %d",
			ErrDeviceLost, tile, res.Len(), req.OutputSize())
	}
	return res, nil
}
