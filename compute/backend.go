// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import (
	"context"
	"fmt"

	"github.com/gogpu/juliafx/kernel"
)

// Backend is a GPU device capable of running one compute kernel.
//
// Implementations are not required to be safe for concurrent Dispatch
// calls; the render orchestrator dispatches tiles sequentially.
type Backend interface {
	// Init opens a device using the hardware-then-software policy.
	// It releases any device opened by a previous Init. On failure it
	// returns an error wrapping ErrBackendUnavailable and Ready reports
	// false.
	Init(ctx context.Context) error

	// Ready reports whether the last Init succeeded and the device has not
	// been closed.
	Ready() bool

	// LoadProgram compiles p and makes it the kernel used by Dispatch.
	LoadProgram(p kernel.Program) error

	// Dispatch runs the loaded kernel for one tile and blocks until its
	// output has been read back.
	Dispatch(ctx context.Context, req Request) (*Result, error)

	// Close releases the kernel, device and instance. Close is idempotent.
	Close() error
}

// Request describes one tile dispatch.
type Request struct {
	// Constants is the encoded kernel constant record.
	Constants []byte

	// Width and Height are the tile size in pixels.
	Width, Height int

	// Groups is the number of workgroups in X, Y and Z.
	Groups [3]uint32

	// ElementSize is the number of output bytes per pixel.
	ElementSize int
}

// OutputSize returns the size of the tile's result buffer in bytes.
func (r Request) OutputSize() int {
	return r.Width * r.Height * r.ElementSize
}

// Validate checks that the request describes a non-empty dispatch.
func (r Request) Validate() error {
	switch {
	case r.Width <= 0 || r.Height <= 0:
		return fmt.Errorf("%w: tile %dx%d", ErrInvalidRequest, r.Width, r.Height)
	case r.ElementSize <= 0:
		return fmt.Errorf("%w: element size %d", ErrInvalidRequest, r.ElementSize)
	case r.Groups[0] == 0 || r.Groups[1] == 0 || r.Groups[2] == 0:
		return fmt.Errorf("%w: groups %v", ErrInvalidRequest, r.Groups)
	case len(r.Constants) == 0:
		return fmt.Errorf("%w: no constants", ErrInvalidRequest)
	}
	return nil
}

// Result holds the bytes read back from one dispatch.
// Call Release once the bytes have been consumed.
type Result struct {
	data []byte
	pool *StagingPool
}

// NewResult wraps data read back from a dispatch. If pool is non-nil the
// buffer is returned to it on Release.
func NewResult(data []byte, pool *StagingPool) *Result {
	return &Result{data: data, pool: pool}
}

// Bytes returns the tightly packed tile output.
// The slice is invalid after Release.
func (r *Result) Bytes() []byte {
	if r == nil {
		return nil
	}
	return r.data
}

// Len returns the number of result bytes.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.data)
}

// Release returns the result memory for reuse. Safe to call more than once.
func (r *Result) Release() {
	if r == nil || r.data == nil {
		return
	}
	if r.pool != nil {
		r.pool.Put(r.data)
	}
	r.data = nil
}
