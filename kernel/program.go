// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package kernel

import (
	"fmt"

	"github.com/gogpu/naga"

	"github.com/gogpu/juliafx/internal/cache"
)

// GroupWidth is the X workgroup size of the built-in kernel.
const GroupWidth = 64

// ElementSize is the size in bytes of one output element (a packed BGRA pixel).
const ElementSize = 4

// Program describes a compute kernel and how it is dispatched.
type Program struct {
	// Path is the resource path the program is registered under.
	Path string

	// Source is the WGSL source.
	Source string

	// EntryPoint is the compute entry point, "main" if empty.
	EntryPoint string

	// GroupWidth is the workgroup size in X. The kernel must declare
	// @workgroup_size(GroupWidth, 1, 1).
	GroupWidth int

	// ElementSize is the number of output bytes per pixel.
	ElementSize int
}

// Entry returns the compute entry point name.
func (p Program) Entry() string {
	if p.EntryPoint == "" {
		return "main"
	}
	return p.EntryPoint
}

// Groups returns the workgroup counts covering a width x height tile:
// ceil(width/GroupWidth) in X, one row per group in Y, 1 in Z.
func (p Program) Groups(width, height int) [3]uint32 {
	gw := p.GroupWidth
	if gw <= 0 {
		gw = GroupWidth
	}
	return [3]uint32{uint32((width + gw - 1) / gw), uint32(height), 1}
}

// BytesPerElement returns the output element size, ElementSize if unset.
func (p Program) BytesPerElement() int {
	if p.ElementSize <= 0 {
		return ElementSize
	}
	return p.ElementSize
}

// OutputSize returns the result buffer size for a width x height tile.
func (p Program) OutputSize(width, height int) int {
	return width * height * p.BytesPerElement()
}

// spirvCache holds compiled programs keyed by path.
var spirvCache = cache.New[string, []uint32](16)

// SPIRV returns the program compiled to SPIR-V words.
// Compilation happens once per path; later calls return the cached words.
func (p Program) SPIRV() ([]uint32, error) {
	return spirvCache.GetOrCreate(p.Path, func() ([]uint32, error) {
		return compile(p.Source)
	})
}

// compile translates WGSL to little-endian SPIR-V words.
func compile(src string) ([]uint32, error) {
	b, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("kernel: compile: %w", err)
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("kernel: compile: SPIR-V length %d not a multiple of 4", len(b))
	}

	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words, nil
}
