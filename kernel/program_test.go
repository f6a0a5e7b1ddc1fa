// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package kernel

import (
	"errors"
	"strings"
	"testing"
)

const trivialKernel = `
@group(0) @binding(0) var<storage, read_write> out: array<u32>;

@compute @workgroup_size(64, 1, 1)
fn main(@builtin(global_invocation_id) id: vec3<u32>) {
    out[id.x] = id.x;
}
`

func TestLookup_Default(t *testing.T) {
	p, err := Lookup(DefaultPath)
	if err != nil {
		t.Fatalf("Lookup(%q) error = %v", DefaultPath, err)
	}
	if !strings.Contains(p.Source, "@workgroup_size(64, 1, 1)") {
		t.Error("built-in kernel does not declare a 64-wide workgroup")
	}
	if p.Entry() != "main" || p.GroupWidth != GroupWidth || p.ElementSize != ElementSize {
		t.Errorf("unexpected program metadata: %+v", p)
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup("no/such/kernel.fx")
	if !errors.Is(err, ErrUnknownProgram) {
		t.Errorf("err = %v, want ErrUnknownProgram", err)
	}
}

func TestRegister(t *testing.T) {
	const path = "test/trivial.wgsl"
	t.Cleanup(func() { Unregister(path) })

	if err := Register(Program{Path: path}); !errors.Is(err, ErrInvalidProgram) {
		t.Errorf("Register without source: err = %v", err)
	}
	if err := Register(Program{Path: path, Source: trivialKernel}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	p, err := Lookup(path)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if p.GroupWidth != GroupWidth || p.ElementSize != ElementSize {
		t.Errorf("defaults not applied: %+v", p)
	}

	found := false
	for _, s := range Paths() {
		found = found || s == path
	}
	if !found {
		t.Errorf("Paths() = %v, missing %q", Paths(), path)
	}
}

func TestGroups(t *testing.T) {
	p := Program{GroupWidth: 64}
	tests := []struct {
		w, h int
		want [3]uint32
	}{
		{1, 1, [3]uint32{1, 1, 1}},
		{64, 10, [3]uint32{1, 10, 1}},
		{65, 10, [3]uint32{2, 10, 1}},
		{130, 50, [3]uint32{3, 50, 1}},
		{2048, 2048, [3]uint32{32, 2048, 1}},
	}
	for _, tt := range tests {
		if got := p.Groups(tt.w, tt.h); got != tt.want {
			t.Errorf("Groups(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
	if got := (Program{}).Groups(65, 1); got[0] != 2 {
		t.Errorf("zero GroupWidth should default to %d", GroupWidth)
	}
}

func TestOutputSize(t *testing.T) {
	if got := (Program{}).OutputSize(130, 50); got != 130*50*4 {
		t.Errorf("OutputSize = %d", got)
	}
}

func compileOrSkip(t *testing.T, p Program) []uint32 {
	t.Helper()
	words, err := p.SPIRV()
	if err != nil {
		msg := err.Error()
		if strings.Contains(msg, "not yet implemented") || strings.Contains(msg, "not supported") {
			t.Skipf("Skipping: naga feature not yet implemented: %v", err)
		}
		t.Fatalf("SPIRV() error = %v", err)
	}
	return words
}

func TestSPIRV_CachedByPath(t *testing.T) {
	const path = "test/cached.wgsl"
	if err := Register(Program{Path: path, Source: trivialKernel}); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { Unregister(path) })

	p, _ := Lookup(path)
	first := compileOrSkip(t, p)
	if len(first) == 0 || first[0] != 0x07230203 {
		t.Fatalf("missing SPIR-V magic number: %x", first[:min(len(first), 1)])
	}
	second := compileOrSkip(t, p)
	if &first[0] != &second[0] {
		t.Error("second SPIRV() call recompiled instead of using the cache")
	}
}

func TestSPIRV_InvalidSource(t *testing.T) {
	const path = "test/broken.wgsl"
	if err := Register(Program{Path: path, Source: "fn main( {"}); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { Unregister(path) })

	p, _ := Lookup(path)
	if _, err := p.SPIRV(); err == nil {
		t.Error("expected compile error")
	}
	if spirvCache.Len() > 0 {
		if _, ok := spirvCache.Get(path); ok {
			t.Error("failed compilation was cached")
		}
	}
}
