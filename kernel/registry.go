// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package kernel

import (
	"embed"
	"fmt"
	"sort"
	"sync"
)

// DefaultPath is the resource path of the built-in quaternion Julia kernel.
const DefaultPath = "QJulia4DEffect.Shaders.QJulia4D.fx"

//go:embed shaders/*.wgsl
var shaders embed.FS

var (
	registryMu sync.RWMutex
	programs   = make(map[string]Program)
)

func init() {
	src, err := shaders.ReadFile("shaders/qjulia4d.wgsl")
	if err != nil {
		panic(err)
	}
	programs[DefaultPath] = Program{
		Path:        DefaultPath,
		Source:      string(src),
		EntryPoint:  "main",
		GroupWidth:  GroupWidth,
		ElementSize: ElementSize,
	}
}

// Register adds p under p.Path, replacing any program already there.
// Cached compilation output for the path is discarded.
func Register(p Program) error {
	if p.Path == "" || p.Source == "" {
		return fmt.Errorf("%w: path %q", ErrInvalidProgram, p.Path)
	}
	if p.GroupWidth <= 0 {
		p.GroupWidth = GroupWidth
	}
	if p.ElementSize <= 0 {
		p.ElementSize = ElementSize
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	programs[p.Path] = p
	spirvCache.Delete(p.Path)
	return nil
}

// Unregister removes the program at path.
// This is useful for testing.
func Unregister(path string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(programs, path)
	spirvCache.Delete(path)
}

// Lookup returns the program registered under path.
func Lookup(path string) (Program, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	p, ok := programs[path]
	if !ok {
		return Program{}, fmt.Errorf("%w: %q", ErrUnknownProgram, path)
	}
	return p, nil
}

// Paths returns the registered resource paths in sorted order.
func Paths() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	paths := make([]string, 0, len(programs))
	for path := range programs {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
