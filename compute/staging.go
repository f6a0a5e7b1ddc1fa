// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import "sync"

// StagingPool reuses host memory for readback buffers.
//
// Tiles in a pass share a handful of sizes (full tiles plus the remainder
// column and row), so buffers are pooled per exact size.
//
// StagingPool is safe for concurrent use.
type StagingPool struct {
	// pools maps a buffer size to a *sync.Pool of *[]byte.
	pools sync.Map
}

// NewStagingPool creates an empty pool.
func NewStagingPool() *StagingPool {
	return &StagingPool{}
}

// Get returns a buffer of exactly size bytes.
// Its contents are unspecified; readback overwrites all of it.
func (p *StagingPool) Get(size int) []byte {
	if size <= 0 {
		return nil
	}
	bp := p.poolFor(size).Get().(*[]byte)
	return (*bp)[:size]
}

// Put returns buf for reuse. Buffers of a size never handed out by Get
// are left to the garbage collector.
func (p *StagingPool) Put(buf []byte) {
	if cap(buf) == 0 {
		return
	}
	if pool, ok := p.pools.Load(cap(buf)); ok {
		buf = buf[:cap(buf)]
		pool.(*sync.Pool).Put(&buf)
	}
}

// poolFor gets or creates the pool for buffers of size bytes.
func (p *StagingPool) poolFor(size int) *sync.Pool {
	if pool, ok := p.pools.Load(size); ok {
		return pool.(*sync.Pool)
	}

	newPool := &sync.Pool{
		New: func() any {
			b := make([]byte, size)
			return &b
		},
	}

	// Another goroutine may have stored one first.
	actual, _ := p.pools.LoadOrStore(size, newPool)
	return actual.(*sync.Pool)
}
