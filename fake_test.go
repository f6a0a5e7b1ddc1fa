package juliafx

import (
	"context"
	"sync"

	"github.com/gogpu/juliafx/compute"
	"github.com/gogpu/juliafx/kernel"
)

// fakeBackend is an in-memory compute.Backend that paints every pixel with
// a fixed color.
type fakeBackend struct {
	mu       sync.Mutex
	ready    bool
	initErr  error
	loadErr  error
	inits    int
	closes   int
	loaded   []string
	requests []compute.Request
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{}
}

func (f *fakeBackend) Init(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inits++
	f.ready = false
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.initErr != nil {
		return f.initErr
	}
	f.ready = true
	return nil
}

func (f *fakeBackend) Ready() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ready
}

func (f *fakeBackend) LoadProgram(p kernel.Program) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return f.loadErr
	}
	f.loaded = append(f.loaded, p.Path)
	return nil
}

func (f *fakeBackend) Dispatch(_ context.Context, req compute.Request) (*compute.Result, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	out := make([]byte, req.OutputSize())
	for i := 0; i+3 < len(out); i += 4 {
		out[i], out[i+1], out[i+2], out[i+3] = 0x10, 0x20, 0x30, 0xFF
	}
	return compute.NewResult(out, nil), nil
}

func (f *fakeBackend) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	f.ready = false
	return nil
}

func (f *fakeBackend) dispatches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}
