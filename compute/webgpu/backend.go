// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package webgpu provides a compute.Backend on wgpu-native through
// cogentcore/webgpu.
//
// The hardware attempt requests a high-performance adapter and rejects CPU
// adapters; the software attempt requests the fallback adapter. Kernels are
// passed to the driver as WGSL, so no SPIR-V compilation happens here.
package webgpu

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gogpu/juliafx/compute"
	"github.com/gogpu/juliafx/internal/cache"
	"github.com/gogpu/juliafx/kernel"
)

// maxPipelines bounds how many compiled kernels a backend keeps alive.
const maxPipelines = 4

var errMapFailed = errors.New("map staging buffer failed")

// Backend runs kernels on wgpu-native.
//
// Backend is safe for concurrent use; dispatches are serialized.
type Backend struct {
	mu sync.Mutex

	softwareFallback bool

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	info     compute.AdapterInfo
	ready    bool

	pipelines *cache.Cache[string, *pipeline]
	current   *pipeline
	staging   *compute.StagingPool
}

var _ compute.Backend = (*Backend)(nil)

// pipeline is a compiled kernel with its auto-generated bind group layout.
type pipeline struct {
	shader   *wgpu.ShaderModule
	pipeline *wgpu.ComputePipeline
	layout   *wgpu.BindGroupLayout
}

func (p *pipeline) release() {
	if p.layout != nil {
		p.layout.Release()
		p.layout = nil
	}
	if p.pipeline != nil {
		p.pipeline.Release()
		p.pipeline = nil
	}
	if p.shader != nil {
		p.shader.Release()
		p.shader = nil
	}
}

// Option configures a Backend.
type Option func(*Backend)

// WithSoftwareFallback enables or disables the fallback adapter attempt.
// Enabled by default.
func WithSoftwareFallback(enabled bool) Option {
	return func(b *Backend) {
		b.softwareFallback = enabled
	}
}

// New creates a backend. Call Init before use.
func New(opts ...Option) *Backend {
	b := &Backend{
		softwareFallback: true,
		staging:          compute.NewStagingPool(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.pipelines = cache.New[string, *pipeline](maxPipelines)
	b.pipelines.OnEvict(func(_ string, p *pipeline) {
		if b.current == p {
			b.current = nil
		}
		p.release()
	})
	return b
}

// Init requests a hardware adapter, then the fallback adapter, and opens a
// device on the first that succeeds.
func (b *Backend) Init(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.release()
	if err := ctx.Err(); err != nil {
		return err
	}

	b.instance = wgpu.CreateInstance(nil)
	if b.instance == nil {
		return fmt.Errorf("%w: create instance failed", compute.ErrBackendUnavailable)
	}

	for _, software := range []bool{false, true} {
		if software && !b.softwareFallback {
			break
		}
		if err := ctx.Err(); err != nil {
			b.release()
			return err
		}
		if err := b.open(software); err != nil {
			compute.Logger().Warn("webgpu: adapter attempt failed", "software", software, "err", err)
			continue
		}
		b.ready = true
		if software {
			compute.Logger().Warn("webgpu: using fallback adapter", "adapter", b.info.Name)
		} else {
			compute.Logger().Info("webgpu: using hardware adapter", "adapter", b.info.Name)
		}
		return nil
	}

	b.release()
	return fmt.Errorf("%w: no hardware or fallback adapter could be opened", compute.ErrBackendUnavailable)
}

// open performs one adapter attempt. Caller must hold b.mu.
func (b *Backend) open(software bool) error {
	opts := &wgpu.RequestAdapterOptions{PowerPreference: wgpu.PowerPreferenceHighPerformance}
	if software {
		opts = &wgpu.RequestAdapterOptions{ForceFallbackAdapter: true}
	}
	adapter, err := b.instance.RequestAdapter(opts)
	if err != nil {
		return fmt.Errorf("request adapter: %w", err)
	}

	info := adapter.GetInfo()
	isCPU := info.AdapterType == wgpu.AdapterTypeCPU
	if !software && isCPU {
		adapter.Release()
		return fmt.Errorf("adapter %q is not hardware", info.Name)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "qjulia device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		adapter.Release()
		return fmt.Errorf("request device: %w", err)
	}

	b.adapter = adapter
	b.device = device
	b.queue = device.GetQueue()
	b.info = compute.AdapterInfo{Name: info.Name, Software: software || isCPU}
	return nil
}

// Ready reports whether a device is open.
func (b *Backend) Ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ready
}

// Adapter returns the device in use. It is the zero value before Init.
func (b *Backend) Adapter() compute.AdapterInfo {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.info
}

// LoadProgram builds the compute pipeline for p from its WGSL source.
func (b *Backend) LoadProgram(p kernel.Program) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.ready {
		return compute.ErrBackendUnavailable
	}
	pl, err := b.pipelines.GetOrCreate(p.Path, func() (*pipeline, error) {
		return b.createPipeline(p)
	})
	if err != nil {
		return err
	}
	b.current = pl
	compute.Logger().Info("webgpu: program loaded", "path", p.Path)
	return nil
}

// createPipeline compiles p. Caller must hold b.mu.
func (b *Backend) createPipeline(p kernel.Program) (*pipeline, error) {
	pl := &pipeline{}
	shader, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: p.Path,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: p.Source,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create shader module: %w", compute.ErrDeviceLost, err)
	}
	pl.shader = shader

	cp, err := b.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: p.Path + " pipeline",
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     shader,
			EntryPoint: p.Entry(),
		},
	})
	if err != nil {
		pl.release()
		return nil, fmt.Errorf("%w: create compute pipeline: %w", compute.ErrDeviceLost, err)
	}
	pl.pipeline = cp
	pl.layout = cp.GetBindGroupLayout(0)
	return pl, nil
}

// Dispatch runs the loaded kernel for one tile and maps the output back.
func (b *Backend) Dispatch(ctx context.Context, req compute.Request) (*compute.Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.ready {
		return nil, compute.ErrBackendUnavailable
	}
	if b.current == nil {
		return nil, compute.ErrNoProgram
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := b.dispatch(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", compute.ErrDeviceLost, err)
	}
	return compute.NewResult(out, b.staging), nil
}

// dispatch does the GPU work of Dispatch. Caller must hold b.mu.
func (b *Backend) dispatch(req compute.Request) ([]byte, error) {
	outSize := uint64(req.OutputSize())
	constSize := uint64(len(req.Constants))

	compute.Logger().Debug("webgpu: dispatch",
		"width", req.Width, "height", req.Height,
		"groups", req.Groups, "bytes", outSize)

	constBuf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "qjulia constants",
		Size:  constSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create constant buffer: %w", err)
	}
	defer constBuf.Release()

	outBuf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "qjulia output",
		Size:  outSize,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create output buffer: %w", err)
	}
	defer outBuf.Release()

	stagingBuf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "qjulia staging",
		Size:  outSize,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer stagingBuf.Release()

	if err := b.queue.WriteBuffer(constBuf, 0, req.Constants); err != nil {
		return nil, fmt.Errorf("write constants: %w", err)
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "qjulia bind group",
		Layout: b.current.layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: constBuf, Offset: 0, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: outBuf, Offset: 0, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	defer bindGroup.Release()

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(b.current.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(req.Groups[0], req.Groups[1], req.Groups[2])
	pass.End()
	pass.Release()

	if err := encoder.CopyBufferToBuffer(outBuf, 0, stagingBuf, 0, outSize); err != nil {
		return nil, fmt.Errorf("copy output: %w", err)
	}
	cmd, err := encoder.Finish(nil)
	if err != nil {
		return nil, fmt.Errorf("finish encoding: %w", err)
	}
	defer cmd.Release()
	b.queue.Submit(cmd)

	var status wgpu.BufferMapAsyncStatus
	err = stagingBuf.MapAsync(wgpu.MapModeRead, 0, outSize, func(s wgpu.BufferMapAsyncStatus) {
		status = s
	})
	if err != nil {
		return nil, fmt.Errorf("map staging buffer: %w", err)
	}
	b.device.Poll(true, nil)
	if status != wgpu.BufferMapAsyncStatusSuccess {
		return nil, fmt.Errorf("%w: status %v", errMapFailed, status)
	}

	out := b.staging.Get(int(outSize))
	copy(out, stagingBuf.GetMappedRange(0, uint(outSize)))
	if err := stagingBuf.Unmap(); err != nil {
		b.staging.Put(out)
		return nil, fmt.Errorf("unmap staging buffer: %w", err)
	}
	return out, nil
}

// Close releases pipelines, the device and the instance.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.release()
	return nil
}

// release drops everything Init created. Caller must hold b.mu.
func (b *Backend) release() {
	b.pipelines.Clear()
	b.current = nil
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
	b.info = compute.AdapterInfo{}
	b.ready = false
}
