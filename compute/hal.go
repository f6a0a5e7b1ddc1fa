// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Register the Vulkan HAL backend.
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/juliafx/internal/cache"
	"github.com/gogpu/juliafx/kernel"
)

// maxPipelines bounds how many compiled kernels a backend keeps alive.
const maxPipelines = 4

// HALBackend runs kernels on gogpu/wgpu's hardware abstraction layer.
//
// HALBackend is safe for concurrent use; dispatches are serialized.
type HALBackend struct {
	mu   sync.Mutex
	opts halOptions

	instance     hal.Instance
	ownsInstance bool
	device       hal.Device
	queue        hal.Queue
	shared       bool
	info         AdapterInfo
	ready        bool

	pipelines *cache.Cache[string, *halPipeline]
	current   *halPipeline
	staging   *StagingPool
}

var _ Backend = (*HALBackend)(nil)

// halPipeline is a compiled kernel and its binding layout.
type halPipeline struct {
	label      string
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline
}

// NewHALBackend creates a backend. Call Init before use.
func NewHALBackend(opts ...HALOption) *HALBackend {
	o := defaultHALOptions()
	for _, opt := range opts {
		opt(&o)
	}
	b := &HALBackend{
		opts:    o,
		staging: NewStagingPool(),
	}
	b.pipelines = cache.New[string, *halPipeline](maxPipelines)
	b.pipelines.OnEvict(func(_ string, p *halPipeline) {
		b.destroyPipeline(p)
	})
	return b
}

// Init opens a device. A shared device from WithDeviceProvider is used
// as is; otherwise a hardware adapter is tried first and a software
// adapter second.
func (b *HALBackend) Init(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.release()
	if err := ctx.Err(); err != nil {
		return err
	}

	if b.opts.provider != nil {
		return b.initShared()
	}

	if err := b.openInstance(); err != nil {
		return fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}

	exposed := b.instance.EnumerateAdapters(nil)
	cands := make([]candidate, len(exposed))
	for i := range exposed {
		cands[i] = candidate{name: exposed[i].Info.Name, deviceType: exposed[i].Info.DeviceType}
	}

	for _, software := range []bool{false, true} {
		if software && !b.opts.softwareFallback {
			break
		}
		if err := ctx.Err(); err != nil {
			b.release()
			return err
		}

		idx := selectAdapter(cands, software)
		if idx < 0 {
			Logger().Debug("compute: no adapter for attempt", "attempt", attemptName(software))
			continue
		}
		openDev, err := exposed[idx].Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
		if err != nil {
			Logger().Warn("compute: open device failed",
				"attempt", attemptName(software), "adapter", cands[idx].name, "err", err)
			continue
		}

		b.device = openDev.Device
		b.queue = openDev.Queue
		b.info = AdapterInfo{Name: cands[idx].name, Software: software}
		b.ready = true
		if software {
			Logger().Warn("compute: using software adapter", "adapter", b.info.Name)
		} else {
			Logger().Info("compute: using hardware adapter", "adapter", b.info.Name)
		}
		return nil
	}

	b.release()
	return fmt.Errorf("%w: no hardware or software adapter could be opened (%d enumerated)",
		ErrBackendUnavailable, len(cands))
}

// openInstance creates the HAL instance unless one was supplied.
// Caller must hold b.mu.
func (b *HALBackend) openInstance() error {
	if b.opts.instance != nil {
		b.instance = b.opts.instance
		b.ownsInstance = false
		return nil
	}

	api, ok := hal.GetBackend(b.opts.api)
	if !ok {
		return fmt.Errorf("HAL backend %v not registered", b.opts.api)
	}
	instance, err := api.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	b.instance = instance
	b.ownsInstance = true
	return nil
}

// Ready reports whether a device is open.
func (b *HALBackend) Ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ready
}

// Adapter returns the device in use. It is the zero value before Init.
func (b *HALBackend) Adapter() AdapterInfo {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.info
}

// LoadProgram compiles p to SPIR-V and builds its compute pipeline.
// Pipelines are kept per program path until evicted or Close.
func (b *HALBackend) LoadProgram(p kernel.Program) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.ready {
		return ErrBackendUnavailable
	}
	pl, err := b.pipelines.GetOrCreate(p.Path, func() (*halPipeline, error) {
		return b.createPipeline(p)
	})
	if err != nil {
		return err
	}
	b.current = pl
	Logger().Info("compute: program loaded", "path", p.Path)
	return nil
}

// createPipeline builds the pipeline objects for p. Caller must hold b.mu.
func (b *HALBackend) createPipeline(p kernel.Program) (*halPipeline, error) {
	words, err := p.SPIRV()
	if err != nil {
		return nil, err
	}

	pl := &halPipeline{label: p.Path}
	ok := false
	defer func() {
		if !ok {
			b.destroyPipeline(pl)
		}
	}()

	pl.shader, err = b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "qjulia_shader",
		Source: hal.ShaderSource{SPIRV: words},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create shader module: %w", ErrDeviceLost, err)
	}

	pl.bindLayout, err = b.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "qjulia_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create bind group layout: %w", ErrDeviceLost, err)
	}

	pl.pipeLayout, err = b.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "qjulia_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{pl.bindLayout},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create pipeline layout: %w", ErrDeviceLost, err)
	}

	pl.pipeline, err = b.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   "qjulia_pipeline",
		Layout:  pl.pipeLayout,
		Compute: hal.ComputeState{Module: pl.shader, EntryPoint: p.Entry()},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create compute pipeline: %w", ErrDeviceLost, err)
	}

	ok = true
	return pl, nil
}

// destroyPipeline releases p's objects in reverse creation order.
func (b *HALBackend) destroyPipeline(p *halPipeline) {
	if p == nil || b.device == nil {
		return
	}
	if p.pipeline != nil {
		b.device.DestroyComputePipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		b.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.bindLayout != nil {
		b.device.DestroyBindGroupLayout(p.bindLayout)
		p.bindLayout = nil
	}
	if p.shader != nil {
		b.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
	if b.current == p {
		b.current = nil
	}
}

// Dispatch runs the loaded kernel for one tile.
//
// The constant, output and staging buffers, the bind group and the
// command encoder exist only for the duration of the call and are
// released on every return path.
func (b *HALBackend) Dispatch(ctx context.Context, req Request) (*Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.ready {
		return nil, ErrBackendUnavailable
	}
	if b.current == nil {
		return nil, ErrNoProgram
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outSize := uint64(req.OutputSize())
	constSize := uint64(len(req.Constants))

	Logger().Debug("compute: dispatch",
		"width", req.Width, "height", req.Height,
		"groups", req.Groups, "bytes", outSize)

	constBuf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "qjulia_constants",
		Size:  constSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create constant buffer: %w", ErrDeviceLost, err)
	}
	defer b.device.DestroyBuffer(constBuf)

	outBuf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "qjulia_output",
		Size:  outSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create output buffer: %w", ErrDeviceLost, err)
	}
	defer b.device.DestroyBuffer(outBuf)

	stagingBuf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "qjulia_staging",
		Size:  outSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create staging buffer: %w", ErrDeviceLost, err)
	}
	defer b.device.DestroyBuffer(stagingBuf)

	if err := b.queue.WriteBuffer(constBuf, 0, req.Constants); err != nil {
		return nil, fmt.Errorf("%w: write constants: %w", ErrDeviceLost, err)
	}

	bindGroup, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "qjulia_bind_group",
		Layout: b.current.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: constBuf.NativeHandle(), Offset: 0, Size: constSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: outBuf.NativeHandle(), Offset: 0, Size: outSize}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: create bind group: %w", ErrDeviceLost, err)
	}
	defer b.device.DestroyBindGroup(bindGroup)

	if err := b.submit(bindGroup, req.Groups, outBuf, stagingBuf, outSize); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceLost, err)
	}

	out, err := b.readBack(stagingBuf, outSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceLost, err)
	}
	return NewResult(out, b.staging), nil
}

// submit records the compute pass and the output copy, submits them and
// waits until the queue reports the submission complete.
// Caller must hold b.mu.
func (b *HALBackend) submit(bindGroup hal.BindGroup, groups [3]uint32, outBuf, stagingBuf hal.Buffer, size uint64) error {
	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "qjulia_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Destroy()

	if err := encoder.BeginEncoding("qjulia_tile"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "qjulia_pass"})
	pass.SetPipeline(b.current.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Dispatch(groups[0], groups[1], groups[2])
	pass.End()

	encoder.CopyBufferToBuffer(outBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: size},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("end encoding: %w", err)
	}
	// Runs before encoder.Destroy, which releases the command pool.
	defer b.device.FreeCommandBuffer(cmdBuf)

	index, err := b.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	return b.waitSubmission(index)
}

// Poll interval bounds for waitSubmission.
const (
	minPollInterval = 50 * time.Microsecond
	maxPollInterval = 2 * time.Millisecond
)

// waitSubmission polls the queue until submission index has completed or
// the fence timeout elapses. Caller must hold b.mu.
func (b *HALBackend) waitSubmission(index uint64) error {
	if b.queue.PollCompleted() >= index {
		return nil
	}
	deadline := time.Now().Add(b.opts.fenceTimeout)
	interval := minPollInterval
	for b.queue.PollCompleted() < index {
		if time.Now().After(deadline) {
			return fmt.Errorf("wait for GPU: submission %d not complete after %v", index, b.opts.fenceTimeout)
		}
		time.Sleep(interval)
		interval = min(interval*2, maxPollInterval)
	}
	return nil
}

// readBack copies size bytes out of the mapped staging buffer into a
// pooled slice. Caller must hold b.mu.
func (b *HALBackend) readBack(stagingBuf hal.Buffer, size uint64) ([]byte, error) {
	mapping, err := b.device.MapBuffer(stagingBuf, 0, size)
	if err != nil {
		return nil, fmt.Errorf("map staging buffer: %w", err)
	}
	out := b.staging.Get(int(size))
	copy(out, unsafe.Slice((*byte)(mapping.Ptr), size))

	if err := b.device.UnmapBuffer(stagingBuf); err != nil {
		b.staging.Put(out)
		return nil, fmt.Errorf("unmap staging buffer: %w", err)
	}
	return out, nil
}

// Close releases pipelines, the device and the instance.
func (b *HALBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.release()
	return nil
}

// release drops everything Init created. Caller must hold b.mu.
func (b *HALBackend) release() {
	// Pipelines are destroyed through the eviction callback.
	b.pipelines.Clear()
	b.current = nil

	if b.device != nil && !b.shared {
		b.device.Destroy()
	}
	if b.instance != nil && b.ownsInstance {
		b.instance.Destroy()
	}
	b.device = nil
	b.queue = nil
	b.instance = nil
	b.ownsInstance = false
	b.shared = false
	b.info = AdapterInfo{}
	b.ready = false
}
