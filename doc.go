// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package juliafx renders a four-dimensional quaternion Julia set on the GPU.
//
// # Overview
//
// The effect ray-marches the Julia set of a quaternion constant and shades
// it with a single directional light, optionally with self-shadowing. The
// heavy lifting runs in a WGSL compute kernel; this package turns effect
// properties into kernel constants and hands regions of the destination
// image to the render orchestrator, which slices them into tiles and
// dispatches each tile to a compute backend.
//
// # Quick Start
//
//	backend := compute.NewHALBackend()
//	fx, err := juliafx.New(backend)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer fx.Close()
//
//	if err := fx.Configure(juliafx.DefaultParams()); err != nil {
//	    log.Fatal(err)
//	}
//	if err := fx.PreRender(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	dst := surface.New(800, 600)
//	if _, err := fx.RenderImage(ctx, dst); err != nil {
//	    log.Fatal(err)
//	}
//
// # Lifecycle
//
// A host calls Configure whenever the properties change, PreRender once
// after each configuration change to (re)create the device and load the
// kernel, then RenderRegion any number of times with the regions it wants
// painted. With custom region handling enabled, the first RenderRegion over
// the full image after a configuration change renders the whole selection
// in one pass and later invocations render only their own regions.
//
// # Backends
//
// Two compute backends are provided. [compute.HALBackend] is pure Go on
// top of gogpu/wgpu and needs no cgo. The compute/webgpu backend uses
// wgpu-native through cogentcore/webgpu. Both try a hardware adapter first
// and fall back to a software adapter.
//
// # Logging
//
// The package is silent by default. Call [SetLogger] to route diagnostics
// from juliafx and its sub-packages to a [log/slog] logger.
package juliafx
