// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package compute runs one kernel dispatch per tile on a GPU device.
//
// A Backend owns a device and a loaded kernel. Init selects the device with
// a fixed two-step policy: a hardware adapter first, then a software
// (CPU) adapter. If neither can be opened, Ready reports false and every
// Dispatch fails with ErrBackendUnavailable.
//
// Dispatch is blocking. It uploads the constant record, runs the kernel
// over the requested workgroups, copies the output into a host-readable
// staging buffer and returns its bytes. Every GPU object created for a
// dispatch is released before Dispatch returns, whether it succeeds or not.
// A failure during dispatch is reported as ErrDeviceLost and is not
// retried.
//
// HALBackend is the pure Go implementation on gogpu/wgpu's hardware
// abstraction layer. The webgpu subpackage provides an alternative on
// wgpu-native.
package compute
