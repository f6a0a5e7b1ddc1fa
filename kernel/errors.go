// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package kernel

import "errors"

var (
	// ErrUnknownProgram is returned by Lookup for an unregistered path.
	ErrUnknownProgram = errors.New("kernel: unknown program")

	// ErrInvalidProgram is returned by Register for a program without a
	// path or source.
	ErrInvalidProgram = errors.New("kernel: invalid program")

	errShortRecord = errors.New("kernel: constants record too short")
)
