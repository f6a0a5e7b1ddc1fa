// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compute

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// AdapterInfo describes the device a backend is running on.
type AdapterInfo struct {
	// Name is the adapter name reported by the driver.
	Name string

	// Software is true when the device is a CPU implementation.
	Software bool

	// Shared is true when the device belongs to the host application.
	Shared bool
}

// String returns a description for log output.
func (a AdapterInfo) String() string {
	kind := "hardware"
	switch {
	case a.Shared:
		kind = "shared"
	case a.Software:
		kind = "software"
	}
	return fmt.Sprintf("%s (%s)", a.Name, kind)
}

// candidate is an enumerated adapter reduced to what selection needs.
type candidate struct {
	name       string
	deviceType gputypes.DeviceType
}

// hardwareRank orders hardware device types, lower is preferred.
// CPU adapters are never hardware.
func hardwareRank(t gputypes.DeviceType) (int, bool) {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return 0, true
	case gputypes.DeviceTypeIntegratedGPU:
		return 1, true
	case gputypes.DeviceTypeCPU:
		return 0, false
	default:
		return 2, true
	}
}

// selectAdapter returns the index of the preferred candidate for one
// attempt of the selection policy, or -1 if none qualifies.
func selectAdapter(cands []candidate, software bool) int {
	best, bestRank := -1, 0
	for i, c := range cands {
		if software {
			if c.deviceType == gputypes.DeviceTypeCPU {
				return i
			}
			continue
		}
		rank, ok := hardwareRank(c.deviceType)
		if !ok {
			continue
		}
		if best < 0 || rank < bestRank {
			best, bestRank = i, rank
		}
	}
	return best
}

// attemptName labels a selection attempt in logs and errors.
func attemptName(software bool) string {
	if software {
		return "software"
	}
	return "hardware"
}
