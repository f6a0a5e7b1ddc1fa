// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package juliafx

import (
	"fmt"
	"math"

	"github.com/gogpu/juliafx/kernel"
)

// Property ranges.
const (
	MinAngle      = -180.0
	MaxAngle      = 180.0
	MinTiltAmount = 0.0
	MaxTiltAmount = 90.0

	MaxMu   = 32767.0
	MaxZoom = 40.0
)

// Orientation is a rotation expressed as a spin angle followed by a tilt.
// All values are in degrees.
type Orientation struct {
	// Angle spins around the view axis, in [-180, 180].
	Angle float64

	// TiltDirection picks the tilt axis in the image plane, in [-180, 180].
	TiltDirection float64

	// TiltAmount is how far to tilt around that axis, in [0, 90].
	TiltAmount float64
}

// Params holds the user-facing effect properties.
type Params struct {
	// Rotation orients the camera.
	Rotation Orientation

	// LightRotation orients the light relative to the camera. Only the
	// tilt is used; Angle is kept for symmetry with Rotation.
	LightRotation Orientation

	// Mu1..Mu4 select the quaternion constant, each in [0, 32767].
	// The midpoint 16383.5 maps to zero.
	Mu1, Mu2, Mu3, Mu4 float64

	// Zoom in [0, 40]; 10 is unit magnification.
	Zoom float64

	// SelfShadow enables shadow rays toward the light.
	SelfShadow bool
}

// DefaultParams returns the default effect properties.
func DefaultParams() Params {
	return Params{
		Mu1:        11828,
		Mu2:        8535,
		Mu3:        16383,
		Mu4:        16383,
		Zoom:       10,
		SelfShadow: true,
	}
}

// Validate reports the first property outside its range.
func (p Params) Validate() error {
	if err := p.Rotation.validate("rotation"); err != nil {
		return err
	}
	if err := p.LightRotation.validate("light rotation"); err != nil {
		return err
	}
	for i, mu := range p.mu() {
		if err := checkRange(fmt.Sprintf("mu%d", i+1), mu, 0, MaxMu); err != nil {
			return err
		}
	}
	return checkRange("zoom", p.Zoom, 0, MaxZoom)
}

func (o Orientation) validate(name string) error {
	if err := checkRange(name+" angle", o.Angle, MinAngle, MaxAngle); err != nil {
		return err
	}
	if err := checkRange(name+" tilt direction", o.TiltDirection, MinAngle, MaxAngle); err != nil {
		return err
	}
	return checkRange(name+" tilt amount", o.TiltAmount, MinTiltAmount, MaxTiltAmount)
}

func checkRange(name string, v, lo, hi float64) error {
	if math.IsNaN(v) || v < lo || v > hi {
		return fmt.Errorf("%w: %s %v not in [%v, %v]", ErrInvalidParams, name, v, lo, hi)
	}
	return nil
}

func (p Params) mu() [4]float64 {
	return [4]float64{p.Mu1, p.Mu2, p.Mu3, p.Mu4}
}

// constants derives the kernel constants for an image of the given size.
// The tile geometry fields are left zero.
func (p Params) constants(width, height int) kernel.Constants {
	view := kernel.ViewMatrix(
		kernel.Radians(p.Rotation.Angle),
		kernel.Radians(p.Rotation.TiltDirection),
		kernel.Radians(p.Rotation.TiltAmount))
	light := kernel.LightMatrix(view,
		kernel.Radians(p.LightRotation.TiltDirection),
		kernel.Radians(p.LightRotation.TiltAmount))

	var mu [4]float32
	for i, v := range p.mu() {
		mu[i] = float32(2*v/MaxMu - 1)
	}

	return kernel.Constants{
		Diffuse:       kernel.DefaultDiffuse,
		Mu:            mu,
		Epsilon:       kernel.DefaultEpsilon,
		Width:         int32(width),
		Height:        int32(height),
		SelfShadow:    p.SelfShadow,
		Rotation:      view,
		LightRotation: light,
		Zoom:          float32(p.Zoom / 10),
	}
}
