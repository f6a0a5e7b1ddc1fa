// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package kernel

import "math"

// Matrix4 is a row-major 4x4 matrix. Element [r][c] is M(r+1)(c+1).
// Vectors are treated as rows and multiplied on the left, so A.Mul(B)
// applies A first.
type Matrix4 [4][4]float32

// Identity returns the identity matrix.
func Identity() Matrix4 {
	return Matrix4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Mul returns m * n.
func (m Matrix4) Mul(n Matrix4) Matrix4 {
	var r Matrix4
	for i := range 4 {
		for j := range 4 {
			var sum float32
			for k := range 4 {
				sum += m[i][k] * n[k][j]
			}
			r[i][j] = sum
		}
	}
	return r
}

// Spin returns a rotation of angle radians about the Z axis.
func Spin(angle float64) Matrix4 {
	s, c := math.Sincos(angle)
	return Matrix4{
		{float32(c), float32(-s), 0, 0},
		{float32(s), float32(c), 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Tilt returns a rotation of amount radians about the axis lying in the XY
// plane at direction radians from +X.
func Tilt(direction, amount float64) Matrix4 {
	x, y := math.Cos(direction), math.Sin(direction)
	if math.IsInf(x, 0) || math.IsNaN(x) {
		x = 0
	}
	if math.IsInf(y, 0) || math.IsNaN(y) {
		y = 0
	}
	s, c := math.Sincos(amount)
	t := 1 - c

	return Matrix4{
		{float32(x*x*t + c), float32(y * x * t), float32(-y * s), 0},
		{float32(x * y * t), float32(y*y*t + c), float32(x * s), 0},
		{float32(y * s), float32(-x * s), float32(c), 0},
		{0, 0, 0, 1},
	}
}

// ViewMatrix returns the camera orientation for a spin of angle around the
// view axis followed by a tilt. All arguments are in radians.
func ViewMatrix(angle, tiltDirection, tiltAmount float64) Matrix4 {
	return Spin(angle).Mul(Tilt(tiltDirection+math.Pi/2, tiltAmount))
}

// LightMatrix returns the light orientation relative to view.
// The light tilt direction is offset half a turn from the view tilt.
func LightMatrix(view Matrix4, tiltDirection, tiltAmount float64) Matrix4 {
	return view.Mul(Tilt(tiltDirection+3*math.Pi/2, tiltAmount))
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}
