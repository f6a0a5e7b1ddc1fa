// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package kernel

import (
	"math"
	"testing"
)

const eps = 1e-5

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < eps
}

func assertMatrix(t *testing.T, got, want Matrix4) {
	t.Helper()
	for r := range 4 {
		for c := range 4 {
			if !near(got[r][c], want[r][c]) {
				t.Fatalf("M%d%d = %v, want %v\n got %v\nwant %v", r+1, c+1, got[r][c], want[r][c], got, want)
			}
		}
	}
}

// assertRotation checks that the upper 3x3 block is orthonormal.
func assertRotation(t *testing.T, m Matrix4) {
	t.Helper()
	for i := range 3 {
		for j := range 3 {
			var dot float32
			for k := range 3 {
				dot += m[i][k] * m[j][k]
			}
			want := float32(0)
			if i == j {
				want = 1
			}
			if !near(dot, want) {
				t.Fatalf("rows %d,%d dot = %v, want %v", i, j, dot, want)
			}
		}
	}
}

func TestSpin(t *testing.T) {
	m := Spin(math.Pi / 2)
	assertMatrix(t, m, Matrix4{
		{0, -1, 0, 0},
		{1, 0, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	})
}

func TestTilt(t *testing.T) {
	tests := []struct {
		name      string
		direction float64
		amount    float64
	}{
		{"zero", 0, 0},
		{"x axis", 0, 0.5},
		{"y axis", math.Pi / 2, 1.2},
		{"diagonal", Radians(45), Radians(90)},
		{"negative", Radians(-135), Radians(30)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertRotation(t, Tilt(tt.direction, tt.amount))
		})
	}

	// Zero tilt is the identity regardless of direction.
	assertMatrix(t, Tilt(1.234, 0), Identity())

	// Tilt about +X by 90 degrees.
	assertMatrix(t, Tilt(0, math.Pi/2), Matrix4{
		{1, 0, 0, 0},
		{0, 0, 1, 0},
		{0, -1, 0, 0},
		{0, 0, 0, 1},
	})
}

func TestViewMatrix(t *testing.T) {
	assertMatrix(t, ViewMatrix(0, 0, 0), Identity())
	assertMatrix(t, ViewMatrix(0.7, 0, 0), Spin(0.7))

	v := ViewMatrix(Radians(30), Radians(-60), Radians(45))
	assertRotation(t, v)
	assertMatrix(t, v, Spin(Radians(30)).Mul(Tilt(Radians(30), Radians(45))))
}

func TestLightMatrix(t *testing.T) {
	view := ViewMatrix(0.4, 0.3, 0.2)
	assertMatrix(t, LightMatrix(view, 0, 0), view)

	l := LightMatrix(view, Radians(10), Radians(20))
	assertRotation(t, l)
	assertMatrix(t, l, view.Mul(Tilt(Radians(280), Radians(20))))
}

func TestMul_Identity(t *testing.T) {
	m := ViewMatrix(1, 2, 0.5)
	assertMatrix(t, m.Mul(Identity()), m)
	assertMatrix(t, Identity().Mul(m), m)
}
