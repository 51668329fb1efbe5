// Copyright 2026 The prism authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

package rmath

import "math"

// Float4 is one value per pixel of a 2x2 quad, in TL, TR, BL, BR order.
// The fragment stages run 4-wide over these; a port to real SIMD widens
// the lane count without changing any data contracts.
type Float4 [4]float32

func SplatFloat4(v float32) Float4 {
	return Float4{v, v, v, v}
}

func (a Float4) Add(b Float4) Float4 {
	return Float4{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]}
}

func (a Float4) Sub(b Float4) Float4 {
	return Float4{a[0] - b[0], a[1] - b[1], a[2] - b[2], a[3] - b[3]}
}

func (a Float4) Mul(b Float4) Float4 {
	return Float4{a[0] * b[0], a[1] * b[1], a[2] * b[2], a[3] * b[3]}
}

func (a Float4) Scale(s float32) Float4 {
	return Float4{a[0] * s, a[1] * s, a[2] * s, a[3] * s}
}

func (a Float4) AddScalar(s float32) Float4 {
	return Float4{a[0] + s, a[1] + s, a[2] + s, a[3] + s}
}

// Rcp returns the lane-wise reciprocal.
func (a Float4) Rcp() Float4 {
	return Float4{1 / a[0], 1 / a[1], 1 / a[2], 1 / a[3]}
}

// Rsqrt returns the lane-wise reciprocal square root.
func (a Float4) Rsqrt() Float4 {
	var out Float4
	for i := range a {
		out[i] = float32(1 / math.Sqrt(float64(a[i])))
	}
	return out
}

func (a Float4) Max(s float32) Float4 {
	var out Float4
	for i := range a {
		out[i] = max(a[i], s)
	}
	return out
}

func (a Float4) Saturate() Float4 {
	var out Float4
	for i := range a {
		out[i] = Saturate(a[i])
	}
	return out
}

func (a Float4) Pow(exp float32) Float4 {
	var out Float4
	for i := range a {
		out[i] = Pow32(a[i], exp)
	}
	return out
}

// Vec3x4 is a 3-vector per pixel of a quad, stored planar.
type Vec3x4 struct {
	X, Y, Z Float4
}

func SplatVec3x4(x, y, z float32) Vec3x4 {
	return Vec3x4{SplatFloat4(x), SplatFloat4(y), SplatFloat4(z)}
}

func (a Vec3x4) Add(b Vec3x4) Vec3x4 {
	return Vec3x4{a.X.Add(b.X), a.Y.Add(b.Y), a.Z.Add(b.Z)}
}

func (a Vec3x4) Sub(b Vec3x4) Vec3x4 {
	return Vec3x4{a.X.Sub(b.X), a.Y.Sub(b.Y), a.Z.Sub(b.Z)}
}

// MulLanes multiplies each component lane-wise by s.
func (a Vec3x4) MulLanes(s Float4) Vec3x4 {
	return Vec3x4{a.X.Mul(s), a.Y.Mul(s), a.Z.Mul(s)}
}

func DotX4(a, b Vec3x4) Float4 {
	return a.X.Mul(b.X).Add(a.Y.Mul(b.Y)).Add(a.Z.Mul(b.Z))
}

// Normalize returns the lane-wise unit vectors.
func (a Vec3x4) Normalize() Vec3x4 {
	return a.MulLanes(DotX4(a, a).Rsqrt())
}

// Vec2x4 is a 2-vector (texture coordinate) per pixel of a quad.
type Vec2x4 struct {
	U, V Float4
}

func (a Vec2x4) Add(b Vec2x4) Vec2x4 {
	return Vec2x4{a.U.Add(b.U), a.V.Add(b.V)}
}

func (a Vec2x4) MulLanes(s Float4) Vec2x4 {
	return Vec2x4{a.U.Mul(s), a.V.Mul(s)}
}
