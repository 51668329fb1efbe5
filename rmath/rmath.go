// Copyright 2026 The prism authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package rmath provides the scalar and 4-lane math helpers used by the
// rasterization pipeline: sub-pixel fixed-point conversion and the quad-wide
// vector types the fragment stages are written against.
package rmath

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Sub-pixel precision of the rasterizer's fixed-point coordinates.
// One pixel is FixedOne units.
const (
	FixedBits = 4
	FixedOne  = 1 << FixedBits
)

// ToFixed converts a screen-space coordinate to fixed point using
// round-half-to-even, so that integer pixel positions land on exact
// multiples of FixedOne regardless of accumulated float error.
func ToFixed(v float32) int32 {
	return int32(math.RoundToEven(float64(v) * FixedOne))
}

// FromFixed converts a fixed-point coordinate back to float pixels.
func FromFixed(v int32) float32 {
	return float32(v) * (1.0 / FixedOne)
}

func Abs32(f float32) float32 {
	return float32(math.Abs(float64(f)))
}

func Floor32(f float32) float32 {
	return float32(math.Floor(float64(f)))
}

func Sqrt32(f float32) float32 {
	return float32(math.Sqrt(float64(f)))
}

func Pow32(base, exp float32) float32 {
	return float32(math.Pow(float64(base), float64(exp)))
}

// Saturate clamps f to [0, 1].
func Saturate(f float32) float32 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func AlignUp[T constraints.Integer](len, alignment T) T {
	return (len + alignment - 1) & -alignment
}

func NextMultipleOf[T constraints.Integer](x, y T) T {
	r := x % y
	if r == 0 {
		return x
	}
	return x + y - r
}
