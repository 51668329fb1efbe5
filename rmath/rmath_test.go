package rmath

import (
	"math"
	"testing"
)

func TestToFixed(t *testing.T) {
	tests := []struct {
		in   float32
		want int32
	}{
		{0, 0},
		{1, 16},
		{64, 1024},
		{0.5, 8},
		{10.75, 172},
		// Round-half-to-even at the sub-pixel boundary.
		{0.03125, 0},  // 0.5 fx
		{0.09375, 2},  // 1.5 fx
		{-0.03125, 0}, // -0.5 fx
	}
	for _, tt := range tests {
		if got := ToFixed(tt.in); got != tt.want {
			t.Errorf("ToFixed(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFromFixedRoundTrip(t *testing.T) {
	for _, px := range []float32{0, 1, 17, 63.5, 128.25} {
		if got := FromFixed(ToFixed(px)); got != px {
			t.Errorf("round trip %v = %v", px, got)
		}
	}
}

func TestSaturate(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{-1, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{2, 1},
	}
	for _, tt := range tests {
		if got := Saturate(tt.in); got != tt.want {
			t.Errorf("Saturate(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAlignUp(t *testing.T) {
	if got := AlignUp(5, 4); got != 8 {
		t.Errorf("AlignUp(5, 4) = %d, want 8", got)
	}
	if got := AlignUp(8, 4); got != 8 {
		t.Errorf("AlignUp(8, 4) = %d, want 8", got)
	}
}

func TestFloat4Ops(t *testing.T) {
	a := Float4{1, 2, 3, 4}
	b := Float4{4, 3, 2, 1}
	if got := a.Add(b); got != (Float4{5, 5, 5, 5}) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Mul(b); got != (Float4{4, 6, 6, 4}) {
		t.Errorf("Mul = %v", got)
	}
	if got := a.Scale(2); got != (Float4{2, 4, 6, 8}) {
		t.Errorf("Scale = %v", got)
	}
	if got := a.Max(2.5); got != (Float4{2.5, 2.5, 3, 4}) {
		t.Errorf("Max = %v", got)
	}
	if got := (Float4{-1, 0.5, 2, 1}).Saturate(); got != (Float4{0, 0.5, 1, 1}) {
		t.Errorf("Saturate = %v", got)
	}
}

func TestVec3x4Normalize(t *testing.T) {
	v := SplatVec3x4(3, 0, 4)
	n := v.Normalize()
	for p := 0; p < 4; p++ {
		lenSq := n.X[p]*n.X[p] + n.Y[p]*n.Y[p] + n.Z[p]*n.Z[p]
		if math.Abs(float64(lenSq)-1) > 1e-5 {
			t.Errorf("lane %d length² = %v", p, lenSq)
		}
		if math.Abs(float64(n.X[p])-0.6) > 1e-5 || math.Abs(float64(n.Z[p])-0.8) > 1e-5 {
			t.Errorf("lane %d = (%v, %v, %v)", p, n.X[p], n.Y[p], n.Z[p])
		}
	}
}

func TestDotX4(t *testing.T) {
	a := SplatVec3x4(1, 2, 3)
	b := SplatVec3x4(4, 5, 6)
	want := float32(32)
	got := DotX4(a, b)
	for p := 0; p < 4; p++ {
		if got[p] != want {
			t.Errorf("lane %d = %v, want %v", p, got[p], want)
		}
	}
}
