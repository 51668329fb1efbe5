package prism

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"honnef.co/go/prism/rmath"
)

// A RasterTriangle is the fixed-point, screen-space form of a clipped
// triangle, with its edge functions set up for hierarchical traversal.
//
// Edge i runs from vertex i to vertex i+1 (mod 3) and has
//
//	E_i(p) = B_i·(p.x − v_i.x) + C_i·(p.y − v_i.y)
//
// with B_i = v_i.y − v_{i+1}.y and C_i = v_{i+1}.x − v_i.x, so that every
// point inside a front-facing triangle has E_i ≥ 0 on all three edges.
type RasterTriangle struct {
	V0, V1, V2 fxPoint
	B, C       [3]int32
	// TieBreak is added to an edge value before the ≥ 0 coverage test:
	// 0 for top-left ("fill") edges, −1 otherwise.
	TieBreak [3]int32
	// RejectCorner and AcceptCorner hold a 2-bit corner code per edge
	// (bit 0 = x offset, bit 1 = y offset, in units of the block size).
	// The reject corner maximizes the edge function over a block, the
	// accept corner minimizes it.
	RejectCorner [3]uint8
	AcceptCorner [3]uint8

	InvArea2 float32 // 1 / (2A) in fixed-point units
	Z        [3]float32
	Vid      [3]uint32
	TexID    uint32
}

type fxPoint struct {
	X, Y int32
}

// edge evaluates edge i at a fixed-point position. Coefficients are
// int32; the accumulation is 64-bit so 4K-class targets cannot overflow.
func (t *RasterTriangle) edge(i int, x, y int32) int64 {
	var v fxPoint
	switch i {
	case 0:
		v = t.V0
	case 1:
		v = t.V1
	default:
		v = t.V2
	}
	return int64(t.B[i])*int64(x-v.X) + int64(t.C[i])*int64(y-v.Y)
}

// cornerOffset returns the fixed-point offset of corner code c for a
// block of the given size in pixels.
func cornerOffset(code uint8, sizePx int32) (int32, int32) {
	size := sizePx << rmath.FixedBits
	var dx, dy int32
	if code&1 != 0 {
		dx = size
	}
	if code&2 != 0 {
		dy = size
	}
	return dx, dy
}

// setupTriangle builds a RasterTriangle from three projected vertices in
// clip space. It performs the perspective divide, the raster transform,
// fixed-point snapping, facing, and edge setup. Returns false when the
// triangle is culled or degenerate.
func (r *Renderer) setupTriangle(verts *[3]ProjectedVertex, ids [3]uint32, texID uint32, out *RasterTriangle) bool {
	var pts [3]fxPoint
	var zs [3]float32
	maxX := int32(r.width) << rmath.FixedBits
	maxY := int32(r.height) << rmath.FixedBits
	for i := range pts {
		p := verts[i].Pos
		invW := 1 / p[3]
		ndc := mgl32.Vec4{p[0] * invW, p[1] * invW, p[2] * invW, 1}
		screen := r.state.Raster.Mul4x1(ndc)
		if !isFinite(screen[0]) || !isFinite(screen[1]) || !isFinite(p[2]*invW) {
			return false
		}
		pts[i] = fxPoint{
			X: rmath.Clamp(rmath.ToFixed(screen[0]), 0, maxX),
			Y: rmath.Clamp(rmath.ToFixed(screen[1]), 0, maxY),
		}
		zs[i] = p[2] * invW
	}

	area2 := int64(pts[1].X-pts[0].X)*int64(pts[2].Y-pts[0].Y) -
		int64(pts[2].X-pts[0].X)*int64(pts[1].Y-pts[0].Y)
	if area2 == 0 {
		return false
	}
	front := area2 > 0
	if !r.state.FrontCounterClockwise {
		front = area2 < 0
	}
	if !front {
		if r.state.BackFaceCulling {
			return false
		}
		pts[1], pts[2] = pts[2], pts[1]
		zs[1], zs[2] = zs[2], zs[1]
		ids[1], ids[2] = ids[2], ids[1]
		area2 = -area2
	} else if area2 < 0 {
		// Front faces are clockwise here; reorder so the interior is on
		// the positive side of every edge.
		pts[1], pts[2] = pts[2], pts[1]
		zs[1], zs[2] = zs[2], zs[1]
		ids[1], ids[2] = ids[2], ids[1]
		area2 = -area2
	}

	out.V0, out.V1, out.V2 = pts[0], pts[1], pts[2]
	out.Z = zs
	out.Vid = ids
	out.TexID = texID
	out.InvArea2 = 1 / float32(area2)
	for i := range 3 {
		next := (i + 1) % 3
		out.B[i] = pts[i].Y - pts[next].Y
		out.C[i] = pts[next].X - pts[i].X
		if out.B[i] > 0 || (out.B[i] == 0 && out.C[i] > 0) {
			out.TieBreak[i] = 0
		} else {
			out.TieBreak[i] = -1
		}
		var reject, accept uint8
		if out.B[i] > 0 {
			reject |= 1
		} else {
			accept |= 1
		}
		if out.C[i] > 0 {
			reject |= 2
		} else {
			accept |= 2
		}
		out.RejectCorner[i] = reject
		out.AcceptCorner[i] = accept
	}
	return true
}

func isFinite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}
