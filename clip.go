package prism

// Homogeneous clipping against the six canonical planes. Triangles are
// partitioned across workers in contiguous ranges; every worker appends
// clip-generated vertices and finished raster triangles to its own
// buffers, so the stage runs without locks.

const (
	clipLeft   = 1 << iota // x < −w
	clipRight              // x > w
	clipBottom             // y < −w
	clipTop                // y > w
	clipNear               // z < 0
	clipFar                // z > w
)

// clipCode computes the 6-bit outcode of a clip-space position.
func clipCode(v *ProjectedVertex) uint8 {
	x, y, z, w := v.Pos[0], v.Pos[1], v.Pos[2], v.Pos[3]
	var code uint8
	if x < -w {
		code |= clipLeft
	}
	if x > w {
		code |= clipRight
	}
	if y < -w {
		code |= clipBottom
	}
	if y > w {
		code |= clipTop
	}
	if z < 0 {
		code |= clipNear
	}
	if z > w {
		code |= clipFar
	}
	return code
}

// planeDist is the signed distance of a clip-space position to plane i;
// negative means outside.
func planeDist(v *ProjectedVertex, plane int) float32 {
	x, y, z, w := v.Pos[0], v.Pos[1], v.Pos[2], v.Pos[3]
	switch plane {
	case 0:
		return x + w
	case 1:
		return w - x
	case 2:
		return y + w
	case 3:
		return w - y
	case 4:
		return z
	default:
		return w - z
	}
}

// lerpVertex interpolates the whole vertex linearly in clip space.
func lerpVertex(a, b *ProjectedVertex, t float32) ProjectedVertex {
	var out ProjectedVertex
	for i := range 4 {
		out.Pos[i] = a.Pos[i] + t*(b.Pos[i]-a.Pos[i])
	}
	for i := range 3 {
		out.Position[i] = a.Position[i] + t*(b.Position[i]-a.Position[i])
		out.Normal[i] = a.Normal[i] + t*(b.Normal[i]-a.Normal[i])
	}
	for i := range 2 {
		out.TexCoord[i] = a.TexCoord[i] + t*(b.TexCoord[i]-a.TexCoord[i])
	}
	return out
}

// clipPolyVertex is an entry of the on-stack Sutherland–Hodgman buffer.
// id is the shared-buffer index of an original vertex, or ^0 for a
// clip-generated one.
type clipPolyVertex struct {
	v  ProjectedVertex
	id uint32
}

const noVertexID = ^uint32(0)

// runClipStage clips every triangle of the index buffer and emits raster
// triangles into the per-worker buffers.
func (r *Renderer) runClipStage(mesh Mesh) {
	for w := range r.workerTris {
		r.workerVerts[w] = r.workerVerts[w][:0]
		r.workerTris[w] = r.workerTris[w][:0]
	}
	n := mesh.TriangleCount()
	r.parallelRanges(n, func(worker, lo, hi int) {
		for i := lo; i < hi; i++ {
			i0, i1, i2 := mesh.Index(i)
			r.clipTriangle(worker, i0, i1, i2, mesh.TextureID(i))
		}
	})
	r.runProjectionFixup()
}

func (r *Renderer) clipTriangle(worker int, i0, i1, i2, texID uint32) {
	v0 := &r.projVerts[i0]
	v1 := &r.projVerts[i1]
	v2 := &r.projVerts[i2]
	c0, c1, c2 := clipCode(v0), clipCode(v1), clipCode(v2)
	if c0&c1&c2 != 0 {
		return
	}
	if c0|c1|c2 == 0 {
		verts := [3]ProjectedVertex{*v0, *v1, *v2}
		r.emitTriangle(worker, &verts, [3]uint32{i0, i1, i2}, texID)
		return
	}

	// The polygon gains at most one vertex per plane: 3 + 6 = 9. The two
	// on-stack buffers ping-pong between input and output roles.
	var bufA, bufB [9]clipPolyVertex
	src, dst := &bufA, &bufB
	in := append(src[:0],
		clipPolyVertex{*v0, i0},
		clipPolyVertex{*v1, i1},
		clipPolyVertex{*v2, i2},
	)
	outcode := c0 | c1 | c2
	for plane := 0; plane < 6; plane++ {
		if outcode&(1<<plane) == 0 {
			continue
		}
		out := dst[:0]
		for j := range in {
			cur := &in[j]
			next := &in[(j+1)%len(in)]
			d0 := planeDist(&cur.v, plane)
			d1 := planeDist(&next.v, plane)
			if d0 >= 0 {
				out = append(out, *cur)
			}
			if (d0 < 0) != (d1 < 0) {
				t := d0 / (d0 - d1)
				out = append(out, clipPolyVertex{lerpVertex(&cur.v, &next.v, t), noVertexID})
			}
		}
		if len(out) < 3 {
			return
		}
		in = out
		src, dst = dst, src
	}

	// Resolve ids, appending clip-generated vertices to the worker
	// buffer, then emit a fan from the first vertex.
	var ids [9]uint32
	for j := range in {
		if in[j].id != noVertexID {
			ids[j] = in[j].id
			continue
		}
		ids[j] = uint32(len(r.projVerts) + len(r.workerVerts[worker]))
		nv := in[j].v
		nv.InvW = 1 / nv.Pos[3]
		nv.Pos[2] *= nv.InvW
		r.workerVerts[worker] = append(r.workerVerts[worker], nv)
	}
	for j := 1; j+1 < len(in); j++ {
		verts := [3]ProjectedVertex{in[0].v, in[j].v, in[j+1].v}
		r.emitTriangle(worker, &verts, [3]uint32{ids[0], ids[j], ids[j+1]}, texID)
	}
}

// emitTriangle runs raster setup and appends the triangle to the worker's
// buffer. Degenerate and culled triangles are dropped silently.
func (r *Renderer) emitTriangle(worker int, verts *[3]ProjectedVertex, ids [3]uint32, texID uint32) {
	var tri RasterTriangle
	if !r.setupTriangle(verts, ids, texID, &tri) {
		return
	}
	r.workerTris[worker] = append(r.workerTris[worker], tri)
}
