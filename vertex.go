package prism

import "github.com/go-gl/mathgl/mgl32"

// ProjectedVertex is the output of the vertex stage: clip-space position
// plus the unchanged model-space attributes. After the clip stage the
// position's z component is pre-divided by w and InvW is populated; x and
// y stay in clip space (they are divided only while forming raster
// triangles).
type ProjectedVertex struct {
	Pos      mgl32.Vec4
	InvW     float32
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
}

// VertexShaderFunc fills out a projected vertex. The default transforms
// the position by ModelViewProj and passes the attributes through.
type VertexShaderFunc func(state *RenderState, pos, normal mgl32.Vec3, tex mgl32.Vec2, out *ProjectedVertex)

func defaultVertexShader(state *RenderState, pos, normal mgl32.Vec3, tex mgl32.Vec2, out *ProjectedVertex) {
	out.Pos = state.ModelViewProj.Mul4x1(pos.Vec4(1))
	out.Position = pos
	out.Normal = normal
	out.TexCoord = tex
}

// runVertexStage transforms the mesh's vertex buffer into r.projVerts.
func (r *Renderer) runVertexStage(mesh Mesh) {
	n := mesh.VertexCount()
	if cap(r.projVerts) < n {
		r.projVerts = make([]ProjectedVertex, n)
	}
	r.projVerts = r.projVerts[:n]
	vs := r.state.vs
	r.parallelRanges(n, func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			vs(&r.state, mesh.Position(i), mesh.Normal(i), mesh.TexCoord(i), &r.projVerts[i])
		}
	})
}

// runProjectionFixup divides the shared vertices through by w once the
// clip stage no longer needs their raw clip-space values. Worker-local
// clip vertices are divided at append time by their owning worker.
func (r *Renderer) runProjectionFixup() {
	r.parallelRanges(len(r.projVerts), func(_, lo, hi int) {
		for i := lo; i < hi; i++ {
			v := &r.projVerts[i]
			v.InvW = 1 / v.Pos[3]
			v.Pos[2] *= v.InvW
		}
	})
}

// vertexAt resolves a raster-triangle vertex id: ids below the shared
// buffer length address the post-VS buffer, the rest are worker-local
// clip outputs.
func (r *Renderer) vertexAt(worker int, id uint32) *ProjectedVertex {
	if int(id) < len(r.projVerts) {
		return &r.projVerts[id]
	}
	return &r.workerVerts[worker][int(id)-len(r.projVerts)]
}
