package prism

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"honnef.co/go/prism/rmath"
)

// ShaderKind selects one of the built-in pixel shaders. A closed set
// dispatched by tag keeps the quad-wide shading loop free of interface
// calls.
type ShaderKind int

const (
	// ShaderFlat outputs unlit white.
	ShaderFlat ShaderKind = iota
	// ShaderAlbedo outputs the unlit texture color.
	ShaderAlbedo
	ShaderLambertian
	ShaderLambertianAlbedo
	ShaderBlinnPhong
)

const invPi = float32(1 / math.Pi)

// shadedQuad is the packed shading result of one quad: RGBA8 for the
// TL, TR, BL, BR pixels.
type shadedQuad [16]uint8

// runShadeStage shades the flat fragment list. Fragments are addressed
// globally through per-tile prefix offsets so workers can claim evenly
// sized chunks regardless of how fragments cluster in tiles.
func (r *Renderer) runShadeStage() {
	r.fragOffsets = r.fragOffsets[:0]
	total := 0
	for i := range r.tiles {
		r.fragOffsets = append(r.fragOffsets, total)
		total += len(r.tiles[i].frags)
	}
	r.fragOffsets = append(r.fragOffsets, total)

	if cap(r.shadeBuf) < total {
		r.shadeBuf = make([]shadedQuad, total)
	}
	r.shadeBuf = r.shadeBuf[:total]

	r.parallelChunks(total, 64, func(_, lo, hi int) {
		// The tile containing the first fragment of the chunk; walk
		// forward from there.
		t := sort.SearchInts(r.fragOffsets, lo+1) - 1
		for g := lo; g < hi; g++ {
			for g >= r.fragOffsets[t+1] {
				t++
			}
			frag := &r.tiles[t].frags[g-r.fragOffsets[t]]
			r.shadeBuf[g] = r.shadeQuad(frag)
		}
	})
}

func (r *Renderer) shadeQuad(frag *QuadFragment) shadedQuad {
	v0 := r.vertexAt(int(frag.Worker), frag.Vid[0])
	v1 := r.vertexAt(int(frag.Worker), frag.Vid[1])
	v2 := r.vertexAt(int(frag.Worker), frag.Vid[2])

	// Perspective-correct barycentrics.
	b0 := frag.Lambda0.Scale(v0.InvW)
	b1 := frag.Lambda1.Scale(v1.InvW)
	b2 := rmath.SplatFloat4(1).Sub(frag.Lambda0).Sub(frag.Lambda1).Scale(v2.InvW)
	invB := b0.Add(b1).Add(b2).Rcp()
	b0 = b0.Mul(invB)
	b1 = b1.Mul(invB)
	b2 = rmath.SplatFloat4(1).Sub(b0).Sub(b1)

	position := splat3(v0.Position).MulLanes(b0).
		Add(splat3(v1.Position).MulLanes(b1)).
		Add(splat3(v2.Position).MulLanes(b2))
	normal := splat3(v0.Normal).MulLanes(b0).
		Add(splat3(v1.Normal).MulLanes(b1)).
		Add(splat3(v2.Normal).MulLanes(b2))
	texCoord := splat2(v0.TexCoord).MulLanes(b0).
		Add(splat2(v1.TexCoord).MulLanes(b1)).
		Add(splat2(v2.TexCoord).MulLanes(b2))

	var rgb rmath.Vec3x4
	switch r.state.Shader {
	case ShaderFlat:
		rgb = rmath.SplatVec3x4(1, 1, 1)
	case ShaderAlbedo:
		rgb = r.sampleAlbedo(frag.TexID, texCoord)
	case ShaderLambertian:
		d := r.diffuse(normal)
		rgb = rmath.Vec3x4{X: d, Y: d, Z: d}
	case ShaderLambertianAlbedo:
		rgb = r.sampleAlbedo(frag.TexID, texCoord).MulLanes(r.diffuse(normal))
	case ShaderBlinnPhong:
		rgb = r.blinnPhong(position, normal)
	}

	var out shadedQuad
	for p := 0; p < 4; p++ {
		c := quantizeColor(rgb.X[p], rgb.Y[p], rgb.Z[p])
		out[p*4+0] = c.R
		out[p*4+1] = c.G
		out[p*4+2] = c.B
		out[p*4+3] = c.A
	}
	return out
}

// diffuse is the shared Lambertian term: (saturate(l·n̂) + 0.2) · 2 / π.
func (r *Renderer) diffuse(normal rmath.Vec3x4) rmath.Float4 {
	n := normal.Normalize()
	l := r.state.LightDir.Normalize()
	amount := rmath.DotX4(splat3(l), n).Max(0)
	return amount.AddScalar(0.2).Scale(2 * invPi)
}

func (r *Renderer) blinnPhong(position, normal rmath.Vec3x4) rmath.Vec3x4 {
	n := normal.Normalize()
	l := r.state.LightDir.Normalize()
	diffuse := rmath.DotX4(splat3(l), n).Max(0).AddScalar(0.2).Scale(2 * invPi)

	eyeDir := splat3(r.state.eyePos).Sub(position).Normalize()
	halfVec := splat3(l).Add(eyeDir).Normalize()
	specular := rmath.DotX4(n, halfVec).Max(0).Pow(200).Scale(2)

	s := diffuse.Add(specular)
	return rmath.Vec3x4{X: s, Y: s, Z: s}
}

// sampleAlbedo samples the triangle's texture slot for each pixel of the
// quad. Out-of-range ids clamp to slot 0; with no slots bound the albedo
// is white.
func (r *Renderer) sampleAlbedo(texID uint32, texCoord rmath.Vec2x4) rmath.Vec3x4 {
	slots := r.state.textures
	if len(slots) == 0 {
		return rmath.SplatVec3x4(1, 1, 1)
	}
	if int(texID) >= len(slots) {
		r.texIDClamped.Store(true)
		texID = 0
	}
	slot := slots[texID]
	var out rmath.Vec3x4
	for p := 0; p < 4; p++ {
		c := slot.Sample(mgl32.Vec2{texCoord.U[p], texCoord.V[p]})
		out.X[p] = float32(c[0]) / 255
		out.Y[p] = float32(c[1]) / 255
		out.Z[p] = float32(c[2]) / 255
	}
	return out
}

func splat3(v mgl32.Vec3) rmath.Vec3x4 {
	return rmath.SplatVec3x4(v.X(), v.Y(), v.Z())
}

func splat2(v mgl32.Vec2) rmath.Vec2x4 {
	return rmath.Vec2x4{U: rmath.SplatFloat4(v.X()), V: rmath.SplatFloat4(v.Y())}
}
