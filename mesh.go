package prism

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is the renderer's read-only view of an indexed triangle mesh.
// Indices address the vertex accessors; every triangle carries the id of
// the texture slot it samples.
type Mesh interface {
	VertexCount() int
	Position(i int) mgl32.Vec3
	Normal(i int) mgl32.Vec3
	TexCoord(i int) mgl32.Vec2

	TriangleCount() int
	Index(i int) (uint32, uint32, uint32)
	TextureID(i int) uint32

	Textures() []TextureSlot
}

// TextureSlot samples a texture at a normalized coordinate. Addressing is
// wrap-repeat; the filter is up to the implementation.
type TextureSlot interface {
	Sample(uv mgl32.Vec2) [4]uint8
}

// TriangleMesh is a slice-backed Mesh.
type TriangleMesh struct {
	Positions  []mgl32.Vec3
	Normals    []mgl32.Vec3
	TexCoords  []mgl32.Vec2
	Indices    []uint32 // len divisible by 3
	TextureIDs []uint32 // one per triangle; nil means all zero
	Slots      []TextureSlot
}

func (m *TriangleMesh) VertexCount() int          { return len(m.Positions) }
func (m *TriangleMesh) Position(i int) mgl32.Vec3 { return m.Positions[i] }
func (m *TriangleMesh) TriangleCount() int        { return len(m.Indices) / 3 }
func (m *TriangleMesh) Textures() []TextureSlot   { return m.Slots }

func (m *TriangleMesh) Normal(i int) mgl32.Vec3 {
	if i >= len(m.Normals) {
		return mgl32.Vec3{0, 0, 1}
	}
	return m.Normals[i]
}

func (m *TriangleMesh) TexCoord(i int) mgl32.Vec2 {
	if i >= len(m.TexCoords) {
		return mgl32.Vec2{}
	}
	return m.TexCoords[i]
}

func (m *TriangleMesh) Index(i int) (uint32, uint32, uint32) {
	return m.Indices[3*i], m.Indices[3*i+1], m.Indices[3*i+2]
}

func (m *TriangleMesh) TextureID(i int) uint32 {
	if i >= len(m.TextureIDs) {
		return 0
	}
	return m.TextureIDs[i]
}

// Filter selects the reconstruction filter of an ImageTexture.
type Filter int

const (
	FilterNearest Filter = iota
	FilterBilinear
)

// ImageTexture adapts an image.Image into a TextureSlot with wrap-repeat
// addressing.
type ImageTexture struct {
	Image  image.Image
	Filter Filter
}

func (t *ImageTexture) Sample(uv mgl32.Vec2) [4]uint8 {
	b := t.Image.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return [4]uint8{255, 255, 255, 255}
	}
	// v increases downward in image space.
	x := float64(uv.X())*float64(w) - 0.5
	y := (1-float64(uv.Y()))*float64(h) - 0.5
	if t.Filter == FilterNearest {
		return t.texel(int(math.Round(x)), int(math.Round(y)))
	}
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	fx, fy := float32(x-float64(x0)), float32(y-float64(y0))
	c00 := t.texel(x0, y0)
	c10 := t.texel(x0+1, y0)
	c01 := t.texel(x0, y0+1)
	c11 := t.texel(x0+1, y0+1)
	var out [4]uint8
	for i := range out {
		top := float32(c00[i])*(1-fx) + float32(c10[i])*fx
		bot := float32(c01[i])*(1-fx) + float32(c11[i])*fx
		out[i] = uint8(top*(1-fy) + bot*fy + 0.5)
	}
	return out
}

func (t *ImageTexture) texel(x, y int) [4]uint8 {
	b := t.Image.Bounds()
	w, h := b.Dx(), b.Dy()
	x = ((x % w) + w) % w
	y = ((y % h) + h) % h
	r, g, bl, a := t.Image.At(b.Min.X+x, b.Min.Y+y).RGBA()
	return [4]uint8{uint8(r >> 8), uint8(g >> 8), uint8(bl >> 8), uint8(a >> 8)}
}

// FlatTexture is a single-color TextureSlot.
type FlatTexture struct {
	Color [4]uint8
}

func (t *FlatTexture) Sample(mgl32.Vec2) [4]uint8 { return t.Color }
