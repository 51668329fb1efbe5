package prism

import (
	"image"
	stdcolor "image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"honnef.co/go/prism/rmath"
)

// TestPerspectiveCorrectIdentity pins the interpolation contract: with
// per-vertex 1/w correction, the barycentrics (1,0,0), (0,1,0) and
// (0,0,1) reproduce the vertex attributes exactly, whatever the w values.
func TestPerspectiveCorrectIdentity(t *testing.T) {
	r := newTestRenderer(t, 64, 64)
	r.projVerts = []ProjectedVertex{
		{InvW: 1, Position: mgl32.Vec3{1, 2, 3}, Normal: mgl32.Vec3{1, 0, 0}, TexCoord: mgl32.Vec2{0, 0}},
		{InvW: 0.5, Position: mgl32.Vec3{4, 5, 6}, Normal: mgl32.Vec3{0, 1, 0}, TexCoord: mgl32.Vec2{1, 0}},
		{InvW: 0.25, Position: mgl32.Vec3{7, 8, 9}, Normal: mgl32.Vec3{0, 0, 1}, TexCoord: mgl32.Vec2{0, 1}},
	}
	frag := QuadFragment{
		// Lanes 0..2 sit exactly on vertices 0..2; lane 3 is interior.
		Lambda0: rmath.Float4{1, 0, 0, 0.25},
		Lambda1: rmath.Float4{0, 1, 0, 0.25},
		Vid:     [3]uint32{0, 1, 2},
	}
	r.SetShader(ShaderFlat)
	r.shadeQuad(&frag) // must not panic; the checks below redo the math

	v := r.projVerts
	b0 := frag.Lambda0.Scale(v[0].InvW)
	b1 := frag.Lambda1.Scale(v[1].InvW)
	b2 := rmath.SplatFloat4(1).Sub(frag.Lambda0).Sub(frag.Lambda1).Scale(v[2].InvW)
	invB := b0.Add(b1).Add(b2).Rcp()
	b0 = b0.Mul(invB)
	b1 = b1.Mul(invB)
	b2 = rmath.SplatFloat4(1).Sub(b0).Sub(b1)

	pos := splat3(v[0].Position).MulLanes(b0).
		Add(splat3(v[1].Position).MulLanes(b1)).
		Add(splat3(v[2].Position).MulLanes(b2))
	want := [3]mgl32.Vec3{v[0].Position, v[1].Position, v[2].Position}
	for lane := 0; lane < 3; lane++ {
		got := mgl32.Vec3{pos.X[lane], pos.Y[lane], pos.Z[lane]}
		if got.Sub(want[lane]).Len() > 1e-5 {
			t.Errorf("lane %d position = %v, want %v", lane, got, want[lane])
		}
	}
}

func TestDiffuseTerm(t *testing.T) {
	r := newTestRenderer(t, 4, 4)
	r.state.LightDir = mgl32.Vec3{0, 0, -1}

	// Normal facing the light: saturate(1) → (1 + 0.2)·2/π.
	d := r.diffuse(rmath.SplatVec3x4(0, 0, -1))
	want := float32((1 + 0.2) * 2 / math.Pi)
	for p := 0; p < 4; p++ {
		if math.Abs(float64(d[p]-want)) > 1e-5 {
			t.Errorf("lit lane %d = %v, want %v", p, d[p], want)
		}
	}

	// Normal facing away: the diffuse dot clamps to zero, leaving the
	// ambient floor.
	d = r.diffuse(rmath.SplatVec3x4(0, 0, 1))
	want = float32(0.2 * 2 / math.Pi)
	for p := 0; p < 4; p++ {
		if math.Abs(float64(d[p]-want)) > 1e-5 {
			t.Errorf("unlit lane %d = %v, want %v", p, d[p], want)
		}
	}
}

func TestQuantizeColor(t *testing.T) {
	tests := []struct {
		in   float32
		want uint8
	}{
		{-0.5, 0},
		{0, 0},
		{0.5, 128},
		{1, 255},
		{1.5, 255},
	}
	for _, tt := range tests {
		if got := quantizeColor(tt.in, tt.in, tt.in); got.R != tt.want {
			t.Errorf("quantizeColor(%v).R = %d, want %d", tt.in, got.R, tt.want)
		}
	}
}

func TestTextureIDClamping(t *testing.T) {
	red := &FlatTexture{Color: [4]uint8{255, 0, 0, 255}}
	r := newTestRenderer(t, 64, 64)
	r.SetShader(ShaderAlbedo)
	// Texture id 7 is out of range for the single bound slot and clamps
	// to slot 0 instead of crashing.
	m := pixelMesh([]uint32{7}, []TextureSlot{red},
		[9]float32{10, 10, 0, 50, 10, 0, 10, 50, 0})
	renderOne(t, r, m)
	if got := pixelAt(r, 15, 15); (got != rgba8{255, 0, 0, 255}) {
		t.Errorf("pixel = %v, want clamped slot 0 color", got)
	}
}

func TestAlbedoWithoutTextures(t *testing.T) {
	r := newTestRenderer(t, 64, 64)
	r.SetShader(ShaderLambertianAlbedo)
	m := pixelMesh(nil, nil, [9]float32{10, 10, 0, 50, 10, 0, 10, 50, 0})
	renderOne(t, r, m)
	if got := pixelAt(r, 15, 15); got == black {
		t.Error("unbound texture slots should shade as white albedo")
	}
}

func TestImageTextureSampling(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, stdcolor.RGBA{255, 0, 0, 255})
	img.SetRGBA(1, 0, stdcolor.RGBA{0, 255, 0, 255})
	img.SetRGBA(0, 1, stdcolor.RGBA{0, 0, 255, 255})
	img.SetRGBA(1, 1, stdcolor.RGBA{255, 255, 255, 255})

	tex := &ImageTexture{Image: img, Filter: FilterNearest}
	// Texel centers; v = 1 is the top of the image.
	if got := tex.Sample(mgl32.Vec2{0.25, 0.75}); got != [4]uint8{255, 0, 0, 255} {
		t.Errorf("(0.25, 0.75) = %v, want red", got)
	}
	if got := tex.Sample(mgl32.Vec2{0.75, 0.25}); got != [4]uint8{255, 255, 255, 255} {
		t.Errorf("(0.75, 0.25) = %v, want white", got)
	}
	// Wrap-repeat addressing.
	if got := tex.Sample(mgl32.Vec2{1.25, 0.75}); got != [4]uint8{255, 0, 0, 255} {
		t.Errorf("(1.25, 0.75) = %v, want red", got)
	}
	if got := tex.Sample(mgl32.Vec2{-0.75, 0.75}); got != [4]uint8{255, 0, 0, 255} {
		t.Errorf("(-0.75, 0.75) = %v, want red", got)
	}

	// Bilinear at the exact center blends all four texels equally.
	bil := &ImageTexture{Image: img, Filter: FilterBilinear}
	got := bil.Sample(mgl32.Vec2{0.5, 0.5})
	for i := 0; i < 3; i++ {
		if got[i] < 126 || got[i] > 129 {
			t.Errorf("center blend channel %d = %d", i, got[i])
		}
	}
}
