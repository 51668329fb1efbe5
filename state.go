package prism

import (
	"github.com/go-gl/mathgl/mgl32"
	"honnef.co/go/color"
)

// RenderState is the per-renderer configuration read by every stage. It
// replaces the source material's global singleton with an explicit value
// owned by the Renderer; stages receive read-only access. Mutating it
// while a frame is in flight is undefined.
type RenderState struct {
	ModelView     mgl32.Mat4
	ModelViewInv  mgl32.Mat4
	Proj          mgl32.Mat4
	ModelViewProj mgl32.Mat4
	// Raster maps NDC to screen coordinates (pixels, top-left origin).
	Raster mgl32.Mat4

	HierarchicalRasterize bool
	BackFaceCulling       bool
	FrontCounterClockwise bool
	DepthTest             bool

	// LightDir is the fixed light direction the built-in shaders use.
	LightDir mgl32.Vec3
	Shader   ShaderKind

	FrameCount uint64

	sampleLevel int // log2 of the sample count, 0..4
	sampleCount int
	clearColor  rgba8
	textures    []TextureSlot
	eyePos      mgl32.Vec3
	vs          VertexShaderFunc
}

func defaultRenderState() RenderState {
	return RenderState{
		ModelView:             mgl32.Ident4(),
		ModelViewInv:          mgl32.Ident4(),
		Proj:                  mgl32.Ident4(),
		ModelViewProj:         mgl32.Ident4(),
		Raster:                mgl32.Ident4(),
		HierarchicalRasterize: true,
		BackFaceCulling:       true,
		FrontCounterClockwise: true,
		DepthTest:             true,
		LightDir:              mgl32.Vec3{1, 1, -1}.Normalize(),
		Shader:                ShaderLambertian,
		sampleLevel:           0,
		sampleCount:           1,
		clearColor:            rgba8{0, 0, 0, 255},
		vs:                    defaultVertexShader,
	}
}

// SampleCount returns the number of MSAA samples per pixel.
func (s *RenderState) SampleCount() int { return s.sampleCount }

// RasterMatrix builds the standard NDC→screen transform for a target of
// the given size: x ∈ [−1,1] → [0,w], y ∈ [−1,1] → [h,0] (top-left
// origin), z and w unchanged.
func RasterMatrix(width, height int) mgl32.Mat4 {
	w := float32(width)
	h := float32(height)
	return mgl32.Mat4{
		w / 2, 0, 0, 0,
		0, -h / 2, 0, 0,
		0, 0, 1, 0,
		w / 2, h / 2, 0, 1,
	}
}

type rgba8 struct {
	R, G, B, A uint8
}

// quantizeColor converts a linear-sRGB color value in [0,1] to 8 bits
// with round-to-nearest.
func quantizeColor(r, g, b float32) rgba8 {
	q := func(v float32) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	return rgba8{q(r), q(g), q(b), 255}
}

// colorToRGBA8 converts a color to linear-sRGB 8-bit, alpha dropped.
func colorToRGBA8(c *color.Color) rgba8 {
	cc := c.Convert(color.LinearSRGB)
	return quantizeColor(float32(cc.Values[0]), float32(cc.Values[1]), float32(cc.Values[2]))
}
