// Copyright 2026 The prism authors
// SPDX-License-Identifier: Apache-2.0 OR MIT

// Package prism is a tiled, multi-sample software rasterizer. It consumes
// indexed triangle meshes with per-vertex attributes and a camera
// transform chain and produces an 8-bit RGBA color buffer.
//
// The pipeline is data-parallel across vertices, triangles, tiles and
// 2×2 pixel quads: vertex transform, homogeneous clipping, fixed-point
// triangle setup, tiled binning, hierarchical rasterization with
// multi-sample coverage, perspective-correct quad shading, and a
// box-filter resolve. Within every pixel the depth-test order matches
// triangle submission order.
package prism

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"honnef.co/go/color"
	"honnef.co/go/prism/profiler"
)

var errNotInitialized = errors.New("prism: renderer not initialized")

// Renderer owns the render state, the framebuffer, the tile grid and the
// per-worker buffers. Methods are not safe for concurrent use; a frame
// runs to completion inside RenderMesh.
type Renderer struct {
	state RenderState

	fb             *FrameBuffer
	width, height  int
	tiles          []Tile
	tilesX, tilesY int

	workers     int
	projVerts   []ProjectedVertex
	workerVerts [][]ProjectedVertex
	workerTris  [][]RasterTriangle
	fragOffsets []int
	shadeBuf    []shadedQuad

	texIDClamped atomic.Bool
	prof         profiler.ProfilerGroup
	initialized  bool
}

func New() *Renderer {
	return &Renderer{
		state:   defaultRenderState(),
		workers: runtime.NumCPU(),
		prof:    profiler.Nop(),
	}
}

// State exposes the render state for reading and for toggling the
// between-frame options. Mutating it during RenderMesh is undefined.
func (r *Renderer) State() *RenderState {
	return &r.state
}

// SetWorkers fixes the worker count. Values below 1 reset to the number
// of CPUs. Must not be called during a frame.
func (r *Renderer) SetWorkers(k int) {
	if k < 1 {
		k = runtime.NumCPU()
	}
	if k == r.workers {
		return
	}
	r.workers = k
	if r.initialized {
		r.allocWorkerBuffers()
		r.buildTileGrid()
	}
}

// SetProfiler installs a profiling hook for subsequent frames. Pass nil
// to disable.
func (r *Renderer) SetProfiler(p profiler.ProfilerGroup) {
	if p == nil {
		p = profiler.Nop()
	}
	r.prof = p
}

// Initialize allocates the framebuffer, the tile grid and the worker
// buffers for the given target size.
func (r *Renderer) Initialize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("prism: invalid framebuffer size %dx%d", width, height)
	}
	r.width = width
	r.height = height
	r.fb = newFrameBuffer(width, height, r.state.sampleCount)
	r.allocWorkerBuffers()
	r.buildTileGrid()
	r.initialized = true
	logger().Info("initialized renderer",
		"width", width, "height", height,
		"tiles", len(r.tiles), "workers", r.workers)
	return nil
}

// Resize rebuilds the tile grid and framebuffer for a new target size,
// preserving all render state.
func (r *Renderer) Resize(width, height int) error {
	if !r.initialized {
		return errNotInitialized
	}
	return r.Initialize(width, height)
}

func (r *Renderer) allocWorkerBuffers() {
	r.workerVerts = make([][]ProjectedVertex, r.workers)
	r.workerTris = make([][]RasterTriangle, r.workers)
}

// SetTransform installs the camera chain. The inverse of the model-view
// matrix is cached for eye-space derivations.
func (r *Renderer) SetTransform(modelView, proj, raster mgl32.Mat4) {
	r.state.ModelView = modelView
	r.state.ModelViewInv = modelView.Inv()
	r.state.Proj = proj
	r.state.ModelViewProj = proj.Mul4(modelView)
	r.state.Raster = raster
}

// SetMultiSample selects the MSAA level as log2 of the sample count:
// 0..4 for 1, 2, 4, 8 or 16 samples. The sample buffers are rebuilt.
func (r *Renderer) SetMultiSample(levelLog2 int) error {
	if levelLog2 < 0 || levelLog2 >= len(samplePatterns) {
		return fmt.Errorf("prism: unsupported multisample level %d", levelLog2)
	}
	r.state.sampleLevel = levelLog2
	r.state.sampleCount = 1 << levelLog2
	if r.initialized {
		r.fb = newFrameBuffer(r.width, r.height, r.state.sampleCount)
	}
	return nil
}

// SetClearColor sets the color samples are cleared to at frame start.
func (r *Renderer) SetClearColor(c *color.Color) {
	r.state.clearColor = colorToRGBA8(c)
}

// SetShader selects the pixel shader for subsequent frames.
func (r *Renderer) SetShader(k ShaderKind) {
	r.state.Shader = k
}

// SetVertexShader replaces the vertex stage hook. Pass nil to restore
// the default model-view-projection transform.
func (r *Renderer) SetVertexShader(fn VertexShaderFunc) {
	if fn == nil {
		fn = defaultVertexShader
	}
	r.state.vs = fn
}

// RenderMesh runs the full pipeline once: clear, vertex transform, clip,
// bin, rasterize, shade, framebuffer update, resolve. Every stage is a
// fork-join parallel loop; the frame has completed in full when
// RenderMesh returns.
func (r *Renderer) RenderMesh(mesh Mesh) error {
	if !r.initialized {
		return errNotInitialized
	}
	r.state.FrameCount++
	r.state.textures = mesh.Textures()
	r.state.eyePos = r.state.ModelViewInv.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	r.texIDClamped.Store(false)

	prof := r.prof.Start("frame")
	stage := func(label string, fn func()) {
		g := prof.Start(label)
		fn()
		g.End()
	}

	stage("clear", r.runClearStage)
	for i := range r.tiles {
		r.tiles[i].reset()
	}
	stage("vs", func() { r.runVertexStage(mesh) })
	stage("clip", func() { r.runClipStage(mesh) })
	stage("bin", r.runBinStage)
	stage("raster", r.runRasterStage)
	stage("fs", r.runShadeStage)
	stage("update", r.runUpdateStage)
	stage("resolve", r.runResolveStage)
	prof.End()

	if r.texIDClamped.Load() {
		logger().Warn("out-of-range texture ids clamped to slot 0",
			"frame", r.state.FrameCount)
	}
	logger().Debug("frame complete",
		"frame", r.state.FrameCount,
		"triangles", mesh.TriangleCount())
	return nil
}

// BackBuffer returns the resolved RGBA8 buffer, row-major with the
// top-left pixel first. The slice aliases renderer memory and is valid
// until the next RenderMesh or Resize.
func (r *Renderer) BackBuffer() []uint8 {
	if r.fb == nil {
		return nil
	}
	return r.fb.Bytes()
}
