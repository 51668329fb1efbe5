package prism

import (
	"math"

	"honnef.co/go/safeish"
)

// FrameBuffer holds the per-sample color and depth planes and the
// resolved, presentable color buffer. Sample storage is laid out
// (y·W + x)·S + s so one pixel's samples are contiguous.
type FrameBuffer struct {
	width, height, samples int

	sampleColor []rgba8
	sampleDepth []float32
	resolved    []rgba8
}

func newFrameBuffer(width, height, samples int) *FrameBuffer {
	n := width * height
	return &FrameBuffer{
		width:       width,
		height:      height,
		samples:     samples,
		sampleColor: make([]rgba8, n*samples),
		sampleDepth: make([]float32, n*samples),
		resolved:    make([]rgba8, n),
	}
}

// runClearStage resets every sample to the clear color at infinite depth.
func (r *Renderer) runClearStage() {
	fb := r.fb
	c := r.state.clearColor
	inf := float32(math.Inf(1))
	r.parallelRanges(fb.height, func(_, lo, hi int) {
		base := lo * fb.width * fb.samples
		end := hi * fb.width * fb.samples
		color := fb.sampleColor[base:end]
		depth := fb.sampleDepth[base:end]
		for i := range color {
			color[i] = c
			depth[i] = inf
		}
	})
}

// runUpdateStage writes the shaded quads into the sample color planes.
// Fragments replay in append order per tile, so later triangles of the
// submission land on top exactly where their coverage bits say.
func (r *Renderer) runUpdateStage() {
	fb := r.fb
	samples := fb.samples
	r.parallelChunks(len(r.tiles), 1, func(_, lo, hi int) {
		for t := lo; t < hi; t++ {
			tile := &r.tiles[t]
			results := r.shadeBuf[r.fragOffsets[t]:r.fragOffsets[t+1]]
			for f := range tile.frags {
				frag := &tile.frags[f]
				shaded := &results[frag.IntraTileIdx]
				for p := 0; p < 4; p++ {
					x := int(frag.X) + (p & 1)
					y := int(frag.Y) + (p >> 1)
					base := (y*fb.width + x) * samples
					for s := 0; s < samples; s++ {
						if !frag.Coverage.Bit(s*4 + p) {
							continue
						}
						fb.sampleColor[base+s] = rgba8{
							R: shaded[p*4+0],
							G: shaded[p*4+1],
							B: shaded[p*4+2],
							A: 255,
						}
					}
				}
			}
		}
	})
}

// runResolveStage box-filters the sample planes into the resolved buffer
// with round-to-nearest.
func (r *Renderer) runResolveStage() {
	fb := r.fb
	samples := fb.samples
	if samples == 1 {
		r.parallelRanges(fb.height, func(_, lo, hi int) {
			copy(fb.resolved[lo*fb.width:hi*fb.width], fb.sampleColor[lo*fb.width:hi*fb.width])
		})
		return
	}
	half := uint32(samples / 2)
	r.parallelRanges(fb.height, func(_, lo, hi int) {
		for y := lo; y < hi; y++ {
			for x := 0; x < fb.width; x++ {
				base := (y*fb.width + x) * samples
				var sr, sg, sb uint32
				for s := 0; s < samples; s++ {
					c := fb.sampleColor[base+s]
					sr += uint32(c.R)
					sg += uint32(c.G)
					sb += uint32(c.B)
				}
				fb.resolved[y*fb.width+x] = rgba8{
					R: uint8((sr + half) / uint32(samples)),
					G: uint8((sg + half) / uint32(samples)),
					B: uint8((sb + half) / uint32(samples)),
					A: 255,
				}
			}
		}
	})
}

// Bytes returns the resolved buffer as RGBA8 bytes, row-major from the
// top-left.
func (fb *FrameBuffer) Bytes() []uint8 {
	return safeish.SliceCast[[]uint8](fb.resolved)
}
