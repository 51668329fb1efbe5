package prism

import "honnef.co/go/prism/rmath"

// CoverageMask is a fixed 128-bit mask with one bit per (sample, pixel)
// of a 2×2 quad: bit sample·4 + pixel, pixels in TL, TR, BL, BR order.
// 128 bits cover the compile-time maximum of 32 samples.
type CoverageMask struct {
	bits [4]uint32
}

const maxSamples = 32

func (m *CoverageMask) SetBit(i int) {
	m.bits[i>>5] |= 1 << (i & 31)
}

func (m *CoverageMask) Bit(i int) bool {
	return m.bits[i>>5]&(1<<(i&31)) != 0
}

// Merge ORs the mask's words together; nonzero means any coverage.
func (m *CoverageMask) Merge() uint32 {
	return m.bits[0] | m.bits[1] | m.bits[2] | m.bits[3]
}

// QuadFragment is a 2×2 pixel block with nonzero multi-sample coverage,
// produced by the rasterizer and consumed by the fragment-shading and
// framebuffer-update stages.
type QuadFragment struct {
	// Screen-space barycentrics at sample 0 of each pixel. Perspective
	// correction happens during shading.
	Lambda0, Lambda1 rmath.Float4
	Coverage         CoverageMask

	// X, Y is the top-left pixel of the quad, even-aligned.
	X, Y         uint16
	Vid          [3]uint32
	Worker       int32
	TexID        uint32
	TileID       int32
	IntraTileIdx uint32
}
