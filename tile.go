package prism

import "honnef.co/go/prism/rmath"

// Tiles are the unit of work distribution and own the depth/color samples
// of their pixels for the duration of a frame. 64 pixels on a side: a
// 32×32 grid of 2×2 quads.
const (
	tileSizeLog2 = 6
	tileSize     = 1 << tileSizeLog2
	// tileShift converts a fixed-point coordinate to a tile coordinate.
	tileShift = tileSizeLog2 + rmath.FixedBits
)

// TriangleRef references a raster triangle from a tile. Accept holds one
// trivial-accept bit per edge: the whole tile lies inside that edge, so
// fine rasterization can skip its per-sample test. Big marks refs that
// went through the full reject/accept corner classification and are
// candidates for hierarchical descent.
type TriangleRef struct {
	Index  uint32
	Accept uint8
	Big    bool
}

type Tile struct {
	ID int32
	// Pixel bounds; max is exclusive and clamped to the framebuffer, so
	// edge tiles may be smaller than tileSize.
	MinX, MinY, MaxX, MaxY int32

	refs  [][]TriangleRef // one list per worker; only that worker appends
	frags []QuadFragment
}

func (t *Tile) reset() {
	for k := range t.refs {
		t.refs[k] = t.refs[k][:0]
	}
	t.frags = t.frags[:0]
}

// buildTileGrid sizes the tile grid for the framebuffer dimensions.
func (r *Renderer) buildTileGrid() {
	r.tilesX = (r.width + tileSize - 1) / tileSize
	r.tilesY = (r.height + tileSize - 1) / tileSize
	n := r.tilesX * r.tilesY
	r.tiles = make([]Tile, n)
	for i := range r.tiles {
		t := &r.tiles[i]
		tx := int32(i % r.tilesX)
		ty := int32(i / r.tilesX)
		t.ID = int32(i)
		t.MinX = tx * tileSize
		t.MinY = ty * tileSize
		t.MaxX = min(t.MinX+tileSize, int32(r.width))
		t.MaxY = min(t.MinY+tileSize, int32(r.height))
		t.refs = make([][]TriangleRef, r.workers)
	}
}
