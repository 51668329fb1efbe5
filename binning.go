package prism

import "honnef.co/go/prism/rmath"

// The binner assigns every raster triangle to the tiles it may touch.
// Each worker walks its own triangle buffer and appends to its own
// per-tile reference list, so tiles accumulate triangles from all
// workers without synchronization; the stage barrier publishes the lists
// to the rasterizer.

func (r *Renderer) runBinStage() {
	r.parallelRanges(r.workers, func(_, lo, hi int) {
		for w := lo; w < hi; w++ {
			r.binWorker(w)
		}
	})
}

func (r *Renderer) binWorker(worker int) {
	tris := r.workerTris[worker]
	for i := range tris {
		tri := &tris[i]
		minX := min(tri.V0.X, tri.V1.X, tri.V2.X)
		maxX := max(tri.V0.X, tri.V1.X, tri.V2.X)
		minY := min(tri.V0.Y, tri.V1.Y, tri.V2.Y)
		maxY := max(tri.V0.Y, tri.V1.Y, tri.V2.Y)

		tx0 := clampTile(minX>>tileShift, int32(r.tilesX))
		tx1 := clampTile(maxX>>tileShift, int32(r.tilesX))
		ty0 := clampTile(minY>>tileShift, int32(r.tilesY))
		ty1 := clampTile(maxY>>tileShift, int32(r.tilesY))

		if tx1-tx0 < 2 && ty1-ty0 < 2 {
			// Small bounding box: reference every covered tile and let
			// fine rasterization run the full edge tests.
			for ty := ty0; ty <= ty1; ty++ {
				for tx := tx0; tx <= tx1; tx++ {
					tile := &r.tiles[ty*int32(r.tilesX)+tx]
					tile.refs[worker] = append(tile.refs[worker], TriangleRef{Index: uint32(i)})
				}
			}
			continue
		}

		for ty := ty0; ty <= ty1; ty++ {
			for tx := tx0; tx <= tx1; tx++ {
				tile := &r.tiles[ty*int32(r.tilesX)+tx]
				baseX := tile.MinX << rmath.FixedBits
				baseY := tile.MinY << rmath.FixedBits
				rejected := false
				var accept uint8
				for e := 0; e < 3; e++ {
					dx, dy := cornerOffset(tri.RejectCorner[e], tileSize)
					if tri.edge(e, baseX+dx, baseY+dy) < 0 {
						rejected = true
						break
					}
					dx, dy = cornerOffset(tri.AcceptCorner[e], tileSize)
					if tri.edge(e, baseX+dx, baseY+dy) >= 0 {
						accept |= 1 << e
					}
				}
				if rejected {
					continue
				}
				tile.refs[worker] = append(tile.refs[worker], TriangleRef{
					Index:  uint32(i),
					Accept: accept,
					Big:    true,
				})
			}
		}
	}
}

func clampTile(v, dim int32) int32 {
	if v < 0 {
		return 0
	}
	if v >= dim {
		return dim - 1
	}
	return v
}
