package prism

import "honnef.co/go/prism/rmath"

// Tile rasterization. Tiles are claimed dynamically; the claiming worker
// owns the tile's depth and color samples until the stage barrier.
// Within a tile, triangle references are replayed in worker order and,
// per worker, in clip-emission order, which preserves submission order
// for the depth test.

const allEdges = 0b111

func (r *Renderer) runRasterStage() {
	r.parallelChunks(len(r.tiles), 1, func(_, lo, hi int) {
		for t := lo; t < hi; t++ {
			r.rasterTile(&r.tiles[t])
		}
	})
}

func (r *Renderer) rasterTile(tile *Tile) {
	for w := range tile.refs {
		tris := r.workerTris[w]
		for _, ref := range tile.refs[w] {
			tri := &tris[ref.Index]
			switch {
			case ref.Accept == allEdges:
				// Every sample of the tile is inside all three edges:
				// only depth remains.
				r.fineBounds(tile, tri, int32(w), tile.MinX, tile.MinY, tile.MaxX, tile.MaxY, allEdges)
			case ref.Big && r.state.HierarchicalRasterize:
				r.coarseWalk(tile, tri, int32(w), tile.MinX, tile.MinY, tileSize, ref.Accept)
			default:
				x0, y0, x1, y1 := triBoundsIn(tile, tri)
				r.fineBounds(tile, tri, int32(w), x0, y0, x1, y1, ref.Accept)
			}
		}
	}
}

// triBoundsIn intersects the triangle's pixel bounding box with the tile.
func triBoundsIn(tile *Tile, tri *RasterTriangle) (x0, y0, x1, y1 int32) {
	minX := min(tri.V0.X, tri.V1.X, tri.V2.X) >> rmath.FixedBits
	maxX := max(tri.V0.X, tri.V1.X, tri.V2.X)>>rmath.FixedBits + 1
	minY := min(tri.V0.Y, tri.V1.Y, tri.V2.Y) >> rmath.FixedBits
	maxY := max(tri.V0.Y, tri.V1.Y, tri.V2.Y)>>rmath.FixedBits + 1
	x0 = max(minX, tile.MinX)
	y0 = max(minY, tile.MinY)
	x1 = min(maxX, tile.MaxX)
	y1 = min(maxY, tile.MaxY)
	return x0, y0, x1, y1
}

// coarseWalk recursively halves a block, pruning sub-blocks that are
// wholly outside an edge and widening the accept set for sub-blocks
// wholly inside, until it reaches 8×8-pixel leaves.
func (r *Renderer) coarseWalk(tile *Tile, tri *RasterTriangle, worker, x0, y0, size int32, accept uint8) {
	if size == 8 {
		r.fineBounds(tile, tri, worker, x0, y0, min(x0+size, tile.MaxX), min(y0+size, tile.MaxY), accept)
		return
	}
	half := size / 2
	for sub := range int32(4) {
		bx := x0 + (sub&1)*half
		by := y0 + (sub>>1)*half
		if bx >= tile.MaxX || by >= tile.MaxY {
			continue
		}
		subAccept := accept
		rejected := false
		for e := 0; e < 3; e++ {
			if accept&(1<<e) != 0 {
				continue
			}
			fx := bx << rmath.FixedBits
			fy := by << rmath.FixedBits
			dx, dy := cornerOffset(tri.RejectCorner[e], half)
			if tri.edge(e, fx+dx, fy+dy) < 0 {
				rejected = true
				break
			}
			dx, dy = cornerOffset(tri.AcceptCorner[e], half)
			if tri.edge(e, fx+dx, fy+dy) >= 0 {
				subAccept |= 1 << e
			}
		}
		if rejected {
			continue
		}
		r.coarseWalk(tile, tri, worker, bx, by, half, subAccept)
	}
}

// fineBounds rasterizes every 2×2 quad intersecting the given pixel
// bounds (max exclusive).
func (r *Renderer) fineBounds(tile *Tile, tri *RasterTriangle, worker, x0, y0, x1, y1 int32, accept uint8) {
	if x0 >= x1 || y0 >= y1 {
		return
	}
	x0 &^= 1
	y0 &^= 1
	for qy := y0; qy < y1; qy += 2 {
		for qx := x0; qx < x1; qx += 2 {
			r.fineQuad(tile, tri, worker, qx, qy, accept)
		}
	}
}

// fineQuad computes the multi-sample coverage of one quad, depth-tests
// the covered samples, and emits a fragment if any survive.
func (r *Renderer) fineQuad(tile *Tile, tri *RasterTriangle, worker, qx, qy int32, accept uint8) {
	fb := r.fb
	positions := samplePositions(r.state.sampleLevel)
	samples := len(positions)

	var mask CoverageMask
	var l0, l1 rmath.Float4
	covered := false
	for p := int32(0); p < 4; p++ {
		px := qx + (p & 1)
		py := qy + (p >> 1)
		if px >= int32(r.width) || py >= int32(r.height) {
			continue
		}
		fx := px << rmath.FixedBits
		fy := py << rmath.FixedBits

		// Barycentrics at sample 0 ride along in the fragment; the
		// shading pass applies perspective correction.
		s0x := fx + positions[0].X
		s0y := fy + positions[0].Y
		l0[p] = float32(tri.edge(1, s0x, s0y)) * tri.InvArea2
		l1[p] = float32(tri.edge(2, s0x, s0y)) * tri.InvArea2

		for s := 0; s < samples; s++ {
			sx := fx + positions[s].X
			sy := fy + positions[s].Y
			inside := true
			for e := 0; e < 3; e++ {
				if accept&(1<<e) != 0 {
					continue
				}
				if tri.edge(e, sx, sy)+int64(tri.TieBreak[e]) < 0 {
					inside = false
					break
				}
			}
			if !inside {
				continue
			}

			b0 := float32(tri.edge(1, sx, sy)) * tri.InvArea2
			b1 := float32(tri.edge(2, sx, sy)) * tri.InvArea2
			z := b0*tri.Z[0] + b1*tri.Z[1] + (1-b0-b1)*tri.Z[2]
			idx := (int(py)*r.width+int(px))*samples + s
			if r.state.DepthTest {
				if z > fb.sampleDepth[idx] {
					continue
				}
				fb.sampleDepth[idx] = z
			}
			mask.SetBit(s*4 + int(p))
			covered = true
		}
	}
	if !covered {
		return
	}
	tile.frags = append(tile.frags, QuadFragment{
		Lambda0:      l0,
		Lambda1:      l1,
		Coverage:     mask,
		X:            uint16(qx),
		Y:            uint16(qy),
		Vid:          tri.Vid,
		Worker:       worker,
		TexID:        tri.TexID,
		TileID:       tile.ID,
		IntraTileIdx: uint32(len(tile.frags)),
	})
}
