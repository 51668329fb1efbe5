package prism

import (
	"bytes"
	"testing"
)

// Hierarchical and brute-force rasterization must agree exactly: the
// coarse walk is a pruning optimization, never a behavior change.
func TestHierarchicalEquivalence(t *testing.T) {
	m := pixelMesh(nil, nil,
		[9]float32{0, 0, 0.3, 256, 0, 0.3, 0, 256, 0.3},
		[9]float32{30, 200, 0.2, 250, 40, 0.2, 240, 230, 0.2},
		[9]float32{100, 100, 0.1, 120, 100, 0.1, 100, 120, 0.1},
	)

	render := func(hier bool, msaa int) []byte {
		r := newTestRenderer(t, 256, 256)
		if err := r.SetMultiSample(msaa); err != nil {
			t.Fatal(err)
		}
		r.State().HierarchicalRasterize = hier
		renderOne(t, r, m)
		return bytes.Clone(r.BackBuffer())
	}

	for _, msaa := range []int{0, 2} {
		if !bytes.Equal(render(true, msaa), render(false, msaa)) {
			t.Errorf("hierarchical and direct rasterization differ at MSAA level %d", msaa)
		}
	}
}

// A triangle spanning many tiles has no seams at tile boundaries.
func TestTileBoundarySeamless(t *testing.T) {
	r := newTestRenderer(t, 256, 256)
	m := pixelMesh(nil, nil, [9]float32{0, 0, 0, 256, 0, 0, 0, 256, 0})
	renderOne(t, r, m)
	for y := 0; y < 250; y += 3 {
		for x := 0; x < 250; x += 3 {
			// Strictly inside the hypotenuse.
			if float32(x)+0.5+float32(y)+0.5 < 250 {
				if got := pixelAt(r, x, y); got != white {
					t.Fatalf("pixel (%d,%d) = %v, want white", x, y, got)
				}
			}
		}
	}
}

// Every emitted fragment carries at least one coverage bit, and the
// intra-tile numbering is dense.
func TestFragmentInvariants(t *testing.T) {
	r := newTestRenderer(t, 256, 256)
	if err := r.SetMultiSample(2); err != nil {
		t.Fatal(err)
	}
	m := pixelMesh(nil, nil,
		[9]float32{3, 7, 0.6, 201, 11, 0.6, 37, 199, 0.6},
		[9]float32{50, 20, 0.4, 220, 140, 0.4, 20, 230, 0.4},
	)
	renderOne(t, r, m)

	sawFrag := false
	for i := range r.tiles {
		tile := &r.tiles[i]
		for f := range tile.frags {
			frag := &tile.frags[f]
			sawFrag = true
			if frag.Coverage.Merge() == 0 {
				t.Fatal("fragment with empty coverage mask")
			}
			if frag.IntraTileIdx != uint32(f) {
				t.Fatalf("intra-tile index %d at position %d", frag.IntraTileIdx, f)
			}
			if frag.TileID != tile.ID {
				t.Fatalf("fragment tile id %d in tile %d", frag.TileID, tile.ID)
			}
			if frag.X%2 != 0 || frag.Y%2 != 0 {
				t.Fatalf("quad origin (%d,%d) not even-aligned", frag.X, frag.Y)
			}
		}
	}
	if !sawFrag {
		t.Fatal("no fragments emitted")
	}
}
