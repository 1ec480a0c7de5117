package vds

import (
	"errors"
	"testing"
)

// The linear index must be a bijection: every grid coordinate maps to a
// unique linear index and back, for the whole grid in both directions.
func TestLinearIndexRoundTrip(t *testing.T) {
	layout := testLayout(t)
	extents := layout.GridExtents()

	seen := make(map[uint64]bool)
	for z := int64(0); z < extents[2]; z++ {
		for y := int64(0); y < extents[1]; y++ {
			for x := int64(0); x < extents[0]; x++ {
				idx := BrickIndex{x, y, z}
				linear := layout.LinearIndex(idx)
				if seen[linear] {
					t.Fatalf("linear index %d assigned twice", linear)
				}
				seen[linear] = true
				back := layout.BrickCoords(linear)
				for i := range idx {
					if back[i] != idx[i] {
						t.Fatalf("round trip failed: %s -> %d -> %s", idx, linear, back)
					}
				}
			}
		}
	}

	total := layout.TotalBricks()
	if uint64(len(seen)) != total {
		t.Fatalf("expected %d distinct linear indices, got %d", total, len(seen))
	}
	for linear := uint64(0); linear < total; linear++ {
		if back := layout.LinearIndex(layout.BrickCoords(linear)); back != linear {
			t.Fatalf("reverse round trip failed: %d -> %s -> %d", linear, layout.BrickCoords(linear), back)
		}
	}
}

// Axis 0 is the fastest-varying axis of the linear index.
func TestLinearIndexOrdering(t *testing.T) {
	layout := testLayout(t)
	if layout.LinearIndex(BrickIndex{1, 0, 0}) != 1 {
		t.Errorf("axis 0 should vary fastest")
	}
	if layout.LinearIndex(BrickIndex{0, 1, 0}) != 16 {
		t.Errorf("axis 1 stride should be 16, got %d", layout.LinearIndex(BrickIndex{0, 1, 0}))
	}
	if layout.LinearIndex(BrickIndex{0, 0, 1}) != 16*13 {
		t.Errorf("axis 2 stride should be %d, got %d", 16*13, layout.LinearIndex(BrickIndex{0, 0, 1}))
	}
}

func TestBrickIteratorCoverage(t *testing.T) {
	layout := testLayout(t)
	box := BoundingBox{Min: Point{10, 60, 100}, Max: Point{200, 130, 101}}

	it, err := layout.NewBrickIterator(box)
	if err != nil {
		t.Fatalf("cannot create iterator: %v", err)
	}

	// x bricks 0..3, y bricks 0..2, z brick 1.
	if it.NumBricks() != 4*3*1 {
		t.Errorf("expected 12 bricks, got %d", it.NumBricks())
	}

	covered := make(map[int64]bool)
	last := int64(-1)
	count := 0
	for ; it.Valid(); it.Next() {
		linear := int64(it.LinearIndex())
		if linear <= last {
			t.Errorf("iteration not in ascending linear order: %d after %d", linear, last)
		}
		last = linear
		count++

		idx := it.BrickIndex()
		origin := layout.BrickOrigin(idx)
		valid := layout.BrickValidExtent(idx)
		// No returned brick may be disjoint from the box.
		for i := range origin {
			if origin[i] >= box.Max[i] || origin[i]+valid[i] <= box.Min[i] {
				t.Errorf("brick %s disjoint from box on axis %d", idx, i)
			}
		}
		// Mark which voxels of the box this brick covers, x axis only
		// since y/z coverage follows the same arithmetic.
		lo := max(origin[0], box.Min[0])
		hi := min(origin[0]+valid[0], box.Max[0])
		for x := lo; x < hi; x++ {
			covered[x] = true
		}
	}
	if count != 12 {
		t.Errorf("expected to visit 12 bricks, visited %d", count)
	}
	for x := box.Min[0]; x < box.Max[0]; x++ {
		if !covered[x] {
			t.Errorf("voxel column x=%d not covered by any brick", x)
		}
	}
}

func TestBrickIteratorRejectsBadBox(t *testing.T) {
	layout := testLayout(t)
	var bndErr *BoundsError
	_, err := layout.NewBrickIterator(BoundingBox{Min: Point{0, 0, 0}, Max: Point{1000, 900, 500}})
	if !errors.As(err, &bndErr) {
		t.Errorf("expected BoundsError, got %v", err)
	}
}

func TestCheckLinearIndex(t *testing.T) {
	layout := testLayout(t)
	if err := layout.CheckLinearIndex(layout.TotalBricks() - 1); err != nil {
		t.Errorf("last brick should be valid: %v", err)
	}
	if err := layout.CheckLinearIndex(layout.TotalBricks()); err == nil {
		t.Errorf("expected error for out-of-range linear index")
	}
}
