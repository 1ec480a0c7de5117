/*
	This file defines the brick indexing scheme: the mixed-radix bijection
	between N-dimensional brick grid positions and single-integer linear
	indices, and iteration over the bricks intersecting a bounding box.

	Convention: axis 0 is the fastest-varying axis of the linear index.
	LinearIndex and BrickCoords are mutual inverses for every in-range
	value, and NewBrickIterator emits bricks in ascending linear order.
*/

package vds

import (
	"fmt"
	"strings"
)

// BrickIndex is an N-tuple of non-negative integers identifying a brick's
// position in the tiling grid.
type BrickIndex []int64

// Duplicate returns a copy of the index without shared backing.
func (idx BrickIndex) Duplicate() BrickIndex {
	dup := make(BrickIndex, len(idx))
	copy(dup, idx)
	return dup
}

func (idx BrickIndex) String() string {
	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// LinearIndex encodes a brick grid position as a single integer using
// mixed-radix encoding over the per-axis grid extents, axis 0 fastest.
func (l *Layout) LinearIndex(idx BrickIndex) uint64 {
	var linear, stride uint64 = 0, 1
	for i := 0; i < len(idx); i++ {
		linear += uint64(idx[i]) * stride
		stride *= uint64(l.gridExtents[i])
	}
	return linear
}

// BrickCoords decodes a linear brick index back into grid coordinates.
// Inverse of LinearIndex for every value in [0, TotalBricks).
func (l *Layout) BrickCoords(linear uint64) BrickIndex {
	idx := make(BrickIndex, len(l.gridExtents))
	remaining := linear
	for i := 0; i < len(l.gridExtents); i++ {
		extent := uint64(l.gridExtents[i])
		idx[i] = int64(remaining % extent)
		remaining /= extent
	}
	return idx
}

// CheckBrickIndex validates a brick grid position, identifying the
// offending axis on failure.
func (l *Layout) CheckBrickIndex(idx BrickIndex) error {
	if len(idx) != len(l.gridExtents) {
		return Configf("brick index rank %d does not match volume rank %d", len(idx), len(l.gridExtents))
	}
	for i, v := range idx {
		if v < 0 || v >= l.gridExtents[i] {
			return &BoundsError{Axis: i, Value: v, Limit: l.gridExtents[i] - 1}
		}
	}
	return nil
}

// CheckLinearIndex validates a linear brick index against the grid.
func (l *Layout) CheckLinearIndex(linear uint64) error {
	if total := l.TotalBricks(); linear >= total {
		return &BoundsError{Axis: -1, Value: int64(linear), Limit: int64(total) - 1}
	}
	return nil
}

// BrickIterator iterates over the bricks whose voxel extents intersect a
// bounding box, in ascending linear-index order.  The sequence is finite
// and not restartable.
//
//	it, err := layout.NewBrickIterator(box)
//	for ; it.Valid(); it.Next() {
//	    idx := it.BrickIndex()
//	    ...
//	}
type BrickIterator struct {
	layout   *Layout
	min, max BrickIndex // inclusive brick grid corners
	cur      BrickIndex
	done     bool
}

// NewBrickIterator validates the box against the layout and returns an
// iterator over the minimal covering brick set.
func (l *Layout) NewBrickIterator(box BoundingBox) (*BrickIterator, error) {
	if err := l.CheckBounds(box); err != nil {
		return nil, err
	}
	it := &BrickIterator{
		layout: l,
		min:    l.BrickIndexAt(box.Min),
		cur:    make(BrickIndex, len(box.Min)),
	}
	// The box max is exclusive, so the last covered voxel is max-1.
	last := make(Point, len(box.Max))
	for i := range box.Max {
		last[i] = box.Max[i] - 1
	}
	it.max = l.BrickIndexAt(last)
	copy(it.cur, it.min)
	return it, nil
}

// Valid returns false once the iterator is exhausted.
func (it *BrickIterator) Valid() bool {
	return !it.done
}

// Next advances to the brick with the next larger linear index.
func (it *BrickIterator) Next() {
	for dim := 0; dim < len(it.cur); dim++ {
		it.cur[dim]++
		if it.cur[dim] <= it.max[dim] {
			return
		}
		it.cur[dim] = it.min[dim]
	}
	it.done = true
}

// BrickIndex returns the current brick grid position.  The returned slice
// is reused by Next; callers retaining it must Duplicate.
func (it *BrickIterator) BrickIndex() BrickIndex {
	return it.cur
}

// LinearIndex returns the linear index of the current brick.
func (it *BrickIterator) LinearIndex() uint64 {
	return it.layout.LinearIndex(it.cur)
}

// NumBricks returns the total count of bricks the iterator will visit.
func (it *BrickIterator) NumBricks() uint64 {
	n := uint64(1)
	for i := range it.min {
		n *= uint64(it.max[i] - it.min[i] + 1)
	}
	return n
}
