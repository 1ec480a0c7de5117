/*
	This file handles the brick layout of a volume: how the N-dimensional
	voxel grid is tiled into fixed-shape bricks, and the arithmetic that
	maps voxel coordinates to brick positions and back.
*/

package vds

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// BrickShape is the per-axis extent of a brick.  Each extent must be a
// power of two so brick addressing reduces to shifts and masks in the
// reference format.
type BrickShape []int64

// DefaultBrickExtent is the common per-axis brick extent for 3D volumes.
const DefaultBrickExtent = 64

// UniformBrickShape returns a brick shape with the same extent on every axis.
func UniformBrickShape(rank int, extent int64) BrickShape {
	shape := make(BrickShape, rank)
	for i := range shape {
		shape[i] = extent
	}
	return shape
}

// NumVoxels returns the total voxel count of a brick.
func (s BrickShape) NumVoxels() int64 {
	n := int64(1)
	for _, extent := range s {
		n *= extent
	}
	return n
}

func (s BrickShape) String() string {
	parts := make([]string, len(s))
	for i, extent := range s {
		parts[i] = fmt.Sprintf("%d", extent)
	}
	return strings.Join(parts, "x")
}

func isPowerOfTwo(v int64) bool {
	return v > 0 && v&(v-1) == 0
}

// Layout describes how a volume is organized: its axes, scalar type, and
// the brick shape used to tile the voxel grid.  A Layout is immutable
// after construction and safe for concurrent use.
type Layout struct {
	Axes       []AxisDescriptor `json:"axes"`
	DataType   DataType         `json:"data_type"`
	BrickShape BrickShape       `json:"brick_size"`
	LODLevels  int              `json:"lod_levels"`

	// gridExtents caches ceil(size/brick) per axis.
	gridExtents []int64
}

// NewLayout validates and constructs a Layout.  Construction fails with a
// ConfigError on rank mismatch or a brick extent that is not a power of
// two; invalid shapes are never silently corrected.
func NewLayout(axes []AxisDescriptor, dataType DataType, brickShape BrickShape) (*Layout, error) {
	if len(axes) == 0 || len(axes) > MaxRank {
		return nil, Configf("rank must be between 1 and %d, got %d", MaxRank, len(axes))
	}
	if len(brickShape) != len(axes) {
		return nil, Configf("brick shape rank %d does not match %d axes", len(brickShape), len(axes))
	}
	if _, found := typeBytes[dataType]; !found {
		return nil, Configf("unknown data type (%d)", uint8(dataType))
	}
	for i, axis := range axes {
		if axis.NumSamples < 1 {
			return nil, Configf("axis %d (%s) has %d samples", i, axis.Name, axis.NumSamples)
		}
		if !isPowerOfTwo(brickShape[i]) {
			return nil, Configf("brick extent %d on axis %d is not a power of two", brickShape[i], i)
		}
	}
	layout := &Layout{
		Axes:       axes,
		DataType:   dataType,
		BrickShape: brickShape,
		LODLevels:  1,
	}
	layout.initGrid()
	return layout, nil
}

// initGrid computes the cached per-axis brick grid extents.  Called by
// NewLayout and after JSON decoding.
func (l *Layout) initGrid() {
	l.gridExtents = make([]int64, len(l.Axes))
	for i, axis := range l.Axes {
		l.gridExtents[i] = (axis.NumSamples + l.BrickShape[i] - 1) / l.BrickShape[i]
	}
}

// Validate re-checks the layout invariants, e.g. after JSON decoding.
func (l *Layout) Validate() error {
	checked, err := NewLayout(l.Axes, l.DataType, l.BrickShape)
	if err != nil {
		return err
	}
	l.gridExtents = checked.gridExtents
	return nil
}

// Rank returns the dimensionality of the volume (1 to 6).
func (l *Layout) Rank() int {
	return len(l.Axes)
}

// Size returns the number of voxels along each axis.
func (l *Layout) Size() Point {
	size := make(Point, len(l.Axes))
	for i, axis := range l.Axes {
		size[i] = axis.NumSamples
	}
	return size
}

// GridExtent returns the number of bricks along the given axis.
func (l *Layout) GridExtent(axis int) int64 {
	return l.gridExtents[axis]
}

// GridExtents returns the number of bricks along every axis.
func (l *Layout) GridExtents() []int64 {
	return l.gridExtents
}

// TotalBricks returns the number of bricks tiling the whole volume.
func (l *Layout) TotalBricks() uint64 {
	n := uint64(1)
	for _, extent := range l.gridExtents {
		n *= uint64(extent)
	}
	return n
}

// NumVoxels returns the voxel count of the whole volume.
func (l *Layout) NumVoxels() int64 {
	n := int64(1)
	for _, axis := range l.Axes {
		n *= axis.NumSamples
	}
	return n
}

// BrickVoxels returns the voxel count of a nominal brick, padding included.
func (l *Layout) BrickVoxels() int64 {
	return l.BrickShape.NumVoxels()
}

// BrickBytes returns the uncompressed byte length of a nominal brick.
// Tail bricks are padded to this length in the physical layout.
func (l *Layout) BrickBytes() int64 {
	return l.BrickVoxels() * l.DataType.BytesPerValue()
}

// TotalBytes returns the uncompressed byte length of the whole volume.
func (l *Layout) TotalBytes() int64 {
	return l.NumVoxels() * l.DataType.BytesPerValue()
}

// BrickIndexAt returns the brick grid position containing the given voxel.
func (l *Layout) BrickIndexAt(voxel Point) BrickIndex {
	idx := make(BrickIndex, len(voxel))
	for i, v := range voxel {
		idx[i] = v / l.BrickShape[i]
	}
	return idx
}

// BrickOrigin returns the minimum voxel corner of a brick.
func (l *Layout) BrickOrigin(idx BrickIndex) Point {
	origin := make(Point, len(idx))
	for i, b := range idx {
		origin[i] = b * l.BrickShape[i]
	}
	return origin
}

// BrickValidExtent returns the per-axis count of valid voxels in a brick.
// For a partial tail brick this is smaller than the nominal brick shape;
// voxels beyond it are padding and excluded from any read.
func (l *Layout) BrickValidExtent(idx BrickIndex) Point {
	extent := make(Point, len(idx))
	for i, b := range idx {
		origin := b * l.BrickShape[i]
		extent[i] = l.BrickShape[i]
		if remain := l.Axes[i].NumSamples - origin; remain < extent[i] {
			extent[i] = remain
		}
	}
	return extent
}

// LocalOffset returns the voxel's position within its brick, i.e. the
// per-axis coordinate minus the brick origin.
func (l *Layout) LocalOffset(voxel Point, idx BrickIndex) Point {
	local := make(Point, len(voxel))
	for i := range voxel {
		local[i] = voxel[i] - idx[i]*l.BrickShape[i]
	}
	return local
}

// CheckPoint validates a voxel coordinate against the layout, identifying
// the offending axis on failure.
func (l *Layout) CheckPoint(voxel Point) error {
	if len(voxel) != len(l.Axes) {
		return Configf("coordinate rank %d does not match volume rank %d", len(voxel), len(l.Axes))
	}
	for i, v := range voxel {
		if v < 0 || v >= l.Axes[i].NumSamples {
			return &BoundsError{Axis: i, Value: v, Limit: l.Axes[i].NumSamples - 1}
		}
	}
	return nil
}

// CheckBounds validates a min-inclusive, max-exclusive bounding box.
// Empty and out-of-range boxes are rejected.
func (l *Layout) CheckBounds(box BoundingBox) error {
	if len(box.Min) != len(l.Axes) || len(box.Max) != len(l.Axes) {
		return Configf("box rank (%d,%d) does not match volume rank %d",
			len(box.Min), len(box.Max), len(l.Axes))
	}
	for i := range box.Min {
		if box.Min[i] < 0 {
			return &BoundsError{Axis: i, Value: box.Min[i], Limit: l.Axes[i].NumSamples}
		}
		if box.Max[i] > l.Axes[i].NumSamples {
			return &BoundsError{Axis: i, Value: box.Max[i], Limit: l.Axes[i].NumSamples}
		}
		if box.Min[i] >= box.Max[i] {
			return Configf("empty box on axis %d: min %d >= max %d", i, box.Min[i], box.Max[i])
		}
	}
	return nil
}

// Summary returns a human-readable one-line description of the layout.
func (l *Layout) Summary() string {
	sizes := make([]string, len(l.Axes))
	for i, axis := range l.Axes {
		sizes[i] = fmt.Sprintf("%d", axis.NumSamples)
	}
	return fmt.Sprintf("%dD volume: %s (%s), %d bricks of %s, %s uncompressed",
		l.Rank(), strings.Join(sizes, " x "), l.DataType, l.TotalBricks(),
		l.BrickShape, humanize.IBytes(uint64(l.TotalBytes())))
}
