/*
	This file handles axis descriptors, value ranges, and voxel-space
	bounding boxes.  All geometry here is pure computation with no I/O.
*/

package vds

import (
	"fmt"
	"strings"
)

// MaxRank is the maximum dimensionality of a volume.
const MaxRank = 6

// Point is an N-dimensional voxel coordinate, one component per axis.
type Point []int64

// Duplicate returns a copy of the point without shared backing.
func (p Point) Duplicate() Point {
	dup := make(Point, len(p))
	copy(dup, p)
	return dup
}

func (p Point) String() string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// AxisDescriptor describes one dimension of a volume: sample count, naming,
// and the mapping between sample indices and annotated coordinates.
type AxisDescriptor struct {
	NumSamples int64   `json:"num_samples"`
	Name       string  `json:"name"`
	Unit       string  `json:"unit"`
	CoordMin   float64 `json:"coord_min"`
	CoordMax   float64 `json:"coord_max"`
}

// StepSize returns the coordinate distance between adjacent samples.
func (a AxisDescriptor) StepSize() float64 {
	if a.NumSamples <= 1 {
		return 0
	}
	return (a.CoordMax - a.CoordMin) / float64(a.NumSamples-1)
}

// IndexToCoord converts a sample index to an annotated coordinate.
func (a AxisDescriptor) IndexToCoord(index int64) float64 {
	return a.CoordMin + float64(index)*a.StepSize()
}

// CoordToIndex converts an annotated coordinate to the nearest sample index,
// clamped to the valid range.
func (a AxisDescriptor) CoordToIndex(coord float64) int64 {
	step := a.StepSize()
	if step == 0 {
		return 0
	}
	i := int64((coord-a.CoordMin)/step + 0.5)
	if i < 0 {
		return 0
	}
	if i >= a.NumSamples {
		return a.NumSamples - 1
	}
	return i
}

// ValueRange holds the observed min/max values of a volume.  Informational.
type ValueRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// IsValid returns true if the range is finite and ordered.
func (r ValueRange) IsValid() bool {
	return r.Min <= r.Max && !isNaNOrInf(r.Min) && !isNaNOrInf(r.Max)
}

func isNaNOrInf(f float64) bool {
	return f != f || f > maxFinite || f < -maxFinite
}

const maxFinite = 1.7976931348623157e308

// BoundingBox is an axis-aligned voxel-space box, min-inclusive and
// max-exclusive along each axis.
type BoundingBox struct {
	Min Point
	Max Point
}

// Rank returns the dimensionality of the box.
func (b BoundingBox) Rank() int {
	return len(b.Min)
}

// Size returns the per-axis extent of the box.
func (b BoundingBox) Size() Point {
	size := make(Point, len(b.Min))
	for i := range b.Min {
		size[i] = b.Max[i] - b.Min[i]
	}
	return size
}

// NumVoxels returns the voxel count of the box.
func (b BoundingBox) NumVoxels() int64 {
	n := int64(1)
	for i := range b.Min {
		n *= b.Max[i] - b.Min[i]
	}
	return n
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("%s..%s", b.Min, b.Max)
}
