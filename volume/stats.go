package volume

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/seismic-io/govds/codec"
	"github.com/seismic-io/govds/vds"
)

// Stats summarizes a volume.  Pure computation over already-parsed
// metadata; no I/O.
type Stats struct {
	Rank              int
	DataType          vds.DataType
	TotalVoxels       int64
	TotalBricks       uint64
	StoredBricks      int
	CompressedBytes   int64
	UncompressedBytes int64
	DominantCodec     codec.Compression
	ValueRange        vds.ValueRange
}

// Stats aggregates voxel, brick, and byte totals plus the dominant codec
// across the volume's brick descriptors.
func (v *Volume) Stats() Stats {
	layout := v.meta.Layout
	s := Stats{
		Rank:              layout.Rank(),
		DataType:          layout.DataType,
		TotalVoxels:       layout.NumVoxels(),
		TotalBricks:       layout.TotalBricks(),
		StoredBricks:      v.meta.NumBricks(),
		UncompressedBytes: layout.TotalBytes(),
		DominantCodec:     v.meta.Compression,
		ValueRange:        v.meta.ValueRange,
	}
	counts := make(map[codec.Compression]int)
	for _, desc := range v.meta.Bricks {
		s.CompressedBytes += desc.CompressedSize
		counts[desc.Codec]++
	}
	best := 0
	for method, n := range counts {
		if n > best {
			best = n
			s.DominantCodec = method
		}
	}
	return s
}

// Summary returns a human-readable one-line description.
func (s Stats) Summary() string {
	return fmt.Sprintf("%dD volume: %s voxels (%s), %d/%d bricks stored, %s compressed of %s, %s",
		s.Rank, humanize.Comma(s.TotalVoxels), s.DataType,
		s.StoredBricks, s.TotalBricks,
		humanize.IBytes(uint64(s.CompressedBytes)),
		humanize.IBytes(uint64(s.UncompressedBytes)),
		s.DominantCodec)
}
