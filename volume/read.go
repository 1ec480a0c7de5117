/*
	The read path: single-brick fetch/decode/verify and the bounding-box
	read that fans brick fetches out concurrently and stitches decoded
	bricks into the output buffer.
*/

package volume

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/seismic-io/govds/codec"
	"github.com/seismic-io/govds/vds"
)

// ReadBrick fetches, decodes, and verifies a single brick by linear index,
// returning the full padded brick payload.  It is the primitive ReadSlice
// composes, exposed so callers can batch thousands of single-brick reads
// under their own concurrency strategy.
func (v *Volume) ReadBrick(ctx context.Context, linear uint64) ([]byte, error) {
	if err := v.meta.Layout.CheckLinearIndex(linear); err != nil {
		return nil, err
	}
	data, err := v.readBrick(ctx, linear)
	return data, wrapCancel(ctx, err)
}

func (v *Volume) readBrick(ctx context.Context, linear uint64) ([]byte, error) {
	desc, found := v.meta.Descriptor(linear)
	if !found {
		return nil, &vds.FormatError{
			Field:  "bricks",
			Reason: fmt.Sprintf("brick %d declared by geometry but absent from metadata", linear),
		}
	}
	path := vds.BrickPath(linear, 0)
	data, err := v.store.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	end := desc.Offset + desc.CompressedSize
	if int64(len(data)) < end {
		return nil, &vds.StorageError{
			Op:   "read",
			Path: path,
			Err:  fmt.Errorf("object holds %d bytes but brick %d spans [%d,%d)", len(data), linear, desc.Offset, end),
		}
	}
	return codec.DecodeBrick(desc.Codec, linear, data[desc.Offset:end], desc.UncompressedSize, desc.Checksum)
}

// ReadSlice reads an axis-aligned sub-region, min-inclusive and
// max-exclusive per axis, and returns it as a contiguous buffer laid out
// in the volume's axis order with axis 0 varying fastest.
//
// Every intersecting brick is fetched concurrently, bounded by the
// configured concurrency limit if one is set.  Any single brick's
// read/decode failure aborts the whole call with that brick's error; a
// cancelled context aborts it with a CancelError.  No partial results.
func (v *Volume) ReadSlice(ctx context.Context, min, max vds.Point) ([]byte, error) {
	layout := v.meta.Layout
	box := vds.BoundingBox{Min: min.Duplicate(), Max: max.Duplicate()}
	it, err := layout.NewBrickIterator(box)
	if err != nil {
		return nil, err
	}

	type fetch struct {
		linear uint64
		idx    vds.BrickIndex
	}
	fetches := make([]fetch, 0, it.NumBricks())
	for ; it.Valid(); it.Next() {
		fetches = append(fetches, fetch{it.LinearIndex(), it.BrickIndex().Duplicate()})
	}

	out := make([]byte, box.NumVoxels()*layout.DataType.BytesPerValue())

	tlog := vds.NewTimeLog()
	g, gctx := errgroup.WithContext(ctx)
	var sem *semaphore.Weighted
	if v.cfg.ConcurrencyLimit > 0 {
		sem = semaphore.NewWeighted(v.cfg.ConcurrencyLimit)
	}
	for _, f := range fetches {
		f := f
		g.Go(func() error {
			if sem != nil {
				if err := sem.Acquire(gctx, 1); err != nil {
					return &vds.CancelError{Err: err}
				}
				defer sem.Release(1)
			}
			brick, err := v.readBrick(gctx, f.linear)
			if err != nil {
				return err
			}
			// Each brick writes a disjoint region of out, so no
			// synchronization is needed between copies.
			v.copyBrick(out, brick, f.idx, box)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, wrapCancel(ctx, err)
	}
	tlog.Debugf("read slice %s (%d bricks)", box, len(fetches))
	return out, nil
}

// copyBrick copies the overlap between a decoded brick and the requested
// box into the output buffer, respecting per-axis strides on both sides.
// Voxels in a tail brick's padding are never read.
func (v *Volume) copyBrick(dst, brick []byte, idx vds.BrickIndex, box vds.BoundingBox) {
	layout := v.meta.Layout
	rank := layout.Rank()
	bpv := layout.DataType.BytesPerValue()

	origin := layout.BrickOrigin(idx)
	valid := layout.BrickValidExtent(idx)

	// Overlap of the brick's valid region with the requested box.
	lo := make(vds.Point, rank)
	hi := make(vds.Point, rank)
	for i := 0; i < rank; i++ {
		lo[i] = max(box.Min[i], origin[i])
		hi[i] = min(box.Max[i], origin[i]+valid[i])
		if hi[i] <= lo[i] {
			// The brick touches the box only through padding.
			return
		}
	}

	// Byte strides, axis 0 fastest on both sides.  The source strides
	// span the full nominal brick shape, padding included.
	size := box.Size()
	dstStride := make([]int64, rank)
	srcStride := make([]int64, rank)
	ds, ss := bpv, bpv
	for i := 0; i < rank; i++ {
		dstStride[i] = ds
		srcStride[i] = ss
		ds *= size[i]
		ss *= layout.BrickShape[i]
	}

	run := (hi[0] - lo[0]) * bpv
	pos := lo.Duplicate()
	for {
		var dstOff, srcOff int64
		for i := 0; i < rank; i++ {
			dstOff += (pos[i] - box.Min[i]) * dstStride[i]
			srcOff += (pos[i] - origin[i]) * srcStride[i]
		}
		copy(dst[dstOff:dstOff+run], brick[srcOff:srcOff+run])

		dim := 1
		for ; dim < rank; dim++ {
			pos[dim]++
			if pos[dim] < hi[dim] {
				break
			}
			pos[dim] = lo[dim]
		}
		if dim == rank {
			return
		}
	}
}

// WriteSlice validates a write request against the layout.  The writer
// pipeline that persists bricks is not part of this library, so requests
// that pass validation fail with a ConfigError.
func (v *Volume) WriteSlice(ctx context.Context, min, max vds.Point, data []byte) error {
	layout := v.meta.Layout
	box := vds.BoundingBox{Min: min, Max: max}
	if err := layout.CheckBounds(box); err != nil {
		return err
	}
	expected := box.NumVoxels() * layout.DataType.BytesPerValue()
	if int64(len(data)) != expected {
		return vds.Configf("data size mismatch: expected %d bytes, got %d", expected, len(data))
	}
	return vds.Configf("write path is not implemented; volumes are read-only")
}
