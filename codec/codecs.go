/*
	Concrete codec implementations.  Deflate and Zstd ride on
	klauspost/compress, Snappy on golang/snappy.  RLE is the byte-pair
	scheme of the reference format.  Wavelet is the proprietary codec and
	always fails.
*/

package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"

	"github.com/seismic-io/govds/vds"
)

func clampLevel(level int) int {
	if level < LevelNone {
		return LevelNone
	}
	if level > LevelBest {
		return LevelBest
	}
	return level
}

// --- None: identity copy ---

type noneCodec struct{}

func (noneCodec) Compress(data []byte, level int) ([]byte, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (noneCodec) Decompress(data []byte, expectedLen int64) ([]byte, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (noneCodec) Method() Compression { return None }

// --- Deflate ---

type deflateCodec struct{}

func (deflateCodec) Compress(data []byte, level int) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, clampLevel(level))
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (deflateCodec) Decompress(data []byte, expectedLen int64) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	out := bytes.NewBuffer(make([]byte, 0, expectedLen))
	if _, err := io.Copy(out, r); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func (deflateCodec) Method() Compression { return Deflate }

// --- Zstd ---

// A shared decoder handles all decompression; DecodeAll is safe for
// concurrent use.  Encoders are created per call to honor the level.
var zstdDecoder *zstd.Decoder

func init() {
	var err error
	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		panic(fmt.Sprintf("zstd decoder init: %v", err))
	}
}

type zstdCodec struct{}

func (zstdCodec) Compress(data []byte, level int) ([]byte, error) {
	w, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(clampLevel(level))))
	if err != nil {
		return nil, err
	}
	out := w.EncodeAll(data, nil)
	if err := w.Close(); err != nil {
		return nil, err
	}
	return out, nil
}

func (zstdCodec) Decompress(data []byte, expectedLen int64) ([]byte, error) {
	return zstdDecoder.DecodeAll(data, make([]byte, 0, expectedLen))
}

func (zstdCodec) Method() Compression { return Zstd }

// --- Snappy ---

type snappyCodec struct{}

func (snappyCodec) Compress(data []byte, level int) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

func (snappyCodec) Decompress(data []byte, expectedLen int64) ([]byte, error) {
	return snappy.Decode(nil, data)
}

func (snappyCodec) Method() Compression { return Snappy }

// --- RLE ---

// rleCodec implements run-length encoding as (count, value) byte pairs
// with counts in 1..255.  [5,5,5,5,7,7] encodes to [4,5,2,7].
type rleCodec struct{}

func (rleCodec) Compress(data []byte, level int) ([]byte, error) {
	var out []byte
	for i := 0; i < len(data); {
		b := data[i]
		count := 1
		for i+count < len(data) && data[i+count] == b && count < 255 {
			count++
		}
		out = append(out, byte(count), b)
		i += count
	}
	return out, nil
}

func (rleCodec) Decompress(data []byte, expectedLen int64) ([]byte, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("RLE data must have even length, got %d", len(data))
	}
	out := make([]byte, 0, expectedLen)
	for i := 0; i < len(data); i += 2 {
		count := int(data[i])
		value := data[i+1]
		for j := 0; j < count; j++ {
			out = append(out, value)
		}
	}
	return out, nil
}

func (rleCodec) Method() Compression { return RLE }

// --- Wavelet ---

// waveletCodec is a placeholder for the proprietary wavelet codec.  It is
// recognized so metadata referencing it parses, but every operation fails.
type waveletCodec struct{}

func (waveletCodec) Compress(data []byte, level int) ([]byte, error) {
	return nil, fmt.Errorf("%w: wavelet compression is proprietary", vds.ErrUnsupportedCodec)
}

func (waveletCodec) Decompress(data []byte, expectedLen int64) ([]byte, error) {
	return nil, fmt.Errorf("%w: wavelet compression is proprietary", vds.ErrUnsupportedCodec)
}

func (waveletCodec) Method() Compression { return Wavelet }
