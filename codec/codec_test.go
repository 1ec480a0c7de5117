package codec

import (
	"bytes"
	"errors"
	"testing"

	"github.com/seismic-io/govds/vds"
)

func repeatPattern(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i * 31 % 253)
	}
	return data
}

func TestRoundTrips(t *testing.T) {
	payloads := [][]byte{
		{},
		{42},
		bytes.Repeat([]byte{7}, 1000),
		repeatPattern(64 * 64 * 4),
	}
	for _, method := range []Compression{None, Deflate, RLE, Zstd, Snappy} {
		c, err := Get(method)
		if err != nil {
			t.Fatalf("%s: %v", method, err)
		}
		for _, data := range payloads {
			encoded, err := c.Compress(data, LevelDefault)
			if err != nil {
				t.Fatalf("%s: compress: %v", method, err)
			}
			decoded, err := c.Decompress(encoded, int64(len(data)))
			if err != nil {
				t.Fatalf("%s: decompress: %v", method, err)
			}
			if !bytes.Equal(decoded, data) {
				t.Errorf("%s: round trip of %d bytes corrupted data", method, len(data))
			}
		}
	}
}

func TestNoneIsIdentity(t *testing.T) {
	c, _ := Get(None)
	data := []byte("unchanged")
	encoded, _ := c.Compress(data, LevelDefault)
	if !bytes.Equal(encoded, data) {
		t.Errorf("None codec must be an identity copy")
	}
}

func TestRLEFixture(t *testing.T) {
	c, _ := Get(RLE)

	// [5,5,5,5,7,7] encodes as (count, value) pairs: [4,5,2,7].
	encoded, err := c.Compress([]byte{5, 5, 5, 5, 7, 7}, LevelDefault)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	if !bytes.Equal(encoded, []byte{4, 5, 2, 7}) {
		t.Errorf("expected [4 5 2 7], got %v", encoded)
	}

	decoded, err := c.Decompress([]byte{4, 5, 2, 7}, 6)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(decoded, []byte{5, 5, 5, 5, 7, 7}) {
		t.Errorf("expected [5 5 5 5 7 7], got %v", decoded)
	}

	// Runs longer than 255 split into multiple pairs.
	long := bytes.Repeat([]byte{9}, 300)
	encoded, _ = c.Compress(long, LevelDefault)
	if !bytes.Equal(encoded, []byte{255, 9, 45, 9}) {
		t.Errorf("expected run split at 255, got %v", encoded)
	}

	if _, err := c.Decompress([]byte{4, 5, 2}, 6); err == nil {
		t.Errorf("odd-length RLE input must fail")
	}
}

func TestWaveletUnsupported(t *testing.T) {
	c, err := Get(Wavelet)
	if err != nil {
		t.Fatalf("Wavelet should be a recognized identifier: %v", err)
	}
	if _, err := c.Decompress([]byte{1, 2, 3}, 3); !errors.Is(err, vds.ErrUnsupportedCodec) {
		t.Errorf("expected ErrUnsupportedCodec, got %v", err)
	}
	if _, err := c.Compress([]byte{1, 2, 3}, LevelDefault); !errors.Is(err, vds.ErrUnsupportedCodec) {
		t.Errorf("expected ErrUnsupportedCodec, got %v", err)
	}
}

func TestGetUnknown(t *testing.T) {
	_, err := Get(Compression(99))
	var codecErr *vds.CodecError
	if !errors.As(err, &codecErr) || !errors.Is(err, vds.ErrUnsupportedCodec) {
		t.Errorf("expected CodecError wrapping ErrUnsupportedCodec, got %v", err)
	}
}

func TestDecodeBrick(t *testing.T) {
	data := repeatPattern(4096)
	encoded, checksum, err := EncodeBrick(Zstd, data, LevelDefault)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := DecodeBrick(Zstd, 17, encoded, int64(len(data)), checksum)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Errorf("decoded payload differs from original")
	}

	// Wrong recorded length is a length mismatch, not a checksum error.
	_, err = DecodeBrick(Zstd, 17, encoded, int64(len(data))-1, checksum)
	if !errors.Is(err, vds.ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}

	// Wrong checksum is distinct from a length mismatch.
	_, err = DecodeBrick(Zstd, 17, encoded, int64(len(data)), checksum+1)
	if !errors.Is(err, vds.ErrChecksumMismatch) {
		t.Errorf("expected ErrChecksumMismatch, got %v", err)
	}

	// The error names the offending brick.
	var codecErr *vds.CodecError
	if !errors.As(err, &codecErr) {
		t.Fatalf("expected CodecError, got %v", err)
	}
	if codecErr.Brick != 17 {
		t.Errorf("expected brick 17 in error, got %d", codecErr.Brick)
	}
}

func TestCompressionJSON(t *testing.T) {
	b, err := Zstd.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"Zstd"` {
		t.Errorf("expected \"Zstd\", got %s", b)
	}
	var c Compression
	if err := c.UnmarshalJSON([]byte(`"RLE"`)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c != RLE {
		t.Errorf("expected RLE, got %s", c)
	}
	if err := c.UnmarshalJSON([]byte(`"LZW"`)); err == nil {
		t.Errorf("expected error for unknown compression name")
	}
}
