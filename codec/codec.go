/*
	Package codec maps a brick's compression identifier to an encode/decode
	routine and validates decoded payloads against the brick descriptor's
	recorded uncompressed length and CRC32 checksum.

	Length and checksum failures are distinct errors: a length mismatch
	means the wrong codec or parameters were used, a checksum mismatch
	means the payload decoded but the bytes are corrupt.
*/

package codec

import (
	"encoding/json"
	"fmt"
	"hash/crc32"

	"github.com/seismic-io/govds/vds"
)

// Compression is the identifier of a brick compression method as recorded
// in brick descriptors.
type Compression uint8

const (
	None Compression = iota
	Deflate
	RLE
	Zstd
	Wavelet // proprietary; decode is intentionally unsupported
	Snappy
)

var compressionNames = map[Compression]string{
	None:    "None",
	Deflate: "Deflate",
	RLE:     "RLE",
	Zstd:    "Zstd",
	Wavelet: "Wavelet",
	Snappy:  "Snappy",
}

func (c Compression) String() string {
	if name, found := compressionNames[c]; found {
		return name
	}
	return fmt.Sprintf("unknown compression (%d)", uint8(c))
}

// CompressionByName returns the Compression for a name like "Zstd".
func CompressionByName(name string) (Compression, error) {
	for c, n := range compressionNames {
		if n == name {
			return c, nil
		}
	}
	return 0, &vds.FormatError{Field: "compression", Reason: fmt.Sprintf("unknown compression %q", name)}
}

// MarshalJSON implements the json.Marshaler interface.
func (c Compression) MarshalJSON() ([]byte, error) {
	name, found := compressionNames[c]
	if !found {
		return nil, &vds.FormatError{Field: "compression", Reason: c.String()}
	}
	return []byte(fmt.Sprintf("%q", name)), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (c *Compression) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	method, err := CompressionByName(name)
	if err != nil {
		return err
	}
	*c = method
	return nil
}

// Compression level bounds for codecs that support one.
const (
	LevelNone    = 0
	LevelFast    = 1
	LevelDefault = 6
	LevelBest    = 9
)

// Codec is the capability implemented by each compression method.
// Implementations are stateless and safe for concurrent use.
type Codec interface {
	// Compress returns an encoded copy of data.  Level is advisory and
	// clamped to [0, 9]; codecs without levels ignore it.
	Compress(data []byte, level int) ([]byte, error)

	// Decompress returns the decoded payload.  expectedLen is a sizing
	// hint; the authoritative length check happens in DecodeBrick.
	Decompress(data []byte, expectedLen int64) ([]byte, error)

	// Method returns the compression identifier.
	Method() Compression
}

var codecs = map[Compression]Codec{
	None:    noneCodec{},
	Deflate: deflateCodec{},
	RLE:     rleCodec{},
	Zstd:    zstdCodec{},
	Wavelet: waveletCodec{},
	Snappy:  snappyCodec{},
}

// Get returns the codec for a compression identifier.  Unknown identifiers
// return a CodecError wrapping vds.ErrUnsupportedCodec.  Note that Wavelet
// is known but its codec fails every operation.
func Get(method Compression) (Codec, error) {
	c, found := codecs[method]
	if !found {
		return nil, &vds.CodecError{
			Brick:  vds.NoBrick,
			Codec:  method.String(),
			Reason: fmt.Errorf("%w: id %d", vds.ErrUnsupportedCodec, uint8(method)),
		}
	}
	return c, nil
}

// Checksum returns the CRC32 (IEEE) checksum recorded for brick payloads.
// Computed over decoded bytes, so bit rot is caught even if the compressed
// framing still parses.
func Checksum(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// DecodeBrick decompresses a stored brick payload and validates it against
// the descriptor's recorded uncompressed length and checksum.  Every
// failure is a vds.CodecError naming the brick; the wrapped reason
// distinguishes unsupported codecs, length mismatches, and checksum
// mismatches.
func DecodeBrick(method Compression, brick uint64, data []byte, uncompressedLen int64, checksum uint32) ([]byte, error) {
	c, err := Get(method)
	if err != nil {
		return nil, err
	}
	decoded, err := c.Decompress(data, uncompressedLen)
	if err != nil {
		return nil, &vds.CodecError{Brick: brick, Codec: method.String(), Reason: err}
	}
	if int64(len(decoded)) != uncompressedLen {
		return nil, &vds.CodecError{
			Brick: brick,
			Codec: method.String(),
			Reason: fmt.Errorf("%w: expected %d bytes, decoded %d",
				vds.ErrLengthMismatch, uncompressedLen, len(decoded)),
		}
	}
	if got := Checksum(decoded); got != checksum {
		return nil, &vds.CodecError{
			Brick: brick,
			Codec: method.String(),
			Reason: fmt.Errorf("%w: stored %08x computed %08x",
				vds.ErrChecksumMismatch, checksum, got),
		}
	}
	return decoded, nil
}

// EncodeBrick compresses a brick payload and returns the encoded bytes
// along with the checksum over the uncompressed input, as recorded in a
// brick descriptor.
func EncodeBrick(method Compression, data []byte, level int) (encoded []byte, checksum uint32, err error) {
	c, err := Get(method)
	if err != nil {
		return nil, 0, err
	}
	encoded, err = c.Compress(data, level)
	if err != nil {
		return nil, 0, &vds.CodecError{Brick: vds.NoBrick, Codec: method.String(), Reason: err}
	}
	return encoded, Checksum(data), nil
}
