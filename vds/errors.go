/*
	This file defines the error taxonomy shared by all govds packages.
	Every error identifies the layer that raised it plus the offending
	axis, coordinate, or brick so callers can tell a corrupt file from a
	bad request from a backend outage.
*/

package vds

import (
	"errors"
	"fmt"
)

// Sentinel reasons for codec failures.  CodecError wraps exactly one of
// these so callers can distinguish "can't decode" from "decoded but corrupt"
// with errors.Is.
var (
	ErrUnsupportedCodec = errors.New("unsupported codec")
	ErrLengthMismatch   = errors.New("decoded length mismatch")
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// ConfigError signals an invalid layout, brick shape, rank, or locator at
// construction time.  It is fatal and never retried.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Reason
}

// Configf returns a ConfigError with a formatted reason.
func Configf(format string, args ...interface{}) error {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// BoundsError signals a coordinate or bounding box outside the valid voxel
// range.  Axis identifies the offending dimension.
type BoundsError struct {
	Axis  int
	Value int64
	Limit int64
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("bounds error: axis %d value %d outside [0, %d]", e.Axis, e.Value, e.Limit)
}

// FormatError signals a malformed or version-incompatible metadata block.
// Field names the offending metadata field.
type FormatError struct {
	Field  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format error in %q: %s", e.Field, e.Reason)
}

// CodecError signals a failure to decode a brick payload or a corruption
// detected after decode.  Reason is one of the sentinel errors above or a
// codec-internal error.  Brick is the linear brick index when known, else
// NoBrick.
type CodecError struct {
	Brick  uint64
	Codec  string
	Reason error
}

// NoBrick marks a CodecError raised outside the context of a specific brick.
const NoBrick = ^uint64(0)

func (e *CodecError) Error() string {
	if e.Brick == NoBrick {
		return fmt.Sprintf("codec error (%s): %v", e.Codec, e.Reason)
	}
	return fmt.Sprintf("codec error (%s) on brick %d: %v", e.Codec, e.Brick, e.Reason)
}

func (e *CodecError) Unwrap() error {
	return e.Reason
}

// StorageError wraps a backend I/O failure uniformly regardless of backend.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// CancelError signals that an in-flight read was abandoned by its caller.
type CancelError struct {
	Err error
}

func (e *CancelError) Error() string {
	return fmt.Sprintf("read cancelled: %v", e.Err)
}

func (e *CancelError) Unwrap() error {
	return e.Err
}
