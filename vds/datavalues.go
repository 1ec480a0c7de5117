/*
	This file handles the scalar value types a volume may store and the
	byte widths used when sizing brick payloads and slice buffers.
*/

package vds

import (
	"encoding/json"
	"fmt"
)

// DataType is a unique ID for each scalar type a voxel may hold.
type DataType uint8

const (
	T_u1 DataType = iota // 1-bit boolean, stored as full bytes
	T_u8
	T_u16
	T_u32
	T_u64
	T_i8
	T_i16
	T_i32
	T_i64
	T_f32
	T_f64
)

var typeBytes = map[DataType]int64{
	T_u1:  1,
	T_u8:  1,
	T_u16: 2,
	T_u32: 4,
	T_u64: 8,
	T_i8:  1,
	T_i16: 2,
	T_i32: 4,
	T_i64: 8,
	T_f32: 4,
	T_f64: 8,
}

var typeNames = map[DataType]string{
	T_u1:  "U1",
	T_u8:  "U8",
	T_u16: "U16",
	T_u32: "U32",
	T_u64: "U64",
	T_i8:  "I8",
	T_i16: "I16",
	T_i32: "I32",
	T_i64: "I64",
	T_f32: "F32",
	T_f64: "F64",
}

// DataTypeByName returns the DataType for a name like "F32".
func DataTypeByName(name string) (DataType, error) {
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, &FormatError{Field: "data_type", Reason: fmt.Sprintf("unknown data type %q", name)}
}

// BytesPerValue returns the # of bytes for this data type.
// For example, U16 is 2 bytes.
func (t DataType) BytesPerValue() int64 {
	return typeBytes[t]
}

// IsFloat returns true for floating point types.
func (t DataType) IsFloat() bool {
	return t == T_f32 || t == T_f64
}

func (t DataType) String() string {
	if name, found := typeNames[t]; found {
		return name
	}
	return fmt.Sprintf("unknown data type (%d)", uint8(t))
}

// MarshalJSON implements the json.Marshaler interface.
func (t DataType) MarshalJSON() ([]byte, error) {
	name, found := typeNames[t]
	if !found {
		return nil, &FormatError{Field: "data_type", Reason: t.String()}
	}
	return []byte(fmt.Sprintf("%q", name)), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *DataType) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	dt, err := DataTypeByName(name)
	if err != nil {
		return err
	}
	*t = dt
	return nil
}
