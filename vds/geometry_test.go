package vds

import (
	"math"
	"testing"
)

func TestDataTypeBytes(t *testing.T) {
	cases := []struct {
		dt    DataType
		bytes int64
	}{
		{T_u8, 1}, {T_u16, 2}, {T_u32, 4}, {T_u64, 8},
		{T_i8, 1}, {T_f32, 4}, {T_f64, 8}, {T_u1, 1},
	}
	for _, c := range cases {
		if got := c.dt.BytesPerValue(); got != c.bytes {
			t.Errorf("%s: expected %d bytes, got %d", c.dt, c.bytes, got)
		}
	}
}

func TestDataTypeJSON(t *testing.T) {
	b, err := T_f32.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"F32"` {
		t.Errorf("expected \"F32\", got %s", b)
	}
	var dt DataType
	if err := dt.UnmarshalJSON([]byte(`"I16"`)); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if dt != T_i16 {
		t.Errorf("expected I16, got %s", dt)
	}
	if err := dt.UnmarshalJSON([]byte(`"F128"`)); err == nil {
		t.Errorf("expected error for unknown data type name")
	}
}

func TestAxisDescriptor(t *testing.T) {
	axis := AxisDescriptor{NumSamples: 101, Name: "Depth", Unit: "m", CoordMin: 0, CoordMax: 1000}
	if axis.StepSize() != 10.0 {
		t.Errorf("expected step 10, got %g", axis.StepSize())
	}
	if axis.IndexToCoord(100) != 1000.0 {
		t.Errorf("expected coord 1000, got %g", axis.IndexToCoord(100))
	}
	if axis.CoordToIndex(500.0) != 50 {
		t.Errorf("expected index 50, got %d", axis.CoordToIndex(500.0))
	}
	if axis.CoordToIndex(-100.0) != 0 {
		t.Errorf("coord below range should clamp to 0")
	}
	if axis.CoordToIndex(99999.0) != 100 {
		t.Errorf("coord above range should clamp to last sample")
	}
}

func TestValueRange(t *testing.T) {
	if !(ValueRange{Min: -1, Max: 1}).IsValid() {
		t.Errorf("ordered finite range should be valid")
	}
	if (ValueRange{Min: 1, Max: -1}).IsValid() {
		t.Errorf("inverted range should be invalid")
	}
	if (ValueRange{Min: math.NaN(), Max: 1}).IsValid() {
		t.Errorf("NaN range should be invalid")
	}
}

func TestBoundingBox(t *testing.T) {
	box := BoundingBox{Min: Point{0, 0, 100}, Max: Point{1000, 800, 101}}
	if box.NumVoxels() != 1000*800*1 {
		t.Errorf("expected %d voxels, got %d", 1000*800, box.NumVoxels())
	}
	size := box.Size()
	if size[0] != 1000 || size[1] != 800 || size[2] != 1 {
		t.Errorf("bad size: %s", size)
	}
}
