/*
	Package metadata parses and validates the volume metadata document:
	format version, layout, per-brick descriptors, and the informational
	survey blocks.  A Metadata is constructed once when a volume opens and
	is read-only afterward, so it may be shared across concurrent reads
	without locking.

	The document is the JSON object the reference format stores at
	"metadata.json" in the volume root.
*/

package metadata

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/blang/semver"

	"github.com/seismic-io/govds/codec"
	"github.com/seismic-io/govds/vds"
)

// Version is the metadata format version tag.  Two versions are compatible
// iff their majors match.
type Version struct {
	semver.Version
}

// CurrentVersion is the format version written by this library.
var CurrentVersion = Version{semver.MustParse("3.0.0")}

// Compatible reports whether a document with this version can be read by
// a reader expecting other.
func (v Version) Compatible(other Version) bool {
	return v.Major == other.Major
}

// MarshalJSON implements the json.Marshaler interface.
func (v Version) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", v.Version.String())), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (v *Version) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := semver.Parse(s)
	if err != nil {
		return &vds.FormatError{Field: "version", Reason: err.Error()}
	}
	v.Version = parsed
	return nil
}

// BrickDescriptor records where one brick lives in the store and how to
// decode and verify it.  Descriptors are created when metadata is parsed
// and immutable thereafter.
type BrickDescriptor struct {
	// Index is the linear brick index.
	Index uint64 `json:"index"`

	// Offset is the byte offset within the stored object, for packed
	// layouts.  The per-file layout written by this library uses 0.
	Offset int64 `json:"offset"`

	// CompressedSize is the stored byte length.
	CompressedSize int64 `json:"compressed_size"`

	// UncompressedSize is the decoded byte length, always the full padded
	// brick for this format.
	UncompressedSize int64 `json:"uncompressed_size"`

	// Codec identifies the compression method for this brick.
	Codec codec.Compression `json:"codec"`

	// Checksum is CRC32 (IEEE) over the decoded bytes.
	Checksum uint32 `json:"checksum"`

	// ValueRange optionally holds the brick's observed min/max values.
	ValueRange *vds.ValueRange `json:"value_range,omitempty"`
}

// CompressionRatio returns uncompressed size over compressed size.
func (b BrickDescriptor) CompressionRatio() float64 {
	if b.CompressedSize == 0 {
		return 0
	}
	return float64(b.UncompressedSize) / float64(b.CompressedSize)
}

// SurveyMetadata carries acquisition information for seismic volumes.
// Parsed and exposed read-only, never interpreted by the read path.
type SurveyMetadata struct {
	SurveyName       string         `json:"survey_name"`
	SurveyType       string         `json:"survey_type"`
	AcquisitionDate  *time.Time     `json:"acquisition_date,omitempty"`
	ProcessingDate   *time.Time     `json:"processing_date,omitempty"`
	Company          string         `json:"company,omitempty"`
	CoordinateSystem string         `json:"coordinate_system,omitempty"`
	Segy             *SegyMetadata  `json:"segy_metadata,omitempty"`
}

// SegyMetadata preserves SEG-Y header information from the source dataset.
type SegyMetadata struct {
	Revision            uint16            `json:"revision"`
	TextHeader          []string          `json:"text_header,omitempty"`
	BinaryHeader        map[string]int32  `json:"binary_header,omitempty"`
	TraceHeaderMappings map[string]string `json:"trace_header_mappings,omitempty"`
}

// Metadata is the parsed volume description.
type Metadata struct {
	Version              Version           `json:"version"`
	Layout               *vds.Layout       `json:"layout"`
	Compression          codec.Compression `json:"compression"`
	CompressionTolerance float32           `json:"compression_tolerance"`
	ValueRange           vds.ValueRange    `json:"value_range"`
	CreatedAt            time.Time         `json:"created_at"`
	ModifiedAt           time.Time         `json:"modified_at"`
	Custom               map[string]string `json:"custom_metadata,omitempty"`
	Survey               *SurveyMetadata   `json:"survey_metadata,omitempty"`
	Bricks               []BrickDescriptor `json:"bricks"`

	// brickTable gives O(1) descriptor lookup by linear index, holding
	// positions in Bricks.
	brickTable map[uint64]int
}

// New returns metadata for a fresh volume with the current format version
// and the reference default compression.
func New(layout *vds.Layout) *Metadata {
	now := time.Now().UTC()
	m := &Metadata{
		Version:     CurrentVersion,
		Layout:      layout,
		Compression: codec.Zstd,
		CreatedAt:   now,
		ModifiedAt:  now,
		brickTable:  make(map[uint64]int),
	}
	return m
}

// Parse decodes and validates a metadata document.  Malformed documents
// fail with a FormatError naming the offending field; required fields are
// never defaulted.
func Parse(data []byte) (*Metadata, error) {
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		if ferr, ok := err.(*vds.FormatError); ok {
			return nil, ferr
		}
		return nil, &vds.FormatError{Field: "metadata", Reason: err.Error()}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the document invariants and builds the descriptor table.
func (m *Metadata) Validate() error {
	if m.Version.Major == 0 && m.Version.Minor == 0 && m.Version.Patch == 0 {
		return &vds.FormatError{Field: "version", Reason: "missing required field"}
	}
	if !m.Version.Compatible(CurrentVersion) {
		return &vds.FormatError{
			Field:  "version",
			Reason: fmt.Sprintf("version %s incompatible with reader version %s", m.Version.Version, CurrentVersion.Version),
		}
	}
	if m.Layout == nil {
		return &vds.FormatError{Field: "layout", Reason: "missing required field"}
	}
	if err := m.Layout.Validate(); err != nil {
		return &vds.FormatError{Field: "layout", Reason: err.Error()}
	}
	if _, err := codec.Get(m.Compression); err != nil {
		return &vds.FormatError{Field: "compression", Reason: err.Error()}
	}

	totalBricks := m.Layout.TotalBricks()
	brickBytes := m.Layout.BrickBytes()
	m.brickTable = make(map[uint64]int, len(m.Bricks))
	for i := range m.Bricks {
		desc := &m.Bricks[i]
		field := fmt.Sprintf("bricks[%d]", i)
		if desc.Index >= totalBricks {
			return &vds.FormatError{
				Field:  field,
				Reason: fmt.Sprintf("brick index %d outside grid of %d bricks", desc.Index, totalBricks),
			}
		}
		if _, dup := m.brickTable[desc.Index]; dup {
			return &vds.FormatError{
				Field:  field,
				Reason: fmt.Sprintf("duplicate descriptor for brick %d", desc.Index),
			}
		}
		if _, err := codec.Get(desc.Codec); err != nil {
			return &vds.FormatError{Field: field, Reason: err.Error()}
		}
		if desc.UncompressedSize != brickBytes {
			return &vds.FormatError{
				Field: field,
				Reason: fmt.Sprintf("uncompressed size %d does not match brick size %d",
					desc.UncompressedSize, brickBytes),
			}
		}
		if desc.CompressedSize <= 0 {
			return &vds.FormatError{
				Field:  field,
				Reason: fmt.Sprintf("compressed size %d", desc.CompressedSize),
			}
		}
		m.brickTable[desc.Index] = i
	}
	return nil
}

// Descriptor returns the brick descriptor for a linear index, or false if
// the metadata holds none for it.
func (m *Metadata) Descriptor(linear uint64) (*BrickDescriptor, bool) {
	i, found := m.brickTable[linear]
	if !found {
		return nil, false
	}
	return &m.Bricks[i], true
}

// NumBricks returns the count of bricks the metadata describes.
func (m *Metadata) NumBricks() int {
	return len(m.Bricks)
}

// AddBrick records a descriptor for a brick, used by the create path
// before the metadata is persisted.  Not safe once a volume is open.
func (m *Metadata) AddBrick(desc BrickDescriptor) error {
	if desc.Index >= m.Layout.TotalBricks() {
		return &vds.BoundsError{Axis: -1, Value: int64(desc.Index), Limit: int64(m.Layout.TotalBricks()) - 1}
	}
	if _, dup := m.brickTable[desc.Index]; dup {
		return vds.Configf("descriptor for brick %d already recorded", desc.Index)
	}
	m.Bricks = append(m.Bricks, desc)
	m.brickTable[desc.Index] = len(m.Bricks) - 1
	return nil
}

// Marshal encodes the document for persistence.
func (m *Metadata) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, &vds.FormatError{Field: "metadata", Reason: err.Error()}
	}
	return data, nil
}
