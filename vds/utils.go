package vds

import "fmt"

// BrickPath returns the storage path of a brick object given its linear
// index and LOD level, e.g. "bricks/lod0/00000042.brick".
func BrickPath(linear uint64, lodLevel int) string {
	return fmt.Sprintf("bricks/lod%d/%08d.brick", lodLevel, linear)
}

// MetadataPath is the storage path of the volume metadata document.
const MetadataPath = "metadata.json"
