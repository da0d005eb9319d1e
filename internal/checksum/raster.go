package checksum

import (
	"fmt"

	"github.com/gridhash/gridhash/internal/dataset"
)

// RasterKey is the single mapping key used for raster digests. A raster
// file is one addressable node; there is no per-tag granularity.
const RasterKey = "geotiff"

// RasterMapping hashes a flat raster into a single-entry mapping under
// RasterKey. The full tag set is treated as one attribute set and
// concatenated with the pixel array canonicalization, so any change to any
// tag or to any pixel changes the digest.
func RasterMapping(r *dataset.Raster) (dataset.Mapping, error) {
	attributes := make(map[string]dataset.Value, len(r.Tags))
	for _, tag := range r.Tags {
		attributes[rasterTagName(tag.Code)] = dataset.StringValue(
			fmt.Sprintf("%d:%d:%s", tag.Type, tag.Count, tag.Value),
		)
	}
	metadata, err := MetadataBytes(attributes, nil)
	if err != nil {
		return nil, fmt.Errorf("hashing raster tags: %w", err)
	}
	return dataset.Mapping{
		RasterKey: NodeDigest(metadata, nil, ArrayBytes(r.Pixels)),
	}, nil
}

// rasterTagName keys a tag by its zero-padded decimal code so the canonical
// attribute sort order follows the numeric tag order.
func rasterTagName(code uint16) string {
	return fmt.Sprintf("tag_%05d", code)
}
