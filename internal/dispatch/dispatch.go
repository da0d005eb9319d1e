// Package dispatch resolves a dataset file to its format by name extension
// and routes hash generation and comparison to the matching reader. The
// format set is closed; there is no content sniffing.
package dispatch

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gridhash/gridhash/internal/checksum"
	"github.com/gridhash/gridhash/internal/dataset"
	"github.com/gridhash/gridhash/internal/geotiff"
	"github.com/gridhash/gridhash/internal/netcdf"
	"github.com/gridhash/gridhash/internal/reference"
	"github.com/gridhash/gridhash/internal/zarr"
)

// Format identifies one supported on-disk format.
type Format int

const (
	FormatZarr Format = iota
	FormatNetCDF
	FormatGeoTIFF
)

// Hierarchical reports whether the format produces a tree of nodes rather
// than a single raster node.
func (f Format) Hierarchical() bool {
	return f == FormatZarr || f == FormatNetCDF
}

func (f Format) String() string {
	switch f {
	case FormatZarr:
		return "zarr"
	case FormatNetCDF:
		return "netcdf"
	case FormatGeoTIFF:
		return "geotiff"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// extensions is the closed extension set. Matching is case-insensitive.
var extensions = map[string]Format{
	".zarr": FormatZarr,
	".nc":   FormatNetCDF,
	".cdf":  FormatNetCDF,
	".tif":  FormatGeoTIFF,
	".tiff": FormatGeoTIFF,
}

// Resolve maps a file name to its format, or fails naming the offending
// extension.
func Resolve(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	format, ok := extensions[ext]
	if !ok {
		return 0, fmt.Errorf("%q: %w", ext, dataset.ErrUnknownExtension)
	}
	return format, nil
}

// Policy is the per-format skip policy. The variant set is closed:
// HierarchicalPolicy for tree formats, RasterPolicy for rasters. Supplying
// the wrong variant for a resolved format is an error, never ignored.
type Policy interface {
	isPolicy()
}

// HierarchicalPolicy carries the exclusions hierarchical operations accept.
type HierarchicalPolicy struct {
	// SkippedNodes are node paths omitted from generated mappings and
	// removed from both sides of a comparison.
	SkippedNodes dataset.Set
	// SkippedAttributes are attribute names excluded from canonicalization
	// on every node, beyond the built-in volatile set.
	SkippedAttributes dataset.Set
}

// RasterPolicy is the (empty) policy accepted by raster operations.
type RasterPolicy struct{}

func (HierarchicalPolicy) isPolicy() {}
func (RasterPolicy) isPolicy()       {}

// Hashes computes the mapping for a dataset file under the given policy. A
// nil policy means no exclusions for either variant.
func Hashes(path string, policy Policy) (dataset.Mapping, error) {
	format, err := Resolve(path)
	if err != nil {
		return nil, err
	}

	if format.Hierarchical() {
		hp, err := hierarchicalPolicy(format, policy)
		if err != nil {
			return nil, err
		}

		var root *dataset.Group
		switch format {
		case FormatZarr:
			root, err = zarr.Open(path)
		default:
			root, err = netcdf.Open(path)
		}
		if err != nil {
			return nil, err
		}

		mapping, err := checksum.TreeMapping(root, hp.SkippedAttributes)
		if err != nil {
			return nil, err
		}
		return mapping.WithoutPaths(hp.SkippedNodes), nil
	}

	if err := rasterPolicy(format, policy); err != nil {
		return nil, err
	}
	raster, err := geotiff.Open(path)
	if err != nil {
		return nil, err
	}
	return checksum.RasterMapping(raster)
}

// Generate computes a dataset's mapping and records it at referencePath.
func Generate(datasetPath, referencePath string, policy Policy) error {
	mapping, err := Hashes(datasetPath, policy)
	if err != nil {
		return err
	}
	return reference.Write(referencePath, mapping)
}

// Compare computes a dataset's mapping and reconciles it against the
// recorded reference. Skipped node paths are removed from both sides. A
// mismatch is a false result, not an error.
func Compare(datasetPath, referencePath string, policy Policy) (bool, error) {
	mapping, err := Hashes(datasetPath, policy)
	if err != nil {
		return false, err
	}
	recorded, err := reference.Load(referencePath)
	if err != nil {
		return false, err
	}
	return reference.Matches(mapping, recorded, skippedNodes(policy)), nil
}

func hierarchicalPolicy(format Format, policy Policy) (HierarchicalPolicy, error) {
	switch p := policy.(type) {
	case nil:
		return HierarchicalPolicy{}, nil
	case HierarchicalPolicy:
		return p, nil
	default:
		return HierarchicalPolicy{}, fmt.Errorf(
			"%T not accepted by %s operations: %w", policy, format, dataset.ErrPolicyMismatch)
	}
}

func rasterPolicy(format Format, policy Policy) error {
	switch policy.(type) {
	case nil, RasterPolicy:
		return nil
	default:
		return fmt.Errorf(
			"%T not accepted by %s operations (skipped nodes and skipped attributes apply to hierarchical formats only): %w",
			policy, format, dataset.ErrPolicyMismatch)
	}
}

func skippedNodes(policy Policy) dataset.Set {
	if hp, ok := policy.(HierarchicalPolicy); ok {
		return hp.SkippedNodes
	}
	return nil
}
