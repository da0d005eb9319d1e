// Package gridhash generates and verifies deterministic content hashes for
// hierarchical scientific array datasets (Zarr, classic NetCDF) and
// single-layer rasters (GeoTIFF). A reference hash file is a flat JSON
// object mapping node paths to SHA-256 hex digests; regenerating the
// mapping from an equivalent dataset and reconciling it against the
// recorded file answers "did the data change" without byte-level diffs.
package gridhash

import (
	"github.com/gridhash/gridhash/internal/checksum"
	"github.com/gridhash/gridhash/internal/dataset"
	"github.com/gridhash/gridhash/internal/dispatch"
	"github.com/gridhash/gridhash/internal/geotiff"
	"github.com/gridhash/gridhash/internal/netcdf"
	"github.com/gridhash/gridhash/internal/reference"
	"github.com/gridhash/gridhash/internal/zarr"
)

// SkipSpec names content the hierarchical operations exclude from hashing.
// Node paths are removed from generated mappings and from both sides of a
// comparison; attribute names are excluded from every node's canonical
// metadata, in addition to the always-excluded volatile provenance
// attributes (history, history_json, matched case-insensitively).
type SkipSpec struct {
	Nodes      []string
	Attributes []string
}

func (s SkipSpec) nodes() dataset.Set      { return dataset.NewSet(s.Nodes...) }
func (s SkipSpec) attributes() dataset.Set { return dataset.NewSet(s.Attributes...) }

func (s SkipSpec) policy() dispatch.HierarchicalPolicy {
	return dispatch.HierarchicalPolicy{
		SkippedNodes:      s.nodes(),
		SkippedAttributes: s.attributes(),
	}
}

// HashesFromZarrFile computes the path-to-digest mapping for a Zarr v2
// directory store.
func HashesFromZarrFile(datasetPath string, skip SkipSpec) (map[string]string, error) {
	root, err := zarr.Open(datasetPath)
	if err != nil {
		return nil, err
	}
	return treeHashes(root, skip)
}

// HashesFromNCFile computes the path-to-digest mapping for a classic
// NetCDF (CDF-1 or CDF-2) file.
func HashesFromNCFile(datasetPath string, skip SkipSpec) (map[string]string, error) {
	root, err := netcdf.Open(datasetPath)
	if err != nil {
		return nil, err
	}
	return treeHashes(root, skip)
}

// HashFromGeoTIFFFile computes the single-entry mapping for a GeoTIFF
// scene. The mapping always carries the one key "geotiff".
func HashFromGeoTIFFFile(datasetPath string) (map[string]string, error) {
	raster, err := geotiff.Open(datasetPath)
	if err != nil {
		return nil, err
	}
	return checksum.RasterMapping(raster)
}

// CreateZarrHashFile records a Zarr store's mapping at referencePath.
func CreateZarrHashFile(datasetPath, referencePath string, skip SkipSpec) error {
	mapping, err := HashesFromZarrFile(datasetPath, skip)
	if err != nil {
		return err
	}
	return reference.Write(referencePath, mapping)
}

// CreateNCHashFile records a classic NetCDF file's mapping at referencePath.
func CreateNCHashFile(datasetPath, referencePath string, skip SkipSpec) error {
	mapping, err := HashesFromNCFile(datasetPath, skip)
	if err != nil {
		return err
	}
	return reference.Write(referencePath, mapping)
}

// CreateGeoTIFFHashFile records a GeoTIFF scene's mapping at referencePath.
func CreateGeoTIFFHashFile(datasetPath, referencePath string) error {
	mapping, err := HashFromGeoTIFFFile(datasetPath)
	if err != nil {
		return err
	}
	return reference.Write(referencePath, mapping)
}

// ZarrMatchesReferenceHashFile reports whether a Zarr store still matches
// its recorded reference. A mismatch is a false result, not an error.
func ZarrMatchesReferenceHashFile(datasetPath, referencePath string, skip SkipSpec) (bool, error) {
	mapping, err := HashesFromZarrFile(datasetPath, skip)
	if err != nil {
		return false, err
	}
	return matchesRecorded(mapping, referencePath, skip)
}

// NCMatchesReferenceHashFile reports whether a classic NetCDF file still
// matches its recorded reference.
func NCMatchesReferenceHashFile(datasetPath, referencePath string, skip SkipSpec) (bool, error) {
	mapping, err := HashesFromNCFile(datasetPath, skip)
	if err != nil {
		return false, err
	}
	return matchesRecorded(mapping, referencePath, skip)
}

// GeoTIFFMatchesReferenceHashFile reports whether a GeoTIFF scene still
// matches its recorded reference.
func GeoTIFFMatchesReferenceHashFile(datasetPath, referencePath string) (bool, error) {
	mapping, err := HashFromGeoTIFFFile(datasetPath)
	if err != nil {
		return false, err
	}
	return matchesRecorded(mapping, referencePath, SkipSpec{})
}

// CreateHashFile resolves the dataset's format from its extension and
// records its mapping at referencePath. A non-nil skip is honoured for
// hierarchical formats and rejected with ErrPolicyMismatch for rasters.
func CreateHashFile(datasetPath, referencePath string, skip *SkipSpec) error {
	return dispatch.Generate(datasetPath, referencePath, policyFor(skip))
}

// MatchesReferenceHashFile resolves the dataset's format from its extension
// and reconciles its mapping against the recorded reference.
func MatchesReferenceHashFile(datasetPath, referencePath string, skip *SkipSpec) (bool, error) {
	return dispatch.Compare(datasetPath, referencePath, policyFor(skip))
}

// Hashes resolves the dataset's format from its extension and computes its
// path-to-digest mapping without recording it.
func Hashes(datasetPath string, skip *SkipSpec) (map[string]string, error) {
	return dispatch.Hashes(datasetPath, policyFor(skip))
}

// WriteHashFile records an already-computed mapping at referencePath as
// indented JSON with sorted keys and a trailing newline.
func WriteHashFile(referencePath string, hashes map[string]string) error {
	return reference.Write(referencePath, hashes)
}

// MismatchedPaths lists, in sorted order, the node paths whose digests
// differ between a dataset and its recorded reference, including paths
// present on only one side. Skipped node paths never appear.
func MismatchedPaths(datasetPath, referencePath string, skip *SkipSpec) ([]string, error) {
	mapping, err := dispatch.Hashes(datasetPath, policyFor(skip))
	if err != nil {
		return nil, err
	}
	recorded, err := reference.Load(referencePath)
	if err != nil {
		return nil, err
	}
	var skipped dataset.Set
	if skip != nil {
		skipped = skip.nodes()
	}
	return reference.MismatchedPaths(mapping, recorded, skipped), nil
}

func policyFor(skip *SkipSpec) dispatch.Policy {
	if skip == nil {
		return nil
	}
	return skip.policy()
}

func treeHashes(root *dataset.Group, skip SkipSpec) (map[string]string, error) {
	mapping, err := checksum.TreeMapping(root, skip.attributes())
	if err != nil {
		return nil, err
	}
	return mapping.WithoutPaths(skip.nodes()), nil
}

func matchesRecorded(mapping dataset.Mapping, referencePath string, skip SkipSpec) (bool, error) {
	recorded, err := reference.Load(referencePath)
	if err != nil {
		return false, err
	}
	return reference.Matches(mapping, recorded, skip.nodes()), nil
}
