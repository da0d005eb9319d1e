package gridhash_test

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gridhash/gridhash/pkg/gridhash"
)

func TestZarrCreateAndMatch(t *testing.T) {
	store := writeZarrStore(t, "sample granule")
	referencePath := filepath.Join(t.TempDir(), "reference.json")

	if err := gridhash.CreateZarrHashFile(store, referencePath, gridhash.SkipSpec{}); err != nil {
		t.Fatalf("CreateZarrHashFile: %v", err)
	}

	match, err := gridhash.ZarrMatchesReferenceHashFile(store, referencePath, gridhash.SkipSpec{})
	if err != nil {
		t.Fatalf("ZarrMatchesReferenceHashFile: %v", err)
	}
	if !match {
		t.Error("Expected an unmodified store to match its own reference")
	}
}

func TestZarrHashesKeys(t *testing.T) {
	store := writeZarrStore(t, "sample granule")

	hashes, err := gridhash.HashesFromZarrFile(store, gridhash.SkipSpec{})
	if err != nil {
		t.Fatalf("HashesFromZarrFile: %v", err)
	}
	if len(hashes) != 2 {
		t.Fatalf("Expected 2 entries, got %d: %v", len(hashes), hashes)
	}
	for _, path := range []string{"/", "/lat"} {
		if _, ok := hashes[path]; !ok {
			t.Errorf("Expected path %q in mapping", path)
		}
	}
}

func TestSkipSpecNodes(t *testing.T) {
	store := writeZarrStore(t, "sample granule")

	skip := gridhash.SkipSpec{Nodes: []string{"/lat"}}
	hashes, err := gridhash.HashesFromZarrFile(store, skip)
	if err != nil {
		t.Fatalf("HashesFromZarrFile: %v", err)
	}
	if _, ok := hashes["/lat"]; ok {
		t.Error("Expected skipped node /lat to be omitted")
	}
	if _, ok := hashes["/"]; !ok {
		t.Error("Expected root to remain in mapping")
	}
}

func TestSkipSpecAttributes(t *testing.T) {
	// Two stores that differ only in the title attribute hash identically
	// once that attribute is excluded.
	first := writeZarrStore(t, "first title")
	second := writeZarrStore(t, "second title")

	skip := gridhash.SkipSpec{Attributes: []string{"title"}}
	firstHashes, err := gridhash.HashesFromZarrFile(first, skip)
	if err != nil {
		t.Fatalf("HashesFromZarrFile(first): %v", err)
	}
	secondHashes, err := gridhash.HashesFromZarrFile(second, skip)
	if err != nil {
		t.Fatalf("HashesFromZarrFile(second): %v", err)
	}
	if firstHashes["/"] != secondHashes["/"] {
		t.Error("Expected equal root digests with title excluded")
	}

	withTitle, err := gridhash.HashesFromZarrFile(first, gridhash.SkipSpec{})
	if err != nil {
		t.Fatalf("HashesFromZarrFile(no skip): %v", err)
	}
	if withTitle["/"] == firstHashes["/"] {
		t.Error("Expected excluding an attribute to change the root digest")
	}
}

func TestNetCDFCreateAndMatch(t *testing.T) {
	granule := writeNetCDFFile(t)
	referencePath := filepath.Join(t.TempDir(), "reference.json")

	hashes, err := gridhash.HashesFromNCFile(granule, gridhash.SkipSpec{})
	if err != nil {
		t.Fatalf("HashesFromNCFile: %v", err)
	}
	if len(hashes) != 1 {
		t.Fatalf("Expected root-only mapping, got %v", hashes)
	}

	if err := gridhash.CreateNCHashFile(granule, referencePath, gridhash.SkipSpec{}); err != nil {
		t.Fatalf("CreateNCHashFile: %v", err)
	}
	match, err := gridhash.NCMatchesReferenceHashFile(granule, referencePath, gridhash.SkipSpec{})
	if err != nil {
		t.Fatalf("NCMatchesReferenceHashFile: %v", err)
	}
	if !match {
		t.Error("Expected an unmodified file to match its own reference")
	}
}

func TestGeoTIFFRoundTrip(t *testing.T) {
	scene := writeTIFFScene(t)
	referencePath := filepath.Join(t.TempDir(), "reference.json")

	hashes, err := gridhash.HashFromGeoTIFFFile(scene)
	if err != nil {
		t.Fatalf("HashFromGeoTIFFFile: %v", err)
	}
	if len(hashes) != 1 {
		t.Fatalf("Expected a single entry, got %v", hashes)
	}
	if _, ok := hashes[gridhash.RasterKey]; !ok {
		t.Fatalf("Expected key %q, got %v", gridhash.RasterKey, hashes)
	}

	if err := gridhash.CreateGeoTIFFHashFile(scene, referencePath); err != nil {
		t.Fatalf("CreateGeoTIFFHashFile: %v", err)
	}
	match, err := gridhash.GeoTIFFMatchesReferenceHashFile(scene, referencePath)
	if err != nil {
		t.Fatalf("GeoTIFFMatchesReferenceHashFile: %v", err)
	}
	if !match {
		t.Error("Expected an unmodified scene to match its own reference")
	}

	// Flip the pixel byte and the digest must drift.
	data, err := os.ReadFile(scene)
	if err != nil {
		t.Fatal(err)
	}
	data[8] ^= 0xFF
	if err := os.WriteFile(scene, data, 0o644); err != nil {
		t.Fatal(err)
	}
	match, err = gridhash.GeoTIFFMatchesReferenceHashFile(scene, referencePath)
	if err != nil {
		t.Fatalf("GeoTIFFMatchesReferenceHashFile after edit: %v", err)
	}
	if match {
		t.Error("Expected a modified scene to mismatch")
	}
}

func TestPolymorphicDispatch(t *testing.T) {
	store := writeZarrStore(t, "sample granule")
	referencePath := filepath.Join(t.TempDir(), "reference.json")

	if err := gridhash.CreateHashFile(store, referencePath, nil); err != nil {
		t.Fatalf("CreateHashFile: %v", err)
	}
	match, err := gridhash.MatchesReferenceHashFile(store, referencePath, nil)
	if err != nil {
		t.Fatalf("MatchesReferenceHashFile: %v", err)
	}
	if !match {
		t.Error("Expected dispatched comparison to match")
	}
}

func TestPolymorphicRejectsRasterSkip(t *testing.T) {
	scene := writeTIFFScene(t)
	referencePath := filepath.Join(t.TempDir(), "reference.json")

	skip := &gridhash.SkipSpec{Nodes: []string{"/lat"}}
	err := gridhash.CreateHashFile(scene, referencePath, skip)
	if !errors.Is(err, gridhash.ErrPolicyMismatch) {
		t.Errorf("Expected ErrPolicyMismatch, got %v", err)
	}
}

func TestPolymorphicUnknownExtension(t *testing.T) {
	err := gridhash.CreateHashFile("granule.h5", "reference.json", nil)
	if !errors.Is(err, gridhash.ErrUnknownExtension) {
		t.Errorf("Expected ErrUnknownExtension, got %v", err)
	}
}

func TestMismatchedPaths(t *testing.T) {
	store := writeZarrStore(t, "sample granule")
	referencePath := filepath.Join(t.TempDir(), "reference.json")

	if err := gridhash.CreateHashFile(store, referencePath, nil); err != nil {
		t.Fatalf("CreateHashFile: %v", err)
	}

	chunk := filepath.Join(store, "lat", "0")
	if err := os.WriteFile(chunk, int64BytesLE(7, 8), 0o644); err != nil {
		t.Fatal(err)
	}

	paths, err := gridhash.MismatchedPaths(store, referencePath, nil)
	if err != nil {
		t.Fatalf("MismatchedPaths: %v", err)
	}
	if len(paths) != 1 || paths[0] != "/lat" {
		t.Errorf("Expected [/lat], got %v", paths)
	}

	skip := &gridhash.SkipSpec{Nodes: []string{"/lat"}}
	paths, err = gridhash.MismatchedPaths(store, referencePath, skip)
	if err != nil {
		t.Fatalf("MismatchedPaths with skip: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("Expected no mismatches with /lat skipped, got %v", paths)
	}
}

func writeZarrStore(t *testing.T, title string) string {
	t.Helper()
	store := filepath.Join(t.TempDir(), "granule.zarr")
	if err := os.MkdirAll(filepath.Join(store, "lat"), 0o755); err != nil {
		t.Fatal(err)
	}

	files := map[string][]byte{
		".zgroup": []byte(`{"zarr_format": 2}`),
		".zattrs": []byte(`{"title": "` + title + `"}`),
		"lat/.zarray": []byte(`{
			"zarr_format": 2,
			"shape": [2],
			"chunks": [2],
			"dtype": "<i8",
			"compressor": null,
			"fill_value": 0,
			"order": "C",
			"filters": null
		}`),
		"lat/.zattrs": []byte(`{"_ARRAY_DIMENSIONS": ["lat"]}`),
		"lat/0":       int64BytesLE(1, 2),
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(store, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return store
}

// writeNetCDFFile writes a minimal CDF-1 file: no dimensions, no variables,
// one global title attribute.
func writeNetCDFFile(t *testing.T) string {
	t.Helper()

	var buf []byte
	buf = append(buf, 'C', 'D', 'F', 1)
	buf = binary.BigEndian.AppendUint32(buf, 0) // numrecs
	buf = binary.BigEndian.AppendUint32(buf, 0) // dim_list absent
	buf = binary.BigEndian.AppendUint32(buf, 0)
	buf = binary.BigEndian.AppendUint32(buf, 0x0C) // gatt_list
	buf = binary.BigEndian.AppendUint32(buf, 1)
	buf = binary.BigEndian.AppendUint32(buf, 5) // name "title"
	buf = append(buf, 't', 'i', 't', 'l', 'e', 0, 0, 0)
	buf = binary.BigEndian.AppendUint32(buf, 2) // NC_CHAR
	buf = binary.BigEndian.AppendUint32(buf, 5) // nelems
	buf = append(buf, 'h', 'e', 'l', 'l', 'o', 0, 0, 0)
	buf = binary.BigEndian.AppendUint32(buf, 0) // var_list absent
	buf = binary.BigEndian.AppendUint32(buf, 0)

	path := filepath.Join(t.TempDir(), "granule.nc")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeTIFFScene writes a one-pixel uncompressed little-endian TIFF with
// the pixel strip at byte offset 8.
func writeTIFFScene(t *testing.T) string {
	t.Helper()

	var buf []byte
	buf = append(buf, 'I', 'I', 42, 0)
	buf = append(buf, 9, 0, 0, 0)
	buf = append(buf, 0x07)

	const (
		typeShort = 3
		typeLong  = 4
	)
	entries := []struct {
		tag       uint16
		fieldType uint16
		value     uint32
	}{
		{256, typeShort, 1},
		{257, typeShort, 1},
		{258, typeShort, 8},
		{259, typeShort, 1},
		{273, typeLong, 8},
		{277, typeShort, 1},
		{278, typeShort, 1},
		{279, typeLong, 1},
	}

	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(entries)))
	for _, e := range entries {
		buf = binary.LittleEndian.AppendUint16(buf, e.tag)
		buf = binary.LittleEndian.AppendUint16(buf, e.fieldType)
		buf = binary.LittleEndian.AppendUint32(buf, 1)
		buf = binary.LittleEndian.AppendUint32(buf, e.value)
	}
	buf = binary.LittleEndian.AppendUint32(buf, 0)

	path := filepath.Join(t.TempDir(), "scene.tif")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func int64BytesLE(values ...int64) []byte {
	out := make([]byte, 0, 8*len(values))
	for _, v := range values {
		out = binary.LittleEndian.AppendUint64(out, uint64(v))
	}
	return out
}
