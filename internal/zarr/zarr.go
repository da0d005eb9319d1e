// Package zarr reads Zarr v2 directory stores into the shared dataset
// model.
//
// Supported storage: C-order chunks, raw or zlib/gzip compressed, no
// filters. Axis names follow the xarray convention of an _ARRAY_DIMENSIONS
// attribute on each array; that attribute is structural and is not treated
// as metadata. Element bytes are normalized to little-endian on read.
package zarr

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gridhash/gridhash/internal/dataset"
)

const (
	groupMetaFile = ".zgroup"
	arrayMetaFile = ".zarray"
	attrsFile     = ".zattrs"

	// dimensionsAttr is the xarray convention naming an array's axes.
	dimensionsAttr = "_ARRAY_DIMENSIONS"
)

// Open reads the Zarr store rooted at path and returns its group tree.
func Open(path string) (*dataset.Group, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: zarr store is not a directory: %w", path, dataset.ErrCorruptDataset)
	}
	return readGroup(path)
}

func readGroup(dir string) (*dataset.Group, error) {
	var meta struct {
		ZarrFormat int `json:"zarr_format"`
	}
	if err := readJSONFile(filepath.Join(dir, groupMetaFile), &meta); err != nil {
		return nil, err
	}
	if meta.ZarrFormat != 2 {
		return nil, fmt.Errorf("%s: zarr format %d: %w", dir, meta.ZarrFormat, dataset.ErrUnsupportedEncoding)
	}

	group := dataset.NewGroup()

	attrs, _, err := readAttributes(filepath.Join(dir, attrsFile))
	if err != nil {
		return nil, err
	}
	group.Attributes = attrs

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		child := filepath.Join(dir, entry.Name())
		switch {
		case fileExists(filepath.Join(child, arrayMetaFile)):
			variable, err := readArray(child)
			if err != nil {
				return nil, fmt.Errorf("array %s: %w", child, err)
			}
			group.Variables[entry.Name()] = variable
		case fileExists(filepath.Join(child, groupMetaFile)):
			sub, err := readGroup(child)
			if err != nil {
				return nil, err
			}
			group.Groups[entry.Name()] = sub
		}
	}

	return group, nil
}

// arrayMeta mirrors the .zarray document.
type arrayMeta struct {
	ZarrFormat   int               `json:"zarr_format"`
	Shape        []int             `json:"shape"`
	Chunks       []int             `json:"chunks"`
	DType        string            `json:"dtype"`
	Order        string            `json:"order"`
	FillValue    json.RawMessage   `json:"fill_value"`
	Compressor   *compressorMeta   `json:"compressor"`
	Filters      []json.RawMessage `json:"filters"`
	DimSeparator string            `json:"dimension_separator"`
}

type compressorMeta struct {
	ID string `json:"id"`
}

func readArray(dir string) (*dataset.Variable, error) {
	var meta arrayMeta
	if err := readJSONFile(filepath.Join(dir, arrayMetaFile), &meta); err != nil {
		return nil, err
	}
	if meta.ZarrFormat != 2 {
		return nil, fmt.Errorf("zarr format %d: %w", meta.ZarrFormat, dataset.ErrUnsupportedEncoding)
	}
	if meta.Order != "C" {
		return nil, fmt.Errorf("order %q: %w", meta.Order, dataset.ErrUnsupportedEncoding)
	}
	if len(meta.Filters) > 0 {
		return nil, fmt.Errorf("filters: %w", dataset.ErrUnsupportedEncoding)
	}
	if len(meta.Chunks) != len(meta.Shape) {
		return nil, fmt.Errorf("chunk rank %d does not match shape rank %d: %w",
			len(meta.Chunks), len(meta.Shape), dataset.ErrCorruptDataset)
	}

	dtype, err := parseDType(meta.DType)
	if err != nil {
		return nil, err
	}

	attrs, dims, err := readAttributes(filepath.Join(dir, attrsFile))
	if err != nil {
		return nil, err
	}
	if dims == nil {
		// Plain zarr without the xarray convention: synthesize stable names.
		dims = make([]string, len(meta.Shape))
		for i := range dims {
			dims[i] = fmt.Sprintf("dim_%d", i)
		}
	}
	if len(dims) != len(meta.Shape) {
		return nil, fmt.Errorf("%s names %d axes for rank %d: %w",
			dimensionsAttr, len(dims), len(meta.Shape), dataset.ErrCorruptDataset)
	}

	data, err := assembleChunks(dir, &meta, dtype)
	if err != nil {
		return nil, err
	}

	return &dataset.Variable{
		Attributes: attrs,
		Dimensions: dims,
		Data: &dataset.Array{
			Shape:    append([]int(nil), meta.Shape...),
			ElemSize: dtype.size,
			Data:     data,
		},
	}, nil
}

// readAttributes parses a .zattrs file. A missing file is an empty
// attribute set. The second return value is the extracted axis-name list,
// nil when the file carries no _ARRAY_DIMENSIONS key.
func readAttributes(path string) (map[string]dataset.Value, []string, error) {
	attrs := map[string]dataset.Value{}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return attrs, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	decoder := json.NewDecoder(strings.NewReader(string(data)))
	decoder.UseNumber()
	var raw map[string]any
	if err := decoder.Decode(&raw); err != nil {
		return nil, nil, fmt.Errorf("%s: %v: %w", path, err, dataset.ErrCorruptDataset)
	}

	var dims []string
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if name == dimensionsAttr {
			dims, err = axisNames(raw[name])
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", path, err)
			}
			continue
		}
		value, err := attributeValue(raw[name])
		if err != nil {
			return nil, nil, fmt.Errorf("%s: attribute %q: %w", path, name, err)
		}
		attrs[name] = value
	}
	return attrs, dims, nil
}

func axisNames(raw any) ([]string, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%s is not a list: %w", dimensionsAttr, dataset.ErrCorruptDataset)
	}
	names := make([]string, len(list))
	for i, item := range list {
		name, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s entry %d is not a string: %w", dimensionsAttr, i, dataset.ErrCorruptDataset)
		}
		names[i] = name
	}
	return names, nil
}

func readJSONFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: %v: %w", path, err, dataset.ErrCorruptDataset)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
