// Package netcdf reads netCDF classic files (CDF-1 and CDF-2) into the
// shared dataset model.
//
// The classic format is flat: one root group owns every dimension, variable
// and global attribute. All header and data payloads are big-endian on disk
// and are normalized to little-endian on read. CDF-5 and the HDF5-backed
// netCDF-4 container are outside this reader's scope.
package netcdf

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/gridhash/gridhash/internal/dataset"
)

// Classic on-disk type codes.
const (
	ncByte   = 1
	ncChar   = 2
	ncShort  = 3
	ncInt    = 4
	ncFloat  = 5
	ncDouble = 6
)

// Header list tags.
const (
	tagDimension = 0x0A
	tagVariable  = 0x0B
	tagAttribute = 0x0C
)

const streamingRecords = 0xFFFFFFFF

type dimension struct {
	name   string
	length int // 0 marks the record dimension
}

type variable struct {
	name       string
	dimIDs     []int
	attributes map[string]dataset.Value
	dataType   int
	vsize      int
	begin      int64
}

// Open reads a netCDF classic file and returns its root group.
func Open(path string) (*dataset.Group, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(data)
}

func parse(data []byte) (*dataset.Group, error) {
	c := &cursor{data: data}

	magic, err := c.bytes(4)
	if err != nil {
		return nil, err
	}
	if string(magic[:3]) != "CDF" {
		return nil, fmt.Errorf("not a netCDF classic file: %w", dataset.ErrCorruptDataset)
	}
	version := magic[3]
	if version != 1 && version != 2 {
		return nil, fmt.Errorf("CDF version %d: %w", version, dataset.ErrUnsupportedEncoding)
	}
	offsetWidth := 4
	if version == 2 {
		offsetWidth = 8
	}

	numRecords, err := c.uint32()
	if err != nil {
		return nil, err
	}
	if numRecords == streamingRecords {
		return nil, fmt.Errorf("streaming record count: %w", dataset.ErrUnsupportedEncoding)
	}

	dims, err := readDimensions(c)
	if err != nil {
		return nil, err
	}

	root := dataset.NewGroup()
	root.Attributes, err = readAttributes(c)
	if err != nil {
		return nil, err
	}

	vars, err := readVariables(c, offsetWidth, len(dims))
	if err != nil {
		return nil, err
	}

	recordSize := recordSlabSize(vars, dims)
	for _, v := range vars {
		array, dimNames, err := readVariableData(data, v, dims, int(numRecords), recordSize)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", v.name, err)
		}
		root.Variables[v.name] = &dataset.Variable{
			Attributes: v.attributes,
			Dimensions: dimNames,
			Data:       array,
		}
	}

	return root, nil
}

func readDimensions(c *cursor) ([]dimension, error) {
	count, err := c.listHeader(tagDimension)
	if err != nil {
		return nil, err
	}
	dims := make([]dimension, count)
	for i := range dims {
		name, err := c.name()
		if err != nil {
			return nil, err
		}
		length, err := c.uint32()
		if err != nil {
			return nil, err
		}
		dims[i] = dimension{name: name, length: int(length)}
	}
	return dims, nil
}

func readAttributes(c *cursor) (map[string]dataset.Value, error) {
	count, err := c.listHeader(tagAttribute)
	if err != nil {
		return nil, err
	}
	attrs := make(map[string]dataset.Value, count)
	for i := 0; i < count; i++ {
		name, err := c.name()
		if err != nil {
			return nil, err
		}
		value, err := readAttributeValue(c)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		attrs[name] = value
	}
	return attrs, nil
}

func readAttributeValue(c *cursor) (dataset.Value, error) {
	dataType, err := c.uint32()
	if err != nil {
		return nil, err
	}
	count, err := c.uint32()
	if err != nil {
		return nil, err
	}
	size, err := typeSize(int(dataType))
	if err != nil {
		return nil, err
	}
	raw, err := c.bytes(pad4(int(count) * size))
	if err != nil {
		return nil, err
	}
	raw = raw[:int(count)*size]

	if dataType == ncChar {
		return dataset.StringValue(raw), nil
	}

	// Numeric payloads are big-endian on disk.
	le := append([]byte(nil), raw...)
	dataset.SwapBytes(le, size)

	if count == 1 {
		return scalarValue(int(dataType), le)
	}
	return dataset.ArrayValue{Array: &dataset.Array{
		Shape:    []int{int(count)},
		ElemSize: size,
		Data:     le,
	}}, nil
}

func scalarValue(dataType int, le []byte) (dataset.Value, error) {
	switch dataType {
	case ncByte:
		return dataset.IntValue(int8(le[0])), nil
	case ncShort:
		return dataset.IntValue(int16(binary.LittleEndian.Uint16(le))), nil
	case ncInt:
		return dataset.IntValue(int32(binary.LittleEndian.Uint32(le))), nil
	case ncFloat:
		return dataset.FloatValue(math.Float32frombits(binary.LittleEndian.Uint32(le))), nil
	case ncDouble:
		return dataset.FloatValue(math.Float64frombits(binary.LittleEndian.Uint64(le))), nil
	default:
		return nil, fmt.Errorf("type %d: %w", dataType, dataset.ErrCorruptDataset)
	}
}

func readVariables(c *cursor, offsetWidth, dimCount int) ([]variable, error) {
	count, err := c.listHeader(tagVariable)
	if err != nil {
		return nil, err
	}
	vars := make([]variable, count)
	for i := range vars {
		name, err := c.name()
		if err != nil {
			return nil, err
		}
		rank, err := c.uint32()
		if err != nil {
			return nil, err
		}
		dimIDs := make([]int, rank)
		for j := range dimIDs {
			id, err := c.uint32()
			if err != nil {
				return nil, err
			}
			if int(id) >= dimCount {
				return nil, fmt.Errorf("variable %q: dimension id %d out of range: %w",
					name, id, dataset.ErrCorruptDataset)
			}
			dimIDs[j] = int(id)
		}
		attrs, err := readAttributes(c)
		if err != nil {
			return nil, err
		}
		dataType, err := c.uint32()
		if err != nil {
			return nil, err
		}
		vsize, err := c.uint32()
		if err != nil {
			return nil, err
		}
		begin, err := c.offset(offsetWidth)
		if err != nil {
			return nil, err
		}
		vars[i] = variable{
			name:       name,
			dimIDs:     dimIDs,
			attributes: attrs,
			dataType:   int(dataType),
			vsize:      int(vsize),
			begin:      begin,
		}
	}
	return vars, nil
}

// recordSlabSize returns the byte stride between consecutive records. With
// more than one record variable each per-record slab is padded to four
// bytes (vsize); with exactly one it is not.
func recordSlabSize(vars []variable, dims []dimension) int {
	total := 0
	recordVars := 0
	var only *variable
	for i := range vars {
		if isRecordVariable(&vars[i], dims) {
			recordVars++
			total += vars[i].vsize
			only = &vars[i]
		}
	}
	if recordVars == 1 {
		size, _ := typeSize(only.dataType)
		return fixedElementCount(only, dims) * size
	}
	return total
}

func isRecordVariable(v *variable, dims []dimension) bool {
	return len(v.dimIDs) > 0 && dims[v.dimIDs[0]].length == 0
}

// fixedElementCount multiplies the non-record dimension lengths.
func fixedElementCount(v *variable, dims []dimension) int {
	n := 1
	for i, id := range v.dimIDs {
		if i == 0 && dims[id].length == 0 {
			continue
		}
		n *= dims[id].length
	}
	return n
}

func readVariableData(data []byte, v variable, dims []dimension, numRecords, recordSize int) (*dataset.Array, []string, error) {
	size, err := typeSize(v.dataType)
	if err != nil {
		return nil, nil, err
	}

	dimNames := make([]string, len(v.dimIDs))
	shape := make([]int, len(v.dimIDs))
	for i, id := range v.dimIDs {
		dimNames[i] = dims[id].name
		shape[i] = dims[id].length
	}

	var raw []byte
	if isRecordVariable(&v, dims) {
		shape[0] = numRecords
		perRecord := fixedElementCount(&v, dims) * size
		raw = make([]byte, 0, perRecord*numRecords)
		for r := 0; r < numRecords; r++ {
			start := v.begin + int64(r)*int64(recordSize)
			end := start + int64(perRecord)
			if end > int64(len(data)) {
				return nil, nil, fmt.Errorf("record %d overruns file: %w", r, dataset.ErrCorruptDataset)
			}
			raw = append(raw, data[start:end]...)
		}
	} else {
		n := 1
		for _, dim := range shape {
			n *= dim
		}
		end := v.begin + int64(n*size)
		if end > int64(len(data)) {
			return nil, nil, fmt.Errorf("data overruns file: %w", dataset.ErrCorruptDataset)
		}
		raw = append([]byte(nil), data[v.begin:end]...)
	}

	dataset.SwapBytes(raw, size)
	return &dataset.Array{Shape: shape, ElemSize: size, Data: raw}, dimNames, nil
}

func typeSize(dataType int) (int, error) {
	switch dataType {
	case ncByte, ncChar:
		return 1, nil
	case ncShort:
		return 2, nil
	case ncInt, ncFloat:
		return 4, nil
	case ncDouble:
		return 8, nil
	default:
		return 0, fmt.Errorf("type %d: %w", dataType, dataset.ErrCorruptDataset)
	}
}

func pad4(n int) int {
	return (n + 3) &^ 3
}
