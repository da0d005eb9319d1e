package zarr

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"github.com/gridhash/gridhash/internal/dataset"
)

// attributeValue maps a decoded .zattrs JSON value onto the attribute value
// union. Numbers keep their integer/float identity; homogeneous numeric
// lists become arrays (so they are folded into the hash by digest, like any
// array-valued attribute); everything else is carried as its compact JSON
// text.
func attributeValue(raw any) (dataset.Value, error) {
	switch v := raw.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return dataset.IntValue(n), nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("number %q: %w", v.String(), dataset.ErrNonSerialisableValue)
		}
		return dataset.FloatValue(f), nil
	case string:
		return dataset.StringValue(v), nil
	case bool:
		// Flags are stored as integers, matching the netCDF convention.
		if v {
			return dataset.IntValue(1), nil
		}
		return dataset.IntValue(0), nil
	case []any:
		if array, ok := numericList(v); ok {
			return dataset.ArrayValue{Array: array}, nil
		}
		return jsonTextValue(v)
	case map[string]any:
		return jsonTextValue(v)
	case nil:
		return dataset.StringValue("null"), nil
	default:
		return nil, fmt.Errorf("value of type %T: %w", raw, dataset.ErrNonSerialisableValue)
	}
}

// numericList converts an all-number list into an array: int64 elements if
// every entry is integral, float64 otherwise.
func numericList(list []any) (*dataset.Array, bool) {
	if len(list) == 0 {
		return nil, false
	}

	integers := make([]int64, 0, len(list))
	floats := make([]float64, 0, len(list))
	allInts := true
	for _, item := range list {
		number, ok := item.(json.Number)
		if !ok {
			return nil, false
		}
		if allInts {
			if n, err := number.Int64(); err == nil {
				integers = append(integers, n)
				floats = append(floats, float64(n))
				continue
			}
			allInts = false
		}
		f, err := number.Float64()
		if err != nil {
			return nil, false
		}
		floats = append(floats, f)
	}

	data := make([]byte, 0, 8*len(list))
	if allInts {
		for _, n := range integers {
			data = binary.LittleEndian.AppendUint64(data, uint64(n))
		}
	} else {
		for _, f := range floats {
			data = binary.LittleEndian.AppendUint64(data, math.Float64bits(f))
		}
	}
	return &dataset.Array{Shape: []int{len(list)}, ElemSize: 8, Data: data}, true
}

func jsonTextValue(v any) (dataset.Value, error) {
	text, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, dataset.ErrNonSerialisableValue)
	}
	return dataset.StringValue(text), nil
}
