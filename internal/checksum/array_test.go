package checksum

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gridhash/gridhash/internal/dataset"
)

func int64Array(shape []int, values ...int64) *dataset.Array {
	data := make([]byte, 0, 8*len(values))
	for _, v := range values {
		data = binary.LittleEndian.AppendUint64(data, uint64(v))
	}
	return &dataset.Array{Shape: shape, ElemSize: 8, Data: data}
}

func TestArrayBytes(t *testing.T) {
	tests := []struct {
		name     string
		array    *dataset.Array
		expected []byte
	}{
		{
			name:  "one dimension",
			array: int64Array([]int{2}, 1, 2),
			expected: append([]byte("(2,)"),
				1, 0, 0, 0, 0, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0),
		},
		{
			name:  "column vector",
			array: int64Array([]int{2, 1}, 1, 2),
			expected: append([]byte("(2, 1)"),
				1, 0, 0, 0, 0, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0),
		},
		{
			name:  "different elements",
			array: int64Array([]int{2}, 2, 3),
			expected: append([]byte("(2,)"),
				2, 0, 0, 0, 0, 0, 0, 0, 3, 0, 0, 0, 0, 0, 0, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ArrayBytes(tt.array))
		})
	}
}

func TestArrayBytes_AbsentVersusEmpty(t *testing.T) {
	assert.Nil(t, ArrayBytes(nil))

	empty := ArrayBytes(&dataset.Array{Shape: []int{0}, ElemSize: 8})
	assert.Equal(t, []byte("(0,)"), empty)
}

func TestArrayBytes_ShapeChangesBytes(t *testing.T) {
	flat := ArrayBytes(int64Array([]int{2}, 1, 2))
	column := ArrayBytes(int64Array([]int{2, 1}, 1, 2))
	assert.NotEqual(t, flat, column)
}

func TestArrayDigest_Deterministic(t *testing.T) {
	a := int64Array([]int{3}, 1, 2, 3)
	first := ArrayDigest(a)
	second := ArrayDigest(int64Array([]int{3}, 1, 2, 3))

	assert.Len(t, first, 64)
	assert.Equal(t, first, second)
	assert.NotEqual(t, first, ArrayDigest(int64Array([]int{3}, 1, 2, 4)))
}
