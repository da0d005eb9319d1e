package zarr

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"

	"github.com/gridhash/gridhash/internal/dataset"
)

// assembleChunks reads every chunk of an array and assembles the full
// row-major little-endian buffer. Missing chunk files are legal and resolve
// to the array's fill value.
func assembleChunks(dir string, meta *arrayMeta, dtype dtypeInfo) ([]byte, error) {
	fill, err := fillElement(meta.FillValue, dtype)
	if err != nil {
		return nil, err
	}

	total := dtype.size
	for _, dim := range meta.Shape {
		total *= dim
	}
	out := make([]byte, total)
	if !bytes.Equal(fill, make([]byte, dtype.size)) {
		for offset := 0; offset < total; offset += dtype.size {
			copy(out[offset:], fill)
		}
	}

	// Zero-rank arrays have exactly one chunk, named "0".
	if len(meta.Shape) == 0 {
		chunk, ok, err := readChunk(filepath.Join(dir, "0"), meta, dtype, dtype.size)
		if err != nil {
			return nil, err
		}
		if ok {
			copy(out, chunk)
		}
		return out, nil
	}

	chunkBytes := dtype.size
	for _, dim := range meta.Chunks {
		if dim <= 0 {
			return nil, fmt.Errorf("chunk extent %d: %w", dim, dataset.ErrCorruptDataset)
		}
		chunkBytes *= dim
	}

	separator := meta.DimSeparator
	if separator == "" {
		separator = "."
	}

	grid := make([]int, len(meta.Shape))
	for i := range grid {
		grid[i] = (meta.Shape[i] + meta.Chunks[i] - 1) / meta.Chunks[i]
		if grid[i] == 0 {
			grid[i] = 1
		}
	}

	indices := make([]int, len(grid))
	for {
		path := filepath.Join(dir, filepath.FromSlash(chunkName(indices, separator)))
		chunk, ok, err := readChunk(path, meta, dtype, chunkBytes)
		if err != nil {
			return nil, err
		}
		if ok {
			placeChunk(out, meta.Shape, meta.Chunks, indices, chunk, dtype.size)
		}
		if !advance(indices, grid) {
			break
		}
	}

	return out, nil
}

// readChunk loads and decompresses one chunk file. The second return value
// is false when the file does not exist.
func readChunk(path string, meta *arrayMeta, dtype dtypeInfo, expected int) ([]byte, bool, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	data, err := decompress(raw, meta.Compressor)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", path, err)
	}
	if len(data) < expected {
		return nil, false, fmt.Errorf("%s: chunk holds %d bytes, want %d: %w",
			path, len(data), expected, dataset.ErrCorruptDataset)
	}
	if dtype.bigEndian {
		dataset.SwapBytes(data, dtype.size)
	}
	return data[:expected], true, nil
}

func decompress(raw []byte, compressor *compressorMeta) ([]byte, error) {
	if compressor == nil {
		return raw, nil
	}
	switch compressor.ID {
	case "zlib":
		r, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("zlib: %v: %w", err, dataset.ErrCorruptDataset)
		}
		defer r.Close()
		return io.ReadAll(r)
	case "gzip":
		r, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("gzip: %v: %w", err, dataset.ErrCorruptDataset)
		}
		defer r.Close()
		return io.ReadAll(r)
	default:
		return nil, fmt.Errorf("compressor %q: %w", compressor.ID, dataset.ErrUnsupportedEncoding)
	}
}

// placeChunk copies the in-bounds portion of a full chunk buffer into the
// assembled array. Both buffers are row-major; rows of the last axis are
// contiguous and copied in one move.
func placeChunk(out []byte, shape, chunks, gridIndex []int, chunk []byte, elemSize int) {
	rank := len(shape)

	origin := make([]int, rank)
	extent := make([]int, rank)
	for i := 0; i < rank; i++ {
		origin[i] = gridIndex[i] * chunks[i]
		extent[i] = chunks[i]
		if origin[i]+extent[i] > shape[i] {
			extent[i] = shape[i] - origin[i]
		}
		if extent[i] <= 0 {
			return
		}
	}

	outStride := make([]int, rank)
	chunkStride := make([]int, rank)
	outStride[rank-1] = elemSize
	chunkStride[rank-1] = elemSize
	for i := rank - 2; i >= 0; i-- {
		outStride[i] = outStride[i+1] * shape[i+1]
		chunkStride[i] = chunkStride[i+1] * chunks[i+1]
	}

	rowLen := extent[rank-1] * elemSize
	index := make([]int, rank) // last axis stays 0
	for {
		outOffset := 0
		chunkOffset := 0
		for i := 0; i < rank-1; i++ {
			outOffset += (origin[i] + index[i]) * outStride[i]
			chunkOffset += index[i] * chunkStride[i]
		}
		outOffset += origin[rank-1] * outStride[rank-1]
		copy(out[outOffset:outOffset+rowLen], chunk[chunkOffset:chunkOffset+rowLen])

		if rank == 1 || !advance(index[:rank-1], extent[:rank-1]) {
			break
		}
	}
}

// advance increments a multi-index in row-major order, returning false once
// the index wraps past the end.
func advance(index, bounds []int) bool {
	for i := len(index) - 1; i >= 0; i-- {
		index[i]++
		if index[i] < bounds[i] {
			return true
		}
		index[i] = 0
	}
	return false
}

func chunkName(indices []int, separator string) string {
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = strconv.Itoa(idx)
	}
	if separator == "/" {
		return strings.Join(parts, "/")
	}
	return strings.Join(parts, separator)
}
