// Package geotiff reads single-layer GeoTIFF rasters into the shared
// dataset model: the first image directory's full tag set plus the
// assembled pixel array.
//
// Supported storage: classic TIFF (little- or big-endian), strip
// organization, Compression none/Deflate/AdobeDeflate, horizontal
// predictor. Tiled files and BigTIFF are rejected explicitly.
package geotiff

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zlib"

	"github.com/gridhash/gridhash/internal/dataset"
)

// Tag codes the pixel reader interprets. Every tag, interpreted or not,
// still lands in the output tag set.
const (
	tagImageWidth      = 256
	tagImageLength     = 257
	tagBitsPerSample   = 258
	tagCompression     = 259
	tagStripOffsets    = 273
	tagSamplesPerPixel = 277
	tagRowsPerStrip    = 278
	tagStripByteCounts = 279
	tagPredictor       = 317
	tagTileWidth       = 322
	tagTileOffsets     = 324
)

const (
	compressionNone         = 1
	compressionDeflate      = 8
	compressionAdobeDeflate = 32946
)

// Open reads the raster at path.
func Open(path string) (*dataset.Raster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(data)
}

func parse(data []byte) (*dataset.Raster, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("file shorter than TIFF header: %w", dataset.ErrCorruptDataset)
	}

	var order binary.ByteOrder
	switch string(data[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return nil, fmt.Errorf("not a TIFF file: %w", dataset.ErrCorruptDataset)
	}
	switch magic := order.Uint16(data[2:4]); magic {
	case 42:
	case 43:
		return nil, fmt.Errorf("BigTIFF: %w", dataset.ErrUnsupportedEncoding)
	default:
		return nil, fmt.Errorf("TIFF magic %d: %w", magic, dataset.ErrCorruptDataset)
	}

	entries, err := readDirectory(data, order, order.Uint32(data[4:8]))
	if err != nil {
		return nil, err
	}

	tags := make([]dataset.RasterTag, 0, len(entries))
	for _, e := range entries {
		tags = append(tags, dataset.RasterTag{
			Code:   e.tag,
			Type:   e.fieldType,
			Count:  e.count,
			Value:  e.render(order),
			Inline: e.inline,
		})
	}

	pixels, err := readPixels(data, order, entries)
	if err != nil {
		return nil, err
	}

	return &dataset.Raster{Tags: tags, Pixels: pixels}, nil
}

// entry is one parsed image directory entry with its value bytes resolved
// (inline or via offset).
type entry struct {
	tag       uint16
	fieldType uint16
	count     uint32
	value     []byte
	inline    bool
}

func readDirectory(data []byte, order binary.ByteOrder, offset uint32) ([]entry, error) {
	if int(offset)+2 > len(data) {
		return nil, fmt.Errorf("directory offset %d out of range: %w", offset, dataset.ErrCorruptDataset)
	}
	count := int(order.Uint16(data[offset:]))
	base := int(offset) + 2
	if base+12*count > len(data) {
		return nil, fmt.Errorf("directory truncated: %w", dataset.ErrCorruptDataset)
	}

	entries := make([]entry, 0, count)
	for i := 0; i < count; i++ {
		raw := data[base+12*i : base+12*(i+1)]
		e := entry{
			tag:       order.Uint16(raw[0:2]),
			fieldType: order.Uint16(raw[2:4]),
			count:     order.Uint32(raw[4:8]),
		}
		size := fieldTypeSize(e.fieldType) * int(e.count)
		if size <= 4 {
			e.value = raw[8 : 8+size]
			e.inline = true
		} else {
			valueOffset := int(order.Uint32(raw[8:12]))
			if valueOffset+size > len(data) {
				return nil, fmt.Errorf("tag %d value out of range: %w", e.tag, dataset.ErrCorruptDataset)
			}
			e.value = data[valueOffset : valueOffset+size]
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func fieldTypeSize(fieldType uint16) int {
	switch fieldType {
	case 1, 2, 6, 7: // BYTE, ASCII, SBYTE, UNDEFINED
		return 1
	case 3, 8: // SHORT, SSHORT
		return 2
	case 4, 9, 11: // LONG, SLONG, FLOAT
		return 4
	case 5, 10, 12: // RATIONAL, SRATIONAL, DOUBLE
		return 8
	default:
		return 1
	}
}

// uintValues decodes an entry's payload as unsigned integers. Used for the
// layout tags the pixel reader interprets.
func (e entry) uintValues(order binary.ByteOrder) []uint32 {
	out := make([]uint32, 0, e.count)
	switch e.fieldType {
	case 1: // BYTE
		for _, b := range e.value {
			out = append(out, uint32(b))
		}
	case 3: // SHORT
		for i := 0; i+2 <= len(e.value); i += 2 {
			out = append(out, uint32(order.Uint16(e.value[i:])))
		}
	case 4: // LONG
		for i := 0; i+4 <= len(e.value); i += 4 {
			out = append(out, order.Uint32(e.value[i:]))
		}
	}
	return out
}

func firstUint(entries map[uint16]entry, tag uint16, order binary.ByteOrder, fallback uint32) uint32 {
	e, ok := entries[tag]
	if !ok {
		return fallback
	}
	values := e.uintValues(order)
	if len(values) == 0 {
		return fallback
	}
	return values[0]
}

func readPixels(data []byte, order binary.ByteOrder, entries []entry) (*dataset.Array, error) {
	byTag := make(map[uint16]entry, len(entries))
	for _, e := range entries {
		byTag[e.tag] = e
	}
	if _, tiled := byTag[tagTileOffsets]; tiled {
		return nil, fmt.Errorf("tiled organization: %w", dataset.ErrUnsupportedEncoding)
	}
	if _, tiled := byTag[tagTileWidth]; tiled {
		return nil, fmt.Errorf("tiled organization: %w", dataset.ErrUnsupportedEncoding)
	}

	width := int(firstUint(byTag, tagImageWidth, order, 0))
	height := int(firstUint(byTag, tagImageLength, order, 0))
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image size %dx%d: %w", width, height, dataset.ErrCorruptDataset)
	}

	bits := int(firstUint(byTag, tagBitsPerSample, order, 8))
	if bits != 8 && bits != 16 && bits != 32 && bits != 64 {
		return nil, fmt.Errorf("%d bits per sample: %w", bits, dataset.ErrUnsupportedEncoding)
	}
	elemSize := bits / 8
	samples := int(firstUint(byTag, tagSamplesPerPixel, order, 1))
	compression := firstUint(byTag, tagCompression, order, compressionNone)
	predictor := firstUint(byTag, tagPredictor, order, 1)
	rowsPerStrip := int(firstUint(byTag, tagRowsPerStrip, order, uint32(height)))
	if rowsPerStrip <= 0 || rowsPerStrip > height {
		rowsPerStrip = height
	}

	offsetsEntry, ok := byTag[tagStripOffsets]
	if !ok {
		return nil, fmt.Errorf("no strip offsets: %w", dataset.ErrCorruptDataset)
	}
	countsEntry, ok := byTag[tagStripByteCounts]
	if !ok {
		return nil, fmt.Errorf("no strip byte counts: %w", dataset.ErrCorruptDataset)
	}
	offsets := offsetsEntry.uintValues(order)
	counts := countsEntry.uintValues(order)
	if len(offsets) != len(counts) {
		return nil, fmt.Errorf("strip offset/count mismatch: %w", dataset.ErrCorruptDataset)
	}

	rowBytes := width * samples * elemSize
	assembled := make([]byte, 0, height*rowBytes)
	for i, offset := range offsets {
		rows := rowsPerStrip
		if remaining := height - i*rowsPerStrip; rows > remaining {
			rows = remaining
		}
		if rows <= 0 {
			break
		}
		strip, err := readStrip(data, int(offset), int(counts[i]), compression)
		if err != nil {
			return nil, fmt.Errorf("strip %d: %w", i, err)
		}
		expected := rows * rowBytes
		if len(strip) < expected {
			return nil, fmt.Errorf("strip %d holds %d bytes, want %d: %w",
				i, len(strip), expected, dataset.ErrCorruptDataset)
		}
		strip = strip[:expected]
		if predictor == 2 {
			undoHorizontalPredictor(strip, rowBytes, samples, elemSize, order)
		}
		assembled = append(assembled, strip...)
	}
	if len(assembled) != height*rowBytes {
		return nil, fmt.Errorf("assembled %d pixel bytes, want %d: %w",
			len(assembled), height*rowBytes, dataset.ErrCorruptDataset)
	}

	if order == binary.BigEndian {
		dataset.SwapBytes(assembled, elemSize)
	}

	if samples == 1 {
		return &dataset.Array{Shape: []int{height, width}, ElemSize: elemSize, Data: assembled}, nil
	}

	// Chunky rows hold interleaved samples; reorder band-major so the shape
	// reads (band, row, column).
	planar := make([]byte, len(assembled))
	bandStride := height * width * elemSize
	for pixel := 0; pixel < height*width; pixel++ {
		for s := 0; s < samples; s++ {
			src := (pixel*samples + s) * elemSize
			dst := s*bandStride + pixel*elemSize
			copy(planar[dst:dst+elemSize], assembled[src:src+elemSize])
		}
	}
	return &dataset.Array{Shape: []int{samples, height, width}, ElemSize: elemSize, Data: planar}, nil
}

func readStrip(data []byte, offset, count int, compression uint32) ([]byte, error) {
	if offset+count > len(data) {
		return nil, fmt.Errorf("strip out of range: %w", dataset.ErrCorruptDataset)
	}
	raw := data[offset : offset+count]

	switch compression {
	case compressionNone:
		return raw, nil
	case compressionDeflate, compressionAdobeDeflate:
		r, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("deflate: %v: %w", err, dataset.ErrCorruptDataset)
		}
		defer r.Close()
		return io.ReadAll(r)
	default:
		return nil, fmt.Errorf("compression %d: %w", compression, dataset.ErrUnsupportedEncoding)
	}
}

// undoHorizontalPredictor reverses TIFF predictor 2: within each row, every
// sample was stored as the difference from the same sample of the previous
// pixel.
func undoHorizontalPredictor(strip []byte, rowBytes, samples, elemSize int, order binary.ByteOrder) {
	pixelStride := samples * elemSize
	for rowStart := 0; rowStart+rowBytes <= len(strip); rowStart += rowBytes {
		row := strip[rowStart : rowStart+rowBytes]
		for pos := pixelStride; pos+elemSize <= len(row); pos += elemSize {
			prev := readUint(row[pos-pixelStride:], elemSize, order)
			cur := readUint(row[pos:], elemSize, order)
			writeUint(row[pos:], prev+cur, elemSize, order)
		}
	}
}

func readUint(b []byte, elemSize int, order binary.ByteOrder) uint64 {
	switch elemSize {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(order.Uint16(b))
	case 4:
		return uint64(order.Uint32(b))
	default:
		return order.Uint64(b)
	}
}

func writeUint(b []byte, v uint64, elemSize int, order binary.ByteOrder) {
	switch elemSize {
	case 1:
		b[0] = byte(v)
	case 2:
		order.PutUint16(b, uint16(v))
	case 4:
		order.PutUint32(b, uint32(v))
	default:
		order.PutUint64(b, v)
	}
}
