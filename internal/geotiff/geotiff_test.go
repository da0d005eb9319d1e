package geotiff

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridhash/gridhash/internal/dataset"
)

// ifdEntry is a directory entry under construction; value holds either the
// inline payload (padded to 4 bytes) or a placeholder patched with an
// offset once out-of-line payloads are placed.
type ifdEntry struct {
	tag       uint16
	fieldType uint16
	count     uint32
	inline    []byte
	extern    []byte
}

// buildTIFF assembles a little-endian classic TIFF: header, pixel strips,
// out-of-line tag payloads, then the directory.
func buildTIFF(t *testing.T, entries []ifdEntry, strips [][]byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	le := binary.LittleEndian

	u16 := func(v uint16) {
		var raw [2]byte
		le.PutUint16(raw[:], v)
		buf.Write(raw[:])
	}
	u32 := func(v uint32) {
		var raw [4]byte
		le.PutUint32(raw[:], v)
		buf.Write(raw[:])
	}

	buf.WriteString("II")
	u16(42)
	ifdOffsetAt := buf.Len()
	u32(0) // patched below

	stripOffsets := make([]uint32, len(strips))
	for i, strip := range strips {
		stripOffsets[i] = uint32(buf.Len())
		buf.Write(strip)
	}

	externOffsets := make([]uint32, len(entries))
	for i, e := range entries {
		if e.extern != nil {
			externOffsets[i] = uint32(buf.Len())
			buf.Write(e.extern)
		}
	}

	// Strip offsets/counts become LONG payloads referencing the data above.
	for i := range entries {
		e := &entries[i]
		switch e.tag {
		case tagStripOffsets:
			payload := make([]byte, 4*len(strips))
			for j, off := range stripOffsets {
				le.PutUint32(payload[4*j:], off)
			}
			e.fieldType = 4
			e.count = uint32(len(strips))
			if len(payload) <= 4 {
				e.inline = payload
			} else {
				e.extern = nil
				externOffsets[i] = uint32(buf.Len())
				buf.Write(payload)
			}
		case tagStripByteCounts:
			payload := make([]byte, 4*len(strips))
			for j, strip := range strips {
				le.PutUint32(payload[4*j:], uint32(len(strip)))
			}
			e.fieldType = 4
			e.count = uint32(len(strips))
			if len(payload) <= 4 {
				e.inline = payload
			} else {
				externOffsets[i] = uint32(buf.Len())
				buf.Write(payload)
			}
		}
	}

	ifdOffset := uint32(buf.Len())
	u16(uint16(len(entries)))
	for i, e := range entries {
		u16(e.tag)
		u16(e.fieldType)
		u32(e.count)
		if e.inline != nil {
			padded := make([]byte, 4)
			copy(padded, e.inline)
			buf.Write(padded)
		} else {
			u32(externOffsets[i])
		}
	}
	u32(0) // no further directories

	out := buf.Bytes()
	le.PutUint32(out[ifdOffsetAt:], ifdOffset)
	return out
}

func shortEntry(tag uint16, value uint16) ifdEntry {
	inline := make([]byte, 2)
	binary.LittleEndian.PutUint16(inline, value)
	return ifdEntry{tag: tag, fieldType: 3, count: 1, inline: inline}
}

func asciiEntry(tag uint16, text string) ifdEntry {
	payload := append([]byte(text), 0)
	e := ifdEntry{tag: tag, fieldType: 2, count: uint32(len(payload))}
	if len(payload) <= 4 {
		e.inline = payload
	} else {
		e.extern = payload
	}
	return e
}

func uint16LE(values ...uint16) []byte {
	data := make([]byte, 0, 2*len(values))
	for _, v := range values {
		data = binary.LittleEndian.AppendUint16(data, v)
	}
	return data
}

func sampleEntries() []ifdEntry {
	return []ifdEntry{
		shortEntry(tagImageWidth, 3),
		shortEntry(tagImageLength, 2),
		shortEntry(tagBitsPerSample, 16),
		shortEntry(tagCompression, compressionNone),
		{tag: tagStripOffsets},
		shortEntry(tagSamplesPerPixel, 1),
		shortEntry(tagRowsPerStrip, 2),
		{tag: tagStripByteCounts},
		asciiEntry(42113, "-9999"),
	}
}

func TestParse_UncompressedStrips(t *testing.T) {
	data := buildTIFF(t, sampleEntries(), [][]byte{uint16LE(1, 2, 3, 4, 5, 6)})

	raster, err := parse(data)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 3}, raster.Pixels.Shape)
	assert.Equal(t, 2, raster.Pixels.ElemSize)
	assert.Equal(t, uint16LE(1, 2, 3, 4, 5, 6), raster.Pixels.Data)

	byCode := map[uint16]dataset.RasterTag{}
	for _, tag := range raster.Tags {
		byCode[tag.Code] = tag
	}
	assert.Equal(t, "3", byCode[tagImageWidth].Value)
	assert.Equal(t, "-9999", byCode[42113].Value)
	assert.False(t, byCode[42113].Inline)
	assert.True(t, byCode[tagImageWidth].Inline)
}

func TestParse_MultipleStrips(t *testing.T) {
	entries := sampleEntries()
	entries[6] = shortEntry(tagRowsPerStrip, 1)
	data := buildTIFF(t, entries, [][]byte{uint16LE(1, 2, 3), uint16LE(4, 5, 6)})

	raster, err := parse(data)
	require.NoError(t, err)
	assert.Equal(t, uint16LE(1, 2, 3, 4, 5, 6), raster.Pixels.Data)
}

func TestParse_DeflateWithPredictor(t *testing.T) {
	// Horizontal differencing of rows (1,2,3) and (4,5,6).
	diffed := uint16LE(1, 1, 1, 4, 1, 1)
	var compressed bytes.Buffer
	w := zlib.NewWriter(&compressed)
	_, err := w.Write(diffed)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	entries := sampleEntries()
	entries[3] = shortEntry(tagCompression, compressionDeflate)
	entries = append(entries, shortEntry(tagPredictor, 2))
	data := buildTIFF(t, entries, [][]byte{compressed.Bytes()})

	raster, err := parse(data)
	require.NoError(t, err)
	assert.Equal(t, uint16LE(1, 2, 3, 4, 5, 6), raster.Pixels.Data)
}

func TestParse_MultiBandBecomesBandMajor(t *testing.T) {
	entries := []ifdEntry{
		shortEntry(tagImageWidth, 2),
		shortEntry(tagImageLength, 1),
		shortEntry(tagBitsPerSample, 8),
		shortEntry(tagCompression, compressionNone),
		{tag: tagStripOffsets},
		shortEntry(tagSamplesPerPixel, 2),
		shortEntry(tagRowsPerStrip, 1),
		{tag: tagStripByteCounts},
	}
	// Chunky pixels: (r0,g0),(r1,g1).
	data := buildTIFF(t, entries, [][]byte{{10, 20, 11, 21}})

	raster, err := parse(data)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 1, 2}, raster.Pixels.Shape)
	assert.Equal(t, []byte{10, 11, 20, 21}, raster.Pixels.Data)
}

func TestParse_TiledRejected(t *testing.T) {
	entries := sampleEntries()
	entries = append(entries, shortEntry(tagTileWidth, 16))
	data := buildTIFF(t, entries, [][]byte{uint16LE(1, 2, 3, 4, 5, 6)})

	_, err := parse(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrUnsupportedEncoding)
}

func TestParse_UnknownCompressionRejected(t *testing.T) {
	entries := sampleEntries()
	entries[3] = shortEntry(tagCompression, 5) // LZW
	data := buildTIFF(t, entries, [][]byte{uint16LE(1, 2, 3, 4, 5, 6)})

	_, err := parse(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrUnsupportedEncoding)
}

func TestParse_NotATIFF(t *testing.T) {
	_, err := parse([]byte("PK\x03\x04 definitely a zip"))
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrCorruptDataset)
}

func TestParse_BigTIFFRejected(t *testing.T) {
	data := []byte{'I', 'I', 43, 0, 8, 0, 0, 0}
	_, err := parse(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrUnsupportedEncoding)
}
