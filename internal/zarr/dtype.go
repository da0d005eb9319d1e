package zarr

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gridhash/gridhash/internal/dataset"
)

// dtypeInfo is the decoded form of a numpy-style dtype string such as
// "<f8" or ">i2".
type dtypeInfo struct {
	kind      byte // 'i', 'u' or 'f'
	size      int
	bigEndian bool
}

func parseDType(s string) (dtypeInfo, error) {
	spec := s
	var info dtypeInfo
	if spec == "" {
		return info, fmt.Errorf("empty dtype: %w", dataset.ErrCorruptDataset)
	}
	switch spec[0] {
	case '<', '|', '=':
		spec = spec[1:]
	case '>':
		info.bigEndian = true
		spec = spec[1:]
	}
	if len(spec) < 2 {
		return info, fmt.Errorf("dtype %q: %w", s, dataset.ErrUnsupportedEncoding)
	}

	info.kind = spec[0]
	size, err := strconv.Atoi(spec[1:])
	if err != nil {
		return info, fmt.Errorf("dtype %q: %w", s, dataset.ErrUnsupportedEncoding)
	}
	info.size = size

	switch info.kind {
	case 'i', 'u':
		if size == 1 || size == 2 || size == 4 || size == 8 {
			return info, nil
		}
	case 'f':
		if size == 4 || size == 8 {
			return info, nil
		}
	}
	return info, fmt.Errorf("dtype %q: %w", s, dataset.ErrUnsupportedEncoding)
}

// fillElement encodes the .zarray fill_value as one little-endian element.
// A null or absent fill value encodes as zero bytes. Floats accept the
// zarr spellings "NaN", "Infinity" and "-Infinity".
func fillElement(raw []byte, dtype dtypeInfo) ([]byte, error) {
	element := make([]byte, dtype.size)
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		return element, nil
	}

	switch dtype.kind {
	case 'i', 'u':
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("fill_value %s: %w", text, dataset.ErrCorruptDataset)
		}
		putUint(element, uint64(n))
	case 'f':
		f, err := parseFloatFill(text)
		if err != nil {
			return nil, err
		}
		if dtype.size == 4 {
			binary.LittleEndian.PutUint32(element, math.Float32bits(float32(f)))
		} else {
			binary.LittleEndian.PutUint64(element, math.Float64bits(f))
		}
	}
	return element, nil
}

func parseFloatFill(text string) (float64, error) {
	switch strings.Trim(text, `"`) {
	case "NaN":
		return math.NaN(), nil
	case "Infinity":
		return math.Inf(1), nil
	case "-Infinity":
		return math.Inf(-1), nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("fill_value %s: %w", text, dataset.ErrCorruptDataset)
	}
	return f, nil
}

func putUint(dst []byte, v uint64) {
	for i := range dst {
		dst[i] = byte(v >> (8 * i))
	}
}
