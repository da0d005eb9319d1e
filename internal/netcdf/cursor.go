package netcdf

import (
	"encoding/binary"
	"fmt"

	"github.com/gridhash/gridhash/internal/dataset"
)

// cursor walks the big-endian header of a classic file with bounds
// checking; every read failure is a corrupt-dataset error rather than a
// panic.
type cursor struct {
	data []byte
	pos  int
}

func (c *cursor) bytes(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.data) {
		return nil, fmt.Errorf("header truncated at byte %d: %w", c.pos, dataset.ErrCorruptDataset)
	}
	out := c.data[c.pos : c.pos+n]
	c.pos += n
	return out, nil
}

func (c *cursor) uint32() (uint32, error) {
	raw, err := c.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(raw), nil
}

// offset reads a variable's begin offset: 32 bits in CDF-1, 64 in CDF-2.
func (c *cursor) offset(width int) (int64, error) {
	raw, err := c.bytes(width)
	if err != nil {
		return 0, err
	}
	if width == 8 {
		return int64(binary.BigEndian.Uint64(raw)), nil
	}
	return int64(binary.BigEndian.Uint32(raw)), nil
}

// name reads a length-prefixed name padded to a four-byte boundary.
func (c *cursor) name() (string, error) {
	length, err := c.uint32()
	if err != nil {
		return "", err
	}
	raw, err := c.bytes(pad4(int(length)))
	if err != nil {
		return "", err
	}
	return string(raw[:length]), nil
}

// listHeader consumes a tagged list header and returns the element count.
// An absent list is encoded as two zero words.
func (c *cursor) listHeader(tag uint32) (int, error) {
	gotTag, err := c.uint32()
	if err != nil {
		return 0, err
	}
	count, err := c.uint32()
	if err != nil {
		return 0, err
	}
	if gotTag == 0 && count == 0 {
		return 0, nil
	}
	if gotTag != tag {
		return 0, fmt.Errorf("list tag 0x%02X, want 0x%02X: %w", gotTag, tag, dataset.ErrCorruptDataset)
	}
	return int(count), nil
}
