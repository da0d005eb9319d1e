package geotiff

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// render decodes an entry's payload into a deterministic string: ASCII as
// the text itself (trailing NULs dropped), integers and floats as
// space-joined decimals, rationals as "numerator/denominator".
func (e entry) render(order binary.ByteOrder) string {
	switch e.fieldType {
	case 2: // ASCII
		return strings.TrimRight(string(e.value), "\x00")
	case 1, 7: // BYTE, UNDEFINED
		return joinInts(len(e.value), func(i int) string {
			return strconv.FormatUint(uint64(e.value[i]), 10)
		})
	case 6: // SBYTE
		return joinInts(len(e.value), func(i int) string {
			return strconv.FormatInt(int64(int8(e.value[i])), 10)
		})
	case 3: // SHORT
		return joinInts(len(e.value)/2, func(i int) string {
			return strconv.FormatUint(uint64(order.Uint16(e.value[2*i:])), 10)
		})
	case 8: // SSHORT
		return joinInts(len(e.value)/2, func(i int) string {
			return strconv.FormatInt(int64(int16(order.Uint16(e.value[2*i:]))), 10)
		})
	case 4: // LONG
		return joinInts(len(e.value)/4, func(i int) string {
			return strconv.FormatUint(uint64(order.Uint32(e.value[4*i:])), 10)
		})
	case 9: // SLONG
		return joinInts(len(e.value)/4, func(i int) string {
			return strconv.FormatInt(int64(int32(order.Uint32(e.value[4*i:]))), 10)
		})
	case 5: // RATIONAL
		return joinInts(len(e.value)/8, func(i int) string {
			return fmt.Sprintf("%d/%d", order.Uint32(e.value[8*i:]), order.Uint32(e.value[8*i+4:]))
		})
	case 10: // SRATIONAL
		return joinInts(len(e.value)/8, func(i int) string {
			return fmt.Sprintf("%d/%d",
				int32(order.Uint32(e.value[8*i:])), int32(order.Uint32(e.value[8*i+4:])))
		})
	case 11: // FLOAT
		return joinInts(len(e.value)/4, func(i int) string {
			f := math.Float32frombits(order.Uint32(e.value[4*i:]))
			return strconv.FormatFloat(float64(f), 'g', -1, 32)
		})
	case 12: // DOUBLE
		return joinInts(len(e.value)/8, func(i int) string {
			f := math.Float64frombits(order.Uint64(e.value[8*i:]))
			return strconv.FormatFloat(f, 'g', -1, 64)
		})
	default:
		// Unknown field type: fall back to the raw bytes in hex.
		return fmt.Sprintf("%x", e.value)
	}
}

func joinInts(n int, format func(i int) string) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = format(i)
	}
	return strings.Join(parts, " ")
}
