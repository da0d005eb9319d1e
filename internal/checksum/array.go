package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/gridhash/gridhash/internal/dataset"
)

// ArrayBytes renders an array into its canonical byte sequence: the shape
// descriptor followed by the raw little-endian row-major element bytes. A
// nil array yields nil, which the node hasher treats as a genuinely absent
// segment — distinct from an empty array, whose shape descriptor survives.
func ArrayBytes(a *dataset.Array) []byte {
	if a == nil {
		return nil
	}
	shape := shapeText(a.Shape)
	out := make([]byte, 0, len(shape)+len(a.Data))
	out = append(out, shape...)
	out = append(out, a.Data...)
	return out
}

// ArrayDigest returns the hex SHA-256 of the array's canonical bytes. Used
// for array-valued attributes, which are folded into metadata by digest
// rather than inlined.
func ArrayDigest(a *dataset.Array) string {
	sum := sha256.Sum256(ArrayBytes(a))
	return hex.EncodeToString(sum[:])
}

// shapeText renders a shape as a tuple descriptor: "()" for scalars,
// "(2,)" for one dimension, "(2, 3)" beyond.
func shapeText(shape []int) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, dim := range shape {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(dim))
	}
	if len(shape) == 1 {
		b.WriteByte(',')
	}
	b.WriteByte(')')
	return b.String()
}
