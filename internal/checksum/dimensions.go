package checksum

import (
	"sort"
	"strings"
)

// GroupDimensionBytes renders a group's axis names order-insensitively:
// names are sorted, then rendered as a bracketed list. Declaration order of
// container-level dimensions carries no meaning.
func GroupDimensionBytes(names []string) []byte {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)
	return renderNames(sorted, '[', ']', false)
}

// VariableDimensionBytes renders a variable's axis names order-sensitively
// in declared order, as a parenthesized tuple. A variable and its transpose
// always produce different bytes.
func VariableDimensionBytes(names []string) []byte {
	return renderNames(names, '(', ')', len(names) == 1)
}

// renderNames joins quoted names with ", " inside the given markers. The
// trailing comma distinguishes a one-element tuple from a parenthesized
// scalar, mirroring the shape descriptor convention in array.go.
func renderNames(names []string, open, close byte, trailingComma bool) []byte {
	var b strings.Builder
	b.WriteByte(open)
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteText(name))
	}
	if trailingComma {
		b.WriteByte(',')
	}
	b.WriteByte(close)
	return []byte(b.String())
}
