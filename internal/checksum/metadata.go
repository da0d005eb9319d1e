package checksum

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/gridhash/gridhash/internal/dataset"
)

// Attribute names excluded from every hash, regardless of caller policy.
// Provenance bookkeeping changes on every pipeline run.
var volatileNames = []string{"history", "history_json"}

// IsVolatileAttribute reports whether the attribute name matches the
// built-in volatile set. The match is case-insensitive.
func IsVolatileAttribute(name string) bool {
	for _, volatile := range volatileNames {
		if strings.EqualFold(name, volatile) {
			return true
		}
	}
	return false
}

// MetadataBytes renders an attribute set into its canonical byte sequence.
//
// Attributes whose name is volatile or in the skipped set are removed.
// Surviving values are normalized per kind, then rendered sorted by name as
//
//	{"name": value, "other": value}
//
// so two attribute sets with the same surviving names and normalized values
// produce identical bytes regardless of map iteration order.
func MetadataBytes(attributes map[string]dataset.Value, skipped dataset.Set) ([]byte, error) {
	names := make([]string, 0, len(attributes))
	for name := range attributes {
		if IsVolatileAttribute(name) || skipped.Has(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteByte('{')
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		text, err := canonicalValue(attributes[name])
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		b.WriteString(quoteText(name))
		b.WriteString(": ")
		b.WriteString(text)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// canonicalValue normalizes one attribute value into canonical text. Each
// variant of the value union has its own rule; there is no fallback for
// unknown kinds.
func canonicalValue(value dataset.Value) (string, error) {
	switch v := value.(type) {
	case dataset.IntValue:
		return strconv.FormatInt(int64(v), 10), nil
	case dataset.FloatValue:
		return canonicalFloat(float64(v))
	case dataset.StringValue:
		return quoteText(string(v)), nil
	case dataset.ArrayValue:
		if v.Array == nil {
			return "", fmt.Errorf("empty array value: %w", dataset.ErrNonSerialisableValue)
		}
		return quoteText(ArrayDigest(v.Array)), nil
	default:
		return "", fmt.Errorf("unknown value kind %T: %w", value, dataset.ErrNonSerialisableValue)
	}
}

// canonicalFloat renders a float with the shortest round-trip decimal form,
// forcing a ".0" suffix onto integral values so an integer attribute and a
// float attribute of equal value never render identically.
func canonicalFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("non-finite float %v: %w", f, dataset.ErrNonSerialisableValue)
	}
	text := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(text, ".eE") {
		text += ".0"
	}
	return text, nil
}

// quoteText renders a string as a JSON string literal. json.Marshal on a
// string cannot fail and gives a stable escaping for every input.
func quoteText(s string) string {
	quoted, _ := json.Marshal(s)
	return string(quoted)
}
