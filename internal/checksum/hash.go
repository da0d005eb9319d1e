package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// NodeDigest combines the canonical segments of one node into its hex
// SHA-256 digest. Segment order is fixed: metadata, dimensions, array. A nil
// array segment is omitted entirely rather than substituted with a
// placeholder; "no array" stays distinguishable from "empty array" because a
// present array segment always begins with its shape descriptor.
func NodeDigest(metadata, dimensions, array []byte) string {
	h := sha256.New()
	h.Write(metadata)
	h.Write(dimensions)
	if array != nil {
		h.Write(array)
	}
	return hex.EncodeToString(h.Sum(nil))
}
