// Package checksum is the canonical hashing engine.
//
// It turns a node's attribute set, axis layout and (for leaves) raw array
// into a single SHA-256 digest, and applies that per-node recipe across a
// whole hierarchical dataset or a flat raster. Digests are content
// fingerprints: no salt, no keying.
//
// # Canonicalization rules
//
//   - Attributes are filtered (built-in volatile names plus the caller's
//     skip set), normalized per value kind, sorted by name and rendered to a
//     stable textual form. Array-valued attributes are replaced by their own
//     array digest rather than inlined.
//   - Axis names are rendered order-insensitively for groups (sorted) and
//     order-sensitively for variables (declared order). The two modes use
//     distinct list markers so they can never collide.
//   - Arrays contribute their shape descriptor followed by their raw
//     little-endian row-major element bytes.
//
// Every node digest is a pure function of that node alone: two groups with
// identical surviving attributes and identical axis-name sets hash the same
// even when their children differ.
//
// All functions are pure and safe for concurrent use.
package checksum
