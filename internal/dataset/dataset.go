package dataset

import "sort"

// RootPath is the path of the root group of every hierarchical dataset.
const RootPath = "/"

// Group is a container node: it owns attributes, child groups and variables,
// but never array data.
type Group struct {
	Attributes map[string]Value
	Variables  map[string]*Variable
	Groups     map[string]*Group
}

// NewGroup returns an empty group with all maps allocated.
func NewGroup() *Group {
	return &Group{
		Attributes: map[string]Value{},
		Variables:  map[string]*Variable{},
		Groups:     map[string]*Group{},
	}
}

// AxisNames returns the union of axis names declared by the group's own
// variables, sorted for determinism. Child groups do not contribute: a
// group's digest is a pure function of the group itself.
func (g *Group) AxisNames() []string {
	seen := map[string]struct{}{}
	for _, v := range g.Variables {
		for _, dim := range v.Dimensions {
			seen[dim] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Variable is a leaf node: a data or coordinate variable with a declared
// axis order and an attached array.
type Variable struct {
	Attributes map[string]Value
	Dimensions []string
	Data       *Array
}

// Array holds raw element bytes in little-endian, row-major order.
// ElemSize is the width of a single element in bytes.
type Array struct {
	Shape    []int
	ElemSize int
	Data     []byte
}

// Len returns the element count implied by the shape.
func (a *Array) Len() int {
	n := 1
	for _, dim := range a.Shape {
		n *= dim
	}
	return n
}

// Raster is a flat single-layer raster: the full tag set of the source file
// plus one pixel array. The hashing engine treats it as a single node.
type Raster struct {
	Tags   []RasterTag
	Pixels *Array
}

// RasterTag is one entry of a raster file's tag directory, kept in the form
// the reader saw it: numeric code, field type code, value count, the decoded
// value rendered as a deterministic string, and whether the value was stored
// inline in the directory entry.
type RasterTag struct {
	Code   uint16
	Type   uint16
	Count  uint32
	Value  string
	Inline bool
}

// JoinPath appends a child segment to a POSIX-style node path.
func JoinPath(parent, name string) string {
	if parent == RootPath {
		return RootPath + name
	}
	return parent + "/" + name
}
