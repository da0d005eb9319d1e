package dataset

// Set is an unordered collection of names. The zero value is usable: a nil
// Set contains nothing.
type Set map[string]struct{}

// NewSet builds a Set from the given names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, name := range names {
		s[name] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Mapping is a node path to hex digest mapping, either freshly generated or
// loaded from a recorded reference file.
type Mapping map[string]string

// WithoutPaths returns a copy of the mapping with the given paths removed.
// The receiver is never mutated; every call builds a fresh mapping.
func (m Mapping) WithoutPaths(paths Set) Mapping {
	out := make(Mapping, len(m))
	for path, digest := range m {
		if paths.Has(path) {
			continue
		}
		out[path] = digest
	}
	return out
}

// Equal reports whether the two mappings have identical key sets and an
// identical digest for every key.
func (m Mapping) Equal(other Mapping) bool {
	if len(m) != len(other) {
		return false
	}
	for path, digest := range m {
		if other[path] != digest {
			return false
		}
	}
	return true
}
