// Package reference reads and writes recorded hash mappings and reconciles
// them against freshly computed ones.
package reference

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/gridhash/gridhash/internal/dataset"
)

// Load reads a reference file: a JSON object mapping node paths to
// hex-encoded digest strings.
func Load(path string) (dataset.Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var mapping dataset.Mapping
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", path, err, dataset.ErrInvalidReference)
	}
	return mapping, nil
}

// Write records a mapping as indented JSON with a trailing newline, so
// reference files diff cleanly under version control.
func Write(path string, mapping dataset.Mapping) error {
	data, err := json.MarshalIndent(mapping, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Matches reports whether the generated mapping and the reference mapping
// are identical once every skipped path has been removed from both sides. A
// path present on one side only is a mismatch, not an error.
func Matches(generated, recorded dataset.Mapping, skippedPaths dataset.Set) bool {
	return generated.WithoutPaths(skippedPaths).Equal(recorded.WithoutPaths(skippedPaths))
}

// MismatchedPaths lists, sorted, every path whose digest differs between the
// two mappings after skipped paths are removed, including paths present on
// only one side. Used for reporting; Matches is the authoritative check.
func MismatchedPaths(generated, recorded dataset.Mapping, skippedPaths dataset.Set) []string {
	left := generated.WithoutPaths(skippedPaths)
	right := recorded.WithoutPaths(skippedPaths)

	seen := map[string]struct{}{}
	var paths []string
	for path, digest := range left {
		if right[path] != digest {
			paths = append(paths, path)
			seen[path] = struct{}{}
		}
	}
	for path := range right {
		if _, ok := left[path]; !ok {
			if _, dup := seen[path]; !dup {
				paths = append(paths, path)
			}
		}
	}
	sort.Strings(paths)
	return paths
}
