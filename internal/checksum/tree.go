package checksum

import (
	"fmt"
	"sort"

	"github.com/gridhash/gridhash/internal/dataset"
)

// TreeMapping hashes every node of a hierarchical dataset: the root group,
// every nested group, and every variable. Paths are built by joining
// ancestor segments with "/", the root being "/".
//
// The walk uses an explicit worklist rather than recursion, so traversal
// depth is bounded by the worklist and independent of tree depth. skipped
// contains attribute names excluded from canonicalization; node-path
// skipping is a later concern, applied to the finished mapping.
func TreeMapping(root *dataset.Group, skipped dataset.Set) (dataset.Mapping, error) {
	type frame struct {
		path  string
		group *dataset.Group
	}

	mapping := dataset.Mapping{}
	stack := []frame{{path: dataset.RootPath, group: root}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		digest, err := GroupDigest(f.group, skipped)
		if err != nil {
			return nil, fmt.Errorf("hashing group %s: %w", f.path, err)
		}
		mapping[f.path] = digest

		for _, name := range sortedVariableNames(f.group) {
			path := dataset.JoinPath(f.path, name)
			digest, err := VariableDigest(f.group.Variables[name], skipped)
			if err != nil {
				return nil, fmt.Errorf("hashing variable %s: %w", path, err)
			}
			mapping[path] = digest
		}

		for _, name := range sortedGroupNames(f.group) {
			stack = append(stack, frame{
				path:  dataset.JoinPath(f.path, name),
				group: f.group.Groups[name],
			})
		}
	}

	return mapping, nil
}

// GroupDigest hashes one group from its own attributes and the sorted union
// of its variables' axis names. Child nodes never contribute.
func GroupDigest(g *dataset.Group, skipped dataset.Set) (string, error) {
	metadata, err := MetadataBytes(g.Attributes, skipped)
	if err != nil {
		return "", err
	}
	return NodeDigest(metadata, GroupDimensionBytes(g.AxisNames()), nil), nil
}

// VariableDigest hashes one variable from its attributes, its declared axis
// order, and its array.
func VariableDigest(v *dataset.Variable, skipped dataset.Set) (string, error) {
	metadata, err := MetadataBytes(v.Attributes, skipped)
	if err != nil {
		return "", err
	}
	return NodeDigest(metadata, VariableDimensionBytes(v.Dimensions), ArrayBytes(v.Data)), nil
}

func sortedVariableNames(g *dataset.Group) []string {
	names := make([]string, 0, len(g.Variables))
	for name := range g.Variables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedGroupNames(g *dataset.Group) []string {
	names := make([]string, 0, len(g.Groups))
	for name := range g.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
