package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gridhash/gridhash/internal/config"
	"github.com/gridhash/gridhash/pkg/gridhash"
)

// Environment variables providing flag defaults. A .env file in the working
// directory is loaded first, so CI jobs can pin exclusions without flags.
const (
	envPolicyFile     = "GRIDHASH_POLICY"
	envSkipNodes      = "GRIDHASH_SKIP_NODES"
	envSkipAttributes = "GRIDHASH_SKIP_ATTRIBUTES"
)

type policyFlagValues struct {
	skipNodes      []string
	skipAttributes []string
	policyFile     string
}

func registerPolicyFlags(cmd *cobra.Command, flags *policyFlagValues) {
	cmd.Flags().StringSliceVar(&flags.skipNodes, "skip-node", nil,
		"Dataset node path to exclude (can be specified multiple times)\n"+
			"Excluded paths are omitted on generate and ignored on compare\n"+
			"Example: --skip-node /metadata/history_record")
	cmd.Flags().StringSliceVar(&flags.skipAttributes, "skip-attribute", nil,
		"Attribute name to exclude on every node (can be specified multiple times)\n"+
			"history and history_json are always excluded, case-insensitively")
	cmd.Flags().StringVar(&flags.policyFile, "policy", "",
		"YAML policy file with standing skip_nodes / skip_attributes lists\n"+
			"(default: gridhash.yaml in the working directory, if present)")
}

// resolvedPolicy is the merged outcome of .env defaults, the YAML policy
// file and CLI flags. CLI values extend the file lists rather than
// replacing them.
type resolvedPolicy struct {
	skip      gridhash.SkipSpec
	reference string
}

func resolvePolicy(flags *policyFlagValues, verbose bool) (resolvedPolicy, error) {
	_ = godotenv.Load()

	policyFile := flags.policyFile
	if policyFile == "" {
		policyFile = os.Getenv(envPolicyFile)
	}

	var resolved resolvedPolicy
	cfg, err := config.Load(policyFile)
	switch {
	case err == nil:
		resolved.skip.Nodes = append(resolved.skip.Nodes, cfg.SkipNodes...)
		resolved.skip.Attributes = append(resolved.skip.Attributes, cfg.SkipAttributes...)
		resolved.reference = cfg.Reference
		if verbose {
			fmt.Fprintf(os.Stderr, "[VERBOSE] Loaded policy file (%d nodes, %d attributes excluded)\n",
				len(cfg.SkipNodes), len(cfg.SkipAttributes))
		}
	case errors.Is(err, config.ErrConfigNotFound) && policyFile == "":
		// No standing policy; flags and environment stand alone.
	default:
		return resolvedPolicy{}, err
	}

	resolved.skip.Nodes = append(resolved.skip.Nodes, splitList(os.Getenv(envSkipNodes))...)
	resolved.skip.Attributes = append(resolved.skip.Attributes, splitList(os.Getenv(envSkipAttributes))...)

	resolved.skip.Nodes = append(resolved.skip.Nodes, flags.skipNodes...)
	resolved.skip.Attributes = append(resolved.skip.Attributes, flags.skipAttributes...)

	return resolved, nil
}

// skipArg converts the merged skip lists to the pointer form the
// polymorphic API takes: nil when nothing is excluded, so raster datasets
// stay reachable without a policy.
func (r resolvedPolicy) skipArg() *gridhash.SkipSpec {
	if len(r.skip.Nodes) == 0 && len(r.skip.Attributes) == 0 {
		return nil
	}
	skip := r.skip
	return &skip
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// referencePathFor resolves the reference hash file path: an explicit
// positional argument wins, then the policy file's reference entry, then
// the dataset path with the conventional suffix appended.
func referencePathFor(args []string, resolved resolvedPolicy) string {
	if len(args) > 1 {
		return args[1]
	}
	if resolved.reference != "" {
		return resolved.reference
	}
	return args[0] + gridhash.DefaultReferenceSuffix
}
