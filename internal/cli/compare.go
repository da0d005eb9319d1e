package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridhash/gridhash/internal/logging"
	"github.com/gridhash/gridhash/pkg/gridhash"
)

var compareCmd = &cobra.Command{
	Use:   "compare <dataset_path> [reference_path]",
	Short: "Verify a dataset against its recorded reference hashes",
	Long: `Compare regenerates a dataset's path-to-digest mapping and reconciles it
against the recorded reference hash file. Node paths excluded by the skip
policy are removed from both sides before reconciliation.

A matching dataset exits 0. A mismatch lists every differing node path,
including paths present on only one side, and exits 1.

Arguments:
  dataset_path     Path to the dataset file or directory store
  reference_path   Reference hash file to verify against
                   (default: the policy file's reference entry, or
                   <dataset_path>` + gridhash.DefaultReferenceSuffix + `)

Examples:
  # Verify a regression test fixture
  gridhash compare ./granule.zarr ref/granule.json

  # Ignore a subtree that legitimately drifts
  gridhash compare ./granule.nc --skip-node /metadata/history_record`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCompare,
}

var compareFlags policyFlagValues

func init() {
	rootCmd.AddCommand(compareCmd)
	registerPolicyFlags(compareCmd, &compareFlags)
}

func runCompare(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	resolved, err := resolvePolicy(&compareFlags, verbose)
	if err != nil {
		return err
	}

	datasetPath := args[0]
	referencePath := referencePathFor(args, resolved)

	mismatched, err := gridhash.MismatchedPaths(datasetPath, referencePath, resolved.skipArg())
	if err != nil {
		return err
	}

	if len(mismatched) == 0 {
		logger.Info("%s matches %s", datasetPath, referencePath)
		return nil
	}

	logger.Error("%s does not match %s:", datasetPath, referencePath)
	for _, path := range mismatched {
		logger.Error("  %s", path)
	}
	return fmt.Errorf("%d path(s) differ: %w", len(mismatched), gridhash.ErrHashMismatch)
}
