package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gridhash/gridhash/internal/logging"
	"github.com/gridhash/gridhash/internal/ui"
	"github.com/gridhash/gridhash/pkg/gridhash"
)

var generateCmd = &cobra.Command{
	Use:   "generate <dataset_path> [reference_path]",
	Short: "Record a dataset's reference hash file",
	Long: `Generate hashes every node of a dataset and records the path-to-digest
mapping as a flat JSON reference file.

The dataset format is resolved from the file extension:
  .zarr        Zarr v2 directory store
  .nc, .cdf    netCDF classic (CDF-1, CDF-2)
  .tif, .tiff  GeoTIFF (single-layer raster)

Arguments:
  dataset_path     Path to the dataset file or directory store
  reference_path   Where to write the reference hash file
                   (default: the policy file's reference entry, or
                   <dataset_path>` + gridhash.DefaultReferenceSuffix + `)

Skip exclusions apply to hierarchical formats only; supplying them for a
GeoTIFF is an error rather than silently ignored.

Examples:
  # Record reference hashes next to the granule
  gridhash generate ./granule.zarr

  # Explicit output path, excluding a provenance subtree
  gridhash generate ./granule.nc ref/granule.json \
    --skip-node /metadata/history_record

  # Re-record after an intentional data change
  gridhash generate ./granule.zarr --force`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runGenerate,
}

type generateFlagValues struct {
	policy policyFlagValues
	force  bool
}

var generateFlags generateFlagValues

func init() {
	rootCmd.AddCommand(generateCmd)

	registerPolicyFlags(generateCmd, &generateFlags.policy)
	generateCmd.Flags().BoolVar(&generateFlags.force, "force", false,
		"Overwrite an existing reference hash file")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	resolved, err := resolvePolicy(&generateFlags.policy, verbose)
	if err != nil {
		return err
	}

	datasetPath := args[0]
	referencePath := referencePathFor(args, resolved)

	if _, err := os.Stat(referencePath); err == nil {
		var approver gridhash.Approver
		if generateFlags.force {
			approver = ui.NewForcedApprover(verbose)
		} else {
			approver = ui.NewInteractiveApprover(verbose)
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		approved, err := approver.RequestApproval(ctx, referencePath)
		if err != nil {
			return err
		}
		if !approved {
			return fmt.Errorf("%s (use --force to overwrite): %w",
				referencePath, gridhash.ErrReferenceExists)
		}
	}

	hashes, err := gridhash.Hashes(datasetPath, resolved.skipArg())
	if err != nil {
		return err
	}
	logger.Verbose("Hashed %d node(s) in %s", len(hashes), datasetPath)

	if err := gridhash.WriteHashFile(referencePath, hashes); err != nil {
		return err
	}

	logger.Info("Recorded %d reference hash(es) in %s", len(hashes), referencePath)
	return nil
}
