package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/gridhash/gridhash/pkg/gridhash"
)

var hashCmd = &cobra.Command{
	Use:   "hash <dataset_path>",
	Short: "Print a dataset's node digests without recording them",
	Long: `Hash prints one "path  digest" line per node to stdout, sorted by path.
Useful for spot checks and shell pipelines; generate is the recording
counterpart.`,
	Args: cobra.ExactArgs(1),
	RunE: runHash,
}

var hashFlags policyFlagValues

func init() {
	rootCmd.AddCommand(hashCmd)
	registerPolicyFlags(hashCmd, &hashFlags)
}

func runHash(cmd *cobra.Command, args []string) error {
	resolved, err := resolvePolicy(&hashFlags, getVerboseFlag(cmd))
	if err != nil {
		return err
	}

	hashes, err := gridhash.Hashes(args[0], resolved.skipArg())
	if err != nil {
		return err
	}

	paths := make([]string, 0, len(hashes))
	for path := range hashes {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", hashes[path], path)
	}
	return nil
}
