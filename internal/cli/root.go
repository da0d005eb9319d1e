package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const asciiLogo = `             _     _ _               _
   __ _ _ __(_) __| | |__   __ _ ___| |__
  / _' | '__| |/ _' | '_ \ / _' / __| '_ \
 | (_| | |  | | (_| | | | | (_| \__ \ | | |
  \__, |_|  |_|\__,_|_| |_|\__,_|___/_| |_|
  |___/`

var rootCmd = &cobra.Command{
	Use:   "gridhash",
	Short: "Deterministic content hashes for scientific array datasets",
	Long: asciiLogo + `

gridhash walks Zarr stores, classic netCDF files and GeoTIFF scenes,
canonicalizes each node's metadata, dimensions and array bytes, and records
one SHA-256 digest per node path in a flat JSON reference file. Regenerating
the mapping from an equivalent dataset answers "did the data change" without
byte-level diffs, across machines and rewrites of the same content.

Exit Codes:
   0 - Success (dataset matches on compare)
   1 - General error, or dataset does not match its reference
   2 - CLI usage error (invalid arguments or flags)
   3 - Panic or unexpected system error
  10 - Dataset extension outside the supported set
  11 - Skip policy not accepted by the dataset's format
  12 - Dataset bytes invalid for the resolved format
  13 - Dataset uses an encoding the readers do not handle
  14 - Reference hash file unreadable or malformed
  15 - Refused to overwrite an existing reference without --force`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for gridhash")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
