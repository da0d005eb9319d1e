package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gridhash/gridhash/internal/logging"
	"github.com/gridhash/gridhash/internal/scaffold"
)

var initCmd = &cobra.Command{
	Use:   "init <project_path>",
	Short: "Initialize a dataset verification project",
	Long: `Init creates a starter gridhash.yaml policy file and a .env.example in
the given directory, ready to commit next to your regression fixtures.

The directory must be empty or absent; existing files are never touched.

Examples:
  gridhash init ./fixtures
  gridhash init . --template default`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

var initTemplate string

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initTemplate, "template", "default",
		"Project template to instantiate")
}

func runInit(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewConsoleLogger(verbose)

	targetPath := args[0]
	projectName := filepath.Base(mustAbs(targetPath))

	s := scaffold.NewScaffolder(verbose)
	if err := s.CreateProject(projectName, initTemplate, targetPath); err != nil {
		return err
	}

	logger.Info("Initialized %s in %s", projectName, targetPath)
	logger.Info("Edit gridhash.yaml to record standing exclusions, then run: gridhash generate <dataset>")
	return nil
}

// mustAbs falls back to the raw path when it cannot be made absolute.
func mustAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
