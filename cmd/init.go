package cmd

import (
	"github.com/spf13/cobra"

	"github.com/conneroisu/specgen/internal/services"
)

var initCmd = &cobra.Command{
	Use:     "init [directory]",
	Aliases: []string{"i"},
	Short:   "Initialize a specgen project",
	Long: `Initialize a project with a default .specgen.yml and a starter template for
every configured template type. Starter templates pass validation as written.
Existing files are left untouched, so init can be run again safely.

Examples:
  specgen init                # Initialize in the current directory
  specgen init docs/specs     # Initialize in docs/specs
  specgen init --minimal      # Only write the configuration file`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

var initMinimal bool

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initMinimal, "minimal", false, "Only write the configuration file")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	result, err := services.NewInitService(logger).InitProject(commandContext(cmd), services.InitOptions{
		ProjectDir: dir,
		Minimal:    initMinimal,
	})
	if result != nil {
		out := newPrinter(cmd.OutOrStdout())
		for _, path := range result.Created {
			out.success("Created %s", path)
		}
		for _, path := range result.Skipped {
			out.muted("  exists, skipped %s", path)
		}
	}
	if err != nil {
		return err
	}

	newPrinter(cmd.OutOrStdout()).info("Next: specgen list, then specgen generate <type> <name>")
	return nil
}
