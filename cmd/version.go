package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/specgen/internal/version"
)

var (
	versionFlags *OutputFlags
	versionShort bool
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information for specgen including:

- Semantic version number
- Git commit hash
- Build timestamp
- Go version used for compilation
- Target platform (OS/architecture)

Examples:
  specgen version                # Show version details
  specgen version --short        # Show short version only
  specgen version --format json  # Output as JSON`,
	Args: cobra.NoArgs,
	RunE: runVersionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionFlags = AddOutputFlags(versionCmd, "text", "json", "yaml")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show short version only")
}

func runVersionCommand(cmd *cobra.Command, args []string) error {
	info := version.Info()
	w := cmd.OutOrStdout()

	switch versionFlags.Format {
	case "json":
		return writeJSON(w, info)
	case "yaml":
		return writeYAML(w, info)
	}

	if versionShort {
		fmt.Fprintln(w, info.Short())
		return nil
	}
	fmt.Fprintln(w, "specgen "+info.Short())
	fmt.Fprintln(w, info.String())
	return nil
}
