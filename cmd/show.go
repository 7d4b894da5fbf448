package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conneroisu/specgen/internal/preview"
)

var showCmd = &cobra.Command{
	Use:     "show <path|template-id>",
	Aliases: []string{"preview"},
	Short:   "Render a document in the terminal",
	Long: `Render a template or specification as styled markdown. The argument is a
file path, or the id of a template under the templates root as printed by
"specgen list --discover". Template ids show the body without its AI
processing section.

The metadata comment block is hidden unless --metadata is given.

Examples:
  specgen show output/sprints/sprint-1.mdx
  specgen show 05-Agile_Planning/01-Sprint_Planning/TEMPLATE-sprint-planning.mdx
  specgen show output/personas/admin.mdx --metadata --style dark
  specgen show output/personas/admin.mdx --raw`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

var (
	showMetadata bool
	showRaw      bool
	showWidth    int
	showStyle    string
)

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().BoolVarP(&showMetadata, "metadata", "m", false, "Show the metadata comment block")
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print markdown without styling")
	showCmd.Flags().IntVarP(&showWidth, "width", "w", preview.DefaultWidth, "Word-wrap width")
	showCmd.Flags().StringVar(&showStyle, "style", "", "Glamour style (dark, light, notty, ...)")
}

func runShow(cmd *cobra.Command, args []string) error {
	svc, err := loadService(cmd)
	if err != nil {
		return err
	}

	content, err := readDocument(svc.Store().Read, args[0])
	if err != nil {
		return err
	}

	opts := preview.Options{Width: showWidth, Style: showStyle, ShowMetadata: showMetadata}
	if showRaw {
		renderer, err := preview.New(svc.Rules(), opts)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderer.Markdown(content))
		return nil
	}
	return renderPreview(cmd, svc, content, opts)
}

// readDocument reads target as a file, falling back to a template id.
func readDocument(readTemplate func(string) (string, error), target string) (string, error) {
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		data, err := os.ReadFile(target)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return readTemplate(target)
}
