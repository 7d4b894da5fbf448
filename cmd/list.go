package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/conneroisu/specgen/internal/services"
	"github.com/conneroisu/specgen/internal/store"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l", "ls"},
	Short:   "List template types and discovered templates",
	Long: `List the template types in the configuration with their template file,
output directory and identifier prefix. A missing template file is flagged.

With --discover the templates root is also scanned for TEMPLATE-* files,
whatever type they belong to. --filter narrows discovered templates with a
fuzzy match on name, id and category.

Examples:
  specgen list                      # Configured types as a table
  specgen list --discover           # Also scan the templates root
  specgen list --filter persona     # Fuzzy search discovered templates
  specgen list -f json              # Output as JSON`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	listFlags    *OutputFlags
	listDiscover bool
	listFilter   string
)

func init() {
	rootCmd.AddCommand(listCmd)

	listFlags = AddOutputFlags(listCmd, "table", "json", "yaml")
	listCmd.Flags().BoolVarP(&listDiscover, "discover", "d", false, "Scan the templates root for template files")
	listCmd.Flags().StringVar(&listFilter, "filter", "", "Fuzzy filter for discovered templates (implies --discover)")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	svc, err := loadService(cmd)
	if err != nil {
		return err
	}

	listing, err := svc.ListTemplates(ctx, listDiscover && listFilter == "")
	if err != nil {
		return err
	}

	if listFilter != "" {
		found, err := svc.Store().Find(ctx, listFilter)
		if err != nil {
			return err
		}
		listing.Discovered = found
	}

	w := cmd.OutOrStdout()
	switch listFlags.Format {
	case "json":
		return writeJSON(w, listing)
	case "yaml":
		return writeYAML(w, listing)
	default:
		return outputTable(w, listing, listDiscover || listFilter != "")
	}
}

func outputTable(w io.Writer, listing *services.Listing, discovered bool) error {
	out := newPrinter(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tCATEGORY\tID PREFIX\tOUTPUT\tTEMPLATE")
	missing := 0
	for _, entry := range listing.Types {
		template := entry.TemplatePath
		if !entry.Exists {
			template += " (missing)"
			missing++
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			entry.Name, dash(entry.Category), dash(entry.IDPrefix), entry.OutputDir, template)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if missing > 0 {
		out.warn("%s without a template file", plural(missing, "type"))
	}

	if discovered {
		fmt.Fprintln(w)
		return outputDiscovered(w, listing.Discovered)
	}
	return nil
}

func outputDiscovered(w io.Writer, templates []store.Template) error {
	if len(templates) == 0 {
		newPrinter(w).muted("No templates found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tDESCRIPTION")
	for _, t := range templates {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Category, truncate(t.Description, 60))
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
