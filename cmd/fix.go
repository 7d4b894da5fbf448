package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conneroisu/specgen/internal/errors"
	"github.com/conneroisu/specgen/internal/services"
)

var fixCmd = &cobra.Command{
	Use:   "fix-syntax [dir]",
	Short: "Convert legacy <!-- --> comments to {/* */}",
	Long: `Rewrite legacy HTML comment delimiters to the canonical MDX form in every
document under dir (default: the templates root). Missing closing delimiters
are appended at the end of the file. Running the command twice changes nothing
the second time.

Rewritten files are validated again afterwards. Files are only written after
confirmation, unless --yes or --dry-run is given.

Examples:
  specgen fix-syntax --dry-run           # Show what would change
  specgen fix-syntax templates --yes     # Rewrite without asking
  specgen fix-syntax --templates-only    # Only TEMPLATE-* files`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFix,
}

var (
	fixDryRun        bool
	fixTemplatesOnly bool
	fixYes           bool
)

func init() {
	rootCmd.AddCommand(fixCmd)

	fixCmd.Flags().BoolVarP(&fixDryRun, "dry-run", "n", false, "Report files that would change without writing")
	fixCmd.Flags().BoolVar(&fixTemplatesOnly, "templates-only", false, "Only repair TEMPLATE-* files")
	fixCmd.Flags().BoolVarP(&fixYes, "yes", "y", false, "Write without asking for confirmation")
}

func runFix(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	out := newPrinter(cmd.OutOrStdout())

	svc, err := loadService(cmd)
	if err != nil {
		return err
	}

	opts := services.FixOptions{TemplatesOnly: fixTemplatesOnly, DryRun: true}
	if len(args) == 1 {
		opts.Root = args[0]
	}

	planned, err := svc.FixSyntax(ctx, opts)
	if err != nil {
		return err
	}

	if fixDryRun || len(planned.Report.Fixed) == 0 {
		printFixReport(out, planned, true)
		return fixFailures(planned)
	}

	if !fixYes {
		for _, path := range planned.Report.Fixed {
			out.muted("  %s", path)
		}
		ok, err := prompt.Confirm(ctx, fmt.Sprintf("Rewrite %s?", plural(len(planned.Report.Fixed), "file")), false)
		if err != nil {
			return err
		}
		if !ok {
			out.info("No files changed.")
			return nil
		}
	}

	opts.DryRun = false
	applied, err := svc.FixSyntax(ctx, opts)
	if err != nil {
		return err
	}
	printFixReport(out, applied, false)
	return fixFailures(applied)
}

func printFixReport(out *printer, result *services.FixResult, dryRun bool) {
	report := result.Report
	verb := "Fixed"
	if dryRun {
		verb = "Would fix"
	}

	for _, path := range report.Fixed {
		out.success("%s %s", verb, path)
	}
	for _, failure := range report.Failures {
		out.fail("✗ %s: %v", failure.Path, failure.Err)
	}

	for _, check := range result.Revalidated {
		if !check.Valid() || len(check.Warnings) > 0 {
			out.result(check)
		}
	}

	out.info("%s %s, %d already canonical", verb, plural(len(report.Fixed), "file"), report.Unchanged)
}

func fixFailures(result *services.FixResult) error {
	if n := len(result.Report.Failures); n > 0 {
		return errors.NewIOError(errors.ErrCodeWriteFailed,
			fmt.Sprintf("%s could not be repaired", plural(n, "file")), result.Report.Failures[0].Err)
	}
	return nil
}
