package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/specgen/internal/errors"
	"github.com/conneroisu/specgen/internal/services"
	"github.com/conneroisu/specgen/internal/validator"
)

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:     "validate",
	Aliases: []string{"v"},
	Short:   "Check templates and specifications for structural errors",
	Long: `Check documents against the validation rules:

- Comment delimiters are present and balanced
- Required metadata blocks, headings and placeholders exist
- Identifiers match the configured format
- Specifications carry their required fields, relationships and sections
- No placeholder is left unresolved in a specification

The command exits non-zero when any error is found. Warnings never fail.

Examples:
  specgen validate template templates/TEMPLATE-sprint-planning.mdx
  specgen validate spec output/sprints/sprint-1.mdx --type sprint
  specgen validate all --format json`,
}

var validateTemplateCmd = &cobra.Command{
	Use:   "template <path>",
	Short: "Validate a template",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidateTemplate,
}

var validateSpecCmd = &cobra.Command{
	Use:   "spec <path>",
	Short: "Validate a generated specification",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidateSpec,
}

var validateAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Validate every configured template and generated specification",
	Args:  cobra.NoArgs,
	RunE:  runValidateAll,
}

var (
	validateTemplateFlags *OutputFlags
	validateSpecFlags     *OutputFlags
	validateAllFlags      *OutputFlags
	validateSpecType      string
)

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.AddCommand(validateTemplateCmd, validateSpecCmd, validateAllCmd)

	validateTemplateFlags = AddOutputFlags(validateTemplateCmd, "text", "json", "yaml")
	validateSpecFlags = AddOutputFlags(validateSpecCmd, "text", "json", "yaml")
	validateAllFlags = AddOutputFlags(validateAllCmd, "text", "json", "yaml")

	validateSpecCmd.Flags().StringVarP(&validateSpecType, "type", "t", "", "Template type, overriding the declared one")
}

func runValidateTemplate(cmd *cobra.Command, args []string) error {
	svc, err := loadService(cmd)
	if err != nil {
		return err
	}

	result, err := svc.ValidateTemplate(commandContext(cmd), args[0])
	if err != nil {
		return err
	}
	return reportResult(cmd.OutOrStdout(), validateTemplateFlags.Format, result)
}

func runValidateSpec(cmd *cobra.Command, args []string) error {
	svc, err := loadService(cmd)
	if err != nil {
		return err
	}

	result, err := svc.ValidateSpec(commandContext(cmd), args[0], validateSpecType)
	if err != nil {
		return err
	}
	return reportResult(cmd.OutOrStdout(), validateSpecFlags.Format, result)
}

func runValidateAll(cmd *cobra.Command, args []string) error {
	svc, err := loadService(cmd)
	if err != nil {
		return err
	}

	report, err := svc.ValidateAll(commandContext(cmd))
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	switch validateAllFlags.Format {
	case "json":
		if err := writeJSON(w, report); err != nil {
			return err
		}
	case "yaml":
		if err := writeYAML(w, report); err != nil {
			return err
		}
	default:
		printBatchReport(w, report)
	}

	if !report.Valid() {
		return errors.NewValidationError(errors.ErrCodeValidationFailed,
			fmt.Sprintf("validation failed with %s and %s",
				plural(report.ErrorCount(), "error"), plural(len(report.Failures), "unreadable file")))
	}
	return nil
}

func reportResult(w io.Writer, format string, result *validator.Result) error {
	switch format {
	case "json":
		if err := writeJSON(w, result); err != nil {
			return err
		}
	case "yaml":
		if err := writeYAML(w, result); err != nil {
			return err
		}
	default:
		out := newPrinter(w)
		out.result(result)
		out.counts(len(result.Errors), len(result.Warnings))
	}
	return result.Err()
}

func printBatchReport(w io.Writer, report *services.BatchReport) {
	out := newPrinter(w)

	out.heading("Templates")
	for _, result := range report.Templates {
		out.result(result)
	}
	if len(report.Templates) == 0 {
		out.muted("  none")
	}

	fmt.Fprintln(w)
	out.heading("Specifications")
	for _, result := range report.Specs {
		out.result(result)
	}
	if len(report.Specs) == 0 {
		out.muted("  none")
	}

	if len(report.Failures) > 0 {
		fmt.Fprintln(w)
		out.heading("Unreadable files")
		for _, failure := range report.Failures {
			out.fail("✗ %s: %s", failure.Path, failure.Error)
		}
	}

	fmt.Fprintln(w)
	out.muted("run %s in %s", report.RunID, report.Duration.Round(time.Millisecond))
	out.counts(report.ErrorCount(), report.WarningCount())
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
