package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conneroisu/specgen/internal/errors"
	"github.com/conneroisu/specgen/internal/generator"
	"github.com/conneroisu/specgen/internal/preview"
	"github.com/conneroisu/specgen/internal/services"
	"github.com/conneroisu/specgen/internal/validator"
)

var generateCmd = &cobra.Command{
	Use:     "generate <type> <name>",
	Aliases: []string{"g", "gen"},
	Short:   "Generate a specification from a template",
	Long: `Generate a specification by substituting placeholder values into the
template configured for <type>. The document is written to the type's output
directory as <name>.<extension>; an existing file is never overwritten.

The template is validated first. When it has errors you are asked whether to
continue, unless --yes is given. Placeholders left without a value are
reported as errors on the generated document.

Examples:
  specgen generate sprint sprint-12 --set AUTHOR=ada
  specgen generate persona admin --values persona.yaml
  specgen generate architecture core --list STAKEHOLDERS=ops,dev
  specgen generate schema billing --interactive --preview`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeTypes,
	RunE:              runGenerate,
}

var (
	generateValues      *ValueFlags
	generateNoVerify    bool
	generateInteractive bool
	generatePreview     bool
	generateYes         bool
)

func init() {
	rootCmd.AddCommand(generateCmd)

	generateValues = AddValueFlags(generateCmd)
	generateCmd.Flags().BoolVar(&generateNoVerify, "no-verify", false, "Skip template validation before generating")
	generateCmd.Flags().BoolVarP(&generateInteractive, "interactive", "i", false, "Prompt for placeholders without a value")
	generateCmd.Flags().BoolVarP(&generatePreview, "preview", "p", false, "Render the generated document in the terminal")
	generateCmd.Flags().BoolVarP(&generateYes, "yes", "y", false, "Generate even when the template has errors")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	out := newPrinter(cmd.OutOrStdout())
	typeName, name := args[0], args[1]

	svc, err := loadService(cmd)
	if err != nil {
		return err
	}

	values, err := generateValues.Values()
	if err != nil {
		return err
	}

	if generateInteractive {
		if err := promptForValues(ctx, svc, typeName, name, values); err != nil {
			return err
		}
	}

	result, err := svc.Generate(ctx, services.GenerateOptions{
		Type:    typeName,
		Name:    name,
		Values:  values,
		Verify:  !generateNoVerify,
		Confirm: confirmTemplate(ctx, out),
	})
	if err != nil {
		return err
	}

	out.success("Generated %s", result.Output.Path)
	if len(result.Output.Unresolved) > 0 {
		out.warn("Placeholders without a value: %s", strings.Join(result.Output.Unresolved, ", "))
	}
	out.result(result.Spec)

	if generatePreview {
		if err := renderPreview(cmd, svc, result.Output.Content, preview.Options{}); err != nil {
			return err
		}
	}

	if !result.Spec.Valid() {
		return errors.NewValidationError(errors.ErrCodeValidationFailed,
			fmt.Sprintf("generated specification has %s", plural(len(result.Spec.Errors), "error"))).
			WithPath(result.Output.Path)
	}
	return nil
}

// confirmTemplate prints the template check and asks whether to continue.
func confirmTemplate(ctx context.Context, out *printer) func(*validator.Result) bool {
	return func(check *validator.Result) bool {
		out.result(check)
		if generateYes {
			return true
		}
		ok, err := prompt.Confirm(ctx, "The template has errors. Generate anyway?", false)
		return err == nil && ok
	}
}

// promptForValues asks for every placeholder the values do not cover. An
// empty answer leaves the placeholder unresolved.
func promptForValues(ctx context.Context, svc *services.SpecService, typeName, name string, values generator.Values) error {
	pending, err := svc.Pending(typeName, name, values)
	if err != nil {
		return err
	}

	for _, placeholder := range pending {
		answer, err := prompt.Input(ctx, placeholder+":", "Value for ${"+placeholder+"}; leave empty to skip")
		if err != nil {
			return err
		}
		if answer = strings.TrimSpace(answer); answer != "" {
			values[placeholder] = generator.String(answer)
		}
	}
	return nil
}

func renderPreview(cmd *cobra.Command, svc *services.SpecService, content string, opts preview.Options) error {
	renderer, err := preview.New(svc.Rules(), opts)
	if err != nil {
		return err
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}

// completeTypes offers configured template type names for the first argument.
func completeTypes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if _, err := os.Stat(configPathOrDefault()); err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	svc, err := loadService(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return svc.Config().TypeNames(), cobra.ShellCompDirectiveNoFileComp
}
