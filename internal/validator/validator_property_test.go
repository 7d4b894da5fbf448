//go:build property

package validator

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/conneroisu/specgen/internal/rules"
	"github.com/conneroisu/specgen/internal/testutils"
)

// TestValidatorProperties checks invariants of the structural checks.
func TestValidatorProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	v := New(rules.Default(), nil)

	// Property: dropping one required block yields exactly that block error
	properties.Property("each missing block is reported once", prop.ForAll(
		func(index int) bool {
			blocks := v.Rules().RequiredBlocks
			block := blocks[index%len(blocks)]
			content := strings.ReplaceAll(testutils.TemplateContent("Sprint"), block, "removed_block")

			result := v.CheckTemplate(content, Options{Category: "sprint"})

			var blockErrors []string
			for _, issue := range result.Errors {
				if issue.Kind == KindMissingBlock {
					blockErrors = append(blockErrors, issue.Message)
				}
			}
			return len(blockErrors) == 1 && blockErrors[0] == "Missing required section: "+block
		},
		gen.IntRange(0, 100),
	))

	// Property: checks never change the document they inspect
	properties.Property("validation is read-only", prop.ForAll(
		func(s string) bool {
			before := s
			_ = v.CheckTemplate(s, Options{})
			_ = v.CheckSpec(s, Options{})
			return s == before
		},
		gen.AnyString(),
	))

	// Property: a specification without tokens never reports unresolved placeholders
	properties.Property("no tokens means nothing unresolved", prop.ForAll(
		func(body string) bool {
			body = strings.ReplaceAll(body, "$", "")
			result := v.CheckSpec("{/* */}\n"+body, Options{})
			return !result.HasKind(KindUnresolvedPlaceholder)
		},
		gen.AlphaString(),
	))

	// Property: an unbalanced canonical comment is always reported
	properties.Property("extra open delimiters are detected", prop.ForAll(
		func(extra int) bool {
			content := testutils.TemplateContent("Sprint") + strings.Repeat("\n{/* open", extra)
			result := v.CheckTemplate(content, Options{})
			return result.HasKind(KindCommentSyntax)
		},
		gen.IntRange(1, 5),
	))

	properties.TestingRun(t)
}
