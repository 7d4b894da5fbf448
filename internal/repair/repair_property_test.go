//go:build property

package repair

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/conneroisu/specgen/internal/rules"
)

// TestFixProperties checks invariants of the comment repair.
func TestFixProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(9753)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	rs := rules.Default()
	r := New(rs, nil)

	// documents assembled from delimiter fragments and filler text
	fragment := gen.OneConstOf("<!--", "-->", "{/*", "*/}", "\n", " ", "text", "-", "<", ">", "!", "*", "/")
	document := gen.SliceOf(fragment).Map(func(parts []string) string {
		return strings.Join(parts, "")
	})

	// Property: a second repair changes nothing
	properties.Property("repair is idempotent", prop.ForAll(
		func(doc string) bool {
			once, _ := r.Fix(doc)
			twice, changed := r.Fix(once)
			return !changed && once == twice
		},
		document,
	))

	// Property: no legacy delimiter survives
	properties.Property("legacy delimiters are removed", prop.ForAll(
		func(doc string) bool {
			out, _ := r.Fix(doc)
			return !strings.Contains(out, rs.Legacy.Open) && !strings.Contains(out, rs.Legacy.Close)
		},
		document,
	))

	// Property: closes never fall behind opens after repair
	properties.Property("open delimiters are closed", prop.ForAll(
		func(doc string) bool {
			out, _ := r.Fix(doc)
			return strings.Count(out, rs.Canonical.Open) <= strings.Count(out, rs.Canonical.Close)
		},
		document,
	))

	properties.TestingRun(t)
}
