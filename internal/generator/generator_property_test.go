//go:build property

package generator

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestSubstituteProperties checks invariants of placeholder substitution.
func TestSubstituteProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(2468)
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	// Property: full coverage leaves nothing unresolved
	properties.Property("covered placeholders are all resolved", prop.ForAll(
		func(names []string, value string) bool {
			var b strings.Builder
			values := make(Values, len(names))
			for _, name := range names {
				b.WriteString("text ${" + name + "} ")
				values[name] = String(value)
			}
			return len(Unresolved(Substitute(b.String(), values))) == 0
		},
		gen.SliceOf(gen.Identifier()),
		gen.AlphaString(),
	))

	// Property: a missing value is the only thing left unresolved
	properties.Property("uncovered placeholder survives", prop.ForAll(
		func(name string, value string) bool {
			text := "${" + name + "} ${" + name + "_MISSING}"
			out := Substitute(text, Values{name: String(value)})
			left := Unresolved(out)
			return len(left) == 1 && left[0] == name+"_MISSING"
		},
		gen.Identifier(),
		gen.AlphaString(),
	))

	// Property: text without tokens is returned unchanged
	properties.Property("token-free text is untouched", prop.ForAll(
		func(text string, value string) bool {
			text = strings.ReplaceAll(text, "$", "")
			return Substitute(text, Values{"X": String(value)}) == text
		},
		gen.AnyString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
