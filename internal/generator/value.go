package generator

import (
	"fmt"
	"strings"

	"github.com/conneroisu/specgen/internal/rules"
)

// Value is a placeholder value: either a scalar or an ordered list of items.
type Value struct {
	scalar string
	items  []string
	isList bool
}

// String returns a scalar value.
func String(s string) Value {
	return Value{scalar: s}
}

// List returns a list value. Lists render as one markdown bullet per item.
func List(items ...string) Value {
	return Value{items: append([]string(nil), items...), isList: true}
}

// IsList reports whether the value holds a list.
func (v Value) IsList() bool {
	return v.isList
}

// Render returns the text substituted for the placeholder.
func (v Value) Render() string {
	if !v.isList {
		return v.scalar
	}
	lines := make([]string, len(v.items))
	for i, item := range v.items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}

// Values maps placeholder names to values.
type Values map[string]Value

// FromStrings converts a plain string map into scalar values.
func FromStrings(m map[string]string) Values {
	values := make(Values, len(m))
	for k, s := range m {
		values[k] = String(s)
	}
	return values
}

// FromAny converts decoded YAML into values. Sequences become lists and
// every other value is formatted as a scalar.
func FromAny(m map[string]interface{}) Values {
	values := make(Values, len(m))
	for k, raw := range m {
		switch typed := raw.(type) {
		case []interface{}:
			items := make([]string, len(typed))
			for i, item := range typed {
				items[i] = fmt.Sprint(item)
			}
			values[k] = List(items...)
		case []string:
			values[k] = List(typed...)
		case nil:
			values[k] = String("")
		default:
			values[k] = String(fmt.Sprint(typed))
		}
	}
	return values
}

// Substitute replaces every ${NAME} whose NAME is in values in a single pass.
// Substituted text is never expanded again and unmapped tokens are kept.
func Substitute(text string, values Values) string {
	if len(values) == 0 {
		return text
	}
	return rules.PlaceholderPattern.ReplaceAllStringFunc(text, func(token string) string {
		name := token[2 : len(token)-1]
		if v, ok := values[name]; ok {
			return v.Render()
		}
		return token
	})
}

// Unresolved returns the distinct placeholder names left in text, in order
// of first appearance.
func Unresolved(text string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, name := range rules.Placeholders(text) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
