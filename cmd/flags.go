package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/specgen/internal/generator"
)

// OutputFlags provides the output format flag shared by reporting commands.
type OutputFlags struct {
	Format string
}

// AddOutputFlags adds --format/-f to cmd. The first format is the default.
func AddOutputFlags(cmd *cobra.Command, formats ...string) *OutputFlags {
	flags := &OutputFlags{}
	cmd.Flags().StringVarP(&flags.Format, "format", "f", formats[0],
		"Output format ("+strings.Join(formats, "|")+")")

	AddFlagValidation(cmd.Flags(), "format", func(format string) error {
		return ValidateChoice("format", format, formats)
	})
	return flags
}

// ValueFlags collects placeholder values from the command line.
type ValueFlags struct {
	Set        []string
	List       []string
	ValuesFile string
}

// AddValueFlags adds --set, --list and --values to cmd.
func AddValueFlags(cmd *cobra.Command) *ValueFlags {
	flags := &ValueFlags{}
	cmd.Flags().StringArrayVarP(&flags.Set, "set", "s", nil, "Placeholder value as KEY=VALUE (repeatable)")
	cmd.Flags().StringArrayVar(&flags.List, "list", nil, "List placeholder value as KEY=a,b,c (repeatable)")
	cmd.Flags().StringVar(&flags.ValuesFile, "values", "", "YAML or JSON file of placeholder values")

	AddFlagValidation(cmd.Flags(), "values", ValidateFileExists)
	return flags
}

// Values merges every source. The values file is read first, then --list,
// then --set, so later sources win.
func (f *ValueFlags) Values() (generator.Values, error) {
	values := generator.Values{}

	if f.ValuesFile != "" {
		fromFile, err := LoadValuesFile(f.ValuesFile)
		if err != nil {
			return nil, err
		}
		merge(values, fromFile)
	}

	lists, err := ParseListAssignments(f.List)
	if err != nil {
		return nil, err
	}
	merge(values, lists)

	scalars, err := ParseAssignments(f.Set)
	if err != nil {
		return nil, err
	}
	merge(values, scalars)

	return values, nil
}

// ParseAssignments parses KEY=VALUE pairs. Only the first '=' separates.
func ParseAssignments(pairs []string) (generator.Values, error) {
	values := make(generator.Values, len(pairs))
	for _, pair := range pairs {
		key, value, err := splitAssignment(pair)
		if err != nil {
			return nil, err
		}
		values[key] = generator.String(value)
	}
	return values, nil
}

// ParseListAssignments parses KEY=a,b,c pairs into list values. Items are
// trimmed and empty items dropped.
func ParseListAssignments(pairs []string) (generator.Values, error) {
	values := make(generator.Values, len(pairs))
	for _, pair := range pairs {
		key, value, err := splitAssignment(pair)
		if err != nil {
			return nil, err
		}

		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		values[key] = generator.List(items...)
	}
	return values, nil
}

// LoadValuesFile reads a flat mapping of placeholder names to scalars or
// sequences. JSON is accepted as a subset of YAML.
func LoadValuesFile(path string) (generator.Values, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read values file %s: %w", path, err)
	}

	raw := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid YAML in values file %s: %w", path, err)
	}

	return generator.FromAny(raw), nil
}

func splitAssignment(pair string) (string, string, error) {
	key, value, ok := strings.Cut(pair, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("invalid assignment %q, expected KEY=VALUE", pair)
	}
	return key, value, nil
}

func merge(dst, src generator.Values) {
	for k, v := range src {
		dst[k] = v
	}
}

// AddFlagValidation adds validation for a specific flag
func AddFlagValidation(flags *pflag.FlagSet, flagName string, validator func(string) error) {
	flag := flags.Lookup(flagName)
	if flag == nil {
		return
	}

	flag.Value = &validatingValue{
		Value:     flag.Value,
		validator: validator,
	}
}

type validatingValue struct {
	pflag.Value
	validator func(string) error
}

func (v *validatingValue) Set(val string) error {
	if v.validator != nil {
		if err := v.validator(val); err != nil {
			return err
		}
	}
	return v.Value.Set(val)
}

// ValidateChoice rejects a value outside choices.
func ValidateChoice(name, value string, choices []string) error {
	for _, choice := range choices {
		if value == choice {
			return nil
		}
	}
	return fmt.Errorf("invalid %s %q, must be one of: %s", name, value, strings.Join(choices, ", "))
}

// ValidateFileExists rejects a path that does not exist. Empty is valid for
// optional files.
func ValidateFileExists(filename string) error {
	if filename == "" {
		return nil
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", filename)
	}

	return nil
}
