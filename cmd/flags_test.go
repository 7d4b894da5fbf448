package cmd

import (
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/specgen/internal/generator"
	"github.com/conneroisu/specgen/internal/testutils"
)

func TestParseAssignments(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    generator.Values
		wantErr bool
	}{
		{
			name:  "simple",
			pairs: []string{"AUTHOR=Ada", "VERSION=1.0"},
			want:  generator.Values{"AUTHOR": generator.String("Ada"), "VERSION": generator.String("1.0")},
		},
		{
			name:  "value keeps later equals signs",
			pairs: []string{"QUERY=a=b"},
			want:  generator.Values{"QUERY": generator.String("a=b")},
		},
		{
			name:  "empty value",
			pairs: []string{"NOTES="},
			want:  generator.Values{"NOTES": generator.String("")},
		},
		{
			name:  "last assignment wins",
			pairs: []string{"A=1", "A=2"},
			want:  generator.Values{"A": generator.String("2")},
		},
		{name: "missing equals", pairs: []string{"AUTHOR"}, wantErr: true},
		{name: "missing key", pairs: []string{"=x"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAssignments(tt.pairs)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseListAssignments(t *testing.T) {
	got, err := ParseListAssignments([]string{"TEAM=ada, grace,,linus", "EMPTY="})
	require.NoError(t, err)

	assert.True(t, got["TEAM"].IsList())
	assert.Equal(t, "- ada\n- grace\n- linus", got["TEAM"].Render())
	assert.True(t, got["EMPTY"].IsList())
	assert.Equal(t, "", got["EMPTY"].Render())

	_, err = ParseListAssignments([]string{"TEAM"})
	assert.Error(t, err)
}

func TestLoadValuesFile(t *testing.T) {
	dir := t.TempDir()
	path := testutils.WriteFile(t, filepath.Join(dir, "values.yaml"), "AUTHOR: Ada\nSTAKEHOLDERS:\n  - ops\n  - dev\nCOUNT: 3\n")

	values, err := LoadValuesFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Ada", values["AUTHOR"].Render())
	assert.Equal(t, "- ops\n- dev", values["STAKEHOLDERS"].Render())
	assert.Equal(t, "3", values["COUNT"].Render())

	jsonPath := testutils.WriteFile(t, filepath.Join(dir, "values.json"), `{"AUTHOR": "Grace"}`)
	values, err = LoadValuesFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "Grace", values["AUTHOR"].Render())

	bad := testutils.WriteFile(t, filepath.Join(dir, "bad.yaml"), "- not\n- a mapping\n")
	_, err = LoadValuesFile(bad)
	assert.Error(t, err)

	_, err = LoadValuesFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestValueFlagsPrecedence(t *testing.T) {
	path := testutils.WriteFile(t, filepath.Join(t.TempDir(), "values.yaml"), "AUTHOR: File\nTEAM: file\nVERSION: 2.0.0\n")

	flags := &ValueFlags{
		ValuesFile: path,
		List:       []string{"TEAM=a,b"},
		Set:        []string{"AUTHOR=Flag"},
	}
	values, err := flags.Values()
	require.NoError(t, err)

	assert.Equal(t, "Flag", values["AUTHOR"].Render())
	assert.Equal(t, "- a\n- b", values["TEAM"].Render())
	assert.Equal(t, "2.0.0", values["VERSION"].Render())
}

func TestAddFlagValidation(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	var format string
	fs.StringVar(&format, "format", "table", "")
	AddFlagValidation(fs, "format", func(v string) error {
		return ValidateChoice("format", v, []string{"table", "json"})
	})
	AddFlagValidation(fs, "missing", nil)

	require.NoError(t, fs.Parse([]string{"--format", "json"}))
	assert.Equal(t, "json", format)

	err := fs.Parse([]string{"--format", "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be one of: table, json")
	assert.Equal(t, "json", format)
}

func TestValidateChoice(t *testing.T) {
	assert.NoError(t, ValidateChoice("format", "json", []string{"json"}))
	assert.Error(t, ValidateChoice("format", "JSON", []string{"json"}))
	assert.Error(t, ValidateChoice("format", "csv", []string{"json", "yaml"}))
}
