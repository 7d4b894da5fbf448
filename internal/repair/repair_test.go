package repair

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/specgen/internal/rules"
	"github.com/conneroisu/specgen/internal/testutils"
)

func TestFix(t *testing.T) {
	r := New(rules.Default(), nil)

	tests := []struct {
		name    string
		input   string
		want    string
		changed bool
	}{
		{
			name:    "single line comment",
			input:   "<!-- note -->",
			want:    "{/* note */}",
			changed: true,
		},
		{
			name:    "multi line comment",
			input:   "<!--\ntemplate:\n  id: \"x\"\n-->\n# Title\n",
			want:    "{/*\ntemplate:\n  id: \"x\"\n*/}\n# Title\n",
			changed: true,
		},
		{
			name:    "indented delimiters",
			input:   "  <!-- a\n  b -->  \n",
			want:    "  {/* a\n  b */}  \n",
			changed: true,
		},
		{
			name:    "inline legacy tokens",
			input:   "text <!-- inline --> more\n",
			want:    "text {/* inline */} more\n",
			changed: true,
		},
		{
			name:    "unclosed canonical comment",
			input:   "{/* open\nbody",
			want:    "{/* open\nbody\n*/}\n",
			changed: true,
		},
		{
			name:    "two unclosed comments",
			input:   "{/* a\n{/* b\n",
			want:    "{/* a\n{/* b\n*/}\n*/}\n",
			changed: true,
		},
		{
			name:    "already canonical",
			input:   "{/* ok */}\n# Title\n",
			want:    "{/* ok */}\n# Title\n",
			changed: false,
		},
		{
			name:    "empty",
			input:   "",
			want:    "",
			changed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := r.Fix(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.changed, changed)

			again, changedAgain := r.Fix(got)
			assert.Equal(t, got, again)
			assert.False(t, changedAgain)
		})
	}
}

func TestFixFile(t *testing.T) {
	r := New(rules.Default(), nil)
	dir := t.TempDir()
	path := testutils.WriteFile(t, filepath.Join(dir, "TEMPLATE-a.mdx"), testutils.LegacyTemplateContent("Persona"))

	changed, err := r.FixFile(path, true)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, strings.HasPrefix(testutils.ReadFile(t, path), "<!--"), "dry run must not write")

	changed, err = r.FixFile(path, false)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, testutils.TemplateContent("Persona"), testutils.ReadFile(t, path))

	changed, err = r.FixFile(path, false)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestFixFileMissing(t *testing.T) {
	r := New(rules.Default(), nil)

	_, err := r.FixFile(filepath.Join(t.TempDir(), "absent.mdx"), false)
	require.Error(t, err)
}

func TestFixTree(t *testing.T) {
	r := New(rules.Default(), nil)
	dir := t.TempDir()

	legacy := testutils.WriteFile(t, filepath.Join(dir, "02-Requirements", "TEMPLATE-persona.mdx"), testutils.LegacyTemplateContent("Persona"))
	spec := testutils.WriteFile(t, filepath.Join(dir, "02-Requirements", "persona-one.mdx"), "<!-- spec -->\n")
	testutils.WriteFile(t, filepath.Join(dir, "TEMPLATE-clean.mdx"), testutils.TemplateContent("Clean"))
	testutils.WriteFile(t, filepath.Join(dir, "notes.md"), "<!-- other extension -->\n")
	testutils.WriteFile(t, filepath.Join(dir, ".hidden", "TEMPLATE-h.mdx"), "<!-- hidden -->\n")

	t.Run("templates only dry run", func(t *testing.T) {
		report, err := r.FixTree(context.Background(), dir, Options{Extension: "mdx", TemplatesOnly: true, DryRun: true})
		require.NoError(t, err)
		assert.Equal(t, []string{legacy}, report.Fixed)
		assert.Equal(t, 1, report.Unchanged)
		assert.Empty(t, report.Failures)
		assert.True(t, strings.HasPrefix(testutils.ReadFile(t, legacy), "<!--"))
	})

	t.Run("all documents", func(t *testing.T) {
		report, err := r.FixTree(context.Background(), dir, Options{Extension: "mdx"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{legacy, spec}, report.Fixed)
		assert.Equal(t, 1, report.Unchanged)
		assert.Equal(t, "{/* spec */}\n", testutils.ReadFile(t, spec))
		assert.Equal(t, "<!-- other extension -->\n", testutils.ReadFile(t, filepath.Join(dir, "notes.md")))
		assert.Equal(t, "<!-- hidden -->\n", testutils.ReadFile(t, filepath.Join(dir, ".hidden", "TEMPLATE-h.mdx")))
	})
}

func TestFixTreeRecordsFailures(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced")
	}

	r := New(rules.Default(), nil)
	dir := t.TempDir()
	locked := testutils.WriteFile(t, filepath.Join(dir, "TEMPLATE-locked.mdx"), "<!-- a -->\n")
	open := testutils.WriteFile(t, filepath.Join(dir, "TEMPLATE-open.mdx"), "<!-- b -->\n")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { os.Chmod(locked, 0o644) })

	report, err := r.FixTree(context.Background(), dir, Options{Extension: "mdx"})
	require.NoError(t, err)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, locked, report.Failures[0].Path)
	assert.Equal(t, []string{open}, report.Fixed)
}

func TestFixTreeCanceled(t *testing.T) {
	r := New(rules.Default(), nil)
	dir := t.TempDir()
	testutils.WriteFile(t, filepath.Join(dir, "TEMPLATE-a.mdx"), "<!-- a -->\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := r.FixTree(ctx, dir, Options{Extension: "mdx"})
	require.Error(t, err)
	assert.Empty(t, report.Fixed)
}

func TestCollectMissingRoot(t *testing.T) {
	_, err := Collect(filepath.Join(t.TempDir(), "missing"), "mdx", false)
	require.Error(t, err)
}

func TestCollectSingleFile(t *testing.T) {
	path := testutils.WriteFile(t, filepath.Join(t.TempDir(), "x.txt"), "x")

	paths, err := Collect(path, "mdx", false)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, paths)
}
