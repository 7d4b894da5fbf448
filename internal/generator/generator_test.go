package generator

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/specgen/internal/config"
	"github.com/conneroisu/specgen/internal/errors"
	"github.com/conneroisu/specgen/internal/rules"
	"github.com/conneroisu/specgen/internal/testutils"
	"github.com/conneroisu/specgen/internal/validator"
)

var fixedTime = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

func newTestGenerator(t *testing.T) (*Generator, *config.Config) {
	t.Helper()
	_, cfg := testutils.CreateTempProject(t)
	rs, err := rules.FromConfig(cfg)
	require.NoError(t, err)
	return New(cfg, rs, nil, WithClock(func() time.Time { return fixedTime })), cfg
}

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		values Values
		want   string
	}{
		{
			name:   "scalar values",
			text:   "Hello ${NAME}, version ${VERSION}",
			values: FromStrings(map[string]string{"NAME": "Ada", "VERSION": "1.0"}),
			want:   "Hello Ada, version 1.0",
		},
		{
			name:   "unmapped tokens are kept",
			text:   "${A} and ${B}",
			values: FromStrings(map[string]string{"A": "x"}),
			want:   "x and ${B}",
		},
		{
			name:   "repeated token",
			text:   "${A}${A}",
			values: FromStrings(map[string]string{"A": "ab"}),
			want:   "abab",
		},
		{
			name:   "substituted text is not expanded again",
			text:   "${A}",
			values: FromStrings(map[string]string{"A": "${B}", "B": "nope"}),
			want:   "${B}",
		},
		{
			name:   "list renders as bullets",
			text:   "Goals:\n${GOALS}",
			values: Values{"GOALS": List("ship", "test")},
			want:   "Goals:\n- ship\n- test",
		},
		{
			name:   "no values",
			text:   "${A}",
			values: nil,
			want:   "${A}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Substitute(tt.text, tt.values))
		})
	}
}

func TestUnresolved(t *testing.T) {
	got := Unresolved("${B} ${A} ${B} plain $A {C}")
	if diff := cmp.Diff([]string{"B", "A"}, got); diff != "" {
		t.Errorf("unresolved mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, Unresolved("nothing here"))
}

func TestFromAny(t *testing.T) {
	values := FromAny(map[string]interface{}{
		"VERSION": 2,
		"GOALS":   []interface{}{"a", 3},
		"EMPTY":   nil,
	})

	assert.Equal(t, "2", values["VERSION"].Render())
	assert.True(t, values["GOALS"].IsList())
	assert.Equal(t, "- a\n- 3", values["GOALS"].Render())
	assert.Equal(t, "", values["EMPTY"].Render())
}

func TestGenerate(t *testing.T) {
	g, cfg := newTestGenerator(t)

	out, err := g.Generate(context.Background(), Request{
		Type:   "sprint",
		Name:   "sprint-42",
		Values: FromStrings(testutils.CompleteValues()),
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(cfg.OutputRoot(), "sprints", "sprint-42.mdx"), out.Path)
	assert.Empty(t, out.Unresolved)
	assert.Equal(t, out.Content, testutils.ReadFile(t, out.Path))

	assert.Contains(t, out.Content, `id: "SPRINT-sprint-42"`)
	assert.Contains(t, out.Content, `type: "sprint"`)
	assert.Contains(t, out.Content, `category: "agile_planning"`)
	assert.Contains(t, out.Content, `created: "2024-03-15T09:30:00Z"`)

	result := validator.New(g.rules, nil).CheckSpec(out.Content, validator.Options{})
	assert.True(t, result.Valid(), "generated spec should validate: %v", result.ErrorMessages())
}

func TestGenerateCallerValuesWin(t *testing.T) {
	g, _ := newTestGenerator(t)

	values := FromStrings(testutils.CompleteValues())
	values[KeyID] = String("SPRINT-custom")
	values[KeyTimestamp] = String("yesterday")

	out, err := g.Generate(context.Background(), Request{Type: "sprint", Name: "s1", Values: values})
	require.NoError(t, err)

	assert.Contains(t, out.Content, `id: "SPRINT-custom"`)
	assert.Contains(t, out.Content, `created: "yesterday"`)
}

func TestGenerateReportsUnresolved(t *testing.T) {
	g, _ := newTestGenerator(t)

	out, err := g.Generate(context.Background(), Request{Type: "persona", Name: "p1"})
	require.NoError(t, err)

	want := []string{"VERSION", "DOCUMENT_KEY", "AUTHOR", "LAST_UPDATED_DATE", "CORE_CONTENT"}
	if diff := cmp.Diff(want, out.Unresolved); diff != "" {
		t.Errorf("unresolved mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateCollision(t *testing.T) {
	g, _ := newTestGenerator(t)
	ctx := context.Background()
	req := Request{Type: "sprint", Name: "dup", Values: FromStrings(testutils.CompleteValues())}

	first, err := g.Generate(ctx, req)
	require.NoError(t, err)

	req.Values["AUTHOR"] = String("Someone Else")
	_, err = g.Generate(ctx, req)
	require.Error(t, err)
	assert.True(t, errors.IsOutputCollision(err))
	assert.Equal(t, first.Content, testutils.ReadFile(t, first.Path))
}

func TestGenerateErrors(t *testing.T) {
	g, cfg := newTestGenerator(t)
	ctx := context.Background()

	t.Run("unknown type", func(t *testing.T) {
		_, err := g.Generate(ctx, Request{Type: "sprnt", Name: "x"})
		require.Error(t, err)
		assert.True(t, errors.IsConfigIncomplete(err))
		assert.Contains(t, err.Error(), "Unknown template type: sprnt")
	})

	t.Run("missing template", func(t *testing.T) {
		path, err := cfg.TemplatePath("schema")
		require.NoError(t, err)
		require.NoError(t, os.Remove(path))

		_, err = g.Generate(ctx, Request{Type: "schema", Name: "db"})
		require.Error(t, err)
		assert.True(t, errors.IsResourceMissing(err))

		outPath, err := g.OutputPath("schema", "db")
		require.NoError(t, err)
		assert.NoFileExists(t, outPath)
	})

	t.Run("invalid names", func(t *testing.T) {
		for _, name := range []string{"", " ", ".", "..", "a/b", `a\b`, "../escape"} {
			_, err := g.Generate(ctx, Request{Type: "sprint", Name: name})
			require.Error(t, err, "name %q", name)
			assert.True(t, errors.IsValidation(err), "name %q", name)
		}
	})
}

func TestRenderDoesNotWrite(t *testing.T) {
	g, cfg := newTestGenerator(t)

	content, err := g.Render(Request{Type: "architecture", Name: "overview"})
	require.NoError(t, err)
	assert.Contains(t, content, `id: "ARCH-overview"`)

	_, err = os.Stat(cfg.OutputRoot())
	assert.True(t, os.IsNotExist(err))
}
