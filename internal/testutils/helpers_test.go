package testutils

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTempProject(t *testing.T) {
	dir, cfg := CreateTempProject(t)
	assert.Equal(t, dir, cfg.BaseDir)

	for _, name := range cfg.TypeNames() {
		path, err := cfg.TemplatePath(name)
		require.NoError(t, err)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.False(t, info.IsDir())
	}
}

func TestTemplateContent(t *testing.T) {
	content := TemplateContent("Sprint", "Sprint Goals")

	assert.True(t, strings.HasPrefix(content, "{/*"))
	assert.Equal(t, 1, strings.Count(content, "{/*"))
	assert.Equal(t, 1, strings.Count(content, "*/}"))
	assert.Contains(t, content, "## Sprint Goals")
	assert.Contains(t, content, "# Sprint\n")
}

func TestLegacyTemplateContent(t *testing.T) {
	content := LegacyTemplateContent("Persona")

	assert.True(t, strings.HasPrefix(content, "<!--"))
	assert.NotContains(t, content, "{/*")
	assert.NotContains(t, content, "*/}")
}
