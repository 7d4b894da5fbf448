package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/specgen/internal/config"
)

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Relationships = map[string]config.RelationshipConfig{
		"sprint": {Contains: []string{"story"}, References: []string{"persona"}},
	}

	rs, err := FromConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, Comment{Open: "{/*", Close: "*/}"}, rs.Canonical)
	assert.Equal(t, Comment{Open: "<!--", Close: "-->"}, rs.Legacy)
	assert.Equal(t, []string{"template:", "metadata:", "ai_assistance:"}, rs.RequiredBlocks)

	sprint, ok := rs.Category("sprint")
	require.True(t, ok)
	assert.Equal(t, "SPRINT-", sprint.IDPrefix)
	assert.Equal(t, []string{"story"}, sprint.Contains)
	assert.Equal(t, []string{"persona"}, sprint.References)
	require.NotNil(t, sprint.IDPattern)
	assert.True(t, sprint.IDPattern.MatchString("SPRINT-s1"))
	assert.False(t, sprint.IDPattern.MatchString("ARCH-s1"))

	_, ok = rs.Category("epic")
	assert.False(t, ok)
}

func TestFromConfigRejectsBadPattern(t *testing.T) {
	cfg := config.Default()
	cfg.Validation.IDFormats["ARCH-"] = "("

	_, err := FromConfig(cfg)
	assert.Error(t, err)
}

func TestPlaceholders(t *testing.T) {
	content := "id: \"${ID}\"\nby ${AUTHOR} and ${AUTHOR}, ${lower}, ${}"
	assert.Equal(t, []string{"ID", "AUTHOR", "AUTHOR", "lower", ""}, Placeholders(content))
	assert.Empty(t, Placeholders("no tokens $ {X} $X"))
}

func TestSectionsAndHeadings(t *testing.T) {
	content := "# Title\n\n## Context  \n### Detail\n##NotAHeading\n## Core Content\r\n"

	assert.Equal(t, []string{"Context", "Core Content"}, Sections(content))
	assert.Equal(t, []string{"Title", "Context", "Detail", "Core Content"}, Headings(content))

	title, ok := Title(content)
	assert.True(t, ok)
	assert.Equal(t, "Title", title)

	_, ok = Title("## Only second level")
	assert.False(t, ok)
}

func TestDeclaredFields(t *testing.T) {
	content := `{/*
template:
  id: "ARCH-001"
  category: "design"
  type: "architecture"
  template_type: "ignored"
*/}`

	id, ok := DeclaredID(content)
	assert.True(t, ok)
	assert.Equal(t, "ARCH-001", id)

	typ, ok := DeclaredType(content)
	assert.True(t, ok)
	assert.Equal(t, "architecture", typ)

	cat, ok := DeclaredCategory(content)
	assert.True(t, ok)
	assert.Equal(t, "design", cat)

	_, ok = DeclaredType(`template_type: "x"`)
	assert.False(t, ok)
}

func TestHasFieldAndRelationship(t *testing.T) {
	content := "version: 1\nparent_id: 3\ncontains: [story, task]\nreferences:\n  - persona\n"

	assert.True(t, HasField(content, "version"))
	assert.False(t, HasField(content, "id"))
	assert.True(t, HasRelationship(content, "contains", "task"))
	assert.False(t, HasRelationship(content, "contains", "epic"))
	// the target must sit on the same line as the key
	assert.False(t, HasRelationship(content, "references", "persona"))
}

func TestDefault(t *testing.T) {
	rs := Default()
	assert.Len(t, rs.Categories, 4)
	assert.Contains(t, rs.RequiredPlaceholders, "DOCUMENT_KEY")
}
