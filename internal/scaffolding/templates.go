package scaffolding

// starterTemplate lays out a template that passes the structural checks of
// the rule set it was built from.
const starterTemplate = `{{.Open}}
# TEMPLATE: {{.Title}}
{{.Description}}
Fill every placeholder before review.
{{range .Blocks}}
{{.Label}}
{{- range .Fields}}
  {{.Key}}: "{{.Value}}"
{{- end}}
{{end -}}
{{.Close}}

# {{.Title}}
{{range .Sections}}
## {{.Title}}
{{if .Placeholder}}
${{"{"}}{{.Placeholder}}{{"}"}}
{{end}}{{end}}`

// Field is one key of a metadata block.
type Field struct {
	Key   string
	Value string
}

// Block is a labelled metadata block in the leading comment.
type Block struct {
	Label  string
	Fields []Field
}

// Section is a second-level heading with an optional placeholder body.
type Section struct {
	Title       string
	Placeholder string
}

// TemplateContext holds the values a starter template is rendered from.
type TemplateContext struct {
	Open        string
	Close       string
	Title       string
	Description string
	Type        string
	Blocks      []Block
	Sections    []Section
}

// standardFields are the fields written for the default required blocks.
var standardFields = map[string][]Field{
	"template:": {
		{Key: "id", Value: "${ID}"},
		{Key: "category", Value: "${TEMPLATE_CATEGORY}"},
		{Key: "type", Value: "${TEMPLATE_TYPE}"},
		{Key: "version", Value: "${VERSION}"},
	},
	"metadata:": {
		{Key: "document_key", Value: "${DOCUMENT_KEY}"},
		{Key: "author", Value: "${AUTHOR}"},
		{Key: "created", Value: "${ISO_TIMESTAMP}"},
		{Key: "last_updated", Value: "${LAST_UPDATED_DATE}"},
	},
	"ai_assistance:": {
		{Key: "parent_template", Value: "base_template"},
	},
}
