// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

import (
	"bytes"
	"text/template"

	"github.com/pdiddy/arxiv-scribe/pkg/types"
)

// promptTmpl asks the model to rewrite the whole paper as Markdown without
// summarizing it.
var promptTmpl = template.Must(template.New("transform").Parse(`You are converting the text of an academic paper into well-structured Markdown.

Paper: {{.Title}}
arXiv ID: {{.ID}}
{{- if .Truncated}}
Note: the extracted text was cut off at a size limit. Convert what is present and end the document where the text ends.
{{- end}}

Rules:
- Preserve the full content. Do not summarize, shorten, or omit sections.
- Start with the title as a level-1 heading, followed by the authors if they appear in the text.
- Reproduce the section hierarchy with Markdown headings (##, ###) in the original order, including the abstract, every numbered section, appendices, and acknowledgements.
- Rebuild tables as Markdown tables. Keep captions for tables and figures.
- Keep equations, using $...$ for inline math and $$...$$ for display math.
- Keep every in-text citation exactly as written (e.g. [12], (Smith et al., 2020)).
- Reproduce the reference list as a numbered or bulleted list at the end.
- Remove page headers, page footers, page numbers, and hyphenation introduced by line breaks.
- Output only the Markdown document, with no preamble or commentary.

Extracted text:
{{.Text}}
`))

type promptData struct {
	ID        string
	Title     string
	Truncated bool
	Text      string
}

// renderPrompt executes the prompt template for one paper.
func renderPrompt(record types.PaperRecord, content types.ExtractedContent) (string, error) {
	title := record.Title
	if title == "" {
		title = record.ID
	}

	var buf bytes.Buffer
	err := promptTmpl.Execute(&buf, promptData{
		ID:        record.ID,
		Title:     title,
		Truncated: content.Truncated,
		Text:      content.Text,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
