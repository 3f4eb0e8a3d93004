// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the arxiv-scribe pipeline:
// the records produced by search, the content produced by fetching, the
// documents produced by transformation, and the per-step result values the
// coordinator branches on.
package types

// PaperRecord holds the metadata for one paper returned by the finder.
// Records are never modified after the finder produces them.
type PaperRecord struct {
	// ID is the arXiv identifier without version suffix (e.g. "2301.07041").
	ID string `json:"id" yaml:"id"`

	// Title is the paper title with internal whitespace collapsed.
	Title string `json:"title" yaml:"title"`

	// Summary is the paper abstract with internal whitespace collapsed.
	Summary string `json:"summary" yaml:"summary"`

	// DocumentURL is the PDF location, always {pdf base}/{ID}.
	DocumentURL string `json:"document_url" yaml:"document_url"`

	// Published is the publication timestamp exactly as the feed returned it.
	Published string `json:"published" yaml:"published"`

	// Authors lists author names in feed order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`
}

// ExtractedContent is the text pulled out of a downloaded document.
type ExtractedContent struct {
	// Text is the extracted text, possibly cut short and followed by the
	// truncation sentinel.
	Text string `json:"text" yaml:"text"`

	// Pages is the page count reported by the extractor (0 if unknown).
	Pages int `json:"pages" yaml:"pages"`

	// Truncated is set when Text was cut at the size bound.
	Truncated bool `json:"truncated" yaml:"truncated"`
}

// TransformedDocument is the model's restructured text for one paper.
type TransformedDocument struct {
	PaperID string `json:"paper_id" yaml:"paper_id"`
	Text    string `json:"text" yaml:"text"`
}
