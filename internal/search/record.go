// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/arxiv-scribe/pkg/types"
)

// ErrMalformedID is returned when an arXiv identifier cannot be pulled out
// of a URL or string.
var ErrMalformedID = errors.New("malformed arXiv identifier")

// idPattern matches the numeric identifier at the end of an Atom entry id
// (e.g. "http://arxiv.org/abs/2301.07041v1"). The version suffix is dropped.
var idPattern = regexp.MustCompile(`/abs/(\d{4}\.\d{4,5})(?:v\d+)?$`)

// paperURLPattern matches an abs or pdf page URL for a single paper.
var paperURLPattern = regexp.MustCompile(`/(?:abs|pdf)/(\d{4}\.\d{4,5})(?:v\d+)?(?:\.pdf)?/?$`)

// bareIDPattern matches "2301.07041", "arXiv:2301.07041", "2301.07041v2".
var bareIDPattern = regexp.MustCompile(`^(?:arXiv:)?(\d{4}\.\d{4,5})(?:v\d+)?$`)

// ExtractID pulls the arXiv identifier from an entry's canonical URL.
func ExtractID(entryURL string) (string, error) {
	m := idPattern.FindStringSubmatch(strings.TrimSpace(entryURL))
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedID, entryURL)
	}
	return m[1], nil
}

// DocumentURL derives the PDF location for an identifier. It never touches
// the network.
func DocumentURL(base, id string) string {
	return strings.TrimSuffix(base, "/") + "/" + id
}

// RecordFromURL builds a record for a single paper given its abs or pdf
// URL, or a bare identifier. Only ID and DocumentURL are filled in.
func RecordFromURL(raw, pdfBase string) (types.PaperRecord, error) {
	raw = strings.TrimSpace(raw)

	var id string
	if m := bareIDPattern.FindStringSubmatch(raw); m != nil {
		id = m[1]
	} else if m := paperURLPattern.FindStringSubmatch(raw); m != nil {
		id = m[1]
	} else {
		return types.PaperRecord{}, fmt.Errorf("%w: %q", ErrMalformedID, raw)
	}

	return types.PaperRecord{
		ID:          id,
		Title:       id,
		DocumentURL: DocumentURL(pdfBase, id),
	}, nil
}

// collapseSpace folds runs of whitespace (including the newlines arXiv puts
// in titles and abstracts) into single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
