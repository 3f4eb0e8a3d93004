// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor reads PDFs in-process.
type PDFExtractor struct{}

// Name returns the backend identifier.
func (PDFExtractor) Name() string { return "pdf" }

// Extract returns the plain text of every page, pages separated by a
// newline. Pages whose text cannot be decoded are skipped; a document
// that cannot be opened at all is an error.
func (PDFExtractor) Extract(ctx context.Context, data []byte) (text string, pages int, err error) {
	// The PDF reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, pages = "", 0
			err = fmt.Errorf("parsing PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("opening PDF: %w", err)
	}

	pages = r.NumPage()
	var b strings.Builder
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", 0, err
		}

		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pt, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(pt)
		b.WriteString("\n")
	}

	return b.String(), pages, nil
}
