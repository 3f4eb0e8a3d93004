// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/arxiv-scribe/pkg/types"
)

// FormatTable writes records as a human-readable table to w.
func FormatTable(records []types.PaperRecord, w io.Writer) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No papers found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-12s  %-60s  %-20s  %s\n",
		"#", "ID", "Title", "Authors", "Published")
	fmt.Fprintln(w, strings.Repeat("-", 112))

	for i, r := range records {
		published := r.Published
		if len(published) > 10 {
			published = published[:10]
		}
		fmt.Fprintf(w, "%-4d  %-12s  %-60s  %-20s  %s\n",
			i+1, r.ID, truncate(r.Title, 60), formatAuthors(r.Authors), published)
	}

	fmt.Fprintf(w, "\n%d papers\n", len(records))
}

// FormatJSON writes records as indented JSON to w.
func FormatJSON(records []types.PaperRecord, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
