// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists transformed documents as Markdown files named by
// paper identifier.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/arxiv-scribe/pkg/types"
)

// idReplacer turns path separators into dashes.
var idReplacer = strings.NewReplacer("/", "-", `\`, "-")

// SanitizeID returns a filename stem for id with path separators replaced.
// "a/b" becomes "a-b".
func SanitizeID(id string) string {
	return idReplacer.Replace(id)
}

// Writer writes documents under a single directory.
type Writer struct {
	dir string
}

// NewWriter returns a Writer rooted at dir. The directory is created on the
// first Save, not here.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// PathFor returns the file Save would write for id.
func (w *Writer) PathFor(id string) string {
	return filepath.Join(w.dir, SanitizeID(id)+".md")
}

// Save writes text to {dir}/{sanitized id}.md, creating the directory if
// needed. An existing file with the same name is overwritten.
func (w *Writer) Save(id, text string) types.SaveResult {
	if strings.TrimSpace(id) == "" {
		return types.SaveResult{Err: fmt.Errorf("empty paper identifier")}
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return types.SaveResult{Err: fmt.Errorf("creating directory %s: %w", w.dir, err)}
	}

	path := w.PathFor(id)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return types.SaveResult{Err: fmt.Errorf("writing %s: %w", path, err)}
	}
	return types.SaveResult{Path: path}
}
