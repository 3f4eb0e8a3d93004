// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/arxiv-scribe/pkg/types"
)

// QueryFile is the on-disk representation of a search and its results.
// A saved search can be processed later without querying arXiv again.
type QueryFile struct {
	Topic      string              `yaml:"topic"`
	MaxResults int                 `yaml:"max_results"`
	Timestamp  time.Time           `yaml:"timestamp"`
	Papers     []types.PaperRecord `yaml:"papers"`
}

// WriteQueryFile saves a search and its records to a YAML file.
func WriteQueryFile(path, topic string, maxResults int, records []types.PaperRecord) error {
	qf := QueryFile{
		Topic:      topic,
		MaxResults: maxResults,
		Timestamp:  time.Now().UTC(),
		Papers:     records,
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved search. Every stored record must
// still carry a well-formed identifier.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	for i, p := range qf.Papers {
		if !bareIDPattern.MatchString(p.ID) {
			return nil, fmt.Errorf("query file paper %d: %w: %q", i, ErrMalformedID, p.ID)
		}
		if p.DocumentURL == "" {
			return nil, fmt.Errorf("query file paper %s: missing document_url", p.ID)
		}
	}
	return &qf, nil
}
