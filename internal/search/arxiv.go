// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries the arXiv API for papers matching a topic and
// returns them as PaperRecords, most recent first.
package search

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/arxiv-scribe/internal/httputil"
	"github.com/pdiddy/arxiv-scribe/pkg/types"
)

const (
	// DefaultAPIURL is the arXiv search endpoint.
	DefaultAPIURL = "https://export.arxiv.org/api/query"

	// DefaultPDFBase is the prefix document URLs are derived from.
	DefaultPDFBase = "https://arxiv.org/pdf"

	// DefaultMaxResults applies when the caller passes a non-positive count.
	DefaultMaxResults = 5
)

// ErrEmptyTopic is returned by Find when the topic has no search terms.
var ErrEmptyTopic = errors.New("topic is empty")

// Finder returns paper records for a topic.
type Finder interface {
	Find(ctx context.Context, topic string, maxResults int) ([]types.PaperRecord, error)
}

// ArxivFinder queries the arXiv Atom API.
type ArxivFinder struct {
	Client *http.Client
	Config types.SearchConfig
}

// NewArxivFinder returns a finder whose HTTP client uses cfg.Timeout.
// Empty endpoint settings fall back to the public arXiv hosts.
func NewArxivFinder(cfg types.SearchConfig) *ArxivFinder {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.PDFBase == "" {
		cfg.PDFBase = DefaultPDFBase
	}
	return &ArxivFinder{
		Client: &http.Client{Timeout: cfg.Timeout},
		Config: cfg,
	}
}

// Find queries arXiv for topic and returns at most maxResults records,
// newest first. Any network, status, or parse failure, and any entry whose
// id does not carry a recognizable identifier, fails the whole call.
func (f *ArxivFinder) Find(ctx context.Context, topic string, maxResults int) ([]types.PaperRecord, error) {
	topic = collapseSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	body, err := httputil.Get(ctx, f.Client, httputil.Request{
		URL:       f.queryURL(topic, maxResults),
		UserAgent: f.Config.UserAgent,
		Accept:    "application/atom+xml",
	})
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}

	var feed arxivFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	records := make([]types.PaperRecord, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		id, err := ExtractID(entry.ID)
		if err != nil {
			return nil, err
		}

		r := types.PaperRecord{
			ID:          id,
			Title:       collapseSpace(entry.Title),
			Summary:     collapseSpace(entry.Summary),
			DocumentURL: DocumentURL(f.Config.PDFBase, id),
			Published:   strings.TrimSpace(entry.Published),
		}
		for _, a := range entry.Authors {
			r.Authors = append(r.Authors, strings.TrimSpace(a.Name))
		}
		records = append(records, r)
	}

	// RFC 3339 timestamps in UTC order correctly as strings.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Published > records[j].Published
	})

	if len(records) > maxResults {
		records = records[:maxResults]
	}
	return records, nil
}

// queryURL builds the search request for topic.
func (f *ArxivFinder) queryURL(topic string, maxResults int) string {
	params := url.Values{
		"search_query": {"all:" + topic},
		"start":        {"0"},
		"max_results":  {strconv.Itoa(maxResults)},
		"sortBy":       {"submittedDate"},
		"sortOrder":    {"descending"},
	}
	return f.Config.APIURL + "?" + params.Encode()
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}
