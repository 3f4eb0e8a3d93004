// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/arxiv-scribe/pkg/types"
)

const sampleArxivSearchXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2406.01234v1</id>
    <title>Knowledge Graphs
      Meet Large Language Models</title>
    <summary>  We study how LLMs
      reason over graph knowledge. </summary>
    <published>2024-06-03T17:57:34Z</published>
    <author><name>Ada Lovelace</name></author>
    <author><name>Alan Turing</name></author>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2406.05678v2</id>
    <title>Graph Retrieval for LLMs</title>
    <summary>We introduce a retriever.</summary>
    <published>2024-06-07T09:00:00Z</published>
    <author><name>Grace Hopper</name></author>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2405.11111v1</id>
    <title>An Older Paper</title>
    <summary>Older.</summary>
    <published>2024-05-20T09:00:00Z</published>
  </entry>
</feed>`

func testCfg(apiURL string) types.SearchConfig {
	return types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "test/0.1",
		},
		APIURL:     apiURL,
		PDFBase:    "https://arxiv.org/pdf",
		MaxResults: 5,
	}
}

func newFeedServer(t *testing.T, body string, gotQuery *string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotQuery != nil {
			*gotQuery = r.URL.RawQuery
		}
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestArxivFinderFind(t *testing.T) {
	var rawQuery string
	ts := newFeedServer(t, sampleArxivSearchXML, &rawQuery)

	f := NewArxivFinder(testCfg(ts.URL))
	records, err := f.Find(context.Background(), "LLM Graph Knowledge", 5)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}

	// Newest first regardless of feed order.
	wantOrder := []string{"2406.05678", "2406.01234", "2405.11111"}
	for i, want := range wantOrder {
		if records[i].ID != want {
			t.Errorf("records[%d].ID = %q, want %q", i, records[i].ID, want)
		}
	}

	r := records[1]
	if r.Title != "Knowledge Graphs Meet Large Language Models" {
		t.Errorf("Title = %q", r.Title)
	}
	if r.Summary != "We study how LLMs reason over graph knowledge." {
		t.Errorf("Summary = %q", r.Summary)
	}
	if r.DocumentURL != "https://arxiv.org/pdf/2406.01234" {
		t.Errorf("DocumentURL = %q", r.DocumentURL)
	}
	if r.Published != "2024-06-03T17:57:34Z" {
		t.Errorf("Published = %q", r.Published)
	}
	if len(r.Authors) != 2 {
		t.Errorf("len(Authors) = %d, want 2", len(r.Authors))
	}

	for _, want := range []string{
		"search_query=all%3ALLM+Graph+Knowledge",
		"start=0",
		"max_results=5",
		"sortBy=submittedDate",
		"sortOrder=descending",
	} {
		if !strings.Contains(rawQuery, want) {
			t.Errorf("query %q missing %q", rawQuery, want)
		}
	}
}

func TestArxivFinderRespectsMaxResults(t *testing.T) {
	idPat := regexp.MustCompile(`^\d{4}\.\d{4,5}$`)
	ts := newFeedServer(t, sampleArxivSearchXML, nil)
	f := NewArxivFinder(testCfg(ts.URL))

	for _, n := range []int{1, 2, 3, 10} {
		t.Run(fmt.Sprintf("max=%d", n), func(t *testing.T) {
			records, err := f.Find(context.Background(), "LLM Graph Knowledge", n)
			if err != nil {
				t.Fatalf("Find: %v", err)
			}
			if len(records) > n {
				t.Errorf("len(records) = %d, want <= %d", len(records), n)
			}
			for _, r := range records {
				if !idPat.MatchString(r.ID) {
					t.Errorf("ID %q does not match numeric pattern", r.ID)
				}
			}
		})
	}
}

func TestArxivFinderDefaultMaxResults(t *testing.T) {
	var rawQuery string
	ts := newFeedServer(t, sampleArxivSearchXML, &rawQuery)
	f := NewArxivFinder(testCfg(ts.URL))

	if _, err := f.Find(context.Background(), "graphs", 0); err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !strings.Contains(rawQuery, "max_results=5") {
		t.Errorf("query %q should use default max_results=5", rawQuery)
	}
}

func TestArxivFinderEmptyFeed(t *testing.T) {
	ts := newFeedServer(t, `<feed xmlns="http://www.w3.org/2005/Atom"></feed>`, nil)
	f := NewArxivFinder(testCfg(ts.URL))

	records, err := f.Find(context.Background(), "nothing", 5)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("len(records) = %d, want 0", len(records))
	}
}

func TestArxivFinderErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		topic   string
		wantErr string
	}{
		{
			name:    "empty topic",
			handler: func(w http.ResponseWriter, r *http.Request) {},
			topic:   "   ",
			wantErr: "topic is empty",
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			topic:   "graphs",
			wantErr: "HTTP 503",
		},
		{
			name: "bad xml",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, "<feed><entry>")
			},
			topic:   "graphs",
			wantErr: "parsing arXiv response",
		},
		{
			name: "malformed entry id",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `<feed><entry><id>http://arxiv.org/abs/hep-th/9901001v1</id></entry></feed>`)
			},
			topic:   "graphs",
			wantErr: "malformed arXiv identifier",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			f := NewArxivFinder(testCfg(ts.URL))
			records, err := f.Find(context.Background(), tt.topic, 5)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
			}
			if records != nil {
				t.Errorf("records = %v, want nil on failure", records)
			}
		})
	}
}

func TestArxivFinderMalformedIDIsSentinel(t *testing.T) {
	ts := newFeedServer(t, `<feed><entry><id>urn:nothing</id></entry></feed>`, nil)
	f := NewArxivFinder(testCfg(ts.URL))

	_, err := f.Find(context.Background(), "graphs", 5)
	if !errors.Is(err, ErrMalformedID) {
		t.Errorf("err = %v, want ErrMalformedID", err)
	}
}

func TestNewArxivFinderDefaults(t *testing.T) {
	f := NewArxivFinder(types.SearchConfig{})
	if f.Config.APIURL != DefaultAPIURL {
		t.Errorf("APIURL = %q, want %q", f.Config.APIURL, DefaultAPIURL)
	}
	if f.Config.PDFBase != DefaultPDFBase {
		t.Errorf("PDFBase = %q, want %q", f.Config.PDFBase, DefaultPDFBase)
	}
}
