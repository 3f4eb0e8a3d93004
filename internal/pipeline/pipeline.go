// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs search, fetch, transform, and save for a topic,
// one paper at a time.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pdiddy/arxiv-scribe/pkg/types"
)

// State is the coordinator's lifecycle stage.
type State int

const (
	StateIdle State = iota
	StateSearching
	StateProcessing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSearching:
		return "searching"
	case StateProcessing:
		return "processing"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Finder returns the records to process for a topic.
type Finder interface {
	Find(ctx context.Context, topic string, maxResults int) ([]types.PaperRecord, error)
}

// Fetcher downloads a document and extracts its text.
type Fetcher interface {
	Fetch(ctx context.Context, url, id string) types.FetchResult
}

// Transformer restructures extracted text.
type Transformer interface {
	Transform(ctx context.Context, record types.PaperRecord, content types.ExtractedContent) types.TransformResult
}

// Saver persists a transformed document.
type Saver interface {
	Save(id, text string) types.SaveResult
}

// Recorder keeps an audit trail of runs. Its errors are logged and never
// stop a run.
type Recorder interface {
	BeginRun(ctx context.Context, topic string, started time.Time) (int64, error)
	RecordPaper(ctx context.Context, runID int64, outcome types.PaperOutcome) error
	FinishRun(ctx context.Context, runID int64, out types.RunOutput, finished time.Time) error
}

// Coordinator drives one run. It is not safe for concurrent use.
type Coordinator struct {
	Finder      Finder
	Fetcher     Fetcher
	Transformer Transformer
	Saver       Saver

	// Recorder is optional.
	Recorder Recorder

	// Status receives one line per paper. Nil discards it.
	Status io.Writer

	Logger *slog.Logger

	state State
	now   func() time.Time
}

// State reports where the coordinator is in its lifecycle.
func (c *Coordinator) State() State { return c.state }

// Run searches for topic and processes every record found. A search
// failure is returned as an error; per-paper failures are reported in the
// RunOutput only.
func (c *Coordinator) Run(ctx context.Context, topic string, maxResults int) (types.RunOutput, error) {
	c.state = StateSearching
	c.logger().Info("search_started", "topic", topic, "max_results", maxResults)

	records, err := c.Finder.Find(ctx, topic, maxResults)
	if err != nil {
		c.state = StateDone
		return types.RunOutput{}, fmt.Errorf("searching arXiv for %q: %w", topic, err)
	}
	c.logger().Info("search_finished", "topic", topic, "records", len(records))

	return c.process(ctx, topic, records), nil
}

// RunRecords processes records without searching, e.g. a single paper URL
// or a saved query file.
func (c *Coordinator) RunRecords(ctx context.Context, records []types.PaperRecord) types.RunOutput {
	return c.process(ctx, "", records)
}

func (c *Coordinator) process(ctx context.Context, topic string, records []types.PaperRecord) types.RunOutput {
	c.state = StateProcessing
	log := c.logger()
	w := c.status()

	runID := c.beginRun(ctx, topic)

	out := types.RunOutput{
		SavedFiles: []string{},
		Outcomes:   make([]types.PaperOutcome, 0, len(records)),
	}
	for i, rec := range records {
		fmt.Fprintf(w, "[%d/%d] %s  %s\n", i+1, len(records), rec.ID, rec.Title)

		outcome := c.processOne(ctx, rec)
		out.Outcomes = append(out.Outcomes, outcome)

		if outcome.Status == types.OutcomeSaved {
			out.ProcessedCount++
			out.SavedFiles = append(out.SavedFiles, outcome.OutputPath)
			fmt.Fprintf(w, "  saved:  %s\n", outcome.OutputPath)
		} else {
			log.Warn("paper_"+string(outcome.Step)+"_failed",
				"paper_id", rec.ID,
				"url", rec.DocumentURL,
				"error", outcome.Error,
			)
			fmt.Fprintf(w, "  failed: %s: %s\n", outcome.Step, outcome.Error)
		}

		if runID != 0 {
			if err := c.Recorder.RecordPaper(ctx, runID, outcome); err != nil {
				log.Error("ledger_record_failed", "paper_id", rec.ID, "error", err)
			}
		}
	}

	if runID != 0 {
		if err := c.Recorder.FinishRun(ctx, runID, out, c.clock()); err != nil {
			log.Error("ledger_finish_failed", "run_id", runID, "error", err)
		}
	}

	c.state = StateDone
	log.Info("run_finished",
		"processed", out.ProcessedCount,
		"failed", out.Failures(),
		"total", len(records),
	)
	return out
}

// processOne runs fetch, transform, and save for one record, stopping at
// the first failing step.
func (c *Coordinator) processOne(ctx context.Context, rec types.PaperRecord) types.PaperOutcome {
	outcome := types.PaperOutcome{PaperID: rec.ID, Title: rec.Title, Status: types.OutcomeFailed}

	fetched := c.Fetcher.Fetch(ctx, rec.DocumentURL, rec.ID)
	if fetched.Failed() {
		outcome.Step, outcome.Error = types.StepFetch, fetched.Err.Error()
		return outcome
	}
	outcome.Pages = fetched.Content.Pages
	outcome.Truncated = fetched.Content.Truncated

	transformed := c.Transformer.Transform(ctx, rec, fetched.Content)
	if transformed.Failed() {
		outcome.Step, outcome.Error = types.StepTransform, transformed.Err.Error()
		return outcome
	}

	saved := c.Saver.Save(rec.ID, transformed.Document.Text)
	if saved.Failed() {
		outcome.Step, outcome.Error = types.StepSave, saved.Err.Error()
		return outcome
	}

	outcome.Status = types.OutcomeSaved
	outcome.OutputPath = saved.Path
	return outcome
}

// beginRun opens a ledger entry. It returns 0 when there is no recorder
// or the ledger could not be written.
func (c *Coordinator) beginRun(ctx context.Context, topic string) int64 {
	if c.Recorder == nil {
		return 0
	}
	id, err := c.Recorder.BeginRun(ctx, topic, c.clock())
	if err != nil {
		c.logger().Error("ledger_begin_failed", "topic", topic, "error", err)
		return 0
	}
	return id
}

func (c *Coordinator) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

func (c *Coordinator) status() io.Writer {
	if c.Status == nil {
		return io.Discard
	}
	return c.Status
}

func (c *Coordinator) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now().UTC()
}
