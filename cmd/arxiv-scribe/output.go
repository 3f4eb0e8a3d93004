// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/pdiddy/arxiv-scribe/internal/ledger"
	"github.com/pdiddy/arxiv-scribe/pkg/types"
)

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	dimColor  = color.New(color.Faint)
)

func printRunSummary(w io.Writer, out types.RunOutput) {
	fmt.Fprintln(w)
	printOutcomes(w, out.Outcomes)
	fmt.Fprintln(w)

	total := len(out.Outcomes)
	switch {
	case total == 0:
		fmt.Fprintln(w, "No papers found.")
	case out.Failures() == 0:
		okColor.Fprintf(w, "Saved %d of %d papers.\n", out.ProcessedCount, total)
	default:
		failColor.Fprintf(w, "Saved %d of %d papers; %d failed.\n", out.ProcessedCount, total, out.Failures())
	}
}

func printOutcomes(w io.Writer, outcomes []types.PaperOutcome) {
	for _, o := range outcomes {
		if o.Status == types.OutcomeSaved {
			okColor.Fprintf(w, "  ok      ")
			fmt.Fprintf(w, "%-12s %s", o.PaperID, o.OutputPath)
			if o.Truncated {
				dimColor.Fprint(w, "  (truncated)")
			}
			fmt.Fprintln(w)
			continue
		}
		failColor.Fprintf(w, "  failed  ")
		fmt.Fprintf(w, "%-12s %s: %s\n", o.PaperID, o.Step, o.Error)
	}
}

func printHistory(w io.Writer, runs []ledger.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	fmt.Fprintf(w, "%-5s  %-20s  %-9s  %s\n", "RUN", "STARTED", "SAVED", "TOPIC")
	for _, r := range runs {
		topic := r.Topic
		if topic == "" {
			topic = "(explicit papers)"
		}
		saved := fmt.Sprintf("%d/%d", r.Processed, r.Total)
		if r.FinishedAt.IsZero() {
			saved = "unfinished"
		}

		fmt.Fprintf(w, "%-5d  %-20s  ", r.ID, r.StartedAt.Local().Format(time.DateTime))
		c := okColor
		if r.Failed > 0 || r.FinishedAt.IsZero() {
			c = failColor
		}
		c.Fprintf(w, "%-9s", saved)
		fmt.Fprintf(w, "  %s\n", topic)
	}
}
