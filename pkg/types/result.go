// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Step names a per-paper pipeline step.
type Step string

const (
	StepFetch     Step = "fetch"
	StepTransform Step = "transform"
	StepSave      Step = "save"
)

// OutcomeStatus is the final state of one paper in a run.
type OutcomeStatus string

const (
	OutcomeSaved  OutcomeStatus = "saved"
	OutcomeFailed OutcomeStatus = "failed"
)

// FetchResult is the tagged result of fetching one document. Err is nil on
// success; Content is meaningful only then.
type FetchResult struct {
	Content ExtractedContent
	Err     error
}

// Failed reports whether the fetch failed.
func (r FetchResult) Failed() bool { return r.Err != nil }

// TransformResult is the tagged result of transforming one document.
type TransformResult struct {
	Document TransformedDocument
	Err      error
}

// Failed reports whether the transform failed.
func (r TransformResult) Failed() bool { return r.Err != nil }

// SaveResult is the tagged result of persisting one document.
type SaveResult struct {
	// Path is the file that was written.
	Path string
	Err  error
}

// Failed reports whether the save failed.
func (r SaveResult) Failed() bool { return r.Err != nil }

// PaperOutcome summarizes what happened to one record during a run.
type PaperOutcome struct {
	PaperID string        `json:"paper_id" yaml:"paper_id"`
	Title   string        `json:"title" yaml:"title"`
	Status  OutcomeStatus `json:"status" yaml:"status"`

	// Step is the step that failed. Empty when Status is saved.
	Step Step `json:"step,omitempty" yaml:"step,omitempty"`

	// Error records the failure message. Empty on success.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	Pages      int    `json:"pages,omitempty" yaml:"pages,omitempty"`
	Truncated  bool   `json:"truncated,omitempty" yaml:"truncated,omitempty"`
}

// RunOutput is the final result of a pipeline run.
type RunOutput struct {
	// ProcessedCount is the number of papers saved successfully.
	ProcessedCount int `json:"processed_count" yaml:"processed_count"`

	// SavedFiles lists output paths in processing order.
	SavedFiles []string `json:"saved_files" yaml:"saved_files"`

	// Outcomes holds one entry per record, in processing order.
	Outcomes []PaperOutcome `json:"outcomes" yaml:"outcomes"`
}

// Failures returns the number of records that did not reach disk.
func (o RunOutput) Failures() int {
	return len(o.Outcomes) - o.ProcessedCount
}
