// Package capture defines the core types and the per-link capture pipeline.
package capture

// LinkRecord is one bookmarked page taken from an export file. Records are
// immutable once produced by the export reader; duplicates are not
// deduplicated, each record is processed independently.
type LinkRecord struct {
	URL   string
	Title string
	Tags  []string
}

// Task pairs a record with its 1-based position in the input sequence and the
// resolved output path. The output path is the task's natural key: a file
// existing there is the sole idempotence signal.
type Task struct {
	Index      int
	Record     LinkRecord
	OutputPath string
}

// Source identifies which URL produced a rendered PDF.
type Source string

// Render sources.
const (
	SourceLive    Source = "live"
	SourceArchive Source = "archive"
)

// OutcomeKind is the terminal state of one task.
type OutcomeKind string

// Terminal outcome kinds. Every task reaches exactly one of these.
const (
	OutcomeSkipped  OutcomeKind = "skipped"
	OutcomeRendered OutcomeKind = "rendered"
	OutcomeFailed   OutcomeKind = "failed"
)

// Failure reasons attached to OutcomeFailed.
const (
	ReasonArchiveRenderFailed      = "archive-render-failed"
	ReasonNoSnapshotFound          = "no-snapshot-found"
	ReasonNoSnapshotAndRetryFailed = "no-snapshot-and-retry-failed"
)

// Outcome is the result of processing one task.
type Outcome struct {
	Kind   OutcomeKind
	Source Source
	Reason string
}

// Counters aggregates terminal outcomes across a run.
type Counters struct {
	Rendered int
	Skipped  int
	Failed   int
}

// Total returns the number of tasks that reached a terminal state.
func (c Counters) Total() int {
	return c.Rendered + c.Skipped + c.Failed
}

func (c *Counters) add(o Outcome) {
	switch o.Kind {
	case OutcomeSkipped:
		c.Skipped++
	case OutcomeRendered:
		c.Rendered++
	case OutcomeFailed:
		c.Failed++
	}
}
