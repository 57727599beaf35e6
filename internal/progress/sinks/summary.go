package sinks

import (
	"context"
	"sync"
	"time"

	"github.com/WorkOfStan/web-pages-to-pdf/internal/progress"
)

// Summary is a point-in-time snapshot of a capture run.
type Summary struct {
	RunID      string     `json:"run_id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Total      int        `json:"total"`
	Rendered   int        `json:"rendered"`
	Skipped    int        `json:"skipped"`
	Failed     int        `json:"failed"`
	LastURL    string     `json:"last_url,omitempty"`
	Done       bool       `json:"done"`
}

// SummaryStore keeps an in-memory run summary updated from progress events.
// The status API and the end-of-run report read from it.
type SummaryStore struct {
	mu      sync.RWMutex
	summary Summary
}

// NewSummaryStore returns an empty store.
func NewSummaryStore() *SummaryStore {
	return &SummaryStore{}
}

// Consume folds the batch into the summary.
func (s *SummaryStore) Consume(_ context.Context, batch []progress.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, evt := range batch {
		switch evt.Stage {
		case progress.StageRunStart:
			s.summary = Summary{
				RunID:     evt.RunUUID().String(),
				StartedAt: evt.TS,
				Total:     evt.Total,
			}
		case progress.StageRunDone:
			ts := evt.TS
			s.summary.FinishedAt = &ts
			s.summary.Done = true
		case progress.StageCaptureDone:
			s.summary.LastURL = evt.URL
			switch evt.Outcome {
			case "rendered":
				s.summary.Rendered++
			case "skipped":
				s.summary.Skipped++
			case "failed":
				s.summary.Failed++
			}
		}
	}
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *SummaryStore) Close(context.Context) error {
	return nil
}

// Snapshot returns a copy of the current summary.
func (s *SummaryStore) Snapshot() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}
