// Package progress defines the event structures emitted by a capture run.
package progress

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage denotes the type of milestone represented by an Event.
type Stage string

// Supported progress stages.
const (
	StageRunStart     Stage = "RUN_START"
	StageRunDone      Stage = "RUN_DONE"
	StageCaptureStart Stage = "CAPTURE_START"
	StageCaptureDone  Stage = "CAPTURE_DONE"
)

// Event captures a single milestone of capture progress.
type Event struct {
	// RunID uniquely identifies a run using the 16-byte UUID form.
	RunID [16]byte
	// TS is the UTC timestamp recorded by the emitter.
	TS time.Time
	// Stage denotes which lifecycle or capture milestone occurred.
	Stage Stage
	// Index is the 1-based task position for capture events.
	Index int
	// Total carries the task count on RUN_START.
	Total int
	// URL is the task's original URL for capture events.
	URL string
	// Outcome is the terminal kind for CAPTURE_DONE (rendered, skipped, failed).
	Outcome string
	// Source says whether a rendered PDF came from the live page or an archive.
	Source string
	// Reason carries the failure reason for failed captures.
	Reason string
	// Dur captures execution latency for captures and run completion.
	Dur time.Duration
	// Note lets emitters attach low-volume debug context.
	Note string
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.RunID == [16]byte{} {
		return errors.New("run id is required")
	}
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	switch e.Stage {
	case StageRunStart, StageRunDone:
	case StageCaptureStart:
		if e.Index < 1 {
			return errors.New("capture start requires a 1-based index")
		}
	case StageCaptureDone:
		if e.Index < 1 {
			return errors.New("capture done requires a 1-based index")
		}
		if e.Outcome == "" {
			return errors.New("capture done requires an outcome")
		}
	default:
		return fmt.Errorf("unknown stage %q", e.Stage)
	}
	if e.Dur < 0 {
		return errors.New("duration must be >= 0")
	}
	return nil
}

// RunUUID converts the binary run ID to uuid.UUID.
func (e Event) RunUUID() uuid.UUID {
	return uuid.UUID(e.RunID)
}

// UUIDToBytes encodes a uuid.UUID into the Event form.
func UUIDToBytes(id uuid.UUID) [16]byte {
	var dest [16]byte
	copy(dest[:], id[:])
	return dest
}
