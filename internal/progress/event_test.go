package progress

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func validEvent(stage Stage) Event {
	return Event{
		RunID:   UUIDToBytes(uuid.New()),
		TS:      time.Now(),
		Stage:   stage,
		Index:   1,
		URL:     "http://example.com",
		Outcome: "rendered",
	}
}

func TestEventValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Event)
		wantErr bool
	}{
		{name: "valid run start", mutate: func(e *Event) { e.Stage = StageRunStart; e.Index = 0 }},
		{name: "valid capture done", mutate: func(*Event) {}},
		{name: "missing run id", mutate: func(e *Event) { e.RunID = [16]byte{} }, wantErr: true},
		{name: "missing timestamp", mutate: func(e *Event) { e.TS = time.Time{} }, wantErr: true},
		{name: "unknown stage", mutate: func(e *Event) { e.Stage = "WAT" }, wantErr: true},
		{name: "capture start without index", mutate: func(e *Event) { e.Stage = StageCaptureStart; e.Index = 0 }, wantErr: true},
		{name: "capture done without outcome", mutate: func(e *Event) { e.Outcome = "" }, wantErr: true},
		{name: "negative duration", mutate: func(e *Event) { e.Dur = -time.Second }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt := validEvent(StageCaptureDone)
			tt.mutate(&evt)
			err := evt.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestRunUUIDRoundTrip(t *testing.T) {
	id := uuid.New()
	evt := Event{RunID: UUIDToBytes(id)}
	if evt.RunUUID() != id {
		t.Fatalf("round trip mismatch: %s vs %s", evt.RunUUID(), id)
	}
}
