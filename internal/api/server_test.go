package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/WorkOfStan/web-pages-to-pdf/internal/progress"
	"github.com/WorkOfStan/web-pages-to-pdf/internal/progress/sinks"
)

func newTestServer(t *testing.T) (*Server, *sinks.SummaryStore) {
	t.Helper()
	registry := prometheus.NewRegistry()
	sink, err := sinks.NewPrometheusSink(registry)
	require.NoError(t, err)
	summary := sinks.NewSummaryStore()

	runID := progress.UUIDToBytes(uuid.New())
	now := time.Now().UTC()
	batch := []progress.Event{
		{RunID: runID, TS: now, Stage: progress.StageRunStart, Total: 2},
		{RunID: runID, TS: now, Stage: progress.StageCaptureDone, Index: 1, URL: "http://example.com", Outcome: "rendered", Source: "live", Dur: time.Second},
	}
	require.NoError(t, sink.Consume(context.Background(), batch))
	require.NoError(t, summary.Consume(context.Background(), batch))

	return NewServer(summary, registry, nil), summary
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "ok", body["status"])
}

func TestProgressEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/progress", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got sinks.Summary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.NotEmpty(t, got.RunID)
	require.Equal(t, 2, got.Total)
	require.Equal(t, 1, got.Rendered)
	require.Equal(t, "http://example.com", got.LastURL)
	require.False(t, got.Done)
}

func TestProgressWithoutSummary(t *testing.T) {
	srv := NewServer(nil, nil, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/progress", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "webpdf_runs_started_total")
	require.Contains(t, rec.Body.String(), "webpdf_captures_total")
}

func TestMetricsAbsentWithoutRegistry(t *testing.T) {
	srv := NewServer(sinks.NewSummaryStore(), nil, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(ctx, "127.0.0.1:0")
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down after cancel")
	}
}
