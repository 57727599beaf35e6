package archive

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(endpoint string) *Client {
	return NewClient(endpoint, 2*time.Second, zap.NewNop())
}

func TestResolve_SnapshotFound(t *testing.T) {
	const original = "http://example.com/article"
	const snapshot = "http://web.archive.org/web/20240101000000/http://example.com/article"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, original, r.URL.Query().Get("url"))
		fmt.Fprintf(w, `{"archived_snapshots":{"closest":{"url":%q,"available":true,"timestamp":"20240101000000","status":"200"}}}`, snapshot)
	}))
	defer srv.Close()

	got, ok := newTestClient(srv.URL).Resolve(context.Background(), original)
	require.True(t, ok)
	require.Equal(t, snapshot, got)
}

func TestResolve_NoSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"archived_snapshots":{}}`)
	}))
	defer srv.Close()

	_, ok := newTestClient(srv.URL).Resolve(context.Background(), "http://example.com")
	require.False(t, ok)
}

func TestResolve_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, ok := newTestClient(srv.URL).Resolve(context.Background(), "http://example.com")
	require.False(t, ok)
}

func TestResolve_UndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html>not json</html>`)
	}))
	defer srv.Close()

	_, ok := newTestClient(srv.URL).Resolve(context.Background(), "http://example.com")
	require.False(t, ok)
}

func TestResolve_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	_, ok := newTestClient(endpoint).Resolve(context.Background(), "http://example.com")
	require.False(t, ok)
}

func TestResolve_QueryEscaping(t *testing.T) {
	const original = "http://example.com/a?b=c&d=e"

	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Query().Get("url")
		fmt.Fprint(w, `{"archived_snapshots":{}}`)
	}))
	defer srv.Close()

	_, _ = newTestClient(srv.URL).Resolve(context.Background(), original)
	require.Equal(t, original, seen, "the original URL must survive query encoding")
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("", time.Second, nil)
	require.Equal(t, DefaultEndpoint, c.endpoint)
	require.NotNil(t, c.logger)
}
