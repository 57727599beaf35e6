package capture

import (
	"context"
	"time"
)

// Prober classifies a URL as worth a render attempt. Implementations absorb
// every network failure and answer false; no error crosses this boundary.
type Prober interface {
	Accessible(ctx context.Context, rawURL string) bool
}

// Renderer converts a URL into a PDF at the given path. Any failure mode
// (non-zero exit, timeout, protocol error) surfaces as a returned error; the
// pipeline never inspects the filesystem to infer render success.
type Renderer interface {
	RenderPDF(ctx context.Context, rawURL, outputPath string) error
}

// SnapshotResolver looks up the most recent archived copy of a URL. A lookup
// that fails for any reason reports ok=false, never an error.
type SnapshotResolver interface {
	Resolve(ctx context.Context, rawURL string) (snapshot string, ok bool)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
