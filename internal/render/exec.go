package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// ExecRenderer runs the Chrome executable once per page:
//
//	chrome --headless --disable-gpu --print-to-pdf=<path> <url>
//
// The subprocess is bounded by the configured timeout and is killed on
// expiry; no orphaned processes survive a call.
type ExecRenderer struct {
	chromePath string
	timeout    time.Duration
	logger     *zap.Logger
}

// NewExecRenderer resolves the executable and returns a renderer. A bare
// name is looked up on PATH; resolution failure is not reported here, it
// surfaces as a render failure like any other execution error.
func NewExecRenderer(chromePath string, timeout time.Duration, logger *zap.Logger) *ExecRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecRenderer{
		chromePath: resolveChromePath(chromePath),
		timeout:    timeout,
		logger:     logger,
	}
}

// RenderPDF prints the page at rawURL to outputPath. Chrome writes to a
// temporary path which is renamed into place only on a clean exit.
func (r *ExecRenderer) RenderPDF(ctx context.Context, rawURL, outputPath string) error {
	abs, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve output path %s: %w", outputPath, err)
	}
	tmp := abs + ".part"

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.chromePath,
		"--headless",
		"--disable-gpu",
		"--print-to-pdf="+tmp,
		rawURL,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		_ = os.Remove(tmp)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("render %s: timeout after %s", rawURL, r.timeout)
		}
		return fmt.Errorf("render %s: %w: %s", rawURL, err, bytes.TrimSpace(out))
	}
	if err := os.Rename(tmp, abs); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("finalize %s: %w", abs, err)
	}
	r.logger.Debug("saved PDF via chrome subprocess",
		zap.String("url", rawURL), zap.String("path", abs))
	return nil
}

// Close implements Renderer; the exec engine holds no long-lived resources.
func (r *ExecRenderer) Close(context.Context) error {
	return nil
}
