// Package render converts URLs into PDF files with a headless browser.
// Two engines exist: an exec engine that invokes the Chrome executable per
// page with --print-to-pdf, and a chromedp engine that keeps one browser
// alive and prints over the DevTools protocol. Both write to a temporary
// path and rename on success so an interrupted render never leaves a partial
// file at the final path.
package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Renderer converts a single URL into a PDF at the given path.
type Renderer interface {
	RenderPDF(ctx context.Context, rawURL, outputPath string) error
	Close(ctx context.Context) error
}

// resolveChromePath searches the executable search path when given a bare
// name, falling back to the raw value when nothing resolves.
func resolveChromePath(chromePath string) string {
	if p, err := exec.LookPath(chromePath); err == nil {
		return p
	}
	return chromePath
}

// writeFileAtomic writes data next to path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".part"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
