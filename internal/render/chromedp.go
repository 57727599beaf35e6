package render

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ChromedpRenderer keeps one headless browser alive for the whole run and
// prints pages over the DevTools protocol. Cheaper per page than the exec
// engine once the run has more than a handful of links.
type ChromedpRenderer struct {
	allocatorCancel context.CancelFunc
	browserCtx      context.Context
	browserCancel   context.CancelFunc
	logger          *zap.Logger
	timeout         time.Duration
	domainQPS       float64
	domainLimiters  sync.Map
}

// ChromedpOptions configures the chromedp engine.
type ChromedpOptions struct {
	// ChromePath is the executable path or bare name; empty lets chromedp
	// discover an installed browser.
	ChromePath string
	// Timeout bounds each render, navigation included.
	Timeout time.Duration
	// DomainQPS rate-limits renders per host; 0 disables the limiter.
	DomainQPS float64
}

// NewChromedpRenderer starts the allocator and warms up a browser. The
// returned renderer must be closed to tear the browser down.
func NewChromedpRenderer(opts ChromedpOptions, logger *zap.Logger) (*ChromedpRenderer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	allocOpts := chromedp.DefaultExecAllocatorOptions[:]
	allocOpts = append(allocOpts,
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
	)
	if execPath := chromedpExecPath(opts.ChromePath); execPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(execPath))
	}

	allocatorCtx, allocatorCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocatorCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocatorCancel()
		return nil, fmt.Errorf("chromedp warmup: %w", err)
	}

	return &ChromedpRenderer{
		allocatorCancel: allocatorCancel,
		browserCtx:      browserCtx,
		browserCancel:   browserCancel,
		logger:          logger,
		timeout:         opts.Timeout,
		domainQPS:       opts.DomainQPS,
	}, nil
}

// chromedpExecPath resolves an explicit executable for the allocator. A bare
// name that is not on PATH yields "", letting chromedp run its own browser
// discovery.
func chromedpExecPath(chromePath string) string {
	if chromePath == "" {
		return ""
	}
	if p, err := exec.LookPath(chromePath); err == nil {
		return p
	}
	if strings.ContainsRune(chromePath, '/') {
		return chromePath
	}
	return ""
}

// RenderPDF navigates a fresh tab to rawURL and prints it to outputPath.
func (r *ChromedpRenderer) RenderPDF(ctx context.Context, rawURL, outputPath string) error {
	if err := r.waitDomainBudget(ctx, rawURL); err != nil {
		return fmt.Errorf("render rate limit: %w", err)
	}

	tabCtx, cancelTab := chromedp.NewContext(r.browserCtx)
	defer cancelTab()

	taskCtx, cancelTask := context.WithTimeout(tabCtx, r.timeout)
	defer cancelTask()

	stopForward := forwardCancel(ctx, cancelTask)
	defer stopForward()

	var pdf []byte
	tasks := chromedp.Tasks{
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	}
	if err := chromedp.Run(taskCtx, tasks); err != nil {
		return fmt.Errorf("chromedp render %s: %w", rawURL, err)
	}
	if err := writeFileAtomic(outputPath, pdf); err != nil {
		return err
	}
	r.logger.Debug("saved PDF via chromedp",
		zap.String("url", rawURL), zap.String("path", outputPath))
	return nil
}

// Close tears down the browser and allocator contexts.
func (r *ChromedpRenderer) Close(context.Context) error {
	if r == nil {
		return nil
	}
	r.browserCancel()
	r.allocatorCancel()
	return nil
}

func (r *ChromedpRenderer) waitDomainBudget(ctx context.Context, rawURL string) error {
	if r.domainQPS <= 0 {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse render url: %w", err)
	}
	host := strings.ToLower(parsed.Host)
	val, _ := r.domainLimiters.LoadOrStore(host, rate.NewLimiter(rate.Limit(r.domainQPS), 1))
	limiter, ok := val.(*rate.Limiter)
	if !ok {
		return fmt.Errorf("unexpected limiter type %T", val)
	}
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait limiter: %w", err)
	}
	return nil
}

// forwardCancel propagates the caller's cancellation into the render context
// without tying tab lifetime to the caller.
func forwardCancel(parent context.Context, cancel context.CancelFunc) func() {
	if parent == nil {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-parent.Done():
			cancel()
		case <-done:
		}
	}()
	return func() { close(done) }
}
