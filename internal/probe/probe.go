// Package probe implements the accessibility pre-check that runs before a
// render attempt. It performs a real GET (some servers answer HEAD requests
// incorrectly) and classifies the URL by final response status.
package probe

import (
	"context"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// CollyProber checks URL accessibility with a Colly collector. It is a
// best-effort filter: every transport failure maps to "not accessible" and
// no error ever reaches the caller.
type CollyProber struct {
	base    *colly.Collector
	timeout time.Duration
	logger  *zap.Logger
}

// New constructs a prober with the given request timeout.
func New(userAgent string, timeout time.Duration, logger *zap.Logger) *CollyProber {
	if logger == nil {
		logger = zap.NewNop()
	}
	base := colly.NewCollector(colly.UserAgent(userAgent))
	base.AllowURLRevisit = true
	base.IgnoreRobotsTxt = true
	base.SetRequestTimeout(timeout)
	return &CollyProber{
		base:    base,
		timeout: timeout,
		logger:  logger,
	}
}

// Accessible reports whether the URL answers with a status in [200, 400).
// Redirects are followed; the final status decides. Timeouts, DNS failures,
// refused connections, and TLS failures all answer false.
func (p *CollyProber) Accessible(ctx context.Context, rawURL string) bool {
	if ctx != nil && ctx.Err() != nil {
		return false
	}

	collector := p.base.Clone()
	collector.SetRequestTimeout(p.timeout)
	// Hand every HTTP status to OnResponse; without this colly routes
	// anything above 202 through OnError and the band check never runs.
	collector.ParseHTTPErrorResponse = true

	accessible := false
	collector.OnResponse(func(r *colly.Response) {
		accessible = r.StatusCode >= 200 && r.StatusCode < 400
		p.logger.Debug("probe response",
			zap.String("url", rawURL), zap.Int("status", r.StatusCode))
	})
	collector.OnError(func(r *colly.Response, err error) {
		status := 0
		if r != nil {
			status = r.StatusCode
		}
		p.logger.Debug("probe failed",
			zap.String("url", rawURL), zap.Int("status", status), zap.Error(err))
	})

	if err := collector.Visit(rawURL); err != nil {
		p.logger.Debug("probe visit rejected", zap.String("url", rawURL), zap.Error(err))
		return false
	}
	collector.Wait()
	return accessible
}
