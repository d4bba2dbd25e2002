// Package probe checks that candidate practice links resolve.
package probe

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/practicelink/internal/metrics"
)

// DefaultTimeout bounds a single probe when none is configured.
const DefaultTimeout = 5 * time.Second

// maxDrain caps how much of a GET body is read before closing.
const maxDrain = 64 << 10

const userAgent = "practicelink-probe/1.0"

// Prober issues HEAD, then GET, requests against candidate links.
type Prober struct {
	http    *http.Client
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a prober. A nil client uses a default http.Client, which follows up to 10 redirects.
func New(client *http.Client, timeout time.Duration, logger *zap.Logger) *Prober {
	if client == nil {
		client = &http.Client{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prober{http: client, timeout: timeout, logger: logger}
}

// HeadOK reports whether the URL answers with a status in [200, 400).
// Some sites reject HEAD, so a failed HEAD is retried as GET. Any transport error counts as unreachable.
func (p *Prober) HeadOK(ctx context.Context, rawURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if p.try(ctx, http.MethodHead, rawURL) {
		return true
	}
	if ctx.Err() != nil {
		return false
	}
	return p.try(ctx, http.MethodGet, rawURL)
}

func (p *Prober) try(ctx context.Context, method, rawURL string) bool {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		metrics.ProbesTotal.WithLabelValues(method, "invalid").Inc()
		return false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.http.Do(req)
	if err != nil {
		metrics.ProbesTotal.WithLabelValues(method, "error").Inc()
		p.logger.Debug("Probe failed", zap.String("method", method), zap.String("url", rawURL), zap.Error(err))
		return false
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))
	_ = resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode < 400
	result := "ok"
	if !ok {
		result = "bad_status"
	}
	metrics.ProbesTotal.WithLabelValues(method, result).Inc()
	return ok
}
