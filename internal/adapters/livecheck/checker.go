// Package livecheck probes an external fixture feed to report whether live
// data is reachable. The result is advisory and never fails a request.
package livecheck

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/okian/pldash/pkg/logger"
)

// Status is the outcome of the latest probe.
type Status struct {
	Live      bool      `json:"live"`
	CheckedAt time.Time `json:"checked_at"`
	URL       string    `json:"url"`
}

// Checker performs single-shot availability probes.
type Checker struct {
	url     string
	timeout time.Duration
	client  *http.Client
	log     logger.Logger
	onProbe func(bool, time.Duration)
	now     func() time.Time

	mu   sync.RWMutex
	last Status
}

// New creates a Checker for DefaultURL unless overridden.
func New(opts ...Option) *Checker {
	c := &Checker{
		url:     DefaultURL,
		timeout: DefaultTimeout,
		client:  http.DefaultClient,
		log:     logger.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.last.URL = c.url
	return c
}

// Check issues one GET and reports whether it returned 200. Failures are
// logged and reported as not live; there is no retry.
func (c *Checker) Check(ctx context.Context) bool {
	start := c.now()
	live := c.probe(ctx)

	c.mu.Lock()
	c.last = Status{Live: live, CheckedAt: start, URL: c.url}
	c.mu.Unlock()

	if c.onProbe != nil {
		c.onProbe(live, c.now().Sub(start))
	}
	return live
}

func (c *Checker) probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		c.log.Warn(ctx, "live check request", logger.String("url", c.url), logger.Error(err))
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn(ctx, "live check failed", logger.String("url", c.url), logger.Error(err))
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		c.log.Warn(ctx, "live check non-200", logger.String("url", c.url), logger.Int("status", resp.StatusCode))
		return false
	}
	c.log.Debug(ctx, "live check ok", logger.String("url", c.url))
	return true
}

// Status returns the latest probe result. CheckedAt is zero before the
// first probe.
func (c *Checker) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}
