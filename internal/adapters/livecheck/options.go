package livecheck

import (
	"net/http"
	"time"

	"github.com/okian/pldash/pkg/logger"
)

// DefaultURL is the fixture feed probed for availability.
const DefaultURL = "https://raw.githubusercontent.com/openfootball/football.json/master/2024-25/en.1.json"

// DefaultTimeout bounds a single probe.
const DefaultTimeout = 10 * time.Second

// DefaultSchedule refreshes the status in the background.
const DefaultSchedule = "@every 15m"

// Option configures a Checker.
type Option func(*Checker)

// WithURL sets the probed URL.
func WithURL(url string) Option {
	return func(c *Checker) {
		if url != "" {
			c.url = url
		}
	}
}

// WithTimeout bounds each probe.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Checker) {
		if client != nil {
			c.client = client
		}
	}
}

// WithLogger sets the logger used for failed probes.
func WithLogger(log logger.Logger) Option {
	return func(c *Checker) {
		if log != nil {
			c.log = log
		}
	}
}

// WithProbeHook is called after every probe with its result.
func WithProbeHook(fn func(live bool, took time.Duration)) Option {
	return func(c *Checker) {
		c.onProbe = fn
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Checker) {
		if now != nil {
			c.now = now
		}
	}
}
