// Package ratelimit throttles page loads against the booking site so that
// independent sessions started by the server do not hammer it.
package ratelimit

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter blocks navigations until the target host's budget allows them.
type RateLimiter interface {
	// Wait blocks until a page load of urlStr may proceed or ctx is done.
	Wait(ctx context.Context, urlStr string) error
}

// HostLimiter keeps one token bucket per host. Safe for concurrent use.
type HostLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	perHost  rate.Limit
	burst    int
}

// NewHostLimiter creates a limiter allowing requestsPerSecond page loads per host
// with the given burst. Non-positive values fall back to 1 rps / burst 2.
func NewHostLimiter(requestsPerSecond float64, burst int) *HostLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	if burst <= 0 {
		burst = 2
	}

	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		perHost:  rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// Wait implements RateLimiter. URLs without a host are not throttled.
func (hl *HostLimiter) Wait(ctx context.Context, urlStr string) error {
	host := hostOf(urlStr)
	if host == "" {
		return nil
	}
	return hl.limiter(host).Wait(ctx)
}

func (hl *HostLimiter) limiter(host string) *rate.Limiter {
	hl.mu.Lock()
	defer hl.mu.Unlock()

	l, ok := hl.limiters[host]
	if !ok {
		l = rate.NewLimiter(hl.perHost, hl.burst)
		hl.limiters[host] = l
	}
	return l
}

func hostOf(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Host
}
