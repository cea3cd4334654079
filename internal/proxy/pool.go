// Package proxy rotates browser sessions across a list of proxies.
package proxy

import (
	"strings"
	"sync"
	"time"
)

// DefaultCooldown is how long a proxy that failed to open a session is skipped.
const DefaultCooldown = 5 * time.Minute

// Pool hands out proxies round-robin, skipping recently failed ones.
type Pool struct {
	proxies  []string
	index    int
	mu       sync.Mutex
	failed   map[string]time.Time
	cooldown time.Duration
	now      func() time.Time
}

// NewPool creates a Pool over proxies.
func NewPool(proxies []string) *Pool {
	return &Pool{
		proxies:  proxies,
		failed:   make(map[string]time.Time),
		cooldown: DefaultCooldown,
		now:      time.Now,
	}
}

// ParseList splits a comma-separated proxy list, dropping blanks.
func ParseList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of proxies in the pool.
func (p *Pool) Len() int {
	return len(p.proxies)
}

// Next returns the next healthy proxy, or "" for an empty pool. When every
// proxy is cooling down the next one in order is returned anyway.
func (p *Pool) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.proxies) == 0 {
		return ""
	}

	for range p.proxies {
		proxy := p.proxies[p.index]
		p.index = (p.index + 1) % len(p.proxies)

		failTime, ok := p.failed[proxy]
		if !ok {
			return proxy
		}
		if p.now().Sub(failTime) >= p.cooldown {
			delete(p.failed, proxy)
			return proxy
		}
	}

	proxy := p.proxies[p.index]
	p.index = (p.index + 1) % len(p.proxies)
	return proxy
}

// MarkFailed marks a proxy as failed so it will be skipped for a while
func (p *Pool) MarkFailed(proxy string) {
	if proxy == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failed[proxy] = p.now()
}

// MarkHealthy clears the failure status of a proxy
func (p *Pool) MarkHealthy(proxy string) {
	if proxy == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.failed, proxy)
}
