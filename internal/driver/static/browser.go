// Package static implements the driver capabilities over a goquery document.
// Pages are fetched with plain HTTP (no JavaScript) or supplied as fixed HTML,
// which makes the package both a lightweight backend and a deterministic test
// double for the chrome driver.
package static

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/law-makers/roomcheck/internal/driver"
	"github.com/law-makers/roomcheck/internal/ratelimit"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
)

// Options configures an HTTP-backed Browser.
type Options struct {
	HTTPClient *http.Client
	UserAgent  string
	Headers    map[string]string
	Limiter    ratelimit.RateLimiter
}

// Browser holds the current document. Not safe for concurrent use.
type Browser struct {
	opts   Options
	load   func(ctx context.Context, url string) (io.ReadCloser, error)
	doc    *goquery.Document
	url    string
	gen    int
	closed bool
}

var _ driver.Browser = (*Browser)(nil)

// New creates a Browser that fetches pages over HTTP.
func New(opts Options) *Browser {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	b := &Browser{opts: opts}
	b.load = b.fetch
	return b
}

// Fixture creates a Browser that serves page for every URL. Each navigation
// reloads the pristine markup, discarding earlier clicks.
func Fixture(page string) *Browser {
	b := &Browser{}
	b.load = func(ctx context.Context, url string) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(page)), nil
	}
	return b
}

// Opener returns a driver.Opener producing HTTP-backed browsers.
func Opener(opts Options) driver.Opener {
	return func(ctx context.Context) (driver.Browser, error) {
		return New(opts), nil
	}
}

// URL returns the address of the current document.
func (b *Browser) URL() string {
	return b.url
}

// Navigate loads url and replaces the current document.
func (b *Browser) Navigate(ctx context.Context, url string) error {
	if b.closed {
		return &driver.Error{Op: driver.OpNavigate, URL: url, Err: driver.ErrClosed}
	}

	start := time.Now()
	body, err := b.load(ctx, url)
	if err != nil {
		return &driver.Error{Op: driver.OpNavigate, URL: url, Err: err}
	}
	defer body.Close()

	root, err := html.Parse(body)
	if err != nil {
		return &driver.Error{Op: driver.OpNavigate, URL: url, Err: fmt.Errorf("failed to parse HTML: %w", err)}
	}

	b.doc = goquery.NewDocumentFromNode(root)
	b.url = url
	b.gen++

	log.Debug().
		Str("url", url).
		Dur("elapsed", time.Since(start)).
		Msg("Static page loaded")
	return nil
}

func (b *Browser) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	if b.opts.Limiter != nil {
		if err := b.opts.Limiter.Wait(ctx, url); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	if b.opts.UserAgent != "" {
		req.Header.Set("User-Agent", b.opts.UserAgent)
	}
	for key, value := range b.opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := b.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// QueryOne implements driver.Queryable.
func (b *Browser) QueryOne(ctx context.Context, selector string) (driver.Element, error) {
	sel, err := b.find(nil, selector)
	if err != nil {
		return nil, err
	}
	if sel.Length() == 0 {
		return nil, driver.NotFound(selector)
	}
	return b.element(sel.First()), nil
}

// QueryAll implements driver.Queryable.
func (b *Browser) QueryAll(ctx context.Context, selector string) ([]driver.Element, error) {
	sel, err := b.find(nil, selector)
	if err != nil {
		return nil, err
	}
	return b.elements(sel), nil
}

// Close ends the session. Further calls fail with driver.ErrClosed.
func (b *Browser) Close(ctx context.Context) error {
	if b.closed {
		return driver.NewError(driver.OpClose, "", driver.ErrClosed)
	}
	b.closed = true
	b.doc = nil
	if b.opts.HTTPClient != nil {
		b.opts.HTTPClient.CloseIdleConnections()
	}
	return nil
}

// find runs selector against scope, or the whole document when scope is nil.
func (b *Browser) find(scope *goquery.Selection, selector string) (*goquery.Selection, error) {
	if b.closed {
		return nil, driver.NewError(driver.OpQuery, selector, driver.ErrClosed)
	}
	if b.doc == nil {
		return nil, driver.NewError(driver.OpQuery, selector, fmt.Errorf("no page loaded"))
	}
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, driver.NewError(driver.OpQuery, selector, err)
	}
	if scope == nil {
		scope = b.doc.Selection
	}
	return scope.FindMatcher(m), nil
}

func (b *Browser) element(sel *goquery.Selection) *Element {
	return &Element{browser: b, sel: sel, gen: b.gen}
}

func (b *Browser) elements(sel *goquery.Selection) []driver.Element {
	out := make([]driver.Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, b.element(s))
	})
	return out
}
