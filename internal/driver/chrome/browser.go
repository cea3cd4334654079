// Package chrome implements the driver capabilities on top of headless
// Chrome through the DevTools protocol (chromedp).
package chrome

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/law-makers/roomcheck/internal/driver"
	"github.com/law-makers/roomcheck/internal/ratelimit"
	"github.com/rs/zerolog/log"
)

// Options configures a browser session.
type Options struct {
	// RemoteURL attaches to an already running browser's DevTools endpoint
	// (e.g. ws://127.0.0.1:9222) instead of launching a local Chrome.
	RemoteURL string
	ExecPath  string
	Headless  bool
	UserAgent string
	Proxy     string
	Headers   map[string]string

	WindowWidth  int
	WindowHeight int

	// ClickSettle is how long to let page scripts run after a click.
	ClickSettle time.Duration

	Limiter ratelimit.RateLimiter
}

// Browser is one Chrome tab. Not safe for concurrent use.
type Browser struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	opts        Options
	closed      bool
}

var _ driver.Browser = (*Browser)(nil)

// New starts (or attaches to) a browser and opens a tab sized to the
// configured window. ctx bounds start-up only; the session lives until Close.
func New(ctx context.Context, opts Options) (*Browser, error) {
	if opts.WindowWidth <= 0 || opts.WindowHeight <= 0 {
		opts.WindowWidth, opts.WindowHeight = 1920, 1080
	}

	var allocCtx context.Context
	var allocCancel context.CancelFunc
	if opts.RemoteURL != "" {
		log.Debug().Str("remote_url", opts.RemoteURL).Msg("Attaching to remote browser")
		allocCtx, allocCancel = chromedp.NewRemoteAllocator(context.Background(), opts.RemoteURL)
	} else {
		allocCtx, allocCancel = chromedp.NewExecAllocator(context.Background(), allocatorOptions(opts)...)
	}

	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	b := &Browser{
		ctx:         tabCtx,
		cancel:      tabCancel,
		allocCancel: allocCancel,
		opts:        opts,
	}

	start := time.Now()
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(opts.WindowWidth), int64(opts.WindowHeight)),
	}
	if len(opts.Headers) > 0 {
		headers := make(network.Headers, len(opts.Headers))
		for k, v := range opts.Headers {
			headers[k] = v
		}
		tasks = append(tasks, network.Enable(), network.SetExtraHTTPHeaders(headers))
	}
	// The first Run allocates the browser and binds it to the context it is
	// given, so it must run on the tab context itself rather than a child.
	stop := context.AfterFunc(ctx, tabCancel)
	err := chromedp.Run(tabCtx, tasks)
	if !stop() && err == nil {
		err = ctx.Err()
	}
	if err != nil {
		tabCancel()
		allocCancel()
		return nil, driver.NewError(driver.OpOpen, "", err)
	}

	log.Debug().
		Dur("elapsed", time.Since(start)).
		Int("width", opts.WindowWidth).
		Int("height", opts.WindowHeight).
		Msg("Browser session started")
	return b, nil
}

// Opener returns a driver.Opener starting a new session per call.
func Opener(opts Options) driver.Opener {
	return func(ctx context.Context) (driver.Browser, error) {
		return New(ctx, opts)
	}
}

func allocatorOptions(opts Options) []chromedp.ExecAllocatorOption {
	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-breakpad", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-hang-monitor", true),
		chromedp.Flag("disable-prompt-on-repost", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("metrics-recording-only", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("log-level", "3"),
		chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight),
	}

	execPath := opts.ExecPath
	if execPath == "" {
		execPath = FindChrome()
	}
	if execPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(execPath))
	}
	if opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	} else {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.Proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(opts.Proxy))
	}
	return allocOpts
}

// run executes actions on the tab, aborting them if ctx is done.
func (b *Browser) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(b.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

// Navigate loads url and waits for the body to be ready.
func (b *Browser) Navigate(ctx context.Context, url string) error {
	if b.closed {
		return &driver.Error{Op: driver.OpNavigate, URL: url, Err: driver.ErrClosed}
	}
	if b.opts.Limiter != nil {
		if err := b.opts.Limiter.Wait(ctx, url); err != nil {
			return &driver.Error{Op: driver.OpNavigate, URL: url, Err: fmt.Errorf("rate limit: %w", err)}
		}
	}

	start := time.Now()
	err := b.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return &driver.Error{Op: driver.OpNavigate, URL: url, Err: err}
	}

	log.Debug().Str("url", url).Dur("elapsed", time.Since(start)).Msg("Page loaded")
	return nil
}

// QueryOne implements driver.Queryable.
func (b *Browser) QueryOne(ctx context.Context, selector string) (driver.Element, error) {
	return b.queryOne(ctx, selector, nil)
}

// QueryAll implements driver.Queryable.
func (b *Browser) QueryAll(ctx context.Context, selector string) ([]driver.Element, error) {
	return b.queryAll(ctx, selector, nil)
}

func (b *Browser) queryOne(ctx context.Context, selector string, from *cdp.Node) (driver.Element, error) {
	nodes, err := b.nodes(ctx, selector, from)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, driver.NotFound(selector)
	}
	return &Element{browser: b, node: nodes[0]}, nil
}

func (b *Browser) queryAll(ctx context.Context, selector string, from *cdp.Node) ([]driver.Element, error) {
	nodes, err := b.nodes(ctx, selector, from)
	if err != nil {
		return nil, err
	}
	elems := make([]driver.Element, len(nodes))
	for i, n := range nodes {
		elems[i] = &Element{browser: b, node: n}
	}
	return elems, nil
}

// nodes never waits for matches: zero nodes is a valid answer.
func (b *Browser) nodes(ctx context.Context, selector string, from *cdp.Node) ([]*cdp.Node, error) {
	if b.closed {
		return nil, driver.NewError(driver.OpQuery, selector, driver.ErrClosed)
	}

	opts := []chromedp.QueryOption{chromedp.ByQueryAll, chromedp.AtLeast(0)}
	if from != nil {
		opts = append(opts, chromedp.FromNode(from))
	}

	var nodes []*cdp.Node
	if err := b.run(ctx, chromedp.Nodes(selector, &nodes, opts...)); err != nil {
		return nil, driver.NewError(driver.OpQuery, selector, err)
	}
	return nodes, nil
}

// Screenshot captures the whole page as PNG.
func (b *Browser) Screenshot(ctx context.Context) ([]byte, error) {
	if b.closed {
		return nil, driver.ErrClosed
	}
	var buf []byte
	if err := b.run(ctx, chromedp.FullScreenshot(&buf, 100)); err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	return buf, nil
}

// Close closes the tab and, for local browsers, the browser process.
func (b *Browser) Close(ctx context.Context) error {
	if b.closed {
		return driver.NewError(driver.OpClose, "", driver.ErrClosed)
	}
	b.closed = true
	defer b.allocCancel()
	defer b.cancel()

	if err := chromedp.Cancel(b.ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn().Err(err).Msg("Error closing browser")
		return driver.NewError(driver.OpClose, "", err)
	}
	log.Debug().Msg("Browser session closed")
	return nil
}
