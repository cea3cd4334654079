package booking

import (
	"context"

	"github.com/law-makers/roomcheck/internal/driver"
)

// faultyBrowser wraps a working browser and fails every command of one kind.
type faultyBrowser struct {
	driver.Browser
	failOn driver.Op
	err    error
}

func (f *faultyBrowser) Navigate(ctx context.Context, url string) error {
	if f.failOn == driver.OpNavigate {
		return &driver.Error{Op: driver.OpNavigate, URL: url, Err: f.err}
	}
	return f.Browser.Navigate(ctx, url)
}

func (f *faultyBrowser) QueryOne(ctx context.Context, selector string) (driver.Element, error) {
	if f.failOn == driver.OpQuery {
		return nil, driver.NewError(driver.OpQuery, selector, f.err)
	}
	el, err := f.Browser.QueryOne(ctx, selector)
	if err != nil {
		return nil, err
	}
	return &faultyElement{Element: el, browser: f}, nil
}

func (f *faultyBrowser) QueryAll(ctx context.Context, selector string) ([]driver.Element, error) {
	if f.failOn == driver.OpQuery {
		return nil, driver.NewError(driver.OpQuery, selector, f.err)
	}
	els, err := f.Browser.QueryAll(ctx, selector)
	if err != nil {
		return nil, err
	}
	return f.wrap(els), nil
}

func (f *faultyBrowser) wrap(els []driver.Element) []driver.Element {
	out := make([]driver.Element, len(els))
	for i, el := range els {
		out[i] = &faultyElement{Element: el, browser: f}
	}
	return out
}

type faultyElement struct {
	driver.Element
	browser *faultyBrowser
}

func (e *faultyElement) QueryOne(ctx context.Context, selector string) (driver.Element, error) {
	if e.browser.failOn == driver.OpQuery {
		return nil, driver.NewError(driver.OpQuery, selector, e.browser.err)
	}
	el, err := e.Element.QueryOne(ctx, selector)
	if err != nil {
		return nil, err
	}
	return &faultyElement{Element: el, browser: e.browser}, nil
}

func (e *faultyElement) QueryAll(ctx context.Context, selector string) ([]driver.Element, error) {
	if e.browser.failOn == driver.OpQuery {
		return nil, driver.NewError(driver.OpQuery, selector, e.browser.err)
	}
	els, err := e.Element.QueryAll(ctx, selector)
	if err != nil {
		return nil, err
	}
	return e.browser.wrap(els), nil
}

func (e *faultyElement) Text(ctx context.Context) (string, error) {
	if e.browser.failOn == driver.OpText {
		return "", driver.NewError(driver.OpText, "", e.browser.err)
	}
	return e.Element.Text(ctx)
}

func (e *faultyElement) Click(ctx context.Context) error {
	if e.browser.failOn == driver.OpClick {
		return driver.NewError(driver.OpClick, "", e.browser.err)
	}
	return e.Element.Click(ctx)
}
