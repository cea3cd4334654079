package chrome

import (
	"context"
	"strings"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/law-makers/roomcheck/internal/driver"
)

// visibleJS approximates WebDriver's "is displayed" check.
const visibleJS = `function() {
	const style = window.getComputedStyle(this);
	if (style.display === 'none' || style.visibility === 'hidden') {
		return false;
	}
	return !!(this.offsetWidth || this.offsetHeight || this.getClientRects().length);
}`

// Element is a DOM node of the browser's current page.
type Element struct {
	browser *Browser
	node    *cdp.Node
}

var _ driver.Element = (*Element)(nil)

// QueryOne implements driver.Queryable, scoped to the element.
func (e *Element) QueryOne(ctx context.Context, selector string) (driver.Element, error) {
	return e.browser.queryOne(ctx, selector, e.node)
}

// QueryAll implements driver.Queryable, scoped to the element.
func (e *Element) QueryAll(ctx context.Context, selector string) ([]driver.Element, error) {
	return e.browser.queryAll(ctx, selector, e.node)
}

// Text returns the element's rendered text, trimmed.
func (e *Element) Text(ctx context.Context) (string, error) {
	if e.browser.closed {
		return "", driver.NewError(driver.OpText, "", driver.ErrClosed)
	}
	var text string
	err := e.browser.run(ctx, chromedp.Text([]cdp.NodeID{e.node.NodeID}, &text, chromedp.ByNodeID))
	if err != nil {
		return "", driver.NewError(driver.OpText, "", err)
	}
	return strings.TrimSpace(text), nil
}

// Click scrolls the element into view and clicks its centre, then lets page
// scripts settle for the configured delay.
func (e *Element) Click(ctx context.Context) error {
	if e.browser.closed {
		return driver.NewError(driver.OpClick, "", driver.ErrClosed)
	}
	actions := []chromedp.Action{chromedp.MouseClickNode(e.node)}
	if d := e.browser.opts.ClickSettle; d > 0 {
		actions = append(actions, chromedp.Sleep(d))
	}
	if err := e.browser.run(ctx, actions...); err != nil {
		return driver.NewError(driver.OpClick, "", err)
	}
	return nil
}

// Visible implements driver.Element.
func (e *Element) Visible(ctx context.Context) (bool, error) {
	if e.browser.closed {
		return false, driver.NewError(driver.OpVisible, "", driver.ErrClosed)
	}
	var visible bool
	err := e.browser.run(ctx, callOnNode(e.node.NodeID, visibleJS, &visible))
	if err != nil {
		return false, driver.NewError(driver.OpVisible, "", err)
	}
	return visible, nil
}

// callOnNode runs fn with the node bound to this and stores the returned
// value in res.
func callOnNode(id cdp.NodeID, fn string, res any) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		obj, err := dom.ResolveNode().WithNodeID(id).Do(ctx)
		if err != nil {
			return err
		}
		// Fails once the page has navigated away, which is harmless.
		defer func() { _ = runtime.ReleaseObject(obj.ObjectID).Do(ctx) }()

		return chromedp.CallFunctionOn(fn, res,
			func(p *runtime.CallFunctionOnParams) *runtime.CallFunctionOnParams {
				return p.WithObjectID(obj.ObjectID)
			},
		).Do(ctx)
	})
}
