// Package driver defines the capabilities a browser-automation backend must
// provide so that extraction logic can be written once and run against
// headless Chrome or an in-memory document alike.
package driver

import "context"

// Queryable can look up elements by CSS selector.
type Queryable interface {
	// QueryOne returns the first element matching selector, or an error
	// wrapping ErrNotFound when nothing matches.
	QueryOne(ctx context.Context, selector string) (Element, error)

	// QueryAll returns every element matching selector in document order.
	// No match is not an error.
	QueryAll(ctx context.Context, selector string) ([]Element, error)
}

// Element is a node on the current page. Queries on an element are scoped to
// its subtree.
type Element interface {
	Queryable

	// Text returns the rendered text of the element.
	Text(ctx context.Context) (string, error)

	// Click clicks the element. Clicking may change the page.
	Click(ctx context.Context) error

	// Visible reports whether the element is currently displayed.
	Visible(ctx context.Context) (bool, error)
}

// Browser is one exclusively owned browser session. It is not safe for
// concurrent use and no method may be called after Close.
type Browser interface {
	Queryable

	// Navigate loads url and waits for the page to be ready.
	Navigate(ctx context.Context, url string) error

	// Close ends the session.
	Close(ctx context.Context) error
}

// Opener starts a new browser session.
type Opener func(ctx context.Context) (Browser, error)
