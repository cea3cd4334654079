package static

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/roomcheck/internal/driver"
	"github.com/rs/zerolog/log"
)

const hiddenClass = "uk-hidden"

// Element is a node of the browser's current document.
type Element struct {
	browser *Browser
	sel     *goquery.Selection
	gen     int
}

var _ driver.Element = (*Element)(nil)

// QueryOne implements driver.Queryable, scoped to the element.
func (e *Element) QueryOne(ctx context.Context, selector string) (driver.Element, error) {
	if err := e.check(driver.OpQuery, selector); err != nil {
		return nil, err
	}
	sel, err := e.browser.find(e.sel, selector)
	if err != nil {
		return nil, err
	}
	if sel.Length() == 0 {
		return nil, driver.NotFound(selector)
	}
	return e.browser.element(sel.First()), nil
}

// QueryAll implements driver.Queryable, scoped to the element.
func (e *Element) QueryAll(ctx context.Context, selector string) ([]driver.Element, error) {
	if err := e.check(driver.OpQuery, selector); err != nil {
		return nil, err
	}
	sel, err := e.browser.find(e.sel, selector)
	if err != nil {
		return nil, err
	}
	return e.browser.elements(sel), nil
}

// Text returns the element's text with whitespace collapsed, like a
// browser's rendered text.
func (e *Element) Text(ctx context.Context) (string, error) {
	if err := e.check(driver.OpText, ""); err != nil {
		return "", err
	}
	return strings.Join(strings.Fields(e.sel.Text()), " "), nil
}

// Visible reports whether neither the element nor any ancestor is hidden by
// the hidden attribute, the uk-hidden class or an inline style.
func (e *Element) Visible(ctx context.Context) (bool, error) {
	if err := e.check(driver.OpVisible, ""); err != nil {
		return false, err
	}
	if isHidden(e.sel) {
		return false, nil
	}
	hidden := false
	e.sel.Parents().EachWithBreak(func(_ int, p *goquery.Selection) bool {
		hidden = isHidden(p)
		return !hidden
	})
	return !hidden, nil
}

// Click emulates the site's toggles: an anchor pointing at "#id" (through
// href, data-target or uk-toggle) shows or hides its target. Other clicks do
// nothing.
func (e *Element) Click(ctx context.Context) error {
	if err := e.check(driver.OpClick, ""); err != nil {
		return err
	}

	target := toggleTarget(e.sel)
	if target == "" {
		return nil
	}
	sel, err := e.browser.find(nil, target)
	if err != nil {
		return err
	}
	sel.Each(func(_ int, s *goquery.Selection) {
		if isHidden(s) {
			show(s)
		} else {
			s.SetAttr("hidden", "")
		}
	})

	log.Debug().
		Str("target", target).
		Int("toggled", sel.Length()).
		Msg("Toggled element")
	return nil
}

func (e *Element) check(op driver.Op, selector string) error {
	if e.browser.closed {
		return driver.NewError(op, selector, driver.ErrClosed)
	}
	if e.gen != e.browser.gen {
		return driver.NewError(op, selector, driver.ErrStale)
	}
	return nil
}

func toggleTarget(s *goquery.Selection) string {
	if t, ok := s.Attr("data-target"); ok && strings.HasPrefix(t, "#") {
		return t
	}
	if t, ok := s.Attr("uk-toggle"); ok {
		for _, part := range strings.Split(t, ";") {
			key, value, found := strings.Cut(part, ":")
			if found && strings.TrimSpace(key) == "target" {
				return strings.TrimSpace(value)
			}
		}
	}
	if href, ok := s.Attr("href"); ok && len(href) > 1 && strings.HasPrefix(href, "#") {
		return href
	}
	return ""
}

func isHidden(s *goquery.Selection) bool {
	if _, ok := s.Attr("hidden"); ok {
		return true
	}
	if s.HasClass(hiddenClass) {
		return true
	}
	style := normalizeStyle(s.AttrOr("style", ""))
	return strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden")
}

func show(s *goquery.Selection) {
	s.RemoveAttr("hidden")
	s.RemoveClass(hiddenClass)
	if style, ok := s.Attr("style"); ok {
		var kept []string
		for _, decl := range strings.Split(style, ";") {
			n := normalizeStyle(decl)
			if n == "display:none" || n == "visibility:hidden" || n == "" {
				continue
			}
			kept = append(kept, strings.TrimSpace(decl))
		}
		if len(kept) == 0 {
			s.RemoveAttr("style")
		} else {
			s.SetAttr("style", strings.Join(kept, "; "))
		}
	}
}

func normalizeStyle(style string) string {
	return strings.ToLower(strings.Join(strings.Fields(style), ""))
}
