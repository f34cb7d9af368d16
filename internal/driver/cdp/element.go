package cdp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"github.com/formrobot/formrobot/internal/driver"
)

// Element pins a DOM element by the full XPath of the node it resolved to.
// The handle is only meant to live for one keyword call.
type Element struct {
	ctx  context.Context
	node *cdp.Node
}

func (e *Element) xpath() string {
	return e.node.FullXPath()
}

func (e *Element) TagName() string {
	return strings.ToLower(e.node.NodeName)
}

func (e *Element) Click() error {
	if err := chromedp.Run(e.ctx, chromedp.Click(e.xpath(), chromedp.BySearch)); err != nil {
		return fmt.Errorf("error clicking element '%s': %v", e.xpath(), err)
	}
	return nil
}

func (e *Element) Submit() error {
	if err := chromedp.Run(e.ctx, chromedp.Submit(e.xpath(), chromedp.BySearch)); err != nil {
		return fmt.Errorf("error submitting element '%s': %v", e.xpath(), err)
	}
	return nil
}

func (e *Element) Clear() error {
	if err := chromedp.Run(e.ctx, chromedp.Clear(e.xpath(), chromedp.BySearch)); err != nil {
		return fmt.Errorf("error clearing element '%s': %v", e.xpath(), err)
	}
	return nil
}

func (e *Element) SendKeys(text string) error {
	if err := chromedp.Run(e.ctx, chromedp.SendKeys(e.xpath(), text, chromedp.BySearch)); err != nil {
		return fmt.Errorf("error sending keys to element '%s': %v", e.xpath(), err)
	}
	return nil
}

// Attribute reads the live property first and falls back to the attribute,
// so "value" reflects typed text rather than the initial markup.
func (e *Element) Attribute(name string) (string, bool, error) {
	body := fmt.Sprintf(`
		var p = el[%s];
		if (p !== undefined && p !== null && typeof p !== 'object' && typeof p !== 'function') {
			return String(p);
		}
		var a = el.getAttribute(%s);
		return a === null ? null : a;`, strconv.Quote(name), strconv.Quote(name))
	var value *string
	if err := evalXPath(e.ctx, e.xpath(), body, &value); err != nil {
		return "", false, err
	}
	if value == nil {
		return "", false, nil
	}
	return *value, true, nil
}

func (e *Element) Text() (string, error) {
	var text string
	if err := chromedp.Run(e.ctx, chromedp.Text(e.xpath(), &text, chromedp.BySearch)); err != nil {
		return "", fmt.Errorf("error reading text of element '%s': %v", e.xpath(), err)
	}
	return text, nil
}

func (e *Element) Selected() (bool, error) {
	var selected bool
	err := evalXPath(e.ctx, e.xpath(), `return !!(el.checked || el.selected);`, &selected)
	return selected, err
}

func (e *Element) Enabled() (bool, error) {
	var enabled bool
	err := evalXPath(e.ctx, e.xpath(), `return !el.disabled;`, &enabled)
	return enabled, err
}

func (e *Element) SelectList() (driver.SelectList, error) {
	if e.TagName() != "select" {
		return nil, fmt.Errorf("element '%s' is a <%s>, not a <select>", e.xpath(), e.TagName())
	}
	return &SelectList{ctx: e.ctx, xpath: e.xpath()}, nil
}

// evalXPath runs a JavaScript body against the element addressed by xpath.
// The body sees the element as `el` and may return a value, unmarshalled
// into out (pass nil to discard).
func evalXPath(ctx context.Context, xpath, body string, out any) error {
	script := fmt.Sprintf(`(function() {
		var el = document.evaluate(%s, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
		if (!el) {
			throw new Error('element not found for xpath ' + %s);
		}
		%s
	})()`, strconv.Quote(xpath), strconv.Quote(xpath), body)
	if err := chromedp.Run(ctx, chromedp.Evaluate(script, out)); err != nil {
		return fmt.Errorf("error evaluating script on element '%s': %v", xpath, err)
	}
	return nil
}
