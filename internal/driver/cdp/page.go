// Package cdp adapts a chromedp page target to the driver contract. Element
// queries go through DOM.performSearch, which accepts plain text, CSS and
// XPath locators, so locator syntax never leaks into this module.
package cdp

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	log "github.com/sirupsen/logrus"

	"github.com/formrobot/formrobot/internal/driver"
)

type Page struct {
	ctx context.Context
}

func NewPage(ctx context.Context) *Page {
	return &Page{ctx: ctx}
}

// FindElements resolves a locator to element handles, document-ordered.
// Non-element matches (text hits from the search backend) are dropped.
func (p *Page) FindElements(locator string) ([]driver.Element, error) {
	var nodes []*cdp.Node
	err := chromedp.Run(p.ctx,
		chromedp.Nodes(locator, &nodes, chromedp.BySearch, chromedp.AtLeast(0)),
	)
	if err != nil {
		return nil, fmt.Errorf("error finding elements with locator '%s': %v", locator, err)
	}
	elements := make([]driver.Element, 0, len(nodes))
	for _, node := range nodes {
		if node.NodeType != cdp.NodeTypeElement {
			continue
		}
		elements = append(elements, &Element{ctx: p.ctx, node: node})
	}
	log.Debugf("Locator '%s' resolved to %d element(s)", locator, len(elements))
	return elements, nil
}

func (p *Page) URL() string {
	var url string
	if err := chromedp.Run(p.ctx, chromedp.Location(&url)); err != nil {
		log.Debugf("error reading page location: %v", err)
	}
	return url
}

func (p *Page) Source() (string, error) {
	var html string
	err := chromedp.Run(p.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	if err != nil {
		return "", fmt.Errorf("error reading page source: %v", err)
	}
	return html, nil
}
