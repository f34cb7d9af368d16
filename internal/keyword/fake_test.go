package keyword

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/formrobot/formrobot/internal/driver"
)

// fakePage drives the keyword library against an in-memory DOM parsed from a
// markup literal. Locators are "id:x" (or "#x"), "name:x", or a bare tag
// name.
type fakePage struct {
	doc       *html.Node
	clicks    map[*html.Node]int
	submitted []string
}

func loadPage(t *testing.T, markup string) *fakePage {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(markup))
	require.NoError(t, err)
	return &fakePage{
		doc:    doc,
		clicks: make(map[*html.Node]int),
	}
}

func (p *fakePage) FindElements(locator string) ([]driver.Element, error) {
	var match func(n *html.Node) bool
	switch {
	case strings.HasPrefix(locator, "id:"):
		id := locator[len("id:"):]
		match = func(n *html.Node) bool { return attrValue(n, "id") == id }
	case strings.HasPrefix(locator, "#"):
		id := locator[1:]
		match = func(n *html.Node) bool { return attrValue(n, "id") == id }
	case strings.HasPrefix(locator, "name:"):
		name := locator[len("name:"):]
		match = func(n *html.Node) bool { return attrValue(n, "name") == name }
	default:
		match = func(n *html.Node) bool { return n.Data == locator }
	}

	var elements []driver.Element
	walk(p.doc, func(n *html.Node) {
		if match(n) {
			elements = append(elements, &fakeElement{page: p, node: n})
		}
	})
	return elements, nil
}

func (p *fakePage) URL() string {
	return "http://fake.test/form"
}

func (p *fakePage) Source() (string, error) {
	var sb strings.Builder
	if err := html.Render(&sb, p.doc); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// walk visits every element node in document order.
func walk(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, name string) bool {
	for _, a := range n.Attr {
		if a.Key == name {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, name, value string) {
	for i := range n.Attr {
		if n.Attr[i].Key == name {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
}

func removeAttr(n *html.Node, name string) {
	for i := range n.Attr {
		if n.Attr[i].Key == name {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

type fakeElement struct {
	page *fakePage
	node *html.Node
}

func (e *fakeElement) TagName() string {
	return e.node.Data
}

func (e *fakeElement) Click() error {
	e.page.clicks[e.node]++
	if e.node.Data == "input" {
		switch attrValue(e.node, "type") {
		case "checkbox":
			if hasAttr(e.node, "checked") {
				removeAttr(e.node, "checked")
			} else {
				setAttr(e.node, "checked", "checked")
			}
		case "radio":
			group := attrValue(e.node, "name")
			walk(e.page.doc, func(n *html.Node) {
				if n.Data == "input" && attrValue(n, "type") == "radio" && attrValue(n, "name") == group {
					removeAttr(n, "checked")
				}
			})
			setAttr(e.node, "checked", "checked")
		}
	}
	return nil
}

func (e *fakeElement) Submit() error {
	id := attrValue(e.node, "id")
	if id == "" {
		id = attrValue(e.node, "name")
	}
	if id == "" {
		id = e.node.Data
	}
	e.page.submitted = append(e.page.submitted, id)
	return nil
}

func (e *fakeElement) Clear() error {
	setAttr(e.node, "value", "")
	return nil
}

func (e *fakeElement) SendKeys(text string) error {
	setAttr(e.node, "value", attrValue(e.node, "value")+text)
	return nil
}

func (e *fakeElement) Attribute(name string) (string, bool, error) {
	if !hasAttr(e.node, name) {
		return "", false, nil
	}
	return attrValue(e.node, name), true, nil
}

func (e *fakeElement) Text() (string, error) {
	return nodeText(e.node), nil
}

func (e *fakeElement) Selected() (bool, error) {
	if e.node.Data == "option" {
		return hasAttr(e.node, "selected"), nil
	}
	return hasAttr(e.node, "checked"), nil
}

func (e *fakeElement) Enabled() (bool, error) {
	return !hasAttr(e.node, "disabled"), nil
}

func (e *fakeElement) SelectList() (driver.SelectList, error) {
	if e.node.Data != "select" {
		return nil, &ArgumentError{msg: "element is not a select"}
	}
	return &fakeSelect{node: e.node}, nil
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}

type fakeSelect struct {
	node *html.Node
}

func (s *fakeSelect) optionNodes() []*html.Node {
	var options []*html.Node
	walk(s.node, func(n *html.Node) {
		if n.Data == "option" {
			options = append(options, n)
		}
	})
	return options
}

func (s *fakeSelect) Options() ([]driver.Option, error) {
	nodes := s.optionNodes()
	options := make([]driver.Option, 0, len(nodes))
	for i, n := range nodes {
		label := strings.TrimSpace(nodeText(n))
		value := label
		if hasAttr(n, "value") {
			value = attrValue(n, "value")
		}
		options = append(options, driver.Option{
			Index:    i,
			Label:    label,
			Value:    value,
			Selected: hasAttr(n, "selected"),
		})
	}
	return options, nil
}

func (s *fakeSelect) Multiple() (bool, error) {
	return hasAttr(s.node, "multiple"), nil
}

func (s *fakeSelect) SelectByIndex(index int) error {
	return s.setByIndex(index, true)
}

func (s *fakeSelect) SelectByValue(value string) (bool, error) {
	return s.setMatching(func(o driver.Option) bool { return o.Value == value }, true)
}

func (s *fakeSelect) SelectByLabel(label string) (bool, error) {
	return s.setMatching(func(o driver.Option) bool { return o.Label == label }, true)
}

func (s *fakeSelect) DeselectAll() error {
	for _, n := range s.optionNodes() {
		removeAttr(n, "selected")
	}
	return nil
}

func (s *fakeSelect) DeselectByIndex(index int) error {
	return s.setByIndex(index, false)
}

func (s *fakeSelect) DeselectByValue(value string) (bool, error) {
	return s.setMatching(func(o driver.Option) bool { return o.Value == value }, false)
}

func (s *fakeSelect) DeselectByLabel(label string) (bool, error) {
	return s.setMatching(func(o driver.Option) bool { return o.Label == label }, false)
}

func (s *fakeSelect) setByIndex(index int, selected bool) error {
	nodes := s.optionNodes()
	if index < 0 || index >= len(nodes) {
		return &ArgumentError{msg: "option index out of range"}
	}
	if selected && !hasAttr(s.node, "multiple") {
		_ = s.DeselectAll()
	}
	if selected {
		setAttr(nodes[index], "selected", "selected")
	} else {
		removeAttr(nodes[index], "selected")
	}
	return nil
}

func (s *fakeSelect) setMatching(match func(driver.Option) bool, selected bool) (bool, error) {
	options, _ := s.Options()
	nodes := s.optionNodes()
	multiple := hasAttr(s.node, "multiple")
	matched := false
	for i, o := range options {
		if !match(o) {
			continue
		}
		if selected && !multiple {
			_ = s.DeselectAll()
		}
		if selected {
			setAttr(nodes[i], "selected", "selected")
		} else {
			removeAttr(nodes[i], "selected")
		}
		matched = true
		if !multiple {
			break
		}
	}
	return matched, nil
}
