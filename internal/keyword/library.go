// Package keyword implements the form-interaction keywords exposed to
// test-automation runners. Every keyword is a single synchronous transaction
// against the current DOM; waits, retries and staleness handling belong to
// the driver underneath.
package keyword

import (
	"reflect"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/formrobot/formrobot/internal/driver"
)

// Library holds the full keyword collection over one browser page. It keeps
// no state between keyword calls; every call re-resolves its locator against
// the live DOM.
type Library struct {
	page driver.Page
}

func New(page driver.Page) *Library {
	return &Library{
		page: page,
	}
}

// KeywordNames lists every invocable keyword, for runner discovery.
func (l *Library) KeywordNames() []string {
	t := reflect.TypeOf(l)
	names := make([]string, 0, t.NumMethod())
	for i := 0; i < t.NumMethod(); i++ {
		name := t.Method(i).Name
		if name == "KeywordNames" {
			continue
		}
		names = append(names, name)
	}
	return names
}

// textFieldTypes are the input types treated as text fields, absent type
// included (it defaults to text).
var textFieldTypes = map[string]bool{
	"":               true,
	"text":           true,
	"password":       true,
	"email":          true,
	"url":            true,
	"search":         true,
	"tel":            true,
	"number":         true,
	"date":           true,
	"datetime-local": true,
	"month":          true,
	"time":           true,
	"week":           true,
}

// matchesKind reports whether an element satisfies a control kind such as
// "checkbox" or "text field". An empty kind matches anything.
func matchesKind(el driver.Element, kind string) (bool, error) {
	tag := strings.ToLower(el.TagName())
	inputType := func() (string, error) {
		t, _, err := el.Attribute("type")
		return strings.ToLower(t), err
	}

	switch kind {
	case "":
		return true, nil
	case "form", "button", "select", "textarea", "input":
		return tag == kind, nil
	case "list":
		return tag == "select", nil
	case "text area":
		return tag == "textarea", nil
	case "checkbox", "radio button", "file upload", "text field":
		if tag != "input" {
			return false, nil
		}
		t, err := inputType()
		if err != nil {
			return false, err
		}
		switch kind {
		case "checkbox":
			return t == "checkbox", nil
		case "radio button":
			return t == "radio", nil
		case "file upload":
			return t == "file", nil
		default:
			return textFieldTypes[t], nil
		}
	default:
		return tag == kind, nil
	}
}

// findElements resolves a locator and keeps only elements of the given kind.
func (l *Library) findElements(locator, kind string) ([]driver.Element, error) {
	els, err := l.page.FindElements(locator)
	if err != nil {
		return nil, err
	}
	if kind == "" {
		return els, nil
	}
	matched := make([]driver.Element, 0, len(els))
	for _, el := range els {
		ok, err := matchesKind(el, kind)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, el)
		}
	}
	return matched, nil
}

// findElement resolves a locator to the first element of the given kind.
// With required false a miss returns nil instead of an error.
func (l *Library) findElement(locator, kind string, required bool) (driver.Element, error) {
	els, err := l.findElements(locator, kind)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		if !required {
			return nil, nil
		}
		if kind == "" {
			return nil, elementNotFoundf("Element with locator '%s' not found.", locator)
		}
		return nil, elementNotFoundf("%s with locator '%s' not found.", capitalize(kind), locator)
	}
	return els[0], nil
}

func (l *Library) assertPageContains(locator, kind, message, loglevel string) error {
	els, err := l.findElements(locator, kind)
	if err != nil {
		return err
	}
	if len(els) == 0 {
		l.logSource(loglevel)
		if message == "" {
			message = "Page should have contained " + kind + " '" + locator + "' but did not."
		}
		return verificationf("%s", message)
	}
	logAt(loglevel, "Current page contains %s '%s'.", kind, locator)
	return nil
}

func (l *Library) assertPageNotContains(locator, kind, message, loglevel string) error {
	els, err := l.findElements(locator, kind)
	if err != nil {
		return err
	}
	if len(els) > 0 {
		l.logSource(loglevel)
		if message == "" {
			message = "Page should not have contained " + kind + " '" + locator + "'."
		}
		return verificationf("%s", message)
	}
	logAt(loglevel, "Current page does not contain %s '%s'.", kind, locator)
	return nil
}

// logSource dumps the page markup for failure analysis, like the underlying
// page-assertion helpers do.
func (l *Library) logSource(loglevel string) {
	src, err := l.page.Source()
	if err != nil {
		log.Debugf("error reading page source: %v", err)
		return
	}
	logAt(loglevel, "Page source of %s:\n%s", l.page.URL(), src)
}

func logAt(level, format string, args ...any) {
	switch strings.ToUpper(level) {
	case "TRACE":
		log.Tracef(format, args...)
	case "DEBUG":
		log.Debugf(format, args...)
	case "WARN":
		log.Warnf(format, args...)
	default:
		log.Infof(format, args...)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
