package cdp

import (
	"context"
	"fmt"
	"strconv"

	"github.com/formrobot/formrobot/internal/driver"
)

// SelectList drives a <select> element through injected JavaScript. CDP has
// no native select API, so mutations set option.selected directly and then
// dispatch input and change events the way a user interaction would.
type SelectList struct {
	ctx   context.Context
	xpath string
}

const notifyChange = `
	el.dispatchEvent(new Event('input', {bubbles: true}));
	el.dispatchEvent(new Event('change', {bubbles: true}));`

func (s *SelectList) Options() ([]driver.Option, error) {
	var options []driver.Option
	body := `
		return Array.prototype.map.call(el.options, function(o, i) {
			return {index: i, label: o.text, value: o.value, selected: o.selected};
		});`
	if err := evalXPath(s.ctx, s.xpath, body, &options); err != nil {
		return nil, err
	}
	return options, nil
}

func (s *SelectList) Multiple() (bool, error) {
	var multiple bool
	err := evalXPath(s.ctx, s.xpath, `return el.multiple;`, &multiple)
	return multiple, err
}

func (s *SelectList) SelectByIndex(index int) error {
	return s.setByIndex(index, true)
}

func (s *SelectList) SelectByValue(value string) (bool, error) {
	return s.setMatching("value", value, true)
}

func (s *SelectList) SelectByLabel(label string) (bool, error) {
	return s.setMatching("text", label, true)
}

func (s *SelectList) DeselectAll() error {
	body := `
		for (var i = 0; i < el.options.length; i++) {
			el.options[i].selected = false;
		}` + notifyChange
	return evalXPath(s.ctx, s.xpath, body, nil)
}

func (s *SelectList) DeselectByIndex(index int) error {
	return s.setByIndex(index, false)
}

func (s *SelectList) DeselectByValue(value string) (bool, error) {
	return s.setMatching("value", value, false)
}

func (s *SelectList) DeselectByLabel(label string) (bool, error) {
	return s.setMatching("text", label, false)
}

func (s *SelectList) setByIndex(index int, selected bool) error {
	body := fmt.Sprintf(`
		if (%d < 0 || %d >= el.options.length) {
			throw new Error('option index %d out of range');
		}
		el.options[%d].selected = %t;%s
		return true;`, index, index, index, index, selected, notifyChange)
	var ok bool
	if err := evalXPath(s.ctx, s.xpath, body, &ok); err != nil {
		return fmt.Errorf("error setting option %d of list '%s': %v", index, s.xpath, err)
	}
	return nil
}

// setMatching flips the selected state of every option whose field (value or
// text) equals the needle. On a single-selection list the first match wins.
// Returns false when nothing matched.
func (s *SelectList) setMatching(field, needle string, selected bool) (bool, error) {
	body := fmt.Sprintf(`
		var matched = false;
		for (var i = 0; i < el.options.length; i++) {
			if (el.options[i][%s] === %s) {
				el.options[i].selected = %t;
				matched = true;
				if (!el.multiple) {
					break;
				}
			}
		}
		if (matched) {%s
		}
		return matched;`, strconv.Quote(field), strconv.Quote(needle), selected, notifyChange)
	var matched bool
	if err := evalXPath(s.ctx, s.xpath, body, &matched); err != nil {
		return false, err
	}
	return matched, nil
}
