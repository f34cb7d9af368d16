package keyword

import (
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/formrobot/formrobot/internal/driver"
	"github.com/formrobot/formrobot/internal/utils"
)

// GetListItems returns the labels of every option in the select list
// identified by locator, or the values when values is true.
func (l *Library) GetListItems(locator string, values bool) ([]string, error) {
	options, err := l.listOptions(locator)
	if err != nil {
		return nil, err
	}
	if values {
		return optionValues(options), nil
	}
	return optionLabels(options), nil
}

// GetSelectedListLabel returns the visible label of the selected option of
// the select list identified by locator.
func (l *Library) GetSelectedListLabel(locator string) (string, error) {
	selected, err := l.selectedOptions(locator)
	if err != nil {
		return "", err
	}
	if len(selected) == 0 {
		return "", elementNotFoundf("List '%s' does not have any selected options.", locator)
	}
	return selected[0].Label, nil
}

// GetSelectedListLabels returns the visible labels of every selected option
// of the select list identified by locator. Fails if there is no selection.
func (l *Library) GetSelectedListLabels(locator string) ([]string, error) {
	selected, err := l.selectedOptions(locator)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, argumentf("List '%s' does not have any selected values.", locator)
	}
	return optionLabels(selected), nil
}

// GetSelectedListValue returns the value attribute of the selected option of
// the select list identified by locator.
func (l *Library) GetSelectedListValue(locator string) (string, error) {
	selected, err := l.selectedOptions(locator)
	if err != nil {
		return "", err
	}
	if len(selected) == 0 {
		return "", elementNotFoundf("List '%s' does not have any selected options.", locator)
	}
	return selected[0].Value, nil
}

// GetSelectedListValues returns the value attributes of every selected
// option of the select list identified by locator. Fails if there is no
// selection.
func (l *Library) GetSelectedListValues(locator string) ([]string, error) {
	selected, err := l.selectedOptions(locator)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, argumentf("Select list with locator '%s' does not have any selected values.", locator)
	}
	return optionValues(selected), nil
}

// ListSelectionShouldBe verifies the selection of the select list identified
// by locator is exactly items, order-independent, matching each entry by
// value or by label. Giving no items asserts an empty selection.
func (l *Library) ListSelectionShouldBe(locator string, items ...string) error {
	if len(items) > 0 {
		log.Infof("Verifying list '%s' has option(s) [ %s ] selected.", locator, strings.Join(items, " | "))
	} else {
		log.Infof("Verifying list '%s' has no options selected.", locator)
	}
	if err := l.PageShouldContainList(locator, "", "INFO"); err != nil {
		return err
	}
	selected, err := l.selectedOptions(locator)
	if err != nil {
		return err
	}
	if len(items) == 0 && len(selected) == 0 {
		return nil
	}

	values := optionValues(selected)
	labels := optionLabels(selected)
	mismatch := func() error {
		return verificationf("List '%s' should have had selection [ %s ] but it was [ %s ].",
			locator, strings.Join(items, " | "), strings.Join(labels, " | "))
	}
	for _, item := range items {
		if !utils.InArray(item, values) && !utils.InArray(item, labels) {
			return mismatch()
		}
	}
	for i := range selected {
		if !utils.InArray(values[i], items) && !utils.InArray(labels[i], items) {
			return mismatch()
		}
	}
	return nil
}

// ListShouldHaveNoSelections verifies the select list identified by locator
// has no selected options.
func (l *Library) ListShouldHaveNoSelections(locator string) error {
	log.Infof("Verifying list '%s' has no selection.", locator)
	selected, err := l.selectedOptions(locator)
	if err != nil {
		return err
	}
	if len(selected) > 0 {
		return verificationf("List '%s' should have had no selection (selection was [ %s ]).",
			locator, strings.Join(optionLabels(selected), " | "))
	}
	return nil
}

func (l *Library) PageShouldContainList(locator, message, loglevel string) error {
	return l.assertPageContains(locator, "list", message, loglevel)
}

func (l *Library) PageShouldNotContainList(locator, message, loglevel string) error {
	return l.assertPageNotContains(locator, "list", message, loglevel)
}

// SelectAllFromList selects every option of the multi-select list identified
// by locator, in ascending index order.
func (l *Library) SelectAllFromList(locator string) error {
	log.Infof("Selecting all options from list '%s'.", locator)
	sel, err := l.selectList(locator)
	if err != nil {
		return err
	}
	multiple, err := sel.Multiple()
	if err != nil {
		return err
	}
	if !multiple {
		return &MultiplicityError{Keyword: "Select all from list"}
	}
	return l.selectEveryOption(sel)
}

// SelectFromList selects items from the select list identified by locator.
// Each item is matched by value first, then by label. With no items every
// option gets selected. Unmatched items fail hard on a multi-selection list;
// on a single-selection list only an unmatched last item fails and earlier
// misses are logged as warnings, since the last selection wins anyway.
func (l *Library) SelectFromList(locator string, items ...string) error {
	if len(items) > 0 {
		log.Infof("Selecting option(s) '%s' from list '%s'.", strings.Join(items, ", "), locator)
	} else {
		log.Infof("Selecting all options from list '%s'.", locator)
	}

	sel, err := l.selectList(locator)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return l.selectEveryOption(sel)
	}

	matches := make([]itemMatch, 0, len(items))
	for _, item := range items {
		by, err := selectByValueOrLabel(sel, item)
		if err != nil {
			return err
		}
		matches = append(matches, itemMatch{Item: item, By: by})
	}

	multiple, err := sel.Multiple()
	if err != nil {
		return err
	}
	warnings, err := escalateSelection(locator, matches, multiple)
	for _, w := range warnings {
		log.Warnf("%s", w)
	}
	return err
}

// SelectFromListByIndex selects every given index from the select list
// identified by locator.
func (l *Library) SelectFromListByIndex(locator string, indexes ...string) error {
	if len(indexes) == 0 {
		return argumentf("No index given.")
	}
	log.Infof("Selecting index(es) '%s' from list '%s'.", strings.Join(indexes, ", "), locator)
	sel, err := l.selectList(locator)
	if err != nil {
		return err
	}
	for _, index := range indexes {
		i, err := strconv.Atoi(index)
		if err != nil {
			return argumentf("Index '%s' is not an integer.", index)
		}
		if err = sel.SelectByIndex(i); err != nil {
			return err
		}
	}
	return nil
}

// SelectFromListByValue selects every given value from the select list
// identified by locator.
func (l *Library) SelectFromListByValue(locator string, values ...string) error {
	if len(values) == 0 {
		return argumentf("No value given.")
	}
	log.Infof("Selecting value(s) '%s' from list '%s'.", strings.Join(values, ", "), locator)
	sel, err := l.selectList(locator)
	if err != nil {
		return err
	}
	for _, value := range values {
		matched, err := sel.SelectByValue(value)
		if err != nil {
			return err
		}
		if !matched {
			return elementNotFoundf("No option with value '%s' in list '%s'.", value, locator)
		}
	}
	return nil
}

// SelectFromListByLabel selects every given visible label from the select
// list identified by locator.
func (l *Library) SelectFromListByLabel(locator string, labels ...string) error {
	if len(labels) == 0 {
		return argumentf("No value given.")
	}
	log.Infof("Selecting label(s) '%s' from list '%s'.", strings.Join(labels, ", "), locator)
	sel, err := l.selectList(locator)
	if err != nil {
		return err
	}
	for _, label := range labels {
		matched, err := sel.SelectByLabel(label)
		if err != nil {
			return err
		}
		if !matched {
			return elementNotFoundf("No option with label '%s' in list '%s'.", label, locator)
		}
	}
	return nil
}

// UnselectFromList unselects items from the multi-select list identified by
// locator. With no items every selection is removed. Each item is attempted
// by value AND by label, both best-effort: a no-match outcome on either
// attempt is not an error.
func (l *Library) UnselectFromList(locator string, items ...string) error {
	if len(items) > 0 {
		log.Infof("Unselecting option(s) '%s' from list '%s'.", strings.Join(items, ", "), locator)
	} else {
		log.Infof("Unselecting all options from list '%s'.", locator)
	}

	sel, err := l.selectList(locator)
	if err != nil {
		return err
	}
	if err = l.requireMultiple(sel, "Unselect from list"); err != nil {
		return err
	}
	if len(items) == 0 {
		return sel.DeselectAll()
	}
	for _, item := range items {
		if _, err = sel.DeselectByValue(item); err != nil {
			return err
		}
		if _, err = sel.DeselectByLabel(item); err != nil {
			return err
		}
	}
	return nil
}

// UnselectFromListByIndex unselects every given index from the multi-select
// list identified by locator.
func (l *Library) UnselectFromListByIndex(locator string, indexes ...string) error {
	if len(indexes) == 0 {
		return argumentf("No index given.")
	}
	log.Infof("Unselecting index(es) '%s' from list '%s'.", strings.Join(indexes, ", "), locator)
	sel, err := l.selectList(locator)
	if err != nil {
		return err
	}
	if err = l.requireMultiple(sel, "Unselect from list"); err != nil {
		return err
	}
	for _, index := range indexes {
		i, err := strconv.Atoi(index)
		if err != nil {
			return argumentf("Index '%s' is not an integer.", index)
		}
		if err = sel.DeselectByIndex(i); err != nil {
			return err
		}
	}
	return nil
}

// UnselectFromListByValue unselects every given value from the multi-select
// list identified by locator.
func (l *Library) UnselectFromListByValue(locator string, values ...string) error {
	if len(values) == 0 {
		return argumentf("No value given.")
	}
	log.Infof("Unselecting value(s) '%s' from list '%s'.", strings.Join(values, ", "), locator)
	sel, err := l.selectList(locator)
	if err != nil {
		return err
	}
	if err = l.requireMultiple(sel, "Unselect from list"); err != nil {
		return err
	}
	for _, value := range values {
		matched, err := sel.DeselectByValue(value)
		if err != nil {
			return err
		}
		if !matched {
			return elementNotFoundf("No option with value '%s' in list '%s'.", value, locator)
		}
	}
	return nil
}

// UnselectFromListByLabel unselects every given visible label from the
// multi-select list identified by locator.
func (l *Library) UnselectFromListByLabel(locator string, labels ...string) error {
	if len(labels) == 0 {
		return argumentf("No value given.")
	}
	log.Infof("Unselecting label(s) '%s' from list '%s'.", strings.Join(labels, ", "), locator)
	sel, err := l.selectList(locator)
	if err != nil {
		return err
	}
	if err = l.requireMultiple(sel, "Unselect from list"); err != nil {
		return err
	}
	for _, label := range labels {
		matched, err := sel.DeselectByLabel(label)
		if err != nil {
			return err
		}
		if !matched {
			return elementNotFoundf("No option with label '%s' in list '%s'.", label, locator)
		}
	}
	return nil
}

func (l *Library) selectList(locator string) (driver.SelectList, error) {
	element, err := l.findElement(locator, "list", true)
	if err != nil {
		return nil, err
	}
	return element.SelectList()
}

func (l *Library) listOptions(locator string) ([]driver.Option, error) {
	sel, err := l.selectList(locator)
	if err != nil {
		return nil, err
	}
	return sel.Options()
}

func (l *Library) selectedOptions(locator string) ([]driver.Option, error) {
	options, err := l.listOptions(locator)
	if err != nil {
		return nil, err
	}
	selected := make([]driver.Option, 0, len(options))
	for _, o := range options {
		if o.Selected {
			selected = append(selected, o)
		}
	}
	return selected, nil
}

func (l *Library) selectEveryOption(sel driver.SelectList) error {
	options, err := sel.Options()
	if err != nil {
		return err
	}
	for i := range options {
		if err = sel.SelectByIndex(i); err != nil {
			return err
		}
	}
	return nil
}

func (l *Library) requireMultiple(sel driver.SelectList, kw string) error {
	multiple, err := sel.Multiple()
	if err != nil {
		return err
	}
	if !multiple {
		return &MultiplicityError{Keyword: kw}
	}
	return nil
}

// selectByValueOrLabel tries a value match first and falls back to a label
// match, reporting how the item matched.
func selectByValueOrLabel(sel driver.SelectList, item string) (matchBy, error) {
	matched, err := sel.SelectByValue(item)
	if err != nil {
		return unmatched, err
	}
	if matched {
		return matchedByValue, nil
	}
	matched, err = sel.SelectByLabel(item)
	if err != nil {
		return unmatched, err
	}
	if matched {
		return matchedByLabel, nil
	}
	return unmatched, nil
}

func optionLabels(options []driver.Option) []string {
	labels := make([]string, 0, len(options))
	for _, o := range options {
		labels = append(labels, o.Label)
	}
	return labels
}

func optionValues(options []driver.Option) []string {
	values := make([]string, 0, len(options))
	for _, o := range options {
		values = append(values, o.Value)
	}
	return values
}
