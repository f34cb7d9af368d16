package keyword

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/formrobot/formrobot/internal/driver"
)

// SubmitForm submits the form identified by locator. An empty locator
// submits the first form on the page.
func (l *Library) SubmitForm(locator string) error {
	log.Infof("Submitting form '%s'.", locator)
	if locator == "" {
		locator = "form"
	}
	element, err := l.findElement(locator, "form", true)
	if err != nil {
		return err
	}
	return element.Submit()
}

// SelectCheckbox checks the checkbox identified by locator. Does nothing if
// it is already checked.
func (l *Library) SelectCheckbox(locator string) error {
	log.Infof("Selecting checkbox '%s'.", locator)
	element, err := l.checkbox(locator)
	if err != nil {
		return err
	}
	selected, err := element.Selected()
	if err != nil {
		return err
	}
	if !selected {
		return element.Click()
	}
	return nil
}

// UnselectCheckbox unchecks the checkbox identified by locator. Does nothing
// if it is not checked.
func (l *Library) UnselectCheckbox(locator string) error {
	log.Infof("Unselecting checkbox '%s'.", locator)
	element, err := l.checkbox(locator)
	if err != nil {
		return err
	}
	selected, err := element.Selected()
	if err != nil {
		return err
	}
	if selected {
		return element.Click()
	}
	return nil
}

// CheckboxShouldBeSelected verifies the checkbox identified by locator is
// checked.
func (l *Library) CheckboxShouldBeSelected(locator string) error {
	log.Infof("Verifying checkbox '%s' is selected.", locator)
	element, err := l.checkbox(locator)
	if err != nil {
		return err
	}
	selected, err := element.Selected()
	if err != nil {
		return err
	}
	if !selected {
		return verificationf("Checkbox '%s' should have been selected but was not.", locator)
	}
	return nil
}

// CheckboxShouldNotBeSelected verifies the checkbox identified by locator is
// not checked.
func (l *Library) CheckboxShouldNotBeSelected(locator string) error {
	log.Infof("Verifying checkbox '%s' is not selected.", locator)
	element, err := l.checkbox(locator)
	if err != nil {
		return err
	}
	selected, err := element.Selected()
	if err != nil {
		return err
	}
	if selected {
		return verificationf("Checkbox '%s' should not have been selected.", locator)
	}
	return nil
}

func (l *Library) PageShouldContainCheckbox(locator, message, loglevel string) error {
	return l.assertPageContains(locator, "checkbox", message, loglevel)
}

func (l *Library) PageShouldNotContainCheckbox(locator, message, loglevel string) error {
	return l.assertPageNotContains(locator, "checkbox", message, loglevel)
}

// SelectRadioButton sets the selection of the radio group groupName to the
// button whose value or id attribute equals value. No click is issued when
// the button is already selected.
func (l *Library) SelectRadioButton(groupName, value string) error {
	log.Infof("Selecting '%s' from radio button '%s'.", value, groupName)
	element, err := l.radioButtonWithValue(groupName, value)
	if err != nil {
		return err
	}
	selected, err := element.Selected()
	if err != nil {
		return err
	}
	if !selected {
		return element.Click()
	}
	return nil
}

// RadioButtonShouldBeSetTo verifies the radio group groupName has value
// selected.
func (l *Library) RadioButtonShouldBeSetTo(groupName, value string) error {
	log.Infof("Verifying radio button '%s' has selection '%s'.", groupName, value)
	elements, err := l.radioButtons(groupName)
	if err != nil {
		return err
	}
	actual, found, err := l.selectedRadioValue(elements)
	if err != nil {
		return err
	}
	if !found {
		return verificationf("Selection of radio button '%s' should have been '%s' but no value was selected.", groupName, value)
	}
	if actual != value {
		return verificationf("Selection of radio button '%s' should have been '%s' but was '%s'.", groupName, value, actual)
	}
	return nil
}

// RadioButtonShouldNotBeSelected verifies the radio group groupName has no
// selection at all. An empty-string value still counts as a selection.
func (l *Library) RadioButtonShouldNotBeSelected(groupName string) error {
	log.Infof("Verifying radio button '%s' has no selection.", groupName)
	elements, err := l.radioButtons(groupName)
	if err != nil {
		return err
	}
	actual, found, err := l.selectedRadioValue(elements)
	if err != nil {
		return err
	}
	if found {
		return verificationf("Radio button group '%s' should not have had selection, but '%s' was selected.", groupName, actual)
	}
	return nil
}

func (l *Library) PageShouldContainRadioButton(locator, message, loglevel string) error {
	return l.assertPageContains(locator, "radio button", message, loglevel)
}

func (l *Library) PageShouldNotContainRadioButton(locator, message, loglevel string) error {
	return l.assertPageNotContains(locator, "radio button", message, loglevel)
}

// ChooseFile inputs filePath into the file input field identified by
// locator. The path must exist on the local file system.
func (l *Library) ChooseFile(locator, filePath string) error {
	info, err := os.Stat(filePath)
	if err != nil || info.IsDir() {
		return argumentf("File '%s' does not exist on the local file system.", filePath)
	}
	element, err := l.findElement(locator, "", true)
	if err != nil {
		return err
	}
	return element.SendKeys(filePath)
}

// InputText types text into the text field identified by locator, replacing
// any existing value.
func (l *Library) InputText(locator, text string) error {
	log.Infof("Typing text '%s' into text field '%s'.", text, locator)
	return l.inputTextIntoTextField(locator, text)
}

// InputPassword is InputText without the typed value appearing in the log.
func (l *Library) InputPassword(locator, text string) error {
	log.Infof("Typing password into text field '%s'.", locator)
	return l.inputTextIntoTextField(locator, text)
}

func (l *Library) PageShouldContainTextfield(locator, message, loglevel string) error {
	return l.assertPageContains(locator, "text field", message, loglevel)
}

func (l *Library) PageShouldNotContainTextfield(locator, message, loglevel string) error {
	return l.assertPageNotContains(locator, "text field", message, loglevel)
}

// TextfieldShouldContain verifies the text field identified by locator
// contains expected. message overrides the default error message.
func (l *Library) TextfieldShouldContain(locator, expected, message string) error {
	actual, err := l.valueOf(locator, "text field")
	if err != nil {
		return err
	}
	if !strings.Contains(actual, expected) {
		if message == "" {
			message = "Text field '" + locator + "' should have contained text '" + expected + "' but it contained '" + actual + "'."
		}
		return verificationf("%s", message)
	}
	log.Infof("Text field '%s' contains text '%s'.", locator, expected)
	return nil
}

// TextfieldValueShouldBe verifies the value of the text field identified by
// locator is exactly expected.
func (l *Library) TextfieldValueShouldBe(locator, expected, message string) error {
	actual, err := l.valueOf(locator, "text field")
	if err != nil {
		return err
	}
	if actual != expected {
		if message == "" {
			message = "Value of text field '" + locator + "' should have been '" + expected + "' but was '" + actual + "'."
		}
		return verificationf("%s", message)
	}
	log.Infof("Content of text field '%s' is '%s'.", locator, expected)
	return nil
}

// TextareaShouldContain verifies the text area identified by locator
// contains expected.
func (l *Library) TextareaShouldContain(locator, expected, message string) error {
	actual, err := l.valueOf(locator, "text area")
	if err != nil {
		return err
	}
	if !strings.Contains(actual, expected) {
		if message == "" {
			message = "Text area '" + locator + "' should have contained text '" + expected + "' but it had '" + actual + "'."
		}
		return verificationf("%s", message)
	}
	log.Infof("Text area '%s' contains text '%s'.", locator, expected)
	return nil
}

// TextareaValueShouldBe verifies the value of the text area identified by
// locator is exactly expected.
func (l *Library) TextareaValueShouldBe(locator, expected, message string) error {
	actual, err := l.valueOf(locator, "text area")
	if err != nil {
		return err
	}
	if actual != expected {
		if message == "" {
			message = "Text area '" + locator + "' should have had text '" + expected + "' but it had '" + actual + "'."
		}
		return verificationf("%s", message)
	}
	log.Infof("Content of text area '%s' is '%s'.", locator, expected)
	return nil
}

// ClickButton clicks the button identified by locator, trying an input
// element first and falling back to a button element.
func (l *Library) ClickButton(locator string) error {
	log.Infof("Clicking button '%s'.", locator)
	element, err := l.findElement(locator, "input", false)
	if err != nil {
		return err
	}
	if element == nil {
		element, err = l.findElement(locator, "button", true)
		if err != nil {
			return err
		}
	}
	return element.Click()
}

// PageShouldContainButton verifies a button created with either an input or
// a button tag is found from the current page.
func (l *Library) PageShouldContainButton(locator, message, loglevel string) error {
	err := l.assertPageContains(locator, "input", message, loglevel)
	if err == nil {
		return nil
	}
	if _, ok := err.(*VerificationError); !ok {
		return err
	}
	return l.assertPageContains(locator, "button", message, loglevel)
}

// PageShouldNotContainButton verifies neither an input nor a button element
// matching locator is found from the current page.
func (l *Library) PageShouldNotContainButton(locator, message, loglevel string) error {
	if err := l.assertPageNotContains(locator, "button", message, loglevel); err != nil {
		return err
	}
	return l.assertPageNotContains(locator, "input", message, loglevel)
}

func (l *Library) checkbox(locator string) (driver.Element, error) {
	return l.findElement(locator, "checkbox", true)
}

// radioButtons returns every radio input belonging to the named group.
func (l *Library) radioButtons(groupName string) ([]driver.Element, error) {
	log.Debugf("Radio group filter: input[type=radio][name=%s]", groupName)
	elements, err := l.radioCandidates(groupName, nil)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, elementNotFoundf("No radio button with name '%s' found.", groupName)
	}
	return elements, nil
}

// radioButtonWithValue returns the group member whose value or id attribute
// equals value.
func (l *Library) radioButtonWithValue(groupName, value string) (driver.Element, error) {
	log.Debugf("Radio group filter: input[type=radio][name=%s] value or id '%s'", groupName, value)
	elements, err := l.radioCandidates(groupName, &value)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, elementNotFoundf("No radio button with name '%s' and value '%s' found.", groupName, value)
	}
	return elements[0], nil
}

// radioCandidates filters every input on the page down to the radio buttons
// of one group, optionally narrowed to a value-or-id match.
func (l *Library) radioCandidates(groupName string, valueOrID *string) ([]driver.Element, error) {
	inputs, err := l.findElements("input", "radio button")
	if err != nil {
		return nil, err
	}
	matched := make([]driver.Element, 0, len(inputs))
	for _, el := range inputs {
		name, _, err := el.Attribute("name")
		if err != nil {
			return nil, err
		}
		if name != groupName {
			continue
		}
		if valueOrID != nil {
			value, _, err := el.Attribute("value")
			if err != nil {
				return nil, err
			}
			id, _, err := el.Attribute("id")
			if err != nil {
				return nil, err
			}
			if value != *valueOrID && id != *valueOrID {
				continue
			}
		}
		matched = append(matched, el)
	}
	return matched, nil
}

// selectedRadioValue returns the value of the first selected group member.
// found is false when no member is selected, which is distinct from a
// selected member with an empty value.
func (l *Library) selectedRadioValue(elements []driver.Element) (value string, found bool, err error) {
	for _, el := range elements {
		selected, err := el.Selected()
		if err != nil {
			return "", false, err
		}
		if selected {
			v, _, err := el.Attribute("value")
			if err != nil {
				return "", false, err
			}
			return v, true, nil
		}
	}
	return "", false, nil
}

func (l *Library) valueOf(locator, kind string) (string, error) {
	element, err := l.findElement(locator, kind, true)
	if err != nil {
		return "", err
	}
	value, _, err := element.Attribute("value")
	return value, err
}

func (l *Library) inputTextIntoTextField(locator, text string) error {
	element, err := l.findElement(locator, "", true)
	if err != nil {
		return err
	}
	if err = element.Clear(); err != nil {
		return err
	}
	return element.SendKeys(text)
}
