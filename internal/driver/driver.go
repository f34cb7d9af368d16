// Package driver defines the capability contract between the keyword library
// and the underlying browser-automation client. The keyword layer only ever
// talks to these interfaces; concrete adapters (see driver/cdp) translate
// them to a real protocol.
package driver

// Page is one browser page the keywords operate against. Locator strings are
// opaque to the keyword layer; the adapter's query machinery decides what
// syntax they carry.
type Page interface {
	// FindElements resolves a locator to a possibly-empty, document-ordered
	// list of element handles.
	FindElements(locator string) ([]Element, error)

	// URL returns the current page URL, best effort.
	URL() string

	// Source returns the current page markup.
	Source() (string, error)
}

// Element is a handle to a single DOM element. Handles are valid for the
// duration of one keyword call; staleness handling is the adapter's problem.
type Element interface {
	TagName() string
	Click() error
	Submit() error
	Clear() error
	SendKeys(text string) error

	// Attribute returns the named attribute or property value. The second
	// return is false when the element carries neither.
	Attribute(name string) (string, bool, error)

	Text() (string, error)
	Selected() (bool, error)
	Enabled() (bool, error)

	// SelectList wraps the element in select-list semantics. It fails when
	// the element is not a <select>.
	SelectList() (SelectList, error)
}

// SelectList restricts an element to <select> semantics. The by-value and
// by-label operations report "no matching option" through the boolean return
// instead of an error, so best-effort callers need no error inspection.
type SelectList interface {
	Options() ([]Option, error)
	Multiple() (bool, error)

	SelectByIndex(index int) error
	SelectByValue(value string) (bool, error)
	SelectByLabel(label string) (bool, error)

	DeselectAll() error
	DeselectByIndex(index int) error
	DeselectByValue(value string) (bool, error)
	DeselectByLabel(label string) (bool, error)
}

// Option is one entry of a select list.
type Option struct {
	Index    int    `json:"index"`
	Label    string `json:"label"`
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}
