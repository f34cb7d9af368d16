package keyword

import "fmt"

// ElementNotFoundError means a locator resolved to nothing where an element
// was required.
type ElementNotFoundError struct {
	msg string
}

func (e *ElementNotFoundError) Error() string {
	return e.msg
}

func elementNotFoundf(format string, args ...any) *ElementNotFoundError {
	return &ElementNotFoundError{msg: fmt.Sprintf(format, args...)}
}

// ArgumentError means a keyword was invoked with unusable arguments: missing
// variadic values, an unparsable index, a nonexistent local file, or
// selection items that match no option.
type ArgumentError struct {
	msg string
}

func (e *ArgumentError) Error() string {
	return e.msg
}

func argumentf(format string, args ...any) *ArgumentError {
	return &ArgumentError{msg: fmt.Sprintf(format, args...)}
}

// VerificationError means a should-be postcondition did not hold.
type VerificationError struct {
	msg string
}

func (e *VerificationError) Error() string {
	return e.msg
}

func verificationf(format string, args ...any) *VerificationError {
	return &VerificationError{msg: fmt.Sprintf(format, args...)}
}

// MultiplicityError means a multi-select-only keyword was invoked on a
// single-selection list.
type MultiplicityError struct {
	Keyword string
}

func (e *MultiplicityError) Error() string {
	return fmt.Sprintf("Keyword '%s' works only for multiselect lists.", e.Keyword)
}
