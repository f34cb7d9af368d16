package keyword

import "strings"

// matchBy tags how a selection item matched an option, if at all.
type matchBy int

const (
	matchedByValue matchBy = iota
	matchedByLabel
	unmatched
)

// itemMatch is the outcome of one select-or-deselect attempt.
type itemMatch struct {
	Item string
	By   matchBy
}

// escalateSelection applies the unmatched-item policy of SelectFromList as a
// pure function over the per-item outcomes and the list multiplicity.
//
// Multi-selection lists treat any unmatched item as a hard failure. On a
// single-selection list only the last item is authoritative, because its
// selection is the keyword's net effect; unmatched items before it are
// downgraded to warnings.
func escalateSelection(locator string, matches []itemMatch, multiple bool) (warnings []string, err error) {
	missing := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.By == unmatched {
			missing = append(missing, m.Item)
		}
	}
	if len(missing) == 0 {
		return nil, nil
	}

	if multiple {
		return nil, argumentf("Options '%s' not in list '%s'.", strings.Join(missing, ", "), locator)
	}

	last := matches[len(matches)-1]
	earlier := missing
	if last.By == unmatched {
		earlier = missing[:len(missing)-1]
	}
	if len(earlier) > 0 {
		warnings = append(warnings, "Option(s) '"+strings.Join(earlier, ", ")+"' not found within list '"+locator+"'.")
	}
	if last.By == unmatched {
		return warnings, argumentf("Option '%s' not in list '%s'.", last.Item, locator)
	}
	return warnings, nil
}
