package theme

import "strings"

// DefaultMarker is the function name that marks a themeable value
const DefaultMarker = "theme-var"

// Placeholder is one `theme-var(NAME)` occurrence inside a value string.
// value[Start:End] is the full placeholder text.
type Placeholder struct {
	Start int
	End   int
	Name  string
}

// NextPlaceholder finds the first `marker(NAME)` at or after cursor. NAME
// runs to the first closing paren and is trimmed of surrounding space.
func NextPlaceholder(value string, cursor int, marker string) (Placeholder, bool) {
	if cursor >= len(value) {
		return Placeholder{}, false
	}
	open := marker + "("
	idx := strings.Index(value[cursor:], open)
	if idx < 0 {
		return Placeholder{}, false
	}
	start := cursor + idx
	nameStart := start + len(open)
	closeIdx := strings.IndexByte(value[nameStart:], ')')
	if closeIdx < 0 {
		return Placeholder{}, false
	}
	return Placeholder{
		Start: start,
		End:   nameStart + closeIdx + 1,
		Name:  strings.TrimSpace(value[nameStart : nameStart+closeIdx]),
	}, true
}

// Predicate decides whether a declaration value is themeable
type Predicate func(value string) bool

// MarkerPredicate is the plain substring test: any value containing the
// marker text is themeable, even when it is not a well-formed placeholder
func MarkerPredicate(marker string) Predicate {
	if marker == "" {
		marker = DefaultMarker
	}
	return func(value string) bool {
		return strings.Contains(value, marker)
	}
}
