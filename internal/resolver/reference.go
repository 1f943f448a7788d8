package resolver

import "strings"

const referenceOpen = "var("

// Reference is one var() occurrence inside a value string.
// value[Start:End] is the full `var(...)` text.
type Reference struct {
	Start       int
	End         int
	Name        string
	Fallback    string
	HasFallback bool
}

// NextReference finds the first well-formed var(--name) or
// var(--name, fallback) reference at or after cursor. Identifiers that
// merely end in "var(", such as theme-var(, are not references. cursor is
// treated as a token boundary: a reference starting exactly at cursor is
// accepted whatever precedes it, since that text may be a spliced literal.
func NextReference(value string, cursor int) (Reference, bool) {
	boundary := cursor
	for cursor < len(value) {
		idx := strings.Index(value[cursor:], referenceOpen)
		if idx < 0 {
			return Reference{}, false
		}
		start := cursor + idx
		if ref, ok := scanReference(value, start, start > boundary); ok {
			return ref, true
		}
		cursor = start + len(referenceOpen)
	}
	return Reference{}, false
}

// HasReference reports whether value contains any var() reference
func HasReference(value string) bool {
	_, ok := NextReference(value, 0)
	return ok
}

func scanReference(value string, start int, checkBoundary bool) (Reference, bool) {
	if checkBoundary && start > 0 && isNameByte(value[start-1]) {
		return Reference{}, false
	}
	i := skipSpace(value, start+len(referenceOpen))
	if !strings.HasPrefix(value[i:], "--") {
		return Reference{}, false
	}
	nameStart := i
	i += 2
	for i < len(value) && isNameByte(value[i]) {
		i++
	}
	if i == nameStart+2 {
		return Reference{}, false
	}
	ref := Reference{Start: start, Name: value[nameStart:i]}

	i = skipSpace(value, i)
	if i >= len(value) {
		return Reference{}, false
	}
	switch value[i] {
	case ')':
		ref.End = i + 1
		return ref, true
	case ',':
		end, ok := matchingParen(value, i+1)
		if !ok {
			return Reference{}, false
		}
		ref.Fallback = strings.TrimSpace(value[i+1 : end])
		ref.HasFallback = true
		ref.End = end + 1
		return ref, true
	default:
		return Reference{}, false
	}
}

// matchingParen returns the index of the ")" closing a group whose "(" was
// already consumed, skipping nested parens and quoted strings
func matchingParen(value string, i int) (int, bool) {
	depth := 1
	var quote byte
	for ; i < len(value); i++ {
		c := value[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

func skipSpace(value string, i int) int {
	for i < len(value) && (value[i] == ' ' || value[i] == '\t' || value[i] == '\n' || value[i] == '\r') {
		i++
	}
	return i
}

// isNameByte matches CSS identifier bytes; any non-ASCII byte is accepted
// so UTF-8 names pass through whole
func isNameByte(c byte) bool {
	return c == '-' || c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
		c >= 0x80
}
