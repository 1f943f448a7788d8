package css

import (
	"strings"

	"bennypowers.dev/themec/internal/stylesheet"
)

var closers = map[byte]byte{'{': '}', '(': ')', '[': ']'}

// checkBalanced rejects source with an unterminated comment, string or
// bracket, or a stray closing bracket. Anything else is recoverable.
func checkBalanced(src string) error {
	type open struct {
		char byte
		at   int
	}
	var stack []open
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '\\':
			i += 2
			continue
		case c == '/' && strings.HasPrefix(src[i:], "/*"):
			end, ok := commentEnd(src, i)
			if !ok {
				return errorAt(src, i, "unterminated comment")
			}
			i = end
			continue
		case c == '"' || c == '\'':
			end, ok := stringEnd(src, i)
			if !ok {
				return errorAt(src, i, "unterminated string")
			}
			i = end
			continue
		case c == '{' || c == '(' || c == '[':
			stack = append(stack, open{c, i})
		case c == '}' || c == ')' || c == ']':
			if len(stack) == 0 || closers[stack[len(stack)-1].char] != c {
				return errorAt(src, i, "unexpected "+string(c))
			}
			stack = stack[:len(stack)-1]
		}
		i++
	}
	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return errorAt(src, top.at, "unclosed "+string(top.char))
	}
	return nil
}

// scanStatements builds nodes from statement text without the grammar.
// It serves sources tree-sitter only recovers with error nodes, and must
// only see text that passed checkBalanced. Declarations are recognized
// inside blocks; statements of no known shape become Raw nodes.
func scanStatements(s string, inBlock bool) []stylesheet.Node {
	var nodes []stylesheet.Node
	i := 0
	for {
		i = skipSpace(s, i)
		if i >= len(s) {
			return nodes
		}

		switch {
		case s[i] == ';':
			i++
		case strings.HasPrefix(s[i:], "/*"):
			end, _ := commentEnd(s, i)
			nodes = append(nodes, &stylesheet.Comment{Text: s[i:end]})
			i = end
		case s[i] == '@':
			var node stylesheet.Node
			node, i = scanAtRule(s, i)
			nodes = append(nodes, node)
		default:
			var node stylesheet.Node
			node, i = scanQualified(s, i, inBlock)
			nodes = append(nodes, node)
		}
	}
}

func scanAtRule(s string, start int) (stylesheet.Node, int) {
	nameEnd := start + 1
	for nameEnd < len(s) && isNameByte(s[nameEnd]) {
		nameEnd++
	}
	at := &stylesheet.AtRule{Name: s[start+1 : nameEnd]}

	end := scanTo(s, nameEnd, ";{")
	at.Params = normalizeSpace(s[nameEnd:end])
	if end < len(s) && s[end] == '{' {
		closeAt := scanTo(s, end+1, "}")
		at.Block = true
		at.Nodes = scanStatements(s[end+1:closeAt], true)
		return at, closeAt + 1
	}
	return at, end + 1
}

// scanQualified reads a rule, a declaration or an unknown statement
func scanQualified(s string, start int, inBlock bool) (stylesheet.Node, int) {
	end := scanTo(s, start, ";{")
	if end < len(s) && s[end] == '{' {
		prelude := s[start:end]
		// custom property values may hold blocks: --x: {a: b};
		if inBlock && strings.HasPrefix(strings.TrimSpace(prelude), "--") && strings.Contains(prelude, ":") {
			end = scanTo(s, start, ";")
			return declarationOrRaw(s[start:end]), end + 1
		}
		closeAt := scanTo(s, end+1, "}")
		return &stylesheet.Rule{
			Selector: normalizeSpace(prelude),
			Nodes:    scanStatements(s[end+1:closeAt], true),
		}, closeAt + 1
	}

	if inBlock {
		return declarationOrRaw(s[start:end]), end + 1
	}
	return rawStatement(s, start, end), end + 1
}

func declarationOrRaw(piece string) stylesheet.Node {
	colon := strings.IndexByte(piece, ':')
	if colon > 0 {
		property := strings.TrimSpace(piece[:colon])
		if isName(property) {
			return &stylesheet.Declaration{
				Property: property,
				Value:    strings.TrimSpace(piece[colon+1:]),
			}
		}
	}
	return &stylesheet.Raw{Text: strings.TrimSpace(piece) + ";"}
}

func rawStatement(s string, start, end int) stylesheet.Node {
	text := strings.TrimSpace(s[start:end])
	if end < len(s) {
		text += ";"
	}
	return &stylesheet.Raw{Text: text}
}

// scanTo returns the index of the first byte in stops found outside
// comments, strings and nested brackets, or len(s)
func scanTo(s string, i int, stops string) int {
	depth := 0
	for i < len(s) {
		c := s[i]
		if depth == 0 && strings.IndexByte(stops, c) >= 0 {
			return i
		}
		switch {
		case c == '\\':
			i += 2
			continue
		case c == '/' && strings.HasPrefix(s[i:], "/*"):
			i, _ = commentEnd(s, i)
			continue
		case c == '"' || c == '\'':
			i, _ = stringEnd(s, i)
			continue
		case c == '{' || c == '(' || c == '[':
			depth++
		case c == '}' || c == ')' || c == ']':
			depth--
		}
		i++
	}
	return len(s)
}

// commentEnd returns the index just past the comment opening at start
func commentEnd(s string, start int) (int, bool) {
	idx := strings.Index(s[start+2:], "*/")
	if idx < 0 {
		return len(s), false
	}
	return start + 2 + idx + 2, true
}

// stringEnd returns the index just past the string opening at start
func stringEnd(s string, start int) (int, bool) {
	quote := s[start]
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case quote:
			return i + 1, true
		}
	}
	return len(s), false
}

func skipSpace(s string, i int) int {
	for i < len(s) && strings.IndexByte(" \t\n\r\f", s[i]) >= 0 {
		i++
	}
	return i
}

func isName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isNameByte(s[i]) {
			return false
		}
	}
	return true
}

func isNameByte(c byte) bool {
	return c == '-' || c == '_' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func errorAt(src string, offset int, snippet string) error {
	line := strings.Count(src[:offset], "\n")
	col := offset - (strings.LastIndexByte(src[:offset], '\n') + 1)
	return &ParseError{
		Position: Position{Line: uint32(line), Character: uint32(col)},
		Snippet:  snippet,
	}
}
