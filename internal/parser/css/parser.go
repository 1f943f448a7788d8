// Package css parses CSS source into a stylesheet tree using tree-sitter.
package css

import (
	"fmt"
	"strings"
	"sync"

	"bennypowers.dev/themec/internal/stylesheet"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
)

// Parser handles parsing CSS with tree-sitter
type Parser struct {
	parser *sitter.Parser
}

var cssLang = sitter.NewLanguage(tree_sitter_css.Language())

// parserPool is a pool of reusable CSS parsers
var parserPool = sync.Pool{
	New: func() any {
		return NewParser()
	},
}

// NewParser creates a new CSS parser
func NewParser() *Parser {
	parser := sitter.NewParser()
	if err := parser.SetLanguage(cssLang); err != nil {
		panic(fmt.Sprintf("failed to set CSS language: %v", err))
	}
	return &Parser{parser: parser}
}

// AcquireParser gets a parser from the pool
func AcquireParser() *Parser {
	p := parserPool.Get().(*Parser)
	p.parser.Reset()
	return p
}

// ReleaseParser returns a parser to the pool
func ReleaseParser(p *Parser) {
	if p != nil {
		parserPool.Put(p)
	}
}

// Close closes the parser and releases its resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// Parse is a convenience wrapper that borrows a pooled parser
func Parse(source string) (*stylesheet.Stylesheet, error) {
	p := AcquireParser()
	defer ReleaseParser(p)
	return p.Parse(source)
}

// Parse parses CSS source into a stylesheet tree. Comments are kept.
// Source with an unterminated block, string or comment is rejected. Other
// constructs the grammar does not know are recovered by a statement
// scanner, with unrecognized statements kept as Raw text.
func (p *Parser) Parse(source string) (*stylesheet.Stylesheet, error) {
	if err := checkBalanced(source); err != nil {
		return nil, err
	}

	src := []byte(source)
	tree := p.parser.Parse(src, nil)
	if tree == nil {
		return nil, ErrParseFailure
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return &stylesheet.Stylesheet{Nodes: scanStatements(source, false)}, nil
	}

	sheet := &stylesheet.Stylesheet{}
	sheet.Nodes = p.convertChildren(root, src)
	return sheet, nil
}

// convertChildren converts the statement children of a stylesheet, block or
// keyframe block list
func (p *Parser) convertChildren(node *sitter.Node, src []byte) []stylesheet.Node {
	var nodes []stylesheet.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		if n := p.convert(node.Child(i), src); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

func (p *Parser) convert(node *sitter.Node, src []byte) stylesheet.Node {
	switch node.Kind() {
	case "rule_set":
		return p.convertRuleSet(node, src)
	case "keyframe_block":
		return p.convertKeyframeBlock(node, src)
	case "declaration":
		return convertDeclaration(node, src)
	case "media_statement", "supports_statement", "keyframes_statement",
		"import_statement", "charset_statement", "namespace_statement",
		"scope_statement", "postcss_statement", "at_rule":
		return p.convertAtRule(node, src)
	case "comment", "js_comment":
		return &stylesheet.Comment{Text: text(node, src)}
	default:
		// punctuation
		return nil
	}
}

func (p *Parser) convertRuleSet(node *sitter.Node, src []byte) stylesheet.Node {
	rule := &stylesheet.Rule{}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "selectors":
			rule.Selector = normalizeSpace(text(child, src))
		case "block":
			rule.Nodes = p.convertChildren(child, src)
		}
	}
	return rule
}

// convertKeyframeBlock maps `from { ... }` / `50% { ... }` to a rule whose
// selector is the keyframe selector
func (p *Parser) convertKeyframeBlock(node *sitter.Node, src []byte) stylesheet.Node {
	rule := &stylesheet.Rule{}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "block" {
			rule.Nodes = p.convertChildren(child, src)
			break
		}
		if rule.Selector == "" {
			rule.Selector = text(child, src)
		}
	}
	return rule
}

func (p *Parser) convertAtRule(node *sitter.Node, src []byte) stylesheet.Node {
	if node.ChildCount() == 0 {
		return nil
	}
	keyword := node.Child(0)
	at := &stylesheet.AtRule{
		Name: strings.TrimPrefix(text(keyword, src), "@"),
	}

	paramsStart := keyword.EndByte()
	paramsEnd := node.EndByte()
	for i := uint(1); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "block", "keyframe_block_list":
			paramsEnd = child.StartByte()
			at.Block = true
			at.Nodes = p.convertChildren(child, src)
		case ";":
			paramsEnd = child.StartByte()
		}
	}
	if paramsEnd > paramsStart {
		at.Params = normalizeSpace(string(src[paramsStart:paramsEnd]))
	}
	return at
}

// convertDeclaration takes the raw value text between the colon and the
// terminating semicolon, so functions like theme-var() survive verbatim
func convertDeclaration(node *sitter.Node, src []byte) stylesheet.Node {
	decl := &stylesheet.Declaration{}
	valueStart, valueEnd := uint(0), node.EndByte()
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "property_name":
			decl.Property = text(child, src)
		case ":":
			if valueStart == 0 {
				valueStart = child.EndByte()
			}
		case ";":
			valueEnd = child.StartByte()
		}
	}
	if decl.Property == "" || valueStart == 0 {
		return nil
	}
	if valueEnd > valueStart {
		decl.Value = strings.TrimSpace(string(src[valueStart:valueEnd]))
	}
	return decl
}

func text(node *sitter.Node, src []byte) string {
	return string(src[node.StartByte():node.EndByte()])
}

// normalizeSpace collapses runs of whitespace, so multi-line selectors and
// media queries print on one line
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
