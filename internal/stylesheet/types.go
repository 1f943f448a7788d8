// Package stylesheet is the in-memory tree the theme engine transforms:
// rules, at-rules and declarations in document order.
package stylesheet

// Node is one entry of a stylesheet tree
type Node interface {
	// CloneNode returns a deep copy that shares no mutable state with the receiver
	CloneNode() Node
}

// Stylesheet is the root of a parsed stylesheet
type Stylesheet struct {
	Nodes []Node
}

// Rule is a qualified rule such as `.button:hover { ... }`
type Rule struct {
	Selector string
	Nodes    []Node
}

// AtRule is an at-rule such as `@media (min-width: 40em) { ... }`.
// Block is false for statement at-rules like `@import url(a.css);`.
type AtRule struct {
	Name   string
	Params string
	Nodes  []Node
	Block  bool
}

// Declaration is a property/value pair. Value is the raw value text,
// including any `!important` suffix.
type Declaration struct {
	Property string
	Value    string
}

// Comment is a `/* ... */` comment kept between statements. Text includes
// the delimiters.
type Comment struct {
	Text string
}

// Raw is a statement the parser could not structure. It prints back
// verbatim.
type Raw struct {
	Text string
}

// CloneNode implements Node
func (r *Rule) CloneNode() Node { return r.Clone() }

// CloneNode implements Node
func (a *AtRule) CloneNode() Node { return a.Clone() }

// CloneNode implements Node
func (d *Declaration) CloneNode() Node { return d.Clone() }

// CloneNode implements Node
func (c *Comment) CloneNode() Node { return &Comment{Text: c.Text} }

// CloneNode implements Node
func (r *Raw) CloneNode() Node { return &Raw{Text: r.Text} }

// Clone returns a deep copy of the rule
func (r *Rule) Clone() *Rule {
	return &Rule{Selector: r.Selector, Nodes: cloneNodes(r.Nodes)}
}

// Clone returns a deep copy of the at-rule
func (a *AtRule) Clone() *AtRule {
	return &AtRule{Name: a.Name, Params: a.Params, Nodes: cloneNodes(a.Nodes), Block: a.Block}
}

// Clone returns a copy of the declaration
func (d *Declaration) Clone() *Declaration {
	c := *d
	return &c
}

// Clone returns a deep copy of the stylesheet
func (s *Stylesheet) Clone() *Stylesheet {
	if s == nil {
		return nil
	}
	return &Stylesheet{Nodes: cloneNodes(s.Nodes)}
}

// Empty reports whether the stylesheet has no nodes
func (s *Stylesheet) Empty() bool {
	return s == nil || len(s.Nodes) == 0
}

// Declarations returns the direct declaration children of the rule
func (r *Rule) Declarations() []*Declaration {
	var decls []*Declaration
	for _, n := range r.Nodes {
		if d, ok := n.(*Declaration); ok {
			decls = append(decls, d)
		}
	}
	return decls
}

// Concat returns a new stylesheet holding clones of every input's nodes,
// in argument order. Nil inputs are skipped.
func Concat(sheets ...*Stylesheet) *Stylesheet {
	out := &Stylesheet{}
	for _, s := range sheets {
		if s == nil {
			continue
		}
		out.Nodes = append(out.Nodes, cloneNodes(s.Nodes)...)
	}
	return out
}

// WalkDeclarations calls fn for every declaration in the tree, at any depth,
// in document order
func (s *Stylesheet) WalkDeclarations(fn func(*Declaration)) {
	if s == nil {
		return
	}
	walkDeclarations(s.Nodes, fn)
}

// WalkRules calls fn for every rule in the tree, at any depth, in document order
func (s *Stylesheet) WalkRules(fn func(*Rule)) {
	if s == nil {
		return
	}
	walkRules(s.Nodes, fn)
}

// Walk calls fn for every node in the tree, parents before children, in
// document order
func (s *Stylesheet) Walk(fn func(Node)) {
	if s == nil {
		return
	}
	walk(s.Nodes, fn)
}

func walk(nodes []Node, fn func(Node)) {
	for _, n := range nodes {
		fn(n)
		switch v := n.(type) {
		case *Rule:
			walk(v.Nodes, fn)
		case *AtRule:
			walk(v.Nodes, fn)
		}
	}
}

func walkDeclarations(nodes []Node, fn func(*Declaration)) {
	for _, n := range nodes {
		switch v := n.(type) {
		case *Declaration:
			fn(v)
		case *Rule:
			walkDeclarations(v.Nodes, fn)
		case *AtRule:
			walkDeclarations(v.Nodes, fn)
		}
	}
}

func walkRules(nodes []Node, fn func(*Rule)) {
	for _, n := range nodes {
		switch v := n.(type) {
		case *Rule:
			fn(v)
			walkRules(v.Nodes, fn)
		case *AtRule:
			walkRules(v.Nodes, fn)
		}
	}
}

func cloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.CloneNode()
	}
	return out
}
