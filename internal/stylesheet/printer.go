package stylesheet

import "strings"

const indentUnit = "  "

// String serializes the stylesheet to CSS text. Empty rules are printed as
// `selector {}` rather than omitted.
func (s *Stylesheet) String() string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	writeNodes(&b, s.Nodes, 0)
	return b.String()
}

// String serializes a single rule
func (r *Rule) String() string {
	var b strings.Builder
	writeNode(&b, r, 0)
	return b.String()
}

// String serializes a single at-rule
func (a *AtRule) String() string {
	var b strings.Builder
	writeNode(&b, a, 0)
	return b.String()
}

// String serializes a single declaration, without indentation
func (d *Declaration) String() string {
	return d.Property + ": " + d.Value + ";"
}

func writeNodes(b *strings.Builder, nodes []Node, depth int) {
	for i, n := range nodes {
		// Blank line between top-level blocks
		if depth == 0 && i > 0 {
			if _, isDecl := n.(*Declaration); !isDecl {
				b.WriteByte('\n')
			}
		}
		writeNode(b, n, depth)
	}
}

func writeNode(b *strings.Builder, n Node, depth int) {
	indent := strings.Repeat(indentUnit, depth)
	switch v := n.(type) {
	case *Declaration:
		b.WriteString(indent)
		b.WriteString(v.String())
		b.WriteByte('\n')
	case *Comment:
		b.WriteString(indent)
		b.WriteString(v.Text)
		b.WriteByte('\n')
	case *Raw:
		b.WriteString(indent)
		b.WriteString(v.Text)
		b.WriteByte('\n')
	case *Rule:
		b.WriteString(indent)
		b.WriteString(v.Selector)
		writeBlock(b, v.Nodes, depth)
	case *AtRule:
		b.WriteString(indent)
		b.WriteByte('@')
		b.WriteString(v.Name)
		if v.Params != "" {
			b.WriteByte(' ')
			b.WriteString(v.Params)
		}
		if !v.Block {
			b.WriteString(";\n")
			return
		}
		writeBlock(b, v.Nodes, depth)
	}
}

func writeBlock(b *strings.Builder, nodes []Node, depth int) {
	if len(nodes) == 0 {
		b.WriteString(" {}\n")
		return
	}
	b.WriteString(" {\n")
	writeNodes(b, nodes, depth+1)
	b.WriteString(strings.Repeat(indentUnit, depth))
	b.WriteString("}\n")
}
