package theme

import (
	"strings"

	"bennypowers.dev/themec/internal/resolver"
	"bennypowers.dev/themec/internal/stylesheet"
	"github.com/mazznoer/csscolorparser"
)

// SubstituteOptions configures Substitute
type SubstituteOptions struct {
	// Marker is the placeholder function name, DefaultMarker if empty
	Marker string
	// NormalizeColors rewrites substituted literals that parse as CSS
	// colors to hex notation
	NormalizeColors bool
}

// Substitute replaces every placeholder in every declaration value of
// sheet, in place, with its literal from vars. Placeholders are handled
// one at a time, left to right; the scan resumes after each inserted
// literal so literals are never rescanned. A placeholder whose name is not
// in vars is left as-is and reported once per occurrence.
func Substitute(sheet *stylesheet.Stylesheet, vars *resolver.Resolved, opts SubstituteOptions) []Diagnostic {
	if sheet == nil {
		return nil
	}
	if opts.Marker == "" {
		opts.Marker = DefaultMarker
	}
	s := &substitution{vars: vars, opts: opts}
	s.nodes(sheet.Nodes, "")
	return s.diagnostics
}

type substitution struct {
	vars        *resolver.Resolved
	opts        SubstituteOptions
	diagnostics []Diagnostic
}

func (s *substitution) nodes(nodes []stylesheet.Node, selector string) {
	for _, node := range nodes {
		switch v := node.(type) {
		case *stylesheet.Declaration:
			s.declaration(v, selector)
		case *stylesheet.Rule:
			s.nodes(v.Nodes, v.Selector)
		case *stylesheet.AtRule:
			s.nodes(v.Nodes, "@"+v.Name+" "+v.Params)
		}
	}
}

func (s *substitution) declaration(decl *stylesheet.Declaration, selector string) {
	value := decl.Value
	cursor := 0
	for {
		p, ok := NextPlaceholder(value, cursor, s.opts.Marker)
		if !ok {
			break
		}

		literal, found := s.vars.Lookup(p.Name)
		if !found {
			s.diagnostics = append(s.diagnostics, Diagnostic{
				Code:     MissingThemeVariable,
				Name:     p.Name,
				Selector: selector,
				Property: decl.Property,
			})
			cursor = p.End
			continue
		}

		if s.opts.NormalizeColors {
			literal = normalizeColor(literal)
		}
		value = value[:p.Start] + literal + value[p.End:]
		cursor = p.Start + len(literal)
	}
	decl.Value = value
}

// normalizeColor returns the hex form of literal if the whole literal is a
// CSS color, and literal unchanged otherwise
func normalizeColor(literal string) string {
	c, err := csscolorparser.Parse(strings.TrimSpace(literal))
	if err != nil {
		return literal
	}
	return c.HexString()
}
