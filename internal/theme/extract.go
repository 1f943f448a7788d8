// Package theme splits themeable declarations out of stylesheets, collects
// theme variables, and substitutes resolved values into theme partials.
package theme

import "bennypowers.dev/themec/internal/stylesheet"

// Extract moves every themeable declaration out of sheet. It visits each
// top-level rule and each rule directly inside a top-level at-rule; deeper
// rules are left alone. The returned remainder is a clone of sheet with
// those declarations removed (emptied rules are kept), and partial holds
// clones of the removed declarations grouped by selector and at-rule, in
// order of first occurrence. partial is nil when nothing matched. sheet
// itself is not modified.
func Extract(sheet *stylesheet.Stylesheet, themeable Predicate) (remainder, partial *stylesheet.Stylesheet) {
	remainder = sheet.Clone()
	if remainder == nil {
		remainder = &stylesheet.Stylesheet{}
	}

	acc := newAccumulator()
	for _, node := range remainder.Nodes {
		switch v := node.(type) {
		case *stylesheet.Rule:
			extractRule(v, nil, themeable, acc)
		case *stylesheet.AtRule:
			for _, child := range v.Nodes {
				if rule, ok := child.(*stylesheet.Rule); ok {
					extractRule(rule, v, themeable, acc)
				}
			}
		}
	}

	if len(acc.nodes) == 0 {
		return remainder, nil
	}
	return remainder, &stylesheet.Stylesheet{Nodes: acc.nodes}
}

func extractRule(rule *stylesheet.Rule, parent *stylesheet.AtRule, themeable Predicate, acc *accumulator) {
	kept := make([]stylesheet.Node, 0, len(rule.Nodes))
	for _, node := range rule.Nodes {
		if decl, ok := node.(*stylesheet.Declaration); ok && themeable(decl.Value) {
			acc.add(parent, rule.Selector, decl.Clone())
			continue
		}
		kept = append(kept, node)
	}
	rule.Nodes = kept
}

// accumulator groups extracted declarations by selector, or by at-rule and
// selector, building the partial tree as it goes
type accumulator struct {
	nodes   []stylesheet.Node
	rules   map[string]*stylesheet.Rule
	atRules map[string]*atGroup
}

type atGroup struct {
	node  *stylesheet.AtRule
	rules map[string]*stylesheet.Rule
}

func newAccumulator() *accumulator {
	return &accumulator{
		rules:   make(map[string]*stylesheet.Rule),
		atRules: make(map[string]*atGroup),
	}
}

func (a *accumulator) add(parent *stylesheet.AtRule, selector string, decl *stylesheet.Declaration) {
	if parent == nil {
		rule, ok := a.rules[selector]
		if !ok {
			rule = &stylesheet.Rule{Selector: selector}
			a.rules[selector] = rule
			a.nodes = append(a.nodes, rule)
		}
		rule.Nodes = append(rule.Nodes, decl)
		return
	}

	key := parent.Name + "\x00" + parent.Params
	group, ok := a.atRules[key]
	if !ok {
		group = &atGroup{
			node:  &stylesheet.AtRule{Name: parent.Name, Params: parent.Params, Block: true},
			rules: make(map[string]*stylesheet.Rule),
		}
		a.atRules[key] = group
		a.nodes = append(a.nodes, group.node)
	}
	rule, ok := group.rules[selector]
	if !ok {
		rule = &stylesheet.Rule{Selector: selector}
		group.rules[selector] = rule
		group.node.Nodes = append(group.node.Nodes, rule)
	}
	rule.Nodes = append(rule.Nodes, decl)
}
