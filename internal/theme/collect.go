package theme

import (
	"strings"

	"bennypowers.dev/themec/internal/resolver"
	"bennypowers.dev/themec/internal/stylesheet"
)

const (
	// DefaultRootSelector is the selector theme variables are declared under
	DefaultRootSelector = ":root"

	// CustomPropertyPrefix marks a declaration as a theme variable
	CustomPropertyPrefix = "--"
)

// CollectOptions configures Collect
type CollectOptions struct {
	// RootSelector defaults to ":root". Matching is exact, so compound
	// selectors such as ":root.dark" are ignored.
	RootSelector string
}

// Collect builds a raw variable table from every custom property declared
// directly in a root-selector rule, at any depth of the tree. Later
// declarations of the same name overwrite earlier ones.
func Collect(sheet *stylesheet.Stylesheet, opts CollectOptions) *resolver.Table {
	root := opts.RootSelector
	if root == "" {
		root = DefaultRootSelector
	}

	table := resolver.NewTable()
	sheet.WalkRules(func(rule *stylesheet.Rule) {
		if strings.TrimSpace(rule.Selector) != root {
			return
		}
		for _, decl := range rule.Declarations() {
			if strings.HasPrefix(decl.Property, CustomPropertyPrefix) {
				// A fresh table is never sealed
				_ = table.Set(decl.Property, decl.Value)
			}
		}
	})
	return table
}
