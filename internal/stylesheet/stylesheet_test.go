package stylesheet_test

import (
	"testing"

	"bennypowers.dev/themec/internal/stylesheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *stylesheet.Stylesheet {
	return &stylesheet.Stylesheet{Nodes: []stylesheet.Node{
		&stylesheet.AtRule{Name: "import", Params: `url("base.css")`},
		&stylesheet.Rule{Selector: ".a", Nodes: []stylesheet.Node{
			&stylesheet.Declaration{Property: "color", Value: "red"},
		}},
		&stylesheet.AtRule{Name: "media", Params: "(min-width: 40em)", Block: true, Nodes: []stylesheet.Node{
			&stylesheet.Rule{Selector: ".b", Nodes: []stylesheet.Node{
				&stylesheet.Declaration{Property: "margin", Value: "0 !important"},
			}},
		}},
	}}
}

func TestString(t *testing.T) {
	expected := `@import url("base.css");

.a {
  color: red;
}

@media (min-width: 40em) {
  .b {
    margin: 0 !important;
  }
}
`
	assert.Equal(t, expected, sample().String())
}

func TestStringKeepsEmptyRules(t *testing.T) {
	sheet := &stylesheet.Stylesheet{Nodes: []stylesheet.Node{
		&stylesheet.Rule{Selector: ".empty"},
	}}
	assert.Equal(t, ".empty {}\n", sheet.String())

	var nilSheet *stylesheet.Stylesheet
	assert.Equal(t, "", nilSheet.String())
}

func TestClone(t *testing.T) {
	original := sample()
	clone := original.Clone()
	require.Equal(t, original.String(), clone.String())

	// Mutating the clone must not leak back
	rule := clone.Nodes[1].(*stylesheet.Rule)
	rule.Selector = ".changed"
	rule.Declarations()[0].Value = "blue"
	media := clone.Nodes[2].(*stylesheet.AtRule)
	media.Nodes = nil

	origRule := original.Nodes[1].(*stylesheet.Rule)
	assert.Equal(t, ".a", origRule.Selector)
	assert.Equal(t, "red", origRule.Declarations()[0].Value)
	assert.Len(t, original.Nodes[2].(*stylesheet.AtRule).Nodes, 1)
}

func TestConcat(t *testing.T) {
	a := &stylesheet.Stylesheet{Nodes: []stylesheet.Node{&stylesheet.Rule{Selector: ".a"}}}
	b := &stylesheet.Stylesheet{Nodes: []stylesheet.Node{&stylesheet.Rule{Selector: ".b"}}}

	joined := stylesheet.Concat(a, nil, b)
	require.Len(t, joined.Nodes, 2)
	assert.Equal(t, ".a", joined.Nodes[0].(*stylesheet.Rule).Selector)
	assert.Equal(t, ".b", joined.Nodes[1].(*stylesheet.Rule).Selector)

	joined.Nodes[0].(*stylesheet.Rule).Selector = ".x"
	assert.Equal(t, ".a", a.Nodes[0].(*stylesheet.Rule).Selector, "concat must clone")

	assert.True(t, stylesheet.Concat().Empty())
}

func TestWalk(t *testing.T) {
	var props []string
	sample().WalkDeclarations(func(d *stylesheet.Declaration) {
		props = append(props, d.Property)
	})
	assert.Equal(t, []string{"color", "margin"}, props)

	var selectors []string
	sample().WalkRules(func(r *stylesheet.Rule) {
		selectors = append(selectors, r.Selector)
	})
	assert.Equal(t, []string{".a", ".b"}, selectors)
}

func TestCommentsAndRaw(t *testing.T) {
	sheet := &stylesheet.Stylesheet{Nodes: []stylesheet.Node{
		&stylesheet.Comment{Text: "/*! license */"},
		&stylesheet.Rule{Selector: ".a", Nodes: []stylesheet.Node{
			&stylesheet.Comment{Text: "/* note */"},
			&stylesheet.Raw{Text: "junk here;"},
			&stylesheet.Declaration{Property: "color", Value: "red"},
		}},
	}}

	expected := `/*! license */

.a {
  /* note */
  junk here;
  color: red;
}
`
	assert.Equal(t, expected, sheet.String())
	assert.Equal(t, expected, sheet.Clone().String())

	var kinds []string
	sheet.Walk(func(n stylesheet.Node) {
		switch n.(type) {
		case *stylesheet.Comment:
			kinds = append(kinds, "comment")
		case *stylesheet.Raw:
			kinds = append(kinds, "raw")
		case *stylesheet.Rule:
			kinds = append(kinds, "rule")
		case *stylesheet.Declaration:
			kinds = append(kinds, "declaration")
		}
	})
	assert.Equal(t, []string{"comment", "rule", "comment", "raw", "declaration"}, kinds)
}
