package theme_test

import (
	"testing"

	"bennypowers.dev/themec/internal/parser/css"
	"bennypowers.dev/themec/internal/stylesheet"
	"bennypowers.dev/themec/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var themeable = theme.MarkerPredicate(theme.DefaultMarker)

func parse(t *testing.T, source string) *stylesheet.Stylesheet {
	t.Helper()
	sheet, err := css.Parse(source)
	require.NoError(t, err)
	return sheet
}

func rule(selector string, decls ...string) *stylesheet.Rule {
	r := &stylesheet.Rule{Selector: selector}
	for i := 0; i < len(decls); i += 2 {
		r.Nodes = append(r.Nodes, &stylesheet.Declaration{Property: decls[i], Value: decls[i+1]})
	}
	return r
}

func TestExtract(t *testing.T) {
	t.Run("selector-scoped isolation", func(t *testing.T) {
		sheet := &stylesheet.Stylesheet{Nodes: []stylesheet.Node{
			rule(".a", "color", "theme-var(--fg)", "margin", "0"),
			rule(".b", "color", "red"),
		}}

		remainder, partial := theme.Extract(sheet, themeable)
		require.NotNil(t, partial)

		assert.Equal(t, ".a {\n  color: theme-var(--fg);\n}\n", partial.String())
		assert.Equal(t, ".a {\n  margin: 0;\n}\n\n.b {\n  color: red;\n}\n", remainder.String())
	})

	t.Run("no themeable declarations", func(t *testing.T) {
		sheet := &stylesheet.Stylesheet{Nodes: []stylesheet.Node{rule(".a", "color", "red")}}

		remainder, partial := theme.Extract(sheet, themeable)
		assert.Nil(t, partial)
		assert.Equal(t, sheet.String(), remainder.String())
	})

	t.Run("emptied rules stay in the remainder", func(t *testing.T) {
		sheet := &stylesheet.Stylesheet{Nodes: []stylesheet.Node{rule(".a", "color", "theme-var(--fg)")}}

		remainder, _ := theme.Extract(sheet, themeable)
		assert.Equal(t, ".a {}\n", remainder.String())
	})

	t.Run("input is not modified", func(t *testing.T) {
		sheet := &stylesheet.Stylesheet{Nodes: []stylesheet.Node{rule(".a", "color", "theme-var(--fg)")}}
		before := sheet.String()

		theme.Extract(sheet, themeable)
		assert.Equal(t, before, sheet.String())
	})

	t.Run("groups by selector in order of first occurrence", func(t *testing.T) {
		sheet := &stylesheet.Stylesheet{Nodes: []stylesheet.Node{
			rule(".plain", "color", "red"),
			rule(".b", "color", "theme-var(--fg)"),
			rule(".a", "background", "theme-var(--bg)"),
			rule(".b", "border-color", "theme-var(--border)"),
		}}

		_, partial := theme.Extract(sheet, themeable)
		require.NotNil(t, partial)
		require.Len(t, partial.Nodes, 2)

		b := partial.Nodes[0].(*stylesheet.Rule)
		assert.Equal(t, ".b", b.Selector)
		require.Len(t, b.Nodes, 2)
		assert.Equal(t, "color", b.Declarations()[0].Property)
		assert.Equal(t, "border-color", b.Declarations()[1].Property)
		assert.Equal(t, ".a", partial.Nodes[1].(*stylesheet.Rule).Selector)
	})

	t.Run("keeps one level of at-rule nesting", func(t *testing.T) {
		sheet := parse(t, `.a { color: theme-var(--fg); }
@media (min-width: 40em) {
  .a { color: theme-var(--fg-wide); padding: 0; }
  .b { color: blue; }
}
@media (min-width: 40em) {
  .c { background: theme-var(--bg); }
}`)

		remainder, partial := theme.Extract(sheet, themeable)
		require.NotNil(t, partial)

		expected := `.a {
  color: theme-var(--fg);
}

@media (min-width: 40em) {
  .a {
    color: theme-var(--fg-wide);
  }
  .c {
    background: theme-var(--bg);
  }
}
`
		assert.Equal(t, expected, partial.String())
		assert.NotContains(t, remainder.String(), "theme-var")
		assert.Contains(t, remainder.String(), "padding: 0;")
		assert.Contains(t, remainder.String(), "color: blue;")
	})

	t.Run("deeper nesting is out of reach", func(t *testing.T) {
		sheet := &stylesheet.Stylesheet{Nodes: []stylesheet.Node{
			&stylesheet.AtRule{Name: "supports", Params: "(display: grid)", Block: true, Nodes: []stylesheet.Node{
				&stylesheet.AtRule{Name: "media", Params: "print", Block: true, Nodes: []stylesheet.Node{
					rule(".deep", "color", "theme-var(--fg)"),
				}},
			}},
		}}

		remainder, partial := theme.Extract(sheet, themeable)
		assert.Nil(t, partial)
		assert.Contains(t, remainder.String(), "theme-var(--fg)")
	})

	t.Run("plain substring match", func(t *testing.T) {
		sheet := &stylesheet.Stylesheet{Nodes: []stylesheet.Node{
			rule(".a", "content", `"uses theme-var here"`, "font-family", "my-theme-varfont"),
		}}

		_, partial := theme.Extract(sheet, themeable)
		require.NotNil(t, partial)
		assert.Len(t, partial.Nodes[0].(*stylesheet.Rule).Nodes, 2)
	})
}

func TestExtractIdempotence(t *testing.T) {
	sheet := parse(t, `.a { color: theme-var(--fg); margin: 0; }
@media print { .b { color: theme-var(--print); } }`)

	remainder, partial := theme.Extract(sheet, themeable)
	require.NotNil(t, partial)

	again, secondPartial := theme.Extract(remainder, themeable)
	assert.Nil(t, secondPartial)
	assert.Equal(t, remainder.String(), again.String())
}

// TestExtractRecomposition splices the partial back into the remainder and
// checks each selector ends up with the declarations it started with
func TestExtractRecomposition(t *testing.T) {
	sheet := parse(t, `.a { color: theme-var(--fg); margin: 0; background: theme-var(--bg); }
.b { padding: 1px; }
@media print {
  .a { color: theme-var(--print); display: none; }
}`)

	remainder, partial := theme.Extract(sheet, themeable)
	require.NotNil(t, partial)

	merged := map[string][]string{}
	collectDecls(remainder.Nodes, "", merged)
	collectDecls(partial.Nodes, "", merged)

	original := map[string][]string{}
	collectDecls(sheet.Nodes, "", original)

	require.Equal(t, len(original), len(merged))
	for key, decls := range original {
		assert.ElementsMatch(t, decls, merged[key], key)
	}
}

func collectDecls(nodes []stylesheet.Node, scope string, out map[string][]string) {
	for _, node := range nodes {
		switch v := node.(type) {
		case *stylesheet.Rule:
			key := scope + v.Selector
			for _, d := range v.Declarations() {
				out[key] = append(out[key], d.String())
			}
		case *stylesheet.AtRule:
			collectDecls(v.Nodes, "@"+v.Name+" "+v.Params+" ", out)
		}
	}
}
