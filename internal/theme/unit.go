package theme

import (
	"fmt"
	"strings"

	"bennypowers.dev/themec/internal/parser/css"
	"bennypowers.dev/themec/internal/resolver"
	"bennypowers.dev/themec/internal/stylesheet"
)

// ExtractUnit parses one compiled stylesheet, records its theme partial
// with sink and returns the CSS to emit in place of source. Sources with
// nothing themeable are returned untouched.
func ExtractUnit(unitID, source string, sink PartialSink, marker string) (string, error) {
	if marker == "" {
		marker = DefaultMarker
	}
	if !strings.Contains(source, marker) {
		return source, nil
	}

	sheet, err := css.Parse(source)
	if err != nil {
		return "", fmt.Errorf("%s: %w", unitID, err)
	}
	if err := checkRaw(sheet, marker); err != nil {
		return "", fmt.Errorf("%s: %w", unitID, err)
	}

	remainder, partial := Extract(sheet, MarkerPredicate(marker))
	if partial == nil {
		return source, nil
	}
	if sink == nil {
		return "", NewHostMisconfigurationError(unitID, "no partial sink")
	}

	sink.Record(unitID, partial)
	return remainder.String(), nil
}

// checkRaw fails when the marker sits in text the parser kept unstructured,
// where it could neither be extracted nor left behind unresolved
func checkRaw(sheet *stylesheet.Stylesheet, marker string) error {
	var err error
	sheet.Walk(func(n stylesheet.Node) {
		if raw, ok := n.(*stylesheet.Raw); ok && err == nil && strings.Contains(raw.Text, marker) {
			err = &css.ParseError{Snippet: raw.Text}
		}
	})
	return err
}

// Result is one finished theme stylesheet
type Result struct {
	Name        string
	Sheet       *stylesheet.Stylesheet
	Variables   *resolver.Resolved
	Diagnostics []Diagnostic
}

// CSS serializes the finished theme
func (r *Result) CSS() string {
	return r.Sheet.String()
}

// BuildTheme resolves vars and substitutes them into a clone of partial.
// A resolution failure aborts only this theme. partial is not modified, so
// one concatenated partial can feed any number of themes concurrently.
func BuildTheme(name string, vars *resolver.Table, partial *stylesheet.Stylesheet, opts SubstituteOptions) (*Result, error) {
	resolved, err := resolver.Resolve(vars)
	if err != nil {
		return nil, fmt.Errorf("theme %s: %w", name, err)
	}

	sheet := partial.Clone()
	if sheet == nil {
		sheet = &stylesheet.Stylesheet{}
	}

	return &Result{
		Name:        name,
		Sheet:       sheet,
		Variables:   resolved,
		Diagnostics: Substitute(sheet, resolved, opts),
	}, nil
}
