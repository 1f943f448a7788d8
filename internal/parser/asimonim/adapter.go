// Package asimonim loads DTCG design token files as theme variable tables,
// using the asimonim parser library.
package asimonim

import (
	"fmt"
	"regexp"
	"strings"

	asimonimParser "bennypowers.dev/asimonim/parser"
	"bennypowers.dev/themec/internal/resolver"
)

// aliasRegexp matches curly brace token references: {token.reference.path}
var aliasRegexp = regexp.MustCompile(`\{([^}]+)\}`)

// LoadVariables parses JSON or YAML token data into a raw variable table.
// Each token becomes a custom property named after its CSS variable, and
// curly-brace aliases such as {color.base} become var() references, so the
// resolver follows token aliases the same way it follows CSS chains.
func LoadVariables(data []byte, prefix string) (*resolver.Table, error) {
	parser := asimonimParser.NewJSONParser()
	parsedTokens, err := parser.Parse(data, asimonimParser.Options{
		Prefix: prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse tokens: %w", err)
	}

	table := resolver.NewTable()
	for _, tok := range parsedTokens {
		value := AliasesToReferences(tok.Value, prefix)
		if err := table.Set(tok.CSSVariableName(), value); err != nil {
			return nil, err
		}
	}
	return table, nil
}

// AliasesToReferences rewrites every {token.path} alias in value to
// var(--prefix-token-path)
func AliasesToReferences(value, prefix string) string {
	if !strings.Contains(value, "{") {
		return value
	}
	return aliasRegexp.ReplaceAllStringFunc(value, func(match string) string {
		path := aliasRegexp.FindStringSubmatch(match)[1]
		return "var(" + VariableName(strings.TrimSpace(path), prefix) + ")"
	})
}

// VariableName converts a dot-separated token path to its CSS custom
// property name, e.g. "color.primary" -> "--color-primary"
func VariableName(path, prefix string) string {
	name := strings.ReplaceAll(path, ".", "-")
	if prefix != "" {
		return "--" + strings.ReplaceAll(prefix, ".", "-") + "-" + name
	}
	return "--" + name
}
