package theme

import "fmt"

// DiagnosticCode identifies the kind of non-fatal problem
type DiagnosticCode string

const (
	// MissingThemeVariable is reported once per theme-var() placeholder
	// whose name is not in the theme's variable table
	MissingThemeVariable DiagnosticCode = "missing-theme-variable"
)

// Diagnostic is a non-fatal problem found while producing a theme. The host
// decides how to surface it.
type Diagnostic struct {
	Code     DiagnosticCode
	Name     string
	Selector string
	Property string
}

func (d Diagnostic) String() string {
	switch d.Code {
	case MissingThemeVariable:
		return fmt.Sprintf("missing theme-var '%s' in %s { %s }", d.Name, d.Selector, d.Property)
	default:
		return fmt.Sprintf("%s: %s", d.Code, d.Name)
	}
}
