package css

import (
	"errors"
	"fmt"
)

// ErrParseFailure indicates the source could not be parsed into a stylesheet
var ErrParseFailure = errors.New("failed to parse CSS")

// Position represents a 0-based position in a source document
type Position struct {
	Line      uint32
	Character uint32
}

// ParseError reports where in the source the parser gave up
type ParseError struct {
	Position Position
	Snippet  string
}

func (e *ParseError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("syntax error at %d:%d", e.Position.Line+1, e.Position.Character+1)
	}
	return fmt.Sprintf("syntax error at %d:%d near %q", e.Position.Line+1, e.Position.Character+1, e.Snippet)
}

func (e *ParseError) Unwrap() error {
	return ErrParseFailure
}
