package theme

import (
	"errors"
	"fmt"
)

// ErrHostMisconfiguration indicates the host did not supply a required capability
var ErrHostMisconfiguration = errors.New("host misconfiguration")

// HostMisconfigurationError reports a unit that produced a theme partial
// with nowhere to record it
type HostMisconfigurationError struct {
	UnitID string
	Reason string
}

func (e *HostMisconfigurationError) Error() string {
	return fmt.Sprintf("cannot emit theme partial for %s: %s\nSuggestion: Pass a PartialSink to ExtractUnit", e.UnitID, e.Reason)
}

func (e *HostMisconfigurationError) Unwrap() error {
	return ErrHostMisconfiguration
}

// NewHostMisconfigurationError creates a new host misconfiguration error
func NewHostMisconfigurationError(unitID, reason string) error {
	return &HostMisconfigurationError{UnitID: unitID, Reason: reason}
}
