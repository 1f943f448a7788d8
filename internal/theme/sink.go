package theme

import (
	"sort"
	"sync"

	"bennypowers.dev/themec/internal/stylesheet"
)

// PartialSink receives the theme partial of each unit that has one. The
// host supplies the sink and owns its lifetime.
type PartialSink interface {
	Record(unitID string, partial *stylesheet.Stylesheet)
}

// PartialCollector is a PartialSink that keeps the latest partial of each
// unit. It is safe for concurrent use.
type PartialCollector struct {
	mu       sync.Mutex
	partials map[string]*stylesheet.Stylesheet
}

// NewPartialCollector creates an empty collector
func NewPartialCollector() *PartialCollector {
	return &PartialCollector{partials: make(map[string]*stylesheet.Stylesheet)}
}

// Record implements PartialSink. Recording a unit again replaces its
// earlier partial.
func (c *PartialCollector) Record(unitID string, partial *stylesheet.Stylesheet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.partials[unitID] = partial
}

// Forget drops a unit's partial, for units that were deleted or no longer
// contain themeable declarations
func (c *PartialCollector) Forget(unitID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.partials, unitID)
}

// Len returns how many units have recorded a partial
func (c *PartialCollector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.partials)
}

// Units returns the recorded unit IDs, sorted
func (c *PartialCollector) Units() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sortedUnits()
}

// Concat joins all recorded partials ordered by unit ID, so the result does
// not depend on the order units finished in. It returns nil when nothing
// was recorded.
func (c *PartialCollector) Concat() *stylesheet.Stylesheet {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.partials) == 0 {
		return nil
	}
	units := c.sortedUnits()
	sheets := make([]*stylesheet.Stylesheet, len(units))
	for i, id := range units {
		sheets[i] = c.partials[id]
	}
	return stylesheet.Concat(sheets...)
}

func (c *PartialCollector) sortedUnits() []string {
	units := make([]string, 0, len(c.partials))
	for id := range c.partials {
		units = append(units, id)
	}
	sort.Strings(units)
	return units
}
