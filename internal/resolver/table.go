// Package resolver turns a raw table of CSS custom properties, whose values
// may reference each other through var(), into a table of literal values.
package resolver

import "sync"

// Table is a raw variable table: custom property name (including the
// leading "--") to its declared value. Values may still contain var()
// references. A Table has a single owner; Resolve seals it, after which it
// can no longer be written.
type Table struct {
	mu     sync.Mutex
	values map[string]string
	order  []string
	sealed bool
}

// NewTable creates an empty raw table
func NewTable() *Table {
	return &Table{values: make(map[string]string)}
}

// Set stores a value, overwriting any earlier one for the same name.
// Overwrites keep the name's original position in Names.
func (t *Table) Set(name, value string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sealed {
		return ErrTableSealed
	}
	if _, exists := t.values[name]; !exists {
		t.order = append(t.order, name)
	}
	t.values[name] = value
	return nil
}

// Get returns the raw value for name
func (t *Table) Get(name string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.values[name]
	return v, ok
}

// Names returns variable names in first-declaration order
func (t *Table) Names() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.order...)
}

// Len returns the number of variables
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.order)
}

// Sealed reports whether the table has been handed to Resolve
func (t *Table) Sealed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sealed
}

// Clone returns an unsealed copy, so one parsed theme source can feed
// several independent resolutions
func (t *Table) Clone() *Table {
	t.mu.Lock()
	defer t.mu.Unlock()
	c := &Table{
		values: make(map[string]string, len(t.values)),
		order:  append([]string(nil), t.order...),
	}
	for k, v := range t.values {
		c.values[k] = v
	}
	return c
}

// seal marks the table read-only and returns a private working copy of
// its values for the resolver to overwrite in place
func (t *Table) seal() (map[string]string, []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sealed = true
	work := make(map[string]string, len(t.values))
	for k, v := range t.values {
		work[k] = v
	}
	return work, append([]string(nil), t.order...)
}

// Resolved is an immutable table of literal values, safe for concurrent
// reads. No value contains a var() reference.
type Resolved struct {
	values map[string]string
	order  []string
}

// Lookup returns the literal value for name
func (r *Resolved) Lookup(name string) (string, bool) {
	if r == nil {
		return "", false
	}
	v, ok := r.values[name]
	return v, ok
}

// Names returns variable names in first-declaration order
func (r *Resolved) Names() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.order...)
}

// Len returns the number of variables
func (r *Resolved) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}
