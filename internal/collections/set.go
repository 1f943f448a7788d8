package collections

import "fmt"

// Set is a generic set data structure using a map with zero-size values
type Set[T comparable] map[T]struct{}

// NewSet creates a new Set with the given initial values
func NewSet[T comparable](vs ...T) Set[T] {
	s := Set[T]{}
	s.Add(vs...)
	return s
}

// Add adds one or more values to the set
func (s Set[T]) Add(vs ...T) {
	for _, v := range vs {
		s[v] = struct{}{}
	}
}

// Delete removes a value from the set
func (s Set[T]) Delete(v T) {
	delete(s, v)
}

// Has checks if the set contains the given value
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Path is a stack with constant-time membership, used to track the chain
// of names currently being resolved
type Path[T comparable] struct {
	order   []T
	members Set[T]
}

// NewPath creates an empty Path
func NewPath[T comparable]() *Path[T] {
	return &Path[T]{members: NewSet[T]()}
}

// Push appends v to the path
func (p *Path[T]) Push(v T) {
	p.order = append(p.order, v)
	p.members.Add(v)
}

// Pop removes the most recently pushed value
func (p *Path[T]) Pop() {
	if len(p.order) == 0 {
		return
	}
	last := p.order[len(p.order)-1]
	p.order = p.order[:len(p.order)-1]
	p.members.Delete(last)
}

// Has reports whether v is on the path
func (p *Path[T]) Has(v T) bool {
	return p.members.Has(v)
}

// From returns a copy of the path starting at the first occurrence of v,
// or nil if v is not on the path
func (p *Path[T]) From(v T) []T {
	for i, m := range p.order {
		if m == v {
			return append([]T(nil), p.order[i:]...)
		}
	}
	return nil
}

// Len returns the depth of the path
func (p *Path[T]) Len() int {
	return len(p.order)
}

// String returns a string representation of the path
func (p *Path[T]) String() string {
	return fmt.Sprintf("%v", p.order)
}
