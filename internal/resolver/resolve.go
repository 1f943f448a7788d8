package resolver

import "bennypowers.dev/themec/internal/collections"

// resolver holds the state of one Resolve call. values starts as a copy of
// the raw table and each entry is overwritten with its literal once done.
type resolver struct {
	values map[string]string
	done   collections.Set[string]
	path   *collections.Path[string]
}

// Resolve dereferences every var() reference in the table and returns the
// literal values. References are substituted one at a time, left to
// right, until none remain. A reference to an undefined variable uses its var() fallback if
// present and otherwise fails the whole table. The raw table is sealed by
// this call, whether or not resolution succeeds.
func Resolve(t *Table) (*Resolved, error) {
	if t.Sealed() {
		return nil, ErrTableSealed
	}
	values, order := t.seal()

	r := &resolver{
		values: values,
		done:   collections.NewSet[string](),
		path:   collections.NewPath[string](),
	}
	for _, name := range order {
		if _, err := r.resolve(name); err != nil {
			return nil, err
		}
	}

	return &Resolved{values: r.values, order: order}, nil
}

func (r *resolver) resolve(name string) (string, error) {
	if r.done.Has(name) {
		return r.values[name], nil
	}
	if r.path.Has(name) {
		return "", NewCircularReferenceError(name, append(r.path.From(name), name))
	}

	r.path.Push(name)
	defer r.path.Pop()

	// Text before cursor is literal. Resolved values never contain a
	// reference, so scanning resumes after them; a fallback is raw text
	// and is scanned again.
	value := r.values[name]
	cursor := 0
	for {
		ref, ok := NextReference(value, cursor)
		if !ok {
			break
		}

		var replacement string
		switch _, defined := r.values[ref.Name]; {
		case defined:
			resolved, err := r.resolve(ref.Name)
			if err != nil {
				return "", err
			}
			replacement = resolved
			cursor = ref.Start + len(resolved)
		case ref.HasFallback:
			replacement = ref.Fallback
			cursor = ref.Start
		default:
			return "", NewMissingVariableError(ref.Name, name)
		}

		value = value[:ref.Start] + replacement + value[ref.End:]
	}

	r.values[name] = value
	r.done.Add(name)
	return value, nil
}
