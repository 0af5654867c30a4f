package tabulate

import (
	"fmt"
	"iter"
	"slices"
)

// View is the resolved prefix of a table under construction.
type View[V any] interface {
	// At returns entry j. Reading an entry that is not resolved yet panics
	// with *UnresolvedError, which Tabulate turns into its error.
	At(j int) V
}

// Recurrence computes entry i from the entries before it.
type Recurrence[V any] func(i int, prev View[V]) V

// Table holds entries 0 through n.
type Table[V any] struct {
	entries []V
}

type prefix[V any] struct {
	entries  []V
	building int
}

func (p prefix[V]) At(j int) V {
	if j < 0 || j >= p.building {
		panic(&UnresolvedError{Index: j, Building: p.building})
	}
	return p.entries[j]
}

// Tabulate builds entries 0 through n. Entries below len(base) are the base
// cases; every later entry i is rec(i, prefix).
func Tabulate[V any](n int, base []V, rec Recurrence[V]) (t Table[V], err error) {
	if err := validate(n, base); err != nil {
		return Table[V]{}, err
	}
	entries := make([]V, n+1)
	copy(entries, base)
	if n < len(base) {
		return Table[V]{entries: entries}, nil
	}

	defer func() {
		if r := recover(); r != nil {
			uerr, ok := r.(*UnresolvedError)
			if !ok {
				panic(r)
			}
			t, err = Table[V]{}, uerr
		}
	}()
	for i := len(base); i <= n; i++ {
		entries[i] = rec(i, prefix[V]{entries: entries, building: i})
	}
	return Table[V]{entries: entries}, nil
}

// At returns entry i.
func (t Table[V]) At(i int) (V, error) {
	var zero V
	if i < 0 {
		return zero, fmt.Errorf("entry %d: %w", i, ErrNegativeIndex)
	}
	if i >= len(t.entries) {
		return zero, fmt.Errorf("entry %d of %d: %w", i, len(t.entries), ErrOutOfRange)
	}
	return t.entries[i], nil
}

func (t Table[V]) Len() int { return len(t.entries) }

// Result is entry n, the last one built. Zero for an empty Table.
func (t Table[V]) Result() V {
	if len(t.entries) == 0 {
		var zero V
		return zero
	}
	return t.entries[len(t.entries)-1]
}

// Values returns a copy of every entry.
func (t Table[V]) Values() []V { return slices.Clone(t.entries) }

// All yields every entry with its index.
func (t Table[V]) All() iter.Seq2[int, V] {
	return slices.All(t.entries)
}
