// Package spawn turns weighted spawn tables into concrete entities:
// flattening nested theme tables, resolving weighted draws into
// descriptors, and instantiating teams through an entity factory.
package spawn

import (
	"errors"
	"fmt"

	"github.com/greyhollow/delve/internal/rng"
)

// ErrZeroWeight reports a non-empty table whose total weight is zero.
// Resolving a nonzero count against such a table is a configuration error.
var ErrZeroWeight = errors.New("spawn table has zero total weight")

// Kind distinguishes mob and item spawn descriptors.
type Kind int

const (
	KindMob Kind = iota
	KindItem
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindMob:
		return "mob"
	case KindItem:
		return "item"
	default:
		return "unknown"
	}
}

// Descriptor describes one entity to spawn: a catalog ID plus modifier
// features applied at instantiation.
type Descriptor struct {
	ID       string
	Kind     Kind
	Level    int
	Features []string
}

// Clone returns a deep copy of the descriptor.
func (d Descriptor) Clone() Descriptor {
	c := d
	if len(d.Features) > 0 {
		c.Features = make([]string, len(d.Features))
		copy(c.Features, d.Features)
	}
	return c
}

// Entry is one weighted row of a spawn table: either a concrete descriptor
// or a reference to a named theme table.
type Entry struct {
	Weight int
	Spawn  Descriptor
	Theme  string // Non-empty: expand the named theme table here
}

// Table is a weighted spawn table. Entry order carries no meaning; only
// weights matter.
type Table struct {
	Entries []Entry
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	c := &Table{Entries: make([]Entry, len(t.Entries))}
	for i, e := range t.Entries {
		c.Entries[i] = Entry{Weight: e.Weight, Spawn: e.Spawn.Clone(), Theme: e.Theme}
	}
	return c
}

// FlatTable is a fully expanded weighted list of concrete descriptors.
type FlatTable struct {
	entries []Entry
	weights []int
	total   int
}

// Len returns the number of entries.
func (f *FlatTable) Len() int { return len(f.entries) }

// TotalWeight returns the sum of all entry weights.
func (f *FlatTable) TotalWeight() int { return f.total }

// Pick draws one descriptor by weight. The table must have nonzero total
// weight; the returned descriptor is a copy, never a reference into the
// table.
func (f *FlatTable) Pick(r *rng.Source) Descriptor {
	idx := r.PickIndex(f.weights)
	if idx < 0 {
		return Descriptor{}
	}
	return f.entries[idx].Spawn.Clone()
}

// Flatten expands a nested table into a flat weighted list. Theme entries
// are resolved against the themes map (the segment's ambient tables or a
// caller-supplied override set); their referenced entries are folded in
// with their own weights. The source tables are read, never consumed.
func Flatten(t *Table, themes map[string]*Table) (*FlatTable, error) {
	f := &FlatTable{}
	if t == nil {
		return f, nil
	}
	if err := flattenInto(f, t, themes, make(map[string]bool)); err != nil {
		return nil, err
	}
	return f, nil
}

func flattenInto(f *FlatTable, t *Table, themes map[string]*Table, seen map[string]bool) error {
	for _, e := range t.Entries {
		if e.Weight < 0 {
			return fmt.Errorf("spawn entry %q has negative weight %d", entryName(e), e.Weight)
		}

		if e.Theme == "" {
			f.entries = append(f.entries, Entry{Weight: e.Weight, Spawn: e.Spawn.Clone()})
			f.weights = append(f.weights, e.Weight)
			f.total += e.Weight
			continue
		}

		if seen[e.Theme] {
			return fmt.Errorf("spawn theme %q references itself", e.Theme)
		}
		sub, ok := themes[e.Theme]
		if !ok {
			return fmt.Errorf("unknown spawn theme %q", e.Theme)
		}
		seen[e.Theme] = true
		if err := flattenInto(f, sub, themes, seen); err != nil {
			return err
		}
		delete(seen, e.Theme)
	}
	return nil
}

func entryName(e Entry) string {
	if e.Theme != "" {
		return "theme:" + e.Theme
	}
	return e.Spawn.ID
}

// Resolve draws count descriptors from a flattened table. The first
// descriptor is the team leader and receives the leader-only features
// appended to its feature list; all later descriptors are subordinates
// drawn independently with replacement (duplicates allowed).
//
// A count of zero resolves to no descriptors and no error. A nonzero count
// against a zero-weight table is a configuration error.
func Resolve(f *FlatTable, count int, leaderFeatures []string, r *rng.Source) ([]Descriptor, error) {
	if count < 0 {
		return nil, fmt.Errorf("spawn count %d is negative", count)
	}
	if count == 0 {
		return nil, nil
	}
	if f.TotalWeight() == 0 {
		return nil, fmt.Errorf("resolving %d spawns: %w", count, ErrZeroWeight)
	}

	out := make([]Descriptor, 0, count)

	leader := f.Pick(r)
	leader.Features = append(leader.Features, leaderFeatures...)
	out = append(out, leader)

	for i := 1; i < count; i++ {
		out = append(out, f.Pick(r))
	}
	return out, nil
}
