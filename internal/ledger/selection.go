package ledger

import (
	"sort"

	"ledgerdash/internal/core"
)

// Selection is the set of operation categories currently switched on.
// The zero value is an empty selection, which yields an empty view.
type Selection struct {
	active map[string]struct{}
}

// NewSelection returns a selection with the given labels active.
func NewSelection(labels ...string) Selection {
	s := Selection{active: make(map[string]struct{}, len(labels))}
	for _, l := range labels {
		s.active[l] = struct{}{}
	}
	return s
}

// Has reports whether label is active.
func (s Selection) Has(label string) bool {
	_, ok := s.active[label]
	return ok
}

// Len reports the number of active labels.
func (s Selection) Len() int {
	return len(s.active)
}

// Labels returns the active labels, sorted.
func (s Selection) Labels() []string {
	out := make([]string, 0, len(s.active))
	for l := range s.active {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Toggle returns a copy of s with label switched.
func (s Selection) Toggle(label string) Selection {
	next := s.clone()
	if _, ok := next.active[label]; ok {
		delete(next.active, label)
	} else {
		next.active[label] = struct{}{}
	}
	return next
}

// AllActive reports whether every label of universe is active. An empty
// universe is vacuously all active.
func (s Selection) AllActive(universe []string) bool {
	for _, l := range universe {
		if !s.Has(l) {
			return false
		}
	}
	return true
}

// ToggleAll is the strict "select all / clear all" switch: when every label of
// universe is already active the result is empty, otherwise it is universe.
func (s Selection) ToggleAll(universe []string) Selection {
	if s.AllActive(universe) {
		return Selection{}
	}
	return NewSelection(universe...)
}

func (s Selection) clone() Selection {
	next := Selection{active: make(map[string]struct{}, len(s.active)+1)}
	for l := range s.active {
		next.active[l] = struct{}{}
	}
	return next
}

// ActiveView keeps the records whose operation is active, in input order.
func ActiveView(records []core.Record, s Selection) []core.Record {
	out := make([]core.Record, 0, len(records))
	if s.Len() == 0 {
		return out
	}
	for _, r := range records {
		if s.Has(r.Operation) {
			out = append(out, r)
		}
	}
	return out
}
