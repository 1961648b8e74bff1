package ledger

import (
	"reflect"
	"testing"

	"ledgerdash/internal/core"
)

func TestSelectionToggle(t *testing.T) {
	var s Selection
	if s.Len() != 0 || s.Has("Еда") {
		t.Fatalf("zero selection must be empty")
	}
	s1 := s.Toggle("Еда")
	if !s1.Has("Еда") || s.Has("Еда") {
		t.Fatalf("toggle must return a new selection")
	}
	s2 := s1.Toggle("Еда")
	if s2.Has("Еда") || s2.Len() != 0 {
		t.Fatalf("second toggle should deactivate")
	}
}

func TestSelectionToggleAllIsStrict(t *testing.T) {
	universe := core.DefaultVocabulary().Labels()

	all := Selection{}.ToggleAll(universe)
	if all.Len() != len(universe) {
		t.Fatalf("select all: got %d labels, want %d", all.Len(), len(universe))
	}
	none := all.ToggleAll(universe)
	if none.Len() != 0 {
		t.Fatalf("select all twice must clear, got %v", none.Labels())
	}

	partial := NewSelection(universe[0], "not in vocabulary")
	if got := partial.ToggleAll(universe); got.Len() != len(universe) || got.Has("not in vocabulary") {
		t.Fatalf("partial selection should become the universe, got %v", got.Labels())
	}

	if got := NewSelection("x").ToggleAll(nil); got.Len() != 0 {
		t.Fatalf("empty universe is all active, toggle should clear")
	}
}

func TestActiveView(t *testing.T) {
	records := sampleRecords()
	if got := ActiveView(records, Selection{}); len(got) != 0 {
		t.Fatalf("empty selection must give empty view, got %d", len(got))
	}
	got := ActiveView(records, NewSelection("Зарплаты", "Перевод"))
	var ops []string
	for _, r := range got {
		ops = append(ops, r.Operation)
	}
	if !reflect.DeepEqual(ops, []string{"Зарплаты", "Перевод", "Зарплаты"}) {
		t.Fatalf("unexpected view: %v", ops)
	}
	if got := ActiveView(nil, NewSelection("Еда")); len(got) != 0 {
		t.Fatalf("empty input must give empty view")
	}
}
