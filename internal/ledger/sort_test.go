package ledger

import (
	"errors"
	"reflect"
	"testing"

	"ledgerdash/internal/core"
)

func operations(records []core.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Operation
	}
	return out
}

func TestSortSpecToggle(t *testing.T) {
	s := DefaultSort()
	if s.Column != core.FieldTimestamp || s.Direction != Descending {
		t.Fatalf("unexpected default: %+v", s)
	}
	s = s.Toggle(core.FieldTimestamp)
	if s.Direction != Ascending {
		t.Fatalf("same column should flip: %+v", s)
	}
	s = s.Toggle(core.FieldTimestamp)
	if s.Direction != Descending {
		t.Fatalf("same column should flip back: %+v", s)
	}
	s = s.Toggle(core.FieldAmount)
	if s.Column != core.FieldAmount || s.Direction != Ascending {
		t.Fatalf("new column should start ascending: %+v", s)
	}
}

func TestParseColumn(t *testing.T) {
	for _, f := range core.Fields {
		c, err := ParseColumn(" " + string(f) + " ")
		if err != nil || c != f {
			t.Fatalf("%s: got %q, %v", f, c, err)
		}
	}
	if _, err := ParseColumn("Сумма"); !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("expected ErrUnknownColumn, got %v", err)
	}
	if ParseDirection("DESC") != Descending || ParseDirection("whatever") != Ascending {
		t.Fatalf("unexpected direction parsing")
	}
}

func TestSortNumericNotLexical(t *testing.T) {
	records := []core.Record{
		{Operation: "nine", Amount: num("9")},
		{Operation: "hundred", Amount: num("100")},
		{Operation: "absent"},
		{Operation: "ten", Amount: num("10")},
		{Operation: "negative", Amount: num("-5")},
	}
	got := Sort(records, SortSpec{Column: core.FieldAmount, Direction: Ascending})
	want := []string{"absent", "negative", "nine", "ten", "hundred"}
	if !reflect.DeepEqual(operations(got), want) {
		t.Fatalf("asc: got %v, want %v", operations(got), want)
	}
	got = Sort(records, SortSpec{Column: core.FieldAmount, Direction: Descending})
	want = []string{"hundred", "ten", "nine", "negative", "absent"}
	if !reflect.DeepEqual(operations(got), want) {
		t.Fatalf("desc: got %v, want %v", operations(got), want)
	}
}

func TestSortColumns(t *testing.T) {
	records := sampleRecords()
	tests := []struct {
		spec SortSpec
		want []string
	}{
		{DefaultSort(), []string{"Зарплаты", "Перевод", "Еда", "Доход от рефералов", "Зарплаты"}},
		{SortSpec{core.FieldEmployee, Ascending}, []string{"Зарплаты", "Перевод", "Зарплаты", "Доход от рефералов", "Еда"}},
		{SortSpec{core.FieldProfit, Descending}, []string{"Зарплаты", "Еда", "Перевод", "Доход от рефералов", "Зарплаты"}},
		{SortSpec{core.FieldSpread, Ascending}, []string{"Доход от рефералов", "Перевод", "Зарплаты", "Зарплаты", "Еда"}},
		{SortSpec{core.FieldOperation, Ascending}, []string{"Доход от рефералов", "Еда", "Зарплаты", "Зарплаты", "Перевод"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.spec.Column)+"_"+string(tt.spec.Direction), func(t *testing.T) {
			got := Sort(records, tt.spec)
			if !reflect.DeepEqual(operations(got), tt.want) {
				t.Fatalf("got %v, want %v", operations(got), tt.want)
			}
		})
	}
}

func TestSortProperties(t *testing.T) {
	records := sampleRecords()
	original := append([]core.Record(nil), records...)
	for _, col := range core.Fields {
		for _, dir := range []Direction{Ascending, Descending} {
			spec := SortSpec{Column: col, Direction: dir}
			once := Sort(records, spec)
			if len(once) != len(records) {
				t.Fatalf("%v: length changed", spec)
			}
			twice := Sort(once, spec)
			if !reflect.DeepEqual(once, twice) {
				t.Fatalf("%v: sort is not idempotent", spec)
			}
			if !reflect.DeepEqual(Sort(records, spec), once) {
				t.Fatalf("%v: repeated sort differs", spec)
			}
		}
	}
	if !reflect.DeepEqual(records, original) {
		t.Fatalf("input mutated")
	}

	// distinct keys: toggling twice restores the ascending order
	spec := SortSpec{Column: core.FieldTimestamp, Direction: Ascending}
	asc := Sort(records, spec)
	back := Sort(Sort(records, spec.Toggle(spec.Column)), spec.Toggle(spec.Column).Toggle(spec.Column))
	if !reflect.DeepEqual(asc, back) {
		t.Fatalf("double toggle did not restore order")
	}
}

func TestSortEmpty(t *testing.T) {
	got := Sort(nil, DefaultSort())
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}
