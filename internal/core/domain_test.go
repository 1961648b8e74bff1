package core

import (
	"errors"
	"testing"
)

func TestDefaultVocabularyClassify(t *testing.T) {
	v := DefaultVocabulary()
	cases := []struct {
		op   string
		want Class
	}{
		{"Зарплаты", ClassExpense},
		{"Софт, подписки", ClassExpense},
		{"Доход от рефералов", ClassIncome},
		{"Пересчёт кассы", ClassIncome},
		{"Перевод", ClassNeutral},
		{"", ClassNeutral},
	}
	for _, tc := range cases {
		if got := v.Classify(tc.op); got != tc.want {
			t.Fatalf("%q expected %v, got %v", tc.op, tc.want, got)
		}
	}
	if v.Len() != 17 {
		t.Fatalf("expected 17 labels, got %d", v.Len())
	}
	if got := len(v.Categories(ClassIncome)); got != 2 {
		t.Fatalf("expected 2 income categories, got %d", got)
	}
}

func TestNewVocabularyOverlap(t *testing.T) {
	_, err := NewVocabulary([]string{"A"}, []string{"B", "A"})
	if !errors.Is(err, ErrOverlappingCategory) {
		t.Fatalf("expected overlap error, got %v", err)
	}
	if _, err := NewVocabulary([]string{" "}, nil); !errors.Is(err, ErrEmptyCategory) {
		t.Fatalf("expected empty label error, got %v", err)
	}
}

func TestNewVocabularyDedupe(t *testing.T) {
	v, err := NewVocabulary([]string{"A", "A"}, []string{"B"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	labels := v.Labels()
	if len(labels) != 2 || labels[0] != "A" || labels[1] != "B" {
		t.Fatalf("unexpected labels: %v", labels)
	}
	// Labels returns a copy
	labels[0] = "changed"
	if v.Labels()[0] != "A" {
		t.Fatalf("vocabulary mutated through Labels")
	}
}
