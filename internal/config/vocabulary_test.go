package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ledgerdash/internal/core"
)

func TestLoadVocabulary(t *testing.T) {
	t.Run("empty path gives built-in vocabulary", func(t *testing.T) {
		v, err := LoadVocabulary("")
		if err != nil {
			t.Fatal(err)
		}
		if v.Len() != core.DefaultVocabulary().Len() {
			t.Errorf("Len() = %d", v.Len())
		}
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vocab.yaml")
		doc := "income:\n  - Бонус\nexpense:\n  - Аренда\n  - Связь\n"
		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			t.Fatal(err)
		}

		v, err := LoadVocabulary(path)
		if err != nil {
			t.Fatalf("LoadVocabulary: %v", err)
		}
		if v.Classify("Бонус") != core.ClassIncome || v.Classify("Связь") != core.ClassExpense {
			t.Errorf("unexpected classes")
		}
		if v.Classify("Еда") != core.ClassNeutral {
			t.Errorf("labels outside the file must be neutral")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadVocabulary(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestParseVocabulary_Errors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		target error
	}{
		{"empty document", "", ErrEmptyVocabulary},
		{"overlap", "income: [A]\nexpense: [A]\n", core.ErrOverlappingCategory},
		{"malformed", "income: [A\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseVocabulary([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("err = %v, want %v", err, tt.target)
			}
		})
	}
}
