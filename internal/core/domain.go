package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	ClassNeutral Class = iota
	ClassIncome
	ClassExpense
)

type (
	// Class tells how an operation takes part in income accounting.
	Class int

	// Category is an operation label with its classification attached.
	Category struct {
		Label string
		Class Class
	}

	// Record is one ledger transaction. Records are never mutated after ingestion.
	Record struct {
		Timestamp time.Time
		Team      string
		Employee  string
		Operation string
		Amount    decimal.NullDecimal
		Profit    decimal.NullDecimal
		Spread    decimal.NullDecimal // fractional ratio, not a currency amount
		Volume    decimal.NullDecimal
	}

	// Vocabulary is the static partition of operation labels into income and
	// expense classes. Labels it does not know are neutral.
	Vocabulary struct {
		classes map[string]Class
		labels  []string
	}
)

var (
	ErrOverlappingCategory = errors.New("category is both income and expense")
	ErrEmptyCategory       = errors.New("empty category label")
)

var (
	defaultIncome = []string{
		"Пересчёт кассы",
		"Доход от рефералов",
	}
	defaultExpense = []string{
		"Апелляция", "Аренда недвижимости / ЖКХ", "Бытовые",
		"Долги", "Еда", "Зарплаты", "Комиссии", "Логистика", "Ошибка воркера",
		"Представительские расходы", "Прочее", "Расходы на дропов",
		"Сим карты", "Софт, подписки", "Техника",
	}
)

func (c Class) String() string {
	switch c {
	case ClassIncome:
		return "income"
	case ClassExpense:
		return "expense"
	default:
		return "neutral"
	}
}

// NewVocabulary builds a vocabulary from the income and expense label lists.
// Duplicates inside one list are ignored; a label present in both is an error.
func NewVocabulary(income, expense []string) (Vocabulary, error) {
	v := Vocabulary{classes: make(map[string]Class, len(income)+len(expense))}
	add := func(label string, class Class) error {
		label = strings.TrimSpace(label)
		if label == "" {
			return ErrEmptyCategory
		}
		if prev, ok := v.classes[label]; ok {
			if prev != class {
				return fmt.Errorf("%w: %q", ErrOverlappingCategory, label)
			}
			return nil
		}
		v.classes[label] = class
		v.labels = append(v.labels, label)
		return nil
	}
	for _, l := range income {
		if err := add(l, ClassIncome); err != nil {
			return Vocabulary{}, err
		}
	}
	for _, l := range expense {
		if err := add(l, ClassExpense); err != nil {
			return Vocabulary{}, err
		}
	}
	return v, nil
}

// DefaultVocabulary returns the built-in operation categories.
func DefaultVocabulary() Vocabulary {
	v, err := NewVocabulary(defaultIncome, defaultExpense)
	if err != nil {
		panic(err) // static lists, cannot overlap
	}
	return v
}

// Classify returns the class of an operation label.
func (v Vocabulary) Classify(operation string) Class {
	return v.classes[operation]
}

// Labels returns every classified label, income first, in declaration order.
func (v Vocabulary) Labels() []string {
	return append([]string(nil), v.labels...)
}

// Categories returns the labels of one class in declaration order.
func (v Vocabulary) Categories(class Class) []Category {
	var out []Category
	for _, l := range v.labels {
		if v.classes[l] == class {
			out = append(out, Category{Label: l, Class: class})
		}
	}
	return out
}

// Len reports the number of classified labels.
func (v Vocabulary) Len() int {
	return len(v.labels)
}
