package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// Summary holds the metrics derived from a record set. All values are rounded
// to two decimal places.
type Summary struct {
	TotalProfit          decimal.Decimal
	AverageSpreadPercent decimal.Decimal
	TotalVolume          decimal.Decimal
	NetIncome            decimal.Decimal
	TotalExpenses        decimal.Decimal
	// ExpenseByCategory is ordered by first appearance in the input.
	ExpenseByCategory []CategoryAmount
}

// SeriesPoint is one chart sample. Profit is NaN when the record had none.
type SeriesPoint struct {
	Timestamp time.Time
	Profit    float64
}

// ExpenseMap returns the expense breakdown keyed by category.
func (s Summary) ExpenseMap() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(s.ExpenseByCategory))
	for _, c := range s.ExpenseByCategory {
		m[c.Name] = c.Amount
	}
	return m
}

// IsZero reports whether every metric is zero and the breakdown is empty.
func (s Summary) IsZero() bool {
	return s.TotalProfit.IsZero() &&
		s.AverageSpreadPercent.IsZero() &&
		s.TotalVolume.IsZero() &&
		s.NetIncome.IsZero() &&
		s.TotalExpenses.IsZero() &&
		len(s.ExpenseByCategory) == 0
}
