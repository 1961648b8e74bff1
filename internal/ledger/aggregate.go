package ledger

import (
	"github.com/shopspring/decimal"

	"ledgerdash/internal/core"
)

const places = 2

var hundred = decimal.NewFromInt(100)

func orZero(n decimal.NullDecimal) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	return n.Decimal
}

// Aggregate computes the summary metrics and the expense breakdown of a record
// set. Neutral operations only take part in the profit, spread and volume sums.
func Aggregate(records []core.Record, vocab core.Vocabulary) core.Summary {
	var (
		profit, volume, spread   decimal.Decimal
		netIncome, totalExpenses decimal.Decimal
		spreadCount              int64
		order                    []string
		byCategory               = make(map[string]decimal.Decimal)
	)

	for _, r := range records {
		profit = profit.Add(orZero(r.Profit))
		volume = volume.Add(orZero(r.Volume))
		if r.Spread.Valid {
			spread = spread.Add(r.Spread.Decimal)
			spreadCount++
		}

		amount := orZero(r.Amount)
		switch vocab.Classify(r.Operation) {
		case core.ClassIncome:
			netIncome = netIncome.Add(amount)
		case core.ClassExpense:
			netIncome = netIncome.Sub(amount)
			totalExpenses = totalExpenses.Add(amount)
			if _, ok := byCategory[r.Operation]; !ok {
				order = append(order, r.Operation)
			}
			byCategory[r.Operation] = byCategory[r.Operation].Add(amount)
		}
	}

	s := core.Summary{
		TotalProfit:   profit.Round(places),
		TotalVolume:   volume.Round(places),
		NetIncome:     netIncome.Round(places),
		TotalExpenses: totalExpenses.Round(places),
	}
	if spreadCount > 0 {
		s.AverageSpreadPercent = spread.Div(decimal.NewFromInt(spreadCount)).Mul(hundred).Round(places)
	}
	for _, name := range order {
		s.ExpenseByCategory = append(s.ExpenseByCategory, core.CategoryAmount{
			Name:   name,
			Amount: byCategory[name].Round(places),
		})
	}
	return s
}
