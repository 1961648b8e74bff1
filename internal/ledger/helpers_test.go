package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ledgerdash/internal/core"
)

func num(s string) decimal.NullDecimal {
	return core.ParseNumber(s)
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func at(day, hour int) time.Time {
	return time.Date(2024, 5, day, hour, 0, 0, 0, time.UTC)
}

func sampleRecords() []core.Record {
	return []core.Record{
		{Timestamp: at(1, 9), Team: "A", Employee: "ivan", Operation: "Зарплаты", Amount: num("100"), Profit: num("10.5"), Spread: num("0.02"), Volume: num("1000")},
		{Timestamp: at(2, 9), Team: "A", Employee: "olga", Operation: "Доход от рефералов", Amount: num("50"), Profit: num("-2.25"), Volume: num("500")},
		{Timestamp: at(3, 9), Team: "B", Employee: "petr", Operation: "Еда", Amount: num("30.10"), Profit: num("4"), Spread: num("0.04"), Volume: num("250.5")},
		{Timestamp: at(4, 9), Team: "B", Employee: "ivan", Operation: "Перевод", Amount: num("999"), Profit: num("1"), Volume: num("10")},
		{Timestamp: at(5, 9), Team: "A", Employee: "ivan", Operation: "Зарплаты", Amount: num("20"), Spread: num("0.03")},
	}
}
