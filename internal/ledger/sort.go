package ledger

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"ledgerdash/internal/core"
)

// Column is a sortable record attribute.
type Column = core.Field

// Direction is a sort order.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

var ErrUnknownColumn = errors.New("unknown sort column")

// SortSpec is the column and direction of the record table.
type SortSpec struct {
	Column    Column
	Direction Direction
}

// DefaultSort orders by timestamp, newest first.
func DefaultSort() SortSpec {
	return SortSpec{Column: core.FieldTimestamp, Direction: Descending}
}

// Toggle selects a column header: the current column flips direction, any
// other column starts ascending.
func (s SortSpec) Toggle(c Column) SortSpec {
	if s.Column == c {
		if s.Direction == Ascending {
			return SortSpec{Column: c, Direction: Descending}
		}
		return SortSpec{Column: c, Direction: Ascending}
	}
	return SortSpec{Column: c, Direction: Ascending}
}

// ParseColumn validates a column name.
func ParseColumn(s string) (Column, error) {
	c := Column(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := comparators[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, s)
	}
	return c, nil
}

// ParseDirection reads "asc" or "desc"; anything else is ascending.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Descending)) {
		return Descending
	}
	return Ascending
}

type comparator func(a, b core.Record) int

var comparators = map[Column]comparator{
	core.FieldTimestamp: func(a, b core.Record) int { return a.Timestamp.Compare(b.Timestamp) },
	core.FieldTeam:      func(a, b core.Record) int { return strings.Compare(a.Team, b.Team) },
	core.FieldEmployee:  func(a, b core.Record) int { return strings.Compare(a.Employee, b.Employee) },
	core.FieldOperation: func(a, b core.Record) int { return strings.Compare(a.Operation, b.Operation) },
	core.FieldAmount:    func(a, b core.Record) int { return compareNumber(a.Amount, b.Amount) },
	core.FieldProfit:    func(a, b core.Record) int { return compareNumber(a.Profit, b.Profit) },
	core.FieldSpread:    func(a, b core.Record) int { return compareNumber(a.Spread, b.Spread) },
	core.FieldVolume:    func(a, b core.Record) int { return compareNumber(a.Volume, b.Volume) },
}

// compareNumber orders absent values below every present value.
func compareNumber(a, b decimal.NullDecimal) int {
	switch {
	case !a.Valid && !b.Valid:
		return 0
	case !a.Valid:
		return -1
	case !b.Valid:
		return 1
	}
	return a.Decimal.Cmp(b.Decimal)
}

// Sort returns a new slice ordered by spec. Ties keep their input order, so
// repeated calls with the same input give the same result. An unknown column
// falls back to timestamp.
func Sort(records []core.Record, spec SortSpec) []core.Record {
	cmp, ok := comparators[spec.Column]
	if !ok {
		cmp = comparators[core.FieldTimestamp]
	}
	out := slices.Clone(records)
	if out == nil {
		out = []core.Record{}
	}
	slices.SortStableFunc(out, func(a, b core.Record) int {
		if spec.Direction == Descending {
			return cmp(b, a)
		}
		return cmp(a, b)
	})
	return out
}
