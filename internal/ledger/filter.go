package ledger

import (
	"errors"
	"fmt"
	"time"

	"ledgerdash/internal/core"
)

// Wildcards accepted in Criteria. They are never compared against record data.
const (
	AllTeams    = "ALL"
	AnyEmployee = "ANY"
)

// ErrInvalidDateRange is returned when a filter boundary does not parse. The
// caller must skip the whole recompute and keep its previous results.
var ErrInvalidDateRange = errors.New("invalid date range")

// Criteria selects records by inclusive time range, team and employee.
type Criteria struct {
	Start    time.Time
	End      time.Time
	Team     string
	Employee string
}

// ParseCriteria builds Criteria from raw user input.
func ParseCriteria(start, end, team, employee string, loc *time.Location) (Criteria, error) {
	s, err := core.ParseInstant(start, loc)
	if err != nil {
		return Criteria{}, fmt.Errorf("%w: start %q", ErrInvalidDateRange, start)
	}
	e, err := core.ParseInstant(end, loc)
	if err != nil {
		return Criteria{}, fmt.Errorf("%w: end %q", ErrInvalidDateRange, end)
	}
	return Criteria{Start: s, End: e, Team: team, Employee: employee}, nil
}

// Match reports whether a record satisfies every predicate.
func (c Criteria) Match(r core.Record) bool {
	if r.Timestamp.IsZero() || r.Timestamp.Before(c.Start) || r.Timestamp.After(c.End) {
		return false
	}
	if c.Team != AllTeams && r.Team != c.Team {
		return false
	}
	if c.Employee != AnyEmployee && r.Employee != c.Employee {
		return false
	}
	return true
}

// Filter returns the records matching c, preserving their relative order.
func Filter(records []core.Record, c Criteria) []core.Record {
	out := make([]core.Record, 0, len(records))
	for _, r := range records {
		if c.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
