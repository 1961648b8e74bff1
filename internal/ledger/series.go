package ledger

import (
	"math"

	"ledgerdash/internal/core"
)

// Project maps records to chart points in input order. It does not sort by
// time; callers that need chronological points must pass sorted records.
func Project(records []core.Record) []core.SeriesPoint {
	out := make([]core.SeriesPoint, len(records))
	for i, r := range records {
		p := math.NaN()
		if r.Profit.Valid {
			p = r.Profit.Decimal.InexactFloat64()
		}
		out[i] = core.SeriesPoint{Timestamp: r.Timestamp, Profit: p}
	}
	return out
}
