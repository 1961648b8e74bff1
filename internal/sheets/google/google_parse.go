package google

import (
	"fmt"
	"math"
	"strings"
	"time"

	"ledgerdash/internal/core"
)

// parseRecords converts a values matrix (as returned by the Sheets API) into
// records. The first row is the header; columns are found by name.
func parseRecords(values [][]interface{}, cols core.ColumnMap, loc *time.Location) ([]core.Record, error) {
	if len(values) == 0 {
		return nil, nil
	}

	idx, err := cols.Resolve(toStrings(values[0]))
	if err != nil {
		return nil, fmt.Errorf("unexpected ledger header: %w", err)
	}
	tsCol := idx[core.FieldTimestamp]

	out := make([]core.Record, 0, len(values)-1)
	for _, raw := range values[1:] {
		if blankRow(raw) {
			continue
		}
		row := append([]interface{}(nil), raw...)
		if tsCol >= 0 && tsCol < len(row) {
			if serial, ok := row[tsCol].(float64); ok {
				row[tsCol] = serialToTime(serial, loc)
			}
		}
		out = append(out, idx.RecordFromRow(row, loc))
	}
	return out, nil
}

// serialToTime converts a spreadsheet serial date (days since 1899-12-30,
// fraction is the time of day) into a wall-clock time in loc.
func serialToTime(serial float64, loc *time.Location) time.Time {
	days := math.Floor(serial)
	secs := math.Round((serial - days) * 86400)
	epoch := time.Date(1899, 12, 30, 0, 0, 0, 0, loc)
	day := epoch.AddDate(0, 0, int(days))
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, int(secs), 0, loc)
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func blankRow(row []interface{}) bool {
	for _, v := range row {
		if strings.TrimSpace(fmt.Sprint(v)) != "" {
			return false
		}
	}
	return true
}
