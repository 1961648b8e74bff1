package core

import (
	"fmt"
	"strings"
	"time"
)

// Field identifies a record attribute. It doubles as a column identity for
// source mapping and for sorting.
type Field string

const (
	FieldTimestamp Field = "timestamp"
	FieldTeam      Field = "team"
	FieldEmployee  Field = "employee"
	FieldOperation Field = "operation"
	FieldAmount    Field = "amount"
	FieldProfit    Field = "profit"
	FieldSpread    Field = "spread"
	FieldVolume    Field = "volume"
)

// Fields lists every record field in source column order.
var Fields = []Field{
	FieldTimestamp, FieldProfit, FieldTeam, FieldEmployee,
	FieldSpread, FieldVolume, FieldOperation, FieldAmount,
}

// ColumnMap maps record fields to source header names.
type ColumnMap map[Field]string

// DefaultColumnMap uses the header names of the ledger table.
func DefaultColumnMap() ColumnMap {
	return ColumnMap{
		FieldTimestamp: "Дата",
		FieldProfit:    "Профит",
		FieldTeam:      "Команда",
		FieldEmployee:  "Сотрудник",
		FieldSpread:    "Спред",
		FieldVolume:    "Объем",
		FieldOperation: "Операция",
		FieldAmount:    "Сумма",
	}
}

// ColumnIndex holds resolved header positions; -1 marks an absent column.
type ColumnIndex map[Field]int

// Resolve locates the mapped columns in a header row. Matching ignores case and
// surrounding space, and the field's own name is accepted as an alias.
// Timestamp and operation columns are required.
func (m ColumnMap) Resolve(header []string) (ColumnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := pos[key]; !dup {
			pos[key] = i
		}
	}
	idx := make(ColumnIndex, len(Fields))
	var missing []string
	for _, f := range Fields {
		idx[f] = -1
		name := m[f]
		if name == "" {
			name = string(f)
		}
		if i, ok := pos[strings.ToLower(strings.TrimSpace(name))]; ok {
			idx[f] = i
		} else if i, ok := pos[string(f)]; ok {
			idx[f] = i
		}
		if idx[f] == -1 && (f == FieldTimestamp || f == FieldOperation) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns %s; got headers=%v", strings.Join(missing, ","), header)
	}
	return idx, nil
}

// RecordFromRow builds a record from one data row. Cells may be strings or the
// loosely typed values spreadsheet APIs return.
func (idx ColumnIndex) RecordFromRow(row []any, loc *time.Location) Record {
	cell := func(f Field) any {
		i, ok := idx[f]
		if !ok || i < 0 || i >= len(row) {
			return nil
		}
		return row[i]
	}
	text := func(f Field) string {
		switch v := cell(f).(type) {
		case nil:
			return ""
		case string:
			return strings.TrimSpace(v)
		default:
			return strings.TrimSpace(fmt.Sprint(v))
		}
	}

	r := Record{
		Team:      text(FieldTeam),
		Employee:  text(FieldEmployee),
		Operation: text(FieldOperation),
		Amount:    NumberFromAny(cell(FieldAmount)),
		Profit:    NumberFromAny(cell(FieldProfit)),
		Spread:    NumberFromAny(cell(FieldSpread)),
		Volume:    NumberFromAny(cell(FieldVolume)),
	}
	// Unparseable timestamps stay zero and never match a date range.
	if ts, err := InstantFromAny(cell(FieldTimestamp), loc); err == nil {
		r.Timestamp = ts
	}
	return r
}

// StringRow converts a text row into the loosely typed form RecordFromRow takes.
func StringRow(row []string) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}
