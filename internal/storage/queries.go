package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// LedgerRecord is one stored row. Numbers are kept as decimal text so no
// precision is lost; NULL marks an absent value.
type LedgerRecord struct {
	ID        int64
	Position  int64
	Ts        sql.NullString
	Team      string
	Employee  string
	Operation string
	Amount    sql.NullString
	Profit    sql.NullString
	Spread    sql.NullString
	Volume    sql.NullString
}

const insertLedgerRecord = `
INSERT INTO ledger_records (position, ts, team, employee, operation, amount, profit, spread, volume)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type InsertLedgerRecordParams struct {
	Position  int64
	Ts        sql.NullString
	Team      string
	Employee  string
	Operation string
	Amount    sql.NullString
	Profit    sql.NullString
	Spread    sql.NullString
	Volume    sql.NullString
}

func (q *Queries) InsertLedgerRecord(ctx context.Context, arg InsertLedgerRecordParams) error {
	_, err := q.db.ExecContext(ctx, insertLedgerRecord,
		arg.Position,
		arg.Ts,
		arg.Team,
		arg.Employee,
		arg.Operation,
		arg.Amount,
		arg.Profit,
		arg.Spread,
		arg.Volume,
	)
	return err
}

const listLedgerRecords = `
SELECT id, position, ts, team, employee, operation, amount, profit, spread, volume
FROM ledger_records
ORDER BY position, id
`

func (q *Queries) ListLedgerRecords(ctx context.Context) ([]LedgerRecord, error) {
	rows, err := q.db.QueryContext(ctx, listLedgerRecords)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LedgerRecord
	for rows.Next() {
		var i LedgerRecord
		if err := rows.Scan(
			&i.ID,
			&i.Position,
			&i.Ts,
			&i.Team,
			&i.Employee,
			&i.Operation,
			&i.Amount,
			&i.Profit,
			&i.Spread,
			&i.Volume,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteLedgerRecords = `DELETE FROM ledger_records`

func (q *Queries) DeleteLedgerRecords(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteLedgerRecords)
	return err
}

const countLedgerRecords = `SELECT COUNT(*) FROM ledger_records`

func (q *Queries) CountLedgerRecords(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countLedgerRecords)
	var count int64
	err := row.Scan(&count)
	return count, err
}
