package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"ledgerdash/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadRecords implements sheets.RecordSource
func (r *SQLiteRepository) LoadRecords(ctx context.Context) ([]core.Record, error) {
	return r.ListRecords(ctx)
}

// ListRecords returns every stored record in insertion order
func (r *SQLiteRepository) ListRecords(ctx context.Context) ([]core.Record, error) {
	rows, err := r.queries.ListLedgerRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ledger records: %w", err)
	}

	records := make([]core.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, recordFromRow(row))
	}
	return records, nil
}

// ReplaceRecords implements sheets.RecordWriter. The old set is removed and
// the new one written in a single transaction.
func (r *SQLiteRepository) ReplaceRecords(ctx context.Context, records []core.Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.DeleteLedgerRecords(ctx); err != nil {
		return fmt.Errorf("delete ledger records: %w", err)
	}
	for i, rec := range records {
		if err := q.InsertLedgerRecord(ctx, paramsFromRecord(int64(i), rec)); err != nil {
			return fmt.Errorf("insert ledger record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Ledger records replaced", "component", "storage", "records", len(records))
	return nil
}

// Count returns the number of stored records
func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.queries.CountLedgerRecords(ctx)
	if err != nil {
		return 0, fmt.Errorf("count ledger records: %w", err)
	}
	return n, nil
}

func paramsFromRecord(pos int64, rec core.Record) InsertLedgerRecordParams {
	p := InsertLedgerRecordParams{
		Position:  pos,
		Team:      rec.Team,
		Employee:  rec.Employee,
		Operation: rec.Operation,
		Amount:    nullNumber(rec.Amount),
		Profit:    nullNumber(rec.Profit),
		Spread:    nullNumber(rec.Spread),
		Volume:    nullNumber(rec.Volume),
	}
	if !rec.Timestamp.IsZero() {
		p.Ts = sql.NullString{String: rec.Timestamp.UTC().Format(time.RFC3339Nano), Valid: true}
	}
	return p
}

func recordFromRow(row LedgerRecord) core.Record {
	rec := core.Record{
		Team:      row.Team,
		Employee:  row.Employee,
		Operation: row.Operation,
		Amount:    numberFromNull(row.Amount),
		Profit:    numberFromNull(row.Profit),
		Spread:    numberFromNull(row.Spread),
		Volume:    numberFromNull(row.Volume),
	}
	if row.Ts.Valid {
		if t, err := time.Parse(time.RFC3339Nano, row.Ts.String); err == nil {
			rec.Timestamp = t
		}
	}
	return rec
}

func nullNumber(n decimal.NullDecimal) sql.NullString {
	if !n.Valid {
		return sql.NullString{}
	}
	return sql.NullString{String: n.Decimal.String(), Valid: true}
}

func numberFromNull(s sql.NullString) decimal.NullDecimal {
	if !s.Valid {
		return decimal.NullDecimal{}
	}
	return core.ParseNumber(s.String)
}
