package sheets

import (
	"context"

	"ledgerdash/internal/core"
)

// Ports for outbound adapters.
type (
	// RecordSource yields the raw ledger records from wherever they are kept.
	// Implementations return records in source order.
	RecordSource interface {
		LoadRecords(ctx context.Context) ([]core.Record, error)
	}

	// RecordWriter replaces the stored working set in one step.
	RecordWriter interface {
		ReplaceRecords(ctx context.Context, records []core.Record) error
	}
)
