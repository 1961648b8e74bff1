package memory

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"ledgerdash/internal/core"
	"ledgerdash/internal/sheets"
)

// LedgerFile is the file name NewFromDir looks for
const LedgerFile = "ledger.csv"

var (
	_ sheets.RecordSource = (*Store)(nil)
	_ sheets.RecordWriter = (*Store)(nil)
)

// Store keeps the ledger in process memory
type Store struct {
	mu      sync.Mutex
	records []core.Record
}

func New(records ...core.Record) *Store {
	return &Store{records: slices.Clone(records)}
}

// NewFromDir seeds the store from base/ledger.csv. A missing file gives an
// empty ledger; a malformed one is an error.
func NewFromDir(base string, cols core.ColumnMap, loc *time.Location) (*Store, error) {
	path := filepath.Join(base, LedgerFile)
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := ParseCSV(f, cols, loc)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return New(records...), nil
}

// ParseCSV reads a header row followed by data rows. Columns are located by
// header name, so their order in the file is free.
func ParseCSV(r io.Reader, cols core.ColumnMap, loc *time.Location) ([]core.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		// tolerate a UTF-8 BOM written by spreadsheet exports
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	idx, err := cols.Resolve(header)
	if err != nil {
		return nil, err
	}

	var out []core.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		if blank(row) {
			continue
		}
		out = append(out, idx.RecordFromRow(core.StringRow(row), loc))
	}
	return out, nil
}

// LoadRecords implements sheets.RecordSource
func (s *Store) LoadRecords(_ context.Context) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.records), nil
}

// ReplaceRecords implements sheets.RecordWriter
func (s *Store) ReplaceRecords(_ context.Context, records []core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = slices.Clone(records)
	return nil
}

func blank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
