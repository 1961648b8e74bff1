package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"ledgerdash/internal/core"
	"ledgerdash/internal/ledger"
	"ledgerdash/internal/log"
	"ledgerdash/internal/sheets"
)

var (
	// ErrNoSource is returned by Reload when the dashboard was built without a source.
	ErrNoSource = errors.New("no record source configured")
	// ErrUnknownCategory is returned for labels the vocabulary does not classify.
	ErrUnknownCategory = errors.New("unknown category")
)

// DashboardConfig holds the static inputs of a dashboard
type DashboardConfig struct {
	Vocabulary core.Vocabulary
	Location   *time.Location
	Logger     *log.Logger
}

// Dashboard owns the committed ledger state and recomputes derived results on
// every state-changing event. All mutations go through one mutex; readers get
// copies.
type Dashboard struct {
	source  sheets.RecordSource
	vocab   core.Vocabulary
	loc     *time.Location
	logger  *log.Logger
	reloads singleflight.Group

	mu         sync.RWMutex
	records    []core.Record
	index      ledger.Index
	generation uint64
	loadedAt   time.Time
	criteria   *ledger.Criteria
	filtered   []core.Record
	summary    core.Summary
	series     []core.SeriesPoint
	selection  ledger.Selection
	sort       ledger.SortSpec
	view       []core.Record
}

// Snapshot is a consistent copy of the dashboard state after the last event
type Snapshot struct {
	Generation uint64
	LoadedAt   time.Time
	Records    int
	Criteria   *ledger.Criteria
	Filtered   int
	Summary    core.Summary
	View       []core.Record
	Series     []core.SeriesPoint
	Index      ledger.Index
	Sort       ledger.SortSpec
	Active     []string
	Categories []string
	HasData    bool
}

// Query describes a stateless request against the current records
type Query struct {
	Start      string
	End        string
	Team       string
	Employee   string
	Categories []string
	// AllCategories activates the whole vocabulary and overrides Categories
	AllCategories bool
	Sort          ledger.SortSpec
}

// QueryResult is what a stateless query computes
type QueryResult struct {
	Generation uint64
	Criteria   ledger.Criteria
	Filtered   int
	Summary    core.Summary
	View       []core.Record
	Series     []core.SeriesPoint
	HasData    bool
}

// NewDashboard creates a dashboard reading from source. A nil source is
// allowed when records are only pushed through Ingest.
func NewDashboard(source sheets.RecordSource, cfg DashboardConfig) *Dashboard {
	if cfg.Vocabulary.Len() == 0 {
		cfg.Vocabulary = core.DefaultVocabulary()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Discard()
	}
	return &Dashboard{
		source: source,
		vocab:  cfg.Vocabulary,
		loc:    cfg.Location,
		logger: cfg.Logger.WithComponent(log.ComponentLedger),
		index:  ledger.Index{},
		sort:   ledger.DefaultSort(),
	}
}

// Vocabulary returns the category vocabulary in use
func (d *Dashboard) Vocabulary() core.Vocabulary { return d.vocab }

// Location returns the business time zone used to parse filter dates
func (d *Dashboard) Location() *time.Location { return d.loc }

// Ingest replaces the working set and rebuilds the index. When criteria were
// already committed the results are recomputed against the new records.
func (d *Dashboard) Ingest(ctx context.Context, records []core.Record) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.records = slices.Clone(records)
	d.index = ledger.BuildIndex(d.records)
	d.generation++
	d.loadedAt = time.Now()
	if d.criteria != nil {
		d.recomputeFiltered()
	}
	d.recomputeView()

	d.logger.InfoContext(ctx, "Records ingested",
		log.NewFields().
			WithOperation(log.OpIngest).
			WithRecompute(d.generation, len(d.records), len(d.filtered), len(d.view)).
			ToSlice()...)
}

// Reload pulls the records from the source and ingests them. Concurrent
// callers share one source read, which is not cancelled when the caller that
// started it goes away.
func (d *Dashboard) Reload(ctx context.Context) (int, error) {
	if d.source == nil {
		return 0, ErrNoSource
	}
	ch := d.reloads.DoChan("reload", func() (any, error) {
		detached := context.WithoutCancel(ctx)
		records, err := d.source.LoadRecords(detached)
		if err != nil {
			return 0, fmt.Errorf("load records: %w", err)
		}
		d.Ingest(detached, records)
		return len(records), nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	v, err, shared := res.Val, res.Err, res.Shared
	if err != nil {
		d.logger.ErrorContext(ctx, "Reload failed", log.FieldOperation, log.OpReload, log.FieldError, err)
		return 0, err
	}
	if shared {
		d.logger.DebugContext(ctx, "Reload coalesced", log.FieldOperation, log.OpReload)
	}
	return v.(int), nil
}

// ApplyFilter parses and commits new criteria. On an invalid date the error
// is returned and every previous result stays as it was.
func (d *Dashboard) ApplyFilter(ctx context.Context, start, end, team, employee string) error {
	c, err := ledger.ParseCriteria(start, end, team, employee, d.loc)
	if err != nil {
		d.logger.WarnContext(ctx, "Filter rejected",
			log.NewFields().
				WithOperation(log.OpFilter).
				WithCriteria(start, end, team, employee).
				WithError(err).
				ToSlice()...)
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.criteria = &c
	d.recomputeFiltered()
	d.recomputeView()

	d.logger.DebugContext(ctx, "Filter applied",
		log.NewFields().
			WithOperation(log.OpFilter).
			WithCriteria(start, end, team, employee).
			WithRecompute(d.generation, len(d.records), len(d.filtered), len(d.view)).
			ToSlice()...)
	return nil
}

// ToggleCategory flips one label in the active selection. Only labels the
// vocabulary classifies as income or expense can be selected.
func (d *Dashboard) ToggleCategory(ctx context.Context, label string) error {
	if err := d.checkCategories(label); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.selection = d.selection.Toggle(label)
	d.recomputeView()
	d.logger.DebugContext(ctx, "Category toggled",
		log.FieldOperation, log.OpToggle, log.FieldCategory, label, log.FieldViewSize, len(d.view))
	return nil
}

// ToggleAllCategories clears the selection when every vocabulary label is
// active and selects the whole vocabulary otherwise.
func (d *Dashboard) ToggleAllCategories(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.selection = d.selection.ToggleAll(d.vocab.Labels())
	d.recomputeView()
	d.logger.DebugContext(ctx, "All categories toggled",
		log.FieldOperation, log.OpToggleAll, "active", d.selection.Len(), log.FieldViewSize, len(d.view))
}

// SortBy applies a header click on column: same column flips direction, a new
// column starts ascending.
func (d *Dashboard) SortBy(ctx context.Context, column string) error {
	c, err := ledger.ParseColumn(column)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.sort = d.sort.Toggle(c)
	d.recomputeView()
	d.logger.DebugContext(ctx, "Sort changed",
		log.FieldOperation, log.OpSort,
		log.FieldSortColumn, string(d.sort.Column),
		log.FieldSortDirection, string(d.sort.Direction))
	return nil
}

// Snapshot returns a copy of the current state
func (d *Dashboard) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var criteria *ledger.Criteria
	if d.criteria != nil {
		c := *d.criteria
		criteria = &c
	}
	return Snapshot{
		Generation: d.generation,
		LoadedAt:   d.loadedAt,
		Records:    len(d.records),
		Criteria:   criteria,
		Filtered:   len(d.filtered),
		Summary:    copySummary(d.summary),
		View:       slices.Clone(d.view),
		Series:     slices.Clone(d.series),
		Index:      d.index,
		Sort:       d.sort,
		Active:     d.selection.Labels(),
		Categories: d.vocab.Labels(),
		HasData:    len(d.filtered) > 0,
	}
}

// Index returns the team/employee index of the current working set. The index
// is rebuilt on ingestion and never mutated in place.
func (d *Dashboard) Index() ledger.Index {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.index
}

// Generation is incremented on every ingestion
func (d *Dashboard) Generation() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.generation
}

// Ready reports whether at least one ingestion happened
func (d *Dashboard) Ready() bool {
	return d.Generation() > 0
}

// Query runs the full pipeline on the current records without touching the
// committed criteria, selection or sort.
func (d *Dashboard) Query(ctx context.Context, q Query) (QueryResult, error) {
	c, err := ledger.ParseCriteria(q.Start, q.End, q.Team, q.Employee, d.loc)
	if err != nil {
		return QueryResult{}, err
	}
	if !q.AllCategories {
		if err := d.checkCategories(q.Categories...); err != nil {
			return QueryResult{}, err
		}
	}

	d.mu.RLock()
	records := d.records
	generation := d.generation
	d.mu.RUnlock()

	sel := ledger.NewSelection(q.Categories...)
	if q.AllCategories {
		sel = ledger.NewSelection(d.vocab.Labels()...)
	}
	spec := q.Sort
	if spec.Column == "" {
		spec = ledger.DefaultSort()
	}
	if spec.Direction == "" {
		spec.Direction = ledger.Ascending
	}

	filtered := ledger.Filter(records, c)
	res := QueryResult{
		Generation: generation,
		Criteria:   c,
		Filtered:   len(filtered),
		Summary:    ledger.Aggregate(filtered, d.vocab),
		View:       ledger.Sort(ledger.ActiveView(filtered, sel), spec),
		Series:     ledger.Project(filtered),
		HasData:    len(filtered) > 0,
	}
	d.logger.DebugContext(ctx, "Query computed",
		log.FieldOperation, log.OpQuery, log.FieldGeneration, generation,
		log.FieldFiltered, res.Filtered, log.FieldViewSize, len(res.View))
	return res, nil
}

func (d *Dashboard) checkCategories(labels ...string) error {
	for _, l := range labels {
		if d.vocab.Classify(l) == core.ClassNeutral {
			return fmt.Errorf("%w: %q", ErrUnknownCategory, l)
		}
	}
	return nil
}

// recomputeFiltered refreshes the filter-dependent results. Caller holds mu.
func (d *Dashboard) recomputeFiltered() {
	d.filtered = ledger.Filter(d.records, *d.criteria)
	d.summary = ledger.Aggregate(d.filtered, d.vocab)
	d.series = ledger.Project(d.filtered)
}

// recomputeView refreshes the sorted active view. Caller holds mu.
func (d *Dashboard) recomputeView() {
	d.view = ledger.Sort(ledger.ActiveView(d.filtered, d.selection), d.sort)
}

func copySummary(s core.Summary) core.Summary {
	s.ExpenseByCategory = slices.Clone(s.ExpenseByCategory)
	return s
}
