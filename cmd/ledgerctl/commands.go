package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ledgerdash/internal/amqp"
	"ledgerdash/internal/core"
	"ledgerdash/internal/ledger"
	"ledgerdash/internal/log"
	"ledgerdash/internal/services"
	"ledgerdash/internal/sheets"
	"ledgerdash/internal/sheets/memory"
	"ledgerdash/internal/storage"
)

// Bounds used when --start or --end is omitted
const (
	earliest = "0001-01-01"
	latest   = "9999-12-31T23:59"
)

var errNoSource = errors.New("one of --csv or --sqlite is required")

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print profit, spread, volume and income figures for the filtered period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.query(cmd.Context())
			if err != nil {
				return err
			}
			renderSummary(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func newViewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "List the filtered records of the active categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.query(cmd.Context())
			if err != nil {
				return err
			}
			renderView(cmd.OutOrStdout(), res.View, a.env.Vocabulary, a.env.Location)
			return nil
		},
	}
}

func newSeriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "series",
		Short: "Print the profit time series of the filtered records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.query(cmd.Context())
			if err != nil {
				return err
			}
			renderSeries(cmd.OutOrStdout(), res.Series, a.env.Location)
			return nil
		},
	}
}

func newTeamsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "List teams and their employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dash, closeFn, err := a.loadDashboard(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			renderTeams(cmd.OutOrStdout(), dash.Index())
			return nil
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Load a CSV ledger into the SQLite database and announce the change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.opts.csvPath == "" || a.opts.sqlitePath == "" {
				return errors.New("import needs both --csv and --sqlite")
			}
			return a.importCSV(cmd.Context(), cmd)
		},
	}
}

// loadDashboard ingests the selected source into a fresh dashboard
func (a *app) loadDashboard(ctx context.Context) (*services.Dashboard, func(), error) {
	source, closeFn, err := a.openSource()
	if err != nil {
		return nil, nil, err
	}
	dash := services.NewDashboard(source, services.DashboardConfig{
		Vocabulary: a.env.Vocabulary,
		Location:   a.env.Location,
		Logger:     a.logger,
	})
	if _, err := dash.Reload(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}
	return dash, closeFn, nil
}

func (a *app) openSource() (sheets.RecordSource, func(), error) {
	switch {
	case a.opts.csvPath != "" && a.opts.sqlitePath != "":
		return nil, nil, errors.New("--csv and --sqlite are mutually exclusive")
	case a.opts.csvPath != "":
		records, err := a.readCSV()
		if err != nil {
			return nil, nil, err
		}
		return memory.New(records...), func() {}, nil
	case a.opts.sqlitePath != "":
		repo, err := storage.NewSQLiteRepository(a.opts.sqlitePath)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {
			if err := repo.Close(); err != nil {
				a.logger.Warn("Failed to close database", log.FieldError, err)
			}
		}, nil
	default:
		return nil, nil, errNoSource
	}
}

func (a *app) readCSV() ([]core.Record, error) {
	f, err := os.Open(a.opts.csvPath)
	if err != nil {
		return nil, fmt.Errorf("open ledger file: %w", err)
	}
	defer f.Close()

	records, err := memory.ParseCSV(f, core.DefaultColumnMap(), a.env.Location)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", a.opts.csvPath, err)
	}
	return records, nil
}

// query runs the flag-described query against the selected source
func (a *app) query(ctx context.Context) (services.QueryResult, error) {
	q, err := a.opts.toQuery()
	if err != nil {
		return services.QueryResult{}, err
	}
	dash, closeFn, err := a.loadDashboard(ctx)
	if err != nil {
		return services.QueryResult{}, err
	}
	defer closeFn()
	return dash.Query(ctx, q)
}

func (o options) toQuery() (services.Query, error) {
	q := services.Query{
		Start:         o.start,
		End:           o.end,
		Team:          o.team,
		Employee:      o.employee,
		Categories:    o.categories,
		AllCategories: o.allCategories,
	}
	if q.Start == "" {
		q.Start = earliest
	}
	if q.End == "" {
		q.End = latest
	}
	if q.Team == "" {
		q.Team = ledger.AllTeams
	}
	if q.Employee == "" {
		q.Employee = ledger.AnyEmployee
	}
	if o.sortColumn != "" {
		col, err := ledger.ParseColumn(o.sortColumn)
		if err != nil {
			return services.Query{}, err
		}
		q.Sort = ledger.SortSpec{Column: col, Direction: ledger.Ascending}
		if o.desc {
			q.Sort.Direction = ledger.Descending
		}
	}
	return q, nil
}

func (a *app) importCSV(ctx context.Context, cmd *cobra.Command) error {
	records, err := a.readCSV()
	if err != nil {
		return err
	}

	repo, err := storage.NewSQLiteRepository(a.opts.sqlitePath)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.ReplaceRecords(ctx, records); err != nil {
		return fmt.Errorf("import records: %w", err)
	}
	a.logger.Info("Ledger imported",
		log.FieldOperation, log.OpImport,
		log.FieldRecords, len(records),
		"db_path", a.opts.sqlitePath)
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d records into %s\n", len(records), a.opts.sqlitePath)

	cfg := a.env.Config
	if cfg.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("connect to AMQP: %w", err)
	}
	defer client.Close()

	if err := client.PublishLedgerChanged(ctx, a.opts.csvPath, len(records)); err != nil {
		return fmt.Errorf("notify ledger change: %w", err)
	}
	a.logger.Info("Ledger change announced", log.FieldOperation, log.OpNotify, "queue", cfg.AMQPQueue)
	return nil
}
