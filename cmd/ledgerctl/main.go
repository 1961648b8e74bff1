package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"ledgerdash/internal/cli"
	"ledgerdash/internal/config"
	"ledgerdash/internal/log"
)

// options are the flags shared by every subcommand
type options struct {
	csvPath    string
	sqlitePath string
	logLevel   string

	start         string
	end           string
	team          string
	employee      string
	categories    []string
	allCategories bool
	sortColumn    string
	desc          bool
}

// app is built once per invocation in PersistentPreRunE
type app struct {
	opts   options
	env    *cli.Environment
	logger *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Query and import team ledgers from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cli.LoadEnvFile()
			cfg := config.Load()
			level := a.opts.logLevel
			if level == "" {
				level = cfg.LogLevel
			}
			a.logger = cli.NewConsoleLogger(cmd.ErrOrStderr(), level)

			env, err := cli.LoadEnvironment(cfg)
			if err != nil {
				return err
			}
			a.env = env
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.opts.csvPath, "csv", "", "Ledger CSV file")
	flags.StringVar(&a.opts.sqlitePath, "sqlite", "", "Ledger SQLite database")
	flags.StringVar(&a.opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to LOG_LEVEL")
	flags.StringVar(&a.opts.start, "start", "", "Start of the period (YYYY-MM-DD or YYYY-MM-DDTHH:MM), inclusive")
	flags.StringVar(&a.opts.end, "end", "", "End of the period, inclusive")
	flags.StringVar(&a.opts.team, "team", "", "Team name (default: all teams)")
	flags.StringVar(&a.opts.employee, "employee", "", "Employee name (default: any employee)")
	// StringArray, not StringSlice: category labels may contain commas
	flags.StringArrayVar(&a.opts.categories, "category", nil, "Active category; repeat for more")
	flags.BoolVar(&a.opts.allCategories, "all-categories", false, "Activate every known category")
	flags.StringVar(&a.opts.sortColumn, "sort", "", "Sort column (timestamp, team, employee, operation, amount, profit, spread, volume)")
	flags.BoolVar(&a.opts.desc, "desc", false, "Sort descending")

	root.AddCommand(
		newSummaryCmd(a),
		newViewCmd(a),
		newSeriesCmd(a),
		newTeamsCmd(a),
		newImportCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
