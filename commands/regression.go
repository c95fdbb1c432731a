package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/stanford-ppl/regression-sheets/config"
	"github.com/stanford-ppl/regression-sheets/results"
	"github.com/stanford-ppl/regression-sheets/workbook"
)

var RegressionCmd = Regression{
	command: command{
		settle: SETTLE,
	},
}

// Regression records a board regression run as a single status cell on the results
// worksheet of the backend's regression spreadsheet.
type Regression struct {
	command
}

type regression struct {
	row      int
	app      string
	timedOut bool
	runtime  string
	passFail string
	args     string
	backend  string
	lock     string
}

func (cmd *Regression) Name() string {
	return "regression"
}

func (cmd *Regression) Description() string {
	return "Records a board regression test result on the backend regression spreadsheet"
}

func (cmd *Regression) Usage() string {
	return "[options] <row> <app> <timeout> <runtime> <pass> <args> <backend> <lock>"
}

func (cmd *Regression) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] regression [options] <row> <app> <timeout> <runtime> <pass> <args> <backend> <lock>\n", APP)
	fmt.Println()
	fmt.Println("  Records the result of a board regression test on the regression spreadsheet for a backend,")
	fmt.Println("  adding a column for the test to every worksheet if necessary.")
	fmt.Println()
	fmt.Println("    row      test row number")
	fmt.Println("    app      application/test name (column header)")
	fmt.Println("    timeout  1 if the test timed out")
	fmt.Println("    runtime  test runtime")
	fmt.Println("    pass     pass/fail result")
	fmt.Println("    args     test arguments, prefixed to the result")
	fmt.Println("    backend  one of the configured backends e.g. Zynq, ZCU, AWS")
	fmt.Println("    lock     0 if the board was not locked, otherwise the lock holder")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    regression-sheets regression 4 DotProduct 0 "3.2s" PASS "640" Zynq 0`)
	fmt.Println()
}

func (cmd *Regression) FlagSet() *flag.FlagSet {
	return cmd.flagset("regression")
}

func (cmd *Regression) Execute(args ...any) error {
	options := args[0].(*Options)

	cmd.debug = options.Debug

	// ... check parameters
	r, err := parseRegression(cmd.args())
	if err != nil {
		return err
	}

	cfg, err := config.Load(options.Config)
	if err != nil {
		return err
	}

	if _, err := results.Lookup(cfg.Regression.Destinations, r.backend); err != nil {
		return err
	}

	ctx := context.Background()

	release, err := cmd.lock(ctx, cfg)
	if err != nil {
		return err
	}

	defer release()

	opener, err := cmd.opener(ctx, cfg)
	if err != nil {
		return err
	}

	return cmd.execute(ctx, cfg, opener, *r)
}

func (cmd *Regression) execute(ctx context.Context, cfg *config.Config, opener workbook.Opener, r regression) error {
	g := cfg.Regression

	wb, err := results.Select(ctx, g.Destinations, r.backend, opener)
	if err != nil {
		return err
	}

	defer wb.Close()

	status := results.Format(r.timedOut, r.lock, r.runtime, r.passFail, r.args)
	l := layout{
		header:    g.Header,
		propagate: g.Propagate,
		columns:   g.Columns,
	}

	if cmd.debug {
		debugf("backend:%v  spreadsheet:%v  row:%v  app:%v", r.backend, wb.Title(), r.row, r.app)
	}

	return cmd.report(ctx, wb, l, r.app, func(column int) []results.Cell {
		return []results.Cell{
			{Worksheet: g.Results, Row: r.row, Column: column, Value: status},
		}
	})
}

func parseRegression(args []string) (*regression, error) {
	if len(args) != 8 {
		return nil, fmt.Errorf("expected 8 arguments (<row> <app> <timeout> <runtime> <pass> <args> <backend> <lock>), got %v", len(args))
	}

	row, err := parseRow(args[0])
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(args[1]) == "" {
		return nil, fmt.Errorf("missing application name")
	}

	return &regression{
		row:      row,
		app:      args[1],
		timedOut: args[2] == "1",
		runtime:  args[3],
		passFail: args[4],
		args:     args[5],
		backend:  args[6],
		lock:     args[7],
	}, nil
}
