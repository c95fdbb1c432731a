package commands

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stanford-ppl/regression-sheets/config"
	"github.com/stanford-ppl/regression-sheets/results"
	"github.com/stanford-ppl/regression-sheets/workbook"
)

var PerformanceCmd = Performance{
	command: command{
		settle: SETTLE,
	},

	now:      time.Now,
	hostname: nodename,
}

// Performance records a branch regression run on the branch's performance spreadsheet:
// the timestamp on the Timestamps worksheet, the runtime and result on the Runtime
// worksheet and the time and host of the last report on the STATUS worksheet.
type Performance struct {
	command
	now      func() time.Time
	hostname func() (string, error)
}

type performance struct {
	branch  string
	row     int
	app     string
	result  string
	runtime string
}

func (cmd *Performance) Name() string {
	return "performance"
}

func (cmd *Performance) Description() string {
	return "Records a branch regression test result on the branch performance spreadsheet"
}

func (cmd *Performance) Usage() string {
	return "[options] <branch> <row> <app> <pass|cycles> <runtime>"
}

func (cmd *Performance) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] performance [options] <branch> <row> <app> <pass|cycles> <runtime>\n", APP)
	fmt.Println()
	fmt.Println("  Records the timestamp, runtime and pass/fail (or cycle count) of a regression test on")
	fmt.Println("  the performance spreadsheet for a branch, adding a column for the test if necessary.")
	fmt.Println()
	fmt.Println("    branch       one of the configured branches e.g. fpga, develop, retime, syncMem, pre-master, master")
	fmt.Println("    row          test row number")
	fmt.Println("    app          application/test name (column header)")
	fmt.Println("    pass|cycles  pass/fail result or cycle count")
	fmt.Println("    runtime      test runtime")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    regression-sheets performance develop 12 DotProduct 1024 "12.4s"`)
	fmt.Println(`    regression-sheets --debug performance --dryrun --xlsx ./sheets master 7 GEMM PASS "318s"`)
	fmt.Println()
}

func (cmd *Performance) FlagSet() *flag.FlagSet {
	return cmd.flagset("performance")
}

func (cmd *Performance) Execute(args ...any) error {
	options := args[0].(*Options)

	cmd.debug = options.Debug

	// ... check parameters
	r, err := parsePerformance(cmd.args())
	if err != nil {
		return err
	}

	cfg, err := config.Load(options.Config)
	if err != nil {
		return err
	}

	if _, err := results.Lookup(cfg.Performance.Destinations, r.branch); err != nil {
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

func (cmd *Performance) execute(ctx context.Context, cfg *config.Config, opener workbook.Opener, r performance) error {
	p := cfg.Performance

	wb, err := results.Select(ctx, p.Destinations, r.branch, opener)
	if err != nil {
		return err
	}

	defer wb.Close()

	host, err := cmd.hostname()
	if err != nil {
		warnf("unable to determine host name (%v)", err)
	}

	timestamp := cmd.now().Format("2006-01-02 15:04:05")
	l := layout{
		header:    p.Header,
		propagate: p.Propagate,
		columns:   p.Columns,
	}

	if cmd.debug {
		debugf("branch:%v  spreadsheet:%v  row:%v  app:%v", r.branch, wb.Title(), r.row, r.app)
	}

	return cmd.report(ctx, wb, l, r.app, func(column int) []results.Cell {
		return []results.Cell{
			{Worksheet: p.Header, Row: r.row, Column: column, Value: timestamp},
			{Worksheet: p.Runtime, Row: r.row, Column: column, Value: r.runtime},
			{Worksheet: p.Runtime, Row: r.row, Column: column, Offset: 1, Value: r.result},
			{Worksheet: p.Status.Worksheet, Row: p.Status.Row, Column: p.Status.Column, Value: timestamp},
			{Worksheet: p.Status.Worksheet, Row: p.Status.Row, Column: p.Status.Column, Offset: 1, Value: host},
		}
	})
}

func parsePerformance(args []string) (*performance, error) {
	if len(args) != 5 {
		return nil, fmt.Errorf("expected 5 arguments (<branch> <row> <app> <pass|cycles> <runtime>), got %v", len(args))
	}

	row, err := parseRow(args[1])
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(args[2]) == "" {
		return nil, fmt.Errorf("missing application name")
	}

	return &performance{
		branch:  args[0],
		row:     row,
		app:     args[2],
		result:  args[3],
		runtime: args[4],
	}, nil
}

func parseRow(v string) (int, error) {
	row, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid test row '%v' (%w)", v, err)
	} else if row < 1 {
		return 0, fmt.Errorf("invalid test row '%v'", v)
	}

	return row, nil
}
