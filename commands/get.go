package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/stanford-ppl/regression-sheets/config"
	"github.com/stanford-ppl/regression-sheets/results"
	"github.com/stanford-ppl/regression-sheets/workbook"
)

var GetCmd = Get{
	command: command{},

	report:    "performance",
	worksheet: "",
	file:      time.Now().Format("2006-01-02T150405.tsv"),
}

type Get struct {
	command
	report      string
	destination string
	worksheet   string
	file        string
}

func (cmd *Get) Name() string {
	return "get"
}

func (cmd *Get) Description() string {
	return "Retrieves a worksheet from a regression spreadsheet and stores it to a local TSV file"
}

func (cmd *Get) Usage() string {
	return "--report <performance|regression> --destination <id> --worksheet <name> --file <file>"
}

func (cmd *Get) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] get [options] --destination <id> --worksheet <name> --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Downloads a worksheet of a branch performance or board regression spreadsheet to a TSV file")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    regression-sheets get --report performance --destination develop --worksheet Runtime --file develop.tsv`)
	fmt.Println(`    regression-sheets get --report regression --destination ZCU --worksheet Runtime`)
	fmt.Println()
}

func (cmd *Get) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("get")

	flagset.StringVar(&cmd.report, "report", cmd.report, "Report spreadsheets: 'performance' (branches) or 'regression' (backends)")
	flagset.StringVar(&cmd.destination, "destination", cmd.destination, "Branch or backend e.g. develop, Zynq")
	flagset.StringVar(&cmd.worksheet, "worksheet", cmd.worksheet, "Worksheet name. Defaults to the header worksheet")
	flagset.StringVar(&cmd.file, "file", cmd.file, "TSV file name. Defaults to '<yyyy-mm-ddTHHmmss>.tsv'")

	return flagset
}

func (cmd *Get) Execute(args ...any) error {
	options := args[0].(*Options)

	cmd.debug = options.Debug

	// ... check parameters
	if strings.TrimSpace(cmd.destination) == "" {
		return fmt.Errorf("--destination is a required option")
	}

	if strings.TrimSpace(cmd.file) == "" {
		return fmt.Errorf("--file is a required option")
	}

	cfg, err := config.Load(options.Config)
	if err != nil {
		return err
	}

	destinations, worksheet, err := lookup(cfg, cmd.report, cmd.worksheet)
	if err != nil {
		return err
	}

	if _, err := results.Lookup(destinations, cmd.destination); err != nil {
		return err
	}

	ctx := context.Background()

	opener, err := cmd.opener(ctx, cfg)
	if err != nil {
		return err
	}

	return cmd.execute(ctx, destinations, worksheet, opener)
}

// lookup returns the destinations for a report and the worksheet, defaulting to the
// header worksheet of the report layout.
func lookup(cfg *config.Config, report string, worksheet string) (map[string]config.Destination, string, error) {
	switch report {
	case "performance":
		if worksheet == "" {
			return cfg.Performance.Destinations, cfg.Performance.Header, nil
		}
		return cfg.Performance.Destinations, worksheet, nil

	case "regression":
		if worksheet == "" {
			return cfg.Regression.Destinations, cfg.Regression.Header, nil
		}
		return cfg.Regression.Destinations, worksheet, nil

	default:
		return nil, "", fmt.Errorf("invalid --report '%v' - expected 'performance' or 'regression'", report)
	}
}

func firstWorksheet(ctx context.Context, wb workbook.Workbook) (string, error) {
	worksheets, err := wb.Worksheets(ctx)
	if err != nil {
		return "", err
	} else if len(worksheets) == 0 {
		return "", fmt.Errorf("%w: '%v' has no worksheets", workbook.ErrWorksheetNotFound, wb.Title())
	}

	return worksheets[0], nil
}

func (cmd *Get) execute(ctx context.Context, destinations map[string]config.Destination, worksheet string, opener workbook.Opener) error {
	wb, err := results.Select(ctx, destinations, cmd.destination, opener)
	if err != nil {
		return err
	}

	defer wb.Close()

	if worksheet == "" {
		if worksheet, err = firstWorksheet(ctx, wb); err != nil {
			return err
		}
	}

	if cmd.debug {
		debugf("spreadsheet:%v  worksheet:%v", wb.Title(), worksheet)
	}

	rows, err := wb.Values(ctx, worksheet)
	if err != nil {
		return err
	}

	dir := filepath.Dir(cmd.file)
	if err := os.MkdirAll(dir, 0770); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".regression-sheets-*.tsv")
	if err != nil {
		return err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := sheetToTSV(tmp, rows); err != nil {
		return fmt.Errorf("error creating TSV file (%v)", err)
	}

	tmp.Close()

	if err := os.Rename(tmp.Name(), cmd.file); err != nil {
		return err
	}

	infof("Retrieved %v!%v to file %s", wb.Title(), worksheet, cmd.file)

	return nil
}
