package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/stanford-ppl/regression-sheets/config"
	"github.com/stanford-ppl/regression-sheets/results"
	"github.com/stanford-ppl/regression-sheets/workbook"
)

var PutCmd = Put{
	command: command{},

	report:    "performance",
	worksheet: "",
	file:      "",
}

// Put restores a worksheet from a TSV file retrieved with 'get'. Empty TSV fields are
// skipped so that existing cells are not cleared.
type Put struct {
	command
	report      string
	destination string
	worksheet   string
	file        string
}

func (cmd *Put) Name() string {
	return "put"
}

func (cmd *Put) Description() string {
	return "Uploads a TSV file to a worksheet of a regression spreadsheet"
}

func (cmd *Put) Usage() string {
	return "--report <performance|regression> --destination <id> --worksheet <name> --file <file>"
}

func (cmd *Put) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] put [options] --destination <id> --worksheet <name> --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Uploads a TSV file to a worksheet of a branch performance or board regression spreadsheet")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    regression-sheets --debug put --report performance --destination develop --worksheet Runtime --file develop.tsv`)
	fmt.Println()
}

func (cmd *Put) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("put")

	flagset.StringVar(&cmd.report, "report", cmd.report, "Report spreadsheets: 'performance' (branches) or 'regression' (backends)")
	flagset.StringVar(&cmd.destination, "destination", cmd.destination, "Branch or backend e.g. develop, Zynq")
	flagset.StringVar(&cmd.worksheet, "worksheet", cmd.worksheet, "Worksheet name. Defaults to the header worksheet")
	flagset.StringVar(&cmd.file, "file", cmd.file, "TSV file")

	return flagset
}

func (cmd *Put) Execute(args ...any) error {
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

	f, err := os.Open(cmd.file)
	if err != nil {
		return err
	}

	defer f.Close()

	rows, err := tsvToSheet(f)
	if err != nil {
		return fmt.Errorf("invalid TSV file %v (%w)", cmd.file, err)
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

	return cmd.execute(ctx, destinations, worksheet, rows, opener)
}

func (cmd *Put) execute(ctx context.Context, destinations map[string]config.Destination, worksheet string, rows [][]string, opener workbook.Opener) error {
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

	cells := []results.Cell{}
	for r, row := range rows {
		for c, v := range row {
			if v != "" {
				cells = append(cells, results.Cell{Worksheet: worksheet, Row: r + 1, Column: c + 1, Value: v})
			}
		}
	}

	writer := results.Writer{Workbook: wb}

	if cmd.dryrun {
		for _, c := range cells {
			infof("dryrun  %v", c)
		}

		return nil
	}

	if err := writer.Write(ctx, cells...); err != nil {
		return err
	}

	infof("Uploaded TSV file %v to %v!%v", cmd.file, wb.Title(), worksheet)

	return nil
}
