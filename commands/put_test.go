package commands

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/stanford-ppl/regression-sheets/config"
	"github.com/stanford-ppl/regression-sheets/workbook"
)

func TestPut(t *testing.T) {
	expected := []workbook.Update{
		{Worksheet: "Timestamps", Row: 1, Column: 1, Value: "Test"},
		{Worksheet: "Timestamps", Row: 1, Column: 2, Value: "DotProduct"},
		{Worksheet: "Timestamps", Row: 2, Column: 1, Value: "1"},
		{Worksheet: "Timestamps", Row: 3, Column: 2, Value: "2025-01-03 04:00:00"},
	}

	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("%v", err)
	}

	wb := workbook.NewMemory("develop Performance", "Timestamps", "Runtime", "STATUS")
	opener := workbook.MemoryOpener{
		ByKey: map[string]*workbook.Memory{DEVELOP: wb},
	}

	rows := [][]string{
		{"Test", "DotProduct"},
		{"1", ""},
		{"", "2025-01-03 04:00:00"},
	}

	cmd := Put{report: "performance", destination: "develop"}

	destinations, worksheet, err := lookup(cfg, cmd.report, cmd.worksheet)
	if err != nil {
		t.Fatalf("%v", err)
	}

	if err := cmd.execute(context.Background(), destinations, worksheet, rows, &opener); err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	if !reflect.DeepEqual(wb.Updates, expected) {
		t.Errorf("Incorrect updates\n   expected:%v\n   got:     %v", expected, wb.Updates)
	}
}

func TestPutDryRun(t *testing.T) {
	wb := workbook.NewMemory("Zynq Regression", "Summary", "Runtime")
	opener := workbook.MemoryOpener{
		ByKey: map[string]*workbook.Memory{ZYNQ: wb},
	}

	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("%v", err)
	}

	cmd := Put{command: command{dryrun: true}, report: "regression", destination: "Zynq"}
	rows := [][]string{{"Test", "DotProduct"}}

	if err := cmd.execute(context.Background(), cfg.Regression.Destinations, "", rows, &opener); err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	if len(wb.Updates) != 0 {
		t.Errorf("Expected no updates for --dryrun, got %v", wb.Updates)
	}
}

func TestGetThenPutPreservesMultiLineCells(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("%v", err)
	}

	rows := [][]string{
		{"Test", "DotProduct", "GEMM"},
		{"4", "run1\n5s\nPASS", "run2\nTimed Out!\nFAILED"},
	}

	var tsv strings.Builder
	if err := sheetToTSV(&tsv, rows); err != nil {
		t.Fatalf("%v", err)
	}

	restored, err := tsvToSheet(strings.NewReader(tsv.String()))
	if err != nil {
		t.Fatalf("%v", err)
	}

	wb := regressionWorkbook(t, "Zynq Regression")
	opener := workbook.MemoryOpener{
		ByKey: map[string]*workbook.Memory{ZYNQ: wb},
	}

	cmd := Put{report: "regression", destination: "Zynq"}
	if err := cmd.execute(context.Background(), cfg.Regression.Destinations, "Runtime", restored, &opener); err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	for _, v := range []struct {
		column   int
		expected string
	}{
		{2, "run1\n5s\nPASS"},
		{3, "run2\nTimed Out!\nFAILED"},
	} {
		if got := wb.Get("Runtime", 2, v.column); got != v.expected {
			t.Errorf("Incorrect cell (2,%v) - expected:%q, got:%q", v.column, v.expected, got)
		}
	}
}
