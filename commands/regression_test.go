package commands

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stanford-ppl/regression-sheets/config"
	"github.com/stanford-ppl/regression-sheets/results"
	"github.com/stanford-ppl/regression-sheets/workbook"
)

const ZYNQ = "1jZxVO8VFODR8_nEGBHfcmfeIJ3vo__LCPdjt4osb3aE"

func regressionWorkbook(t *testing.T, name string) *workbook.Memory {
	wb := workbook.NewMemory(name, "Summary", "Runtime", "Notes")

	for _, ws := range []string{"Summary", "Runtime", "Notes"} {
		for i, v := range []string{"Test", "DotProduct"} {
			if err := wb.Set(ws, 1, i+1, v); err != nil {
				t.Fatalf("error initialising test workbook (%v)", err)
			}
		}
	}

	return wb
}

func TestRegressionWithNewApp(t *testing.T) {
	expected := []workbook.Update{
		{Worksheet: "Summary", Row: 1, Column: 3, Value: "GEMM"},
		{Worksheet: "Runtime", Row: 1, Column: 3, Value: "GEMM"},
		{Worksheet: "Notes", Row: 1, Column: 3, Value: "GEMM"},
		{Worksheet: "Runtime", Row: 4, Column: 3, Value: "640\n3.2s\nPASS"},
	}

	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("%v", err)
	}

	wb := regressionWorkbook(t, "Zynq Regression")
	opener := workbook.MemoryOpener{
		ByKey: map[string]*workbook.Memory{ZYNQ: wb},
	}

	r := regression{row: 4, app: "GEMM", runtime: "3.2s", passFail: "PASS", args: "640", backend: "Zynq", lock: "0"}

	if err := (&Regression{}).execute(context.Background(), cfg, &opener, r); err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	if !reflect.DeepEqual(wb.Updates, expected) {
		t.Errorf("Incorrect updates\n   expected:%q\n   got:     %q", expected, wb.Updates)
	}
}

func TestRegressionWithExistingApp(t *testing.T) {
	expected := []workbook.Update{
		{Worksheet: "Runtime", Row: 5, Column: 2, Value: "640\nTimed Out!\nFAILED"},
	}

	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("%v", err)
	}

	wb := regressionWorkbook(t, "Zynq Regression")
	opener := workbook.MemoryOpener{
		ByKey: map[string]*workbook.Memory{ZYNQ: wb},
	}

	r := regression{row: 5, app: "DotProduct", timedOut: true, runtime: "3.2s", passFail: "PASS", args: "640", backend: "Zynq", lock: "0"}

	if err := (&Regression{}).execute(context.Background(), cfg, &opener, r); err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	if !reflect.DeepEqual(wb.Updates, expected) {
		t.Errorf("Incorrect updates\n   expected:%q\n   got:     %q", expected, wb.Updates)
	}
}

func TestRegressionOpensByName(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("%v", err)
	}

	wb := regressionWorkbook(t, "ZCU Regression")
	opener := workbook.MemoryOpener{
		ByName: map[string]*workbook.Memory{"ZCU Regression": wb},
	}

	r := regression{row: 2, app: "DotProduct", runtime: "1.5s", passFail: "PASS", args: "64", backend: "ZCU", lock: "hamster"}

	if err := (&Regression{}).execute(context.Background(), cfg, &opener, r); err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	if !reflect.DeepEqual(opener.Opened, []string{"name:ZCU Regression"}) {
		t.Errorf("Incorrect spreadsheet - expected:%v, got:%v", []string{"name:ZCU Regression"}, opener.Opened)
	}

	if v := wb.Get("Runtime", 2, 2); v != "64\nhamster\nUnknown?" {
		t.Errorf("Incorrect result - expected:%q, got:%q", "64\nhamster\nUnknown?", v)
	}
}

func TestRegressionWithUnknownBackend(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("%v", err)
	}

	opener := workbook.MemoryOpener{}
	r := regression{row: 2, app: "DotProduct", backend: "VCU", lock: "0"}

	err = (&Regression{}).execute(context.Background(), cfg, &opener, r)
	if !errors.Is(err, results.ErrUnknownDestination) {
		t.Errorf("Expected ErrUnknownDestination, got %v", err)
	}

	if len(opener.Opened) != 0 {
		t.Errorf("Expected no spreadsheet lookups, got %v", opener.Opened)
	}
}

func TestParseRegression(t *testing.T) {
	expected := regression{
		row:      4,
		app:      "DotProduct",
		timedOut: true,
		runtime:  "3.2s",
		passFail: "PASS",
		args:     "640",
		backend:  "Zynq",
		lock:     "0",
	}

	r, err := parseRegression([]string{"4", "DotProduct", "1", "3.2s", "PASS", "640", "Zynq", "0"})
	if err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	if !reflect.DeepEqual(*r, expected) {
		t.Errorf("Incorrect arguments\n   expected:%+v\n   got:     %+v", expected, *r)
	}
}

func TestParseRegressionTimeout(t *testing.T) {
	for _, v := range []string{"0", "true", "", "01"} {
		r, err := parseRegression([]string{"4", "DotProduct", v, "3.2s", "PASS", "640", "Zynq", "0"})
		if err != nil {
			t.Fatalf("Unexpected error (%v)", err)
		}

		if r.timedOut {
			t.Errorf("Expected timeout flag %q to be false", v)
		}
	}
}

func TestParseRegressionWithInvalidArgs(t *testing.T) {
	tests := [][]string{
		{"4", "DotProduct", "0", "3.2s", "PASS", "640", "Zynq"},
		{"x", "DotProduct", "0", "3.2s", "PASS", "640", "Zynq", "0"},
		{"4", "", "0", "3.2s", "PASS", "640", "Zynq", "0"},
	}

	for _, args := range tests {
		if _, err := parseRegression(args); err == nil {
			t.Errorf("Expected error for %q", args)
		}
	}
}
