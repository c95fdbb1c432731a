package commands

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stanford-ppl/regression-sheets/config"
	"github.com/stanford-ppl/regression-sheets/results"
	"github.com/stanford-ppl/regression-sheets/workbook"
)

const DEVELOP = "13GW9IDtg0EFLYEERnAVMq4cGM7EKg2NXF4VsQrUp0iw"

func performanceWorkbook(t *testing.T) *workbook.Memory {
	wb := workbook.NewMemory("develop Performance", "Timestamps", "Runtime", "STATUS")

	for i, v := range []string{"Test", "Date", "Build", "DotProduct"} {
		if err := wb.Set("Timestamps", 1, i+1, v); err != nil {
			t.Fatalf("error initialising test workbook (%v)", err)
		}
	}

	if err := wb.Set("Runtime", 1, 1, "DotProduct"); err != nil {
		t.Fatalf("error initialising test workbook (%v)", err)
	}

	return wb
}

func performanceCmd() *Performance {
	return &Performance{
		now:      func() time.Time { return time.Date(2025, time.March, 14, 9, 26, 53, 0, time.Local) },
		hostname: func() (string, error) { return "tucson", nil },
	}
}

func TestPerformanceWithNewApp(t *testing.T) {
	expected := []workbook.Update{
		{Worksheet: "Timestamps", Row: 1, Column: 5, Value: "GEMM"},
		{Worksheet: "Runtime", Row: 1, Column: 3, Value: "GEMM"},
		{Worksheet: "Timestamps", Row: 3, Column: 5, Value: "2025-03-14 09:26:53"},
		{Worksheet: "Runtime", Row: 3, Column: 3, Value: "12.4s"},
		{Worksheet: "Runtime", Row: 3, Column: 4, Value: "1024"},
		{Worksheet: "STATUS", Row: 22, Column: 3, Value: "2025-03-14 09:26:53"},
		{Worksheet: "STATUS", Row: 22, Column: 4, Value: "tucson"},
	}

	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("%v", err)
	}

	wb := performanceWorkbook(t)
	opener := workbook.MemoryOpener{
		ByKey: map[string]*workbook.Memory{DEVELOP: wb},
	}

	r := performance{branch: "develop", row: 3, app: "GEMM", result: "1024", runtime: "12.4s"}

	if err := performanceCmd().execute(context.Background(), cfg, &opener, r); err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	if !reflect.DeepEqual(wb.Updates, expected) {
		t.Errorf("Incorrect updates\n   expected:%v\n   got:     %v", expected, wb.Updates)
	}

	if !reflect.DeepEqual(opener.Opened, []string{"key:" + DEVELOP}) {
		t.Errorf("Incorrect spreadsheet - expected:%v, got:%v", []string{"key:" + DEVELOP}, opener.Opened)
	}
}

func TestPerformanceWithExistingApp(t *testing.T) {
	expected := []workbook.Update{
		{Worksheet: "Timestamps", Row: 2, Column: 4, Value: "2025-03-14 09:26:53"},
		{Worksheet: "Runtime", Row: 2, Column: 1, Value: "3.2s"},
		{Worksheet: "Runtime", Row: 2, Column: 2, Value: "PASS"},
		{Worksheet: "STATUS", Row: 22, Column: 3, Value: "2025-03-14 09:26:53"},
		{Worksheet: "STATUS", Row: 22, Column: 4, Value: "tucson"},
	}

	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("%v", err)
	}

	wb := performanceWorkbook(t)
	opener := workbook.MemoryOpener{
		ByKey: map[string]*workbook.Memory{DEVELOP: wb},
	}

	r := performance{branch: "develop", row: 2, app: "DotProduct", result: "PASS", runtime: "3.2s"}

	if err := performanceCmd().execute(context.Background(), cfg, &opener, r); err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	if !reflect.DeepEqual(wb.Updates, expected) {
		t.Errorf("Incorrect updates\n   expected:%v\n   got:     %v", expected, wb.Updates)
	}
}

func TestPerformanceWithUnknownBranch(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("%v", err)
	}

	opener := workbook.MemoryOpener{}
	r := performance{branch: "feature", row: 2, app: "DotProduct", result: "PASS", runtime: "3.2s"}

	err = performanceCmd().execute(context.Background(), cfg, &opener, r)
	if !errors.Is(err, results.ErrUnknownDestination) {
		t.Errorf("Expected ErrUnknownDestination, got %v", err)
	}

	if len(opener.Opened) != 0 {
		t.Errorf("Expected no spreadsheet lookups, got %v", opener.Opened)
	}
}

func TestPerformanceWithoutHostname(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("%v", err)
	}

	wb := performanceWorkbook(t)
	opener := workbook.MemoryOpener{
		ByKey: map[string]*workbook.Memory{DEVELOP: wb},
	}

	cmd := performanceCmd()
	cmd.hostname = func() (string, error) { return "", errors.New("qwerty") }

	r := performance{branch: "develop", row: 2, app: "DotProduct", result: "PASS", runtime: "3.2s"}

	if err := cmd.execute(context.Background(), cfg, &opener, r); err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	if v := wb.Get("STATUS", 22, 3); v != "2025-03-14 09:26:53" {
		t.Errorf("Incorrect STATUS timestamp - expected:%q, got:%q", "2025-03-14 09:26:53", v)
	}
}

func TestPerformanceDryRun(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("%v", err)
	}

	wb := performanceWorkbook(t)
	opener := workbook.MemoryOpener{
		ByKey: map[string]*workbook.Memory{DEVELOP: wb},
	}

	cmd := performanceCmd()
	cmd.dryrun = true

	r := performance{branch: "develop", row: 3, app: "GEMM", result: "1024", runtime: "12.4s"}

	if err := cmd.execute(context.Background(), cfg, &opener, r); err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	if len(wb.Updates) != 0 {
		t.Errorf("Expected no updates for --dryrun, got %v", wb.Updates)
	}
}

func TestPerformanceWithRemoteFailure(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("%v", err)
	}

	wb := performanceWorkbook(t)
	wb.Fail = errors.New("quota exceeded")

	opener := workbook.MemoryOpener{
		ByKey: map[string]*workbook.Memory{DEVELOP: wb},
	}

	r := performance{branch: "develop", row: 2, app: "DotProduct", result: "PASS", runtime: "3.2s"}

	err = performanceCmd().execute(context.Background(), cfg, &opener, r)
	if !errors.Is(err, results.ErrRemoteWrite) {
		t.Errorf("Expected ErrRemoteWrite, got %v", err)
	}
}

func TestParsePerformance(t *testing.T) {
	expected := performance{
		branch:  "master",
		row:     7,
		app:     "GEMM",
		result:  "PASS",
		runtime: "318s",
	}

	r, err := parsePerformance([]string{"master", "7", "GEMM", "PASS", "318s"})
	if err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	if !reflect.DeepEqual(*r, expected) {
		t.Errorf("Incorrect arguments\n   expected:%+v\n   got:     %+v", expected, *r)
	}
}

func TestParsePerformanceWithInvalidArgs(t *testing.T) {
	tests := [][]string{
		{"master", "7", "GEMM", "PASS"},
		{"master", "7", "GEMM", "PASS", "318s", "extra"},
		{"master", "seven", "GEMM", "PASS", "318s"},
		{"master", "0", "GEMM", "PASS", "318s"},
		{"master", "-1", "GEMM", "PASS", "318s"},
		{"master", "7", " ", "PASS", "318s"},
	}

	for _, args := range tests {
		if _, err := parsePerformance(args); err == nil {
			t.Errorf("Expected error for %q", args)
		}
	}
}
