package results

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/stanford-ppl/regression-sheets/workbook"
)

const DEFAULT_RETRIES = 3

// Allocator finds the column for a test label, appending the label to the header row
// if it is not already present.
//
// Allocation is a compare-and-append: the label is written to the next free column of
// the header worksheet, the header is re-read after a settling delay and the allocation
// only stands if the label is still there. Otherwise a concurrent writer claimed the
// column and the allocation is retried against the fresh header. A new label is then
// propagated to the remaining tracked worksheets before any value is written.
type Allocator struct {
	Writer    *Writer
	Header    string        // worksheet with the authoritative header row, "" for the first worksheet
	Propagate []string      // worksheets that receive new labels, empty for every worksheet
	Retries   int           // allocation attempts, DEFAULT_RETRIES if zero
	Settle    time.Duration // delay before verifying an appended label
}

type Allocation struct {
	Column     int
	New        bool
	Header     string
	Propagated []string
}

// ResolveColumn returns the 1-based position of the first header cell equal to label.
// If the label is not in the header it returns the next free column and true.
func ResolveColumn(header []string, label string) (int, bool) {
	if ix := slices.Index(header, label); ix >= 0 {
		return ix + 1, false
	}

	return len(header) + 1, true
}

func (a *Allocator) Allocate(ctx context.Context, label string) (*Allocation, error) {
	wb := a.Writer.Workbook

	worksheets, sheet, err := a.worksheets(ctx)
	if err != nil {
		return nil, err
	}

	retries := a.Retries
	if retries <= 0 {
		retries = DEFAULT_RETRIES
	}

	for attempt := 1; attempt <= retries; attempt++ {
		header, err := workbook.Header(ctx, wb, sheet)
		if err != nil {
			return nil, err
		}

		column, isNew := ResolveColumn(header, label)
		if !isNew {
			return &Allocation{Column: column, Header: sheet}, nil
		}

		propagated, cells, err := a.plan(worksheets, sheet, column, label)
		if err != nil {
			return nil, err
		}

		if err := a.Writer.Apply(ctx, Cell{Worksheet: sheet, Row: 1, Column: column, Value: label}); err != nil {
			return nil, err
		}

		if err := wait(ctx, a.Settle); err != nil {
			return nil, err
		}

		header, err = workbook.Header(ctx, wb, sheet)
		if err != nil {
			return nil, err
		}

		if c, missing := ResolveColumn(header, label); missing {
			continue
		} else if c != column {
			// ... label was allocated concurrently at an earlier column
			if err := a.Writer.Apply(ctx, Cell{Worksheet: sheet, Row: 1, Column: column, Value: ""}); err != nil {
				return nil, err
			}

			return &Allocation{Column: c, Header: sheet}, nil
		}

		if err := a.Writer.Apply(ctx, cells...); err != nil {
			return nil, err
		}

		return &Allocation{
			Column:     column,
			New:        true,
			Header:     sheet,
			Propagated: propagated,
		}, nil
	}

	return nil, fmt.Errorf("%w: '%v' not allocated after %v attempts", ErrColumnConflict, label, retries)
}

// Preview resolves the column for a label without changing the workbook, returning the
// header cells that Allocate would write for a new label.
func (a *Allocator) Preview(ctx context.Context, label string) (*Allocation, []Cell, error) {
	worksheets, sheet, err := a.worksheets(ctx)
	if err != nil {
		return nil, nil, err
	}

	header, err := workbook.Header(ctx, a.Writer.Workbook, sheet)
	if err != nil {
		return nil, nil, err
	}

	column, isNew := ResolveColumn(header, label)
	if !isNew {
		return &Allocation{Column: column, Header: sheet}, []Cell{}, nil
	}

	propagated, cells, err := a.plan(worksheets, sheet, column, label)
	if err != nil {
		return nil, nil, err
	}

	allocation := Allocation{
		Column:     column,
		New:        true,
		Header:     sheet,
		Propagated: propagated,
	}

	return &allocation, append([]Cell{{Worksheet: sheet, Row: 1, Column: column, Value: label}}, cells...), nil
}

func (a *Allocator) worksheets(ctx context.Context) ([]string, string, error) {
	wb := a.Writer.Workbook

	worksheets, err := wb.Worksheets(ctx)
	if err != nil {
		return nil, "", err
	}

	if a.Header != "" {
		return worksheets, a.Header, nil
	} else if len(worksheets) == 0 {
		return nil, "", fmt.Errorf("%w: '%v' has no worksheets", workbook.ErrWorksheetNotFound, wb.Title())
	}

	return worksheets, worksheets[0], nil
}

// plan returns the header cells for a new label on every tracked worksheet other than
// the header worksheet.
func (a *Allocator) plan(worksheets []string, header string, column int, label string) ([]string, []Cell, error) {
	targets := a.Propagate
	if len(targets) == 0 {
		targets = worksheets
	}

	propagated := []string{}
	cells := []Cell{}
	for _, ws := range targets {
		if ws != header {
			propagated = append(propagated, ws)
			cells = append(cells, Cell{Worksheet: ws, Row: 1, Column: column, Value: label})
		}
	}

	list, err := a.Writer.Plan(cells...)
	if err != nil {
		return nil, nil, err
	}

	return propagated, list, nil
}

func wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
