package results

import (
	"context"
	"fmt"

	"github.com/stanford-ppl/regression-sheets/config"
	"github.com/stanford-ppl/regression-sheets/workbook"
)

// Cell is a value to be written at a logical (header) column. Offset selects a column
// within the block of physical columns a worksheet dedicates to each test.
type Cell struct {
	Worksheet string
	Row       int
	Column    int
	Offset    int
	Value     string
}

// Writer writes cells to a workbook, mapping logical columns to physical columns with
// the per-worksheet transforms. Each write is an independent remote update: a failure
// leaves earlier writes in place and abandons the rest.
type Writer struct {
	Workbook   workbook.Workbook
	Transforms map[string]config.Transform
}

func (c Cell) String() string {
	return fmt.Sprintf("%v!(%v,%v) %q", c.Worksheet, c.Row, c.Column, c.Value)
}

// Physical returns the cell with the worksheet transform and offset applied.
func (w *Writer) Physical(c Cell) (Cell, error) {
	column := c.Column
	if t, ok := w.Transforms[c.Worksheet]; ok {
		column = t.Apply(c.Column)
	}

	p := Cell{
		Worksheet: c.Worksheet,
		Row:       c.Row,
		Column:    column + c.Offset,
		Value:     c.Value,
	}

	if p.Row < 1 || p.Column < 1 {
		return p, fmt.Errorf("%w: column %v maps to %v", ErrInvalidCell, c.Column, p)
	}

	return p, nil
}

// Plan maps every cell to its physical location, failing if any of them is invalid.
func (w *Writer) Plan(cells ...Cell) ([]Cell, error) {
	list := []Cell{}
	for _, c := range cells {
		p, err := w.Physical(c)
		if err != nil {
			return nil, err
		}

		list = append(list, p)
	}

	return list, nil
}

// Apply writes physical cells in order and stops at the first failure.
func (w *Writer) Apply(ctx context.Context, cells ...Cell) error {
	for _, c := range cells {
		if err := w.Workbook.Update(ctx, c.Worksheet, c.Row, c.Column, c.Value); err != nil {
			return fmt.Errorf("%w: %v (%w)", ErrRemoteWrite, c, err)
		}
	}

	return nil
}

// Write plans and then applies the cells, so that an invalid cell aborts before any
// update is made.
func (w *Writer) Write(ctx context.Context, cells ...Cell) error {
	list, err := w.Plan(cells...)
	if err != nil {
		return err
	}

	return w.Apply(ctx, list...)
}
