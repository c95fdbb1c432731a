package commands

import (
	"context"

	"github.com/stanford-ppl/regression-sheets/config"
	"github.com/stanford-ppl/regression-sheets/results"
	"github.com/stanford-ppl/regression-sheets/workbook"
)

type layout struct {
	header    string
	propagate []string
	columns   map[string]config.Transform
}

// report resolves (or allocates) the column for the label and then writes the value
// cells for that column. With --dryrun the planned cells are logged and nothing is
// written.
func (cmd *command) report(ctx context.Context, wb workbook.Workbook, l layout, label string, cells func(column int) []results.Cell) error {
	writer := results.Writer{
		Workbook:   wb,
		Transforms: l.columns,
	}

	allocator := results.Allocator{
		Writer:    &writer,
		Header:    l.header,
		Propagate: l.propagate,
		Settle:    cmd.settle,
	}

	if cmd.dryrun {
		allocation, header, err := allocator.Preview(ctx, label)
		if err != nil {
			return err
		}

		values, err := writer.Plan(cells(allocation.Column)...)
		if err != nil {
			return err
		}

		infof("%v  '%v' column %v (new:%v)", wb.Title(), label, allocation.Column, allocation.New)
		for _, c := range append(header, values...) {
			infof("dryrun  %v", c)
		}

		return nil
	}

	allocation, err := allocator.Allocate(ctx, label)
	if err != nil {
		return err
	}

	infof("%v  '%v' column %v", wb.Title(), label, allocation.Column)
	if allocation.New {
		infof("%v  added '%v' to %v %v", wb.Title(), label, allocation.Header, allocation.Propagated)
	}

	values, err := writer.Plan(cells(allocation.Column)...)
	if err != nil {
		return err
	}

	if cmd.debug {
		for _, c := range values {
			debugf("%v", c)
		}
	}

	if err := writer.Apply(ctx, values...); err != nil {
		errorf("%v  report for '%v' incomplete", wb.Title(), label)
		return err
	}

	return nil
}
