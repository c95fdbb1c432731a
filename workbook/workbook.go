// Package workbook is the spreadsheet document abstraction used to report regression
// results. A Workbook is opened by stable key or by display name, lists its worksheets,
// reads all the cells of a worksheet and updates single cells.
//
// Rows and columns are 1-based throughout.
package workbook

import (
	"context"
	"errors"
)

var (
	ErrNotFound          = errors.New("spreadsheet not found")
	ErrWorksheetNotFound = errors.New("worksheet not found")
)

type Workbook interface {
	Title() string
	Worksheets(ctx context.Context) ([]string, error)
	Values(ctx context.Context, worksheet string) ([][]string, error)
	Update(ctx context.Context, worksheet string, row, column int, value string) error
	Close() error
}

type Opener interface {
	OpenByKey(ctx context.Context, key string) (Workbook, error)
	OpenByName(ctx context.Context, name string) (Workbook, error)
}

// Header returns row 1 of the worksheet without trailing empty cells.
func Header(ctx context.Context, wb Workbook, worksheet string) ([]string, error) {
	rows, err := wb.Values(ctx, worksheet)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return []string{}, nil
	}

	header := rows[0]
	for len(header) > 0 && header[len(header)-1] == "" {
		header = header[:len(header)-1]
	}

	return header, nil
}
