package workbook

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/xuri/excelize/v2"
)

// XLSX opens local .xlsx workbooks from a directory: a key resolves to <dir>/<key>.xlsx
// and a name to <dir>/<name>.xlsx. Every update is saved immediately.
type XLSX struct {
	Dir string
}

type xlsxWorkbook struct {
	path string
	file *excelize.File
}

func (x XLSX) OpenByKey(ctx context.Context, key string) (Workbook, error) {
	return x.open(key)
}

func (x XLSX) OpenByName(ctx context.Context, name string) (Workbook, error) {
	return x.open(name)
}

func (x XLSX) open(name string) (Workbook, error) {
	path := filepath.Join(x.Dir, name+".xlsx")

	f, err := excelize.OpenFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w (%v)", ErrNotFound, path)
	} else if err != nil {
		return nil, fmt.Errorf("unable to open workbook %v (%w)", path, err)
	}

	return &xlsxWorkbook{
		path: path,
		file: f,
	}, nil
}

func (w *xlsxWorkbook) Title() string {
	return w.path
}

func (w *xlsxWorkbook) Worksheets(ctx context.Context) ([]string, error) {
	return w.file.GetSheetList(), nil
}

func (w *xlsxWorkbook) Values(ctx context.Context, worksheet string) ([][]string, error) {
	if !slices.Contains(w.file.GetSheetList(), worksheet) {
		return nil, fmt.Errorf("%w '%v' in '%v'", ErrWorksheetNotFound, worksheet, w.path)
	}

	return w.file.GetRows(worksheet)
}

func (w *xlsxWorkbook) Update(ctx context.Context, worksheet string, row, column int, value string) error {
	if !slices.Contains(w.file.GetSheetList(), worksheet) {
		return fmt.Errorf("%w '%v' in '%v'", ErrWorksheetNotFound, worksheet, w.path)
	}

	cell, err := excelize.CoordinatesToCellName(column, row)
	if err != nil {
		return err
	}

	if err := w.file.SetCellValue(worksheet, cell, value); err != nil {
		return err
	}

	return w.file.Save()
}

func (w *xlsxWorkbook) Close() error {
	return w.file.Close()
}
