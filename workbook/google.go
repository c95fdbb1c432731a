package workbook

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/xuri/excelize/v2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const SPREADSHEET_MIME_TYPE = "application/vnd.google-apps.spreadsheet"

// Google opens Google Sheets spreadsheets by key using the Sheets API and by display name
// using the Drive API.
type Google struct {
	sheets *sheets.Service
	drive  *drive.Service
}

type googleWorkbook struct {
	google      *sheets.Service
	spreadsheet *sheets.Spreadsheet
}

func NewGoogle(ctx context.Context, client *http.Client) (*Google, error) {
	s, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create new Sheets client (%w)", err)
	}

	d, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create new Drive client (%w)", err)
	}

	return &Google{
		sheets: s,
		drive:  d,
	}, nil
}

func (g *Google) OpenByKey(ctx context.Context, key string) (Workbook, error) {
	spreadsheet, err := g.sheets.Spreadsheets.Get(key).
		Fields("spreadsheetId", "properties.title", "sheets.properties(sheetId,title,index)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spreadsheet %v (%w)", key, err)
	}

	return &googleWorkbook{
		google:      g.sheets,
		spreadsheet: spreadsheet,
	}, nil
}

func (g *Google) OpenByName(ctx context.Context, name string) (Workbook, error) {
	q := fmt.Sprintf("name = '%v' and mimeType = '%v' and trashed = false", escape(name), SPREADSHEET_MIME_TYPE)

	files, err := g.drive.Files.List().
		Q(q).
		Fields("files(id,name)").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search for spreadsheet '%v' (%w)", name, err)
	}

	if len(files.Files) == 0 {
		return nil, fmt.Errorf("%w ('%v')", ErrNotFound, name)
	}

	return g.OpenByKey(ctx, files.Files[0].Id)
}

func (w *googleWorkbook) Title() string {
	if w.spreadsheet.Properties != nil {
		return w.spreadsheet.Properties.Title
	}

	return w.spreadsheet.SpreadsheetId
}

// Worksheets returns the worksheet titles in tab order.
func (w *googleWorkbook) Worksheets(ctx context.Context) ([]string, error) {
	titles := make([]string, len(w.spreadsheet.Sheets))
	for _, sheet := range w.spreadsheet.Sheets {
		if p := sheet.Properties; p != nil && int(p.Index) < len(titles) {
			titles[p.Index] = p.Title
		}
	}

	return titles, nil
}

func (w *googleWorkbook) Values(ctx context.Context, worksheet string) ([][]string, error) {
	if _, err := w.sheet(worksheet); err != nil {
		return nil, err
	}

	response, err := w.google.Spreadsheets.Values.Get(w.spreadsheet.SpreadsheetId, quote(worksheet)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve data from worksheet '%v' (%w)", worksheet, err)
	}

	rows := make([][]string, len(response.Values))
	for i, row := range response.Values {
		rows[i] = make([]string, len(row))
		for j, v := range row {
			rows[i][j] = fmt.Sprintf("%v", v)
		}
	}

	return rows, nil
}

func (w *googleWorkbook) Update(ctx context.Context, worksheet string, row, column int, value string) error {
	if _, err := w.sheet(worksheet); err != nil {
		return err
	}

	cell, err := excelize.CoordinatesToCellName(column, row)
	if err != nil {
		return err
	}

	area := fmt.Sprintf("%v!%v", quote(worksheet), cell)
	values := sheets.ValueRange{
		Values: [][]interface{}{
			[]interface{}{value},
		},
	}

	if _, err := w.google.Spreadsheets.Values.Update(w.spreadsheet.SpreadsheetId, area, &values).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do(); err != nil {
		return err
	}

	return nil
}

func (w *googleWorkbook) Close() error {
	return nil
}

func (w *googleWorkbook) sheet(name string) (*sheets.Sheet, error) {
	for _, sheet := range w.spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == name {
			return sheet, nil
		}
	}

	return nil, fmt.Errorf("%w '%v' in '%v'", ErrWorksheetNotFound, name, w.Title())
}

func quote(worksheet string) string {
	return "'" + strings.ReplaceAll(worksheet, "'", "''") + "'"
}

func escape(name string) string {
	return strings.ReplaceAll(strings.ReplaceAll(name, `\`, `\\`), `'`, `\'`)
}
