package workbook

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-memory Workbook. It records every update in order, which makes it
// useful for exercising report commands without a remote spreadsheet.
type Memory struct {
	Name    string
	Sheets  []string
	Cells   map[string][][]string
	Updates []Update

	// OnUpdate, if set, is invoked after each successful update.
	OnUpdate func(m *Memory, u Update)

	// Fail, if set, is returned by Update instead of applying the change.
	Fail error

	mu sync.Mutex
}

type Update struct {
	Worksheet string
	Row       int
	Column    int
	Value     string
}

// MemoryOpener resolves keys and names against a fixed set of in-memory workbooks and
// records each lookup.
type MemoryOpener struct {
	ByKey  map[string]*Memory
	ByName map[string]*Memory
	Opened []string
}

func NewMemory(name string, worksheets ...string) *Memory {
	m := Memory{
		Name:   name,
		Sheets: worksheets,
		Cells:  map[string][][]string{},
	}

	for _, ws := range worksheets {
		m.Cells[ws] = [][]string{}
	}

	return &m
}

func (m *Memory) Title() string {
	return m.Name
}

func (m *Memory) Worksheets(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string{}, m.Sheets...), nil
}

func (m *Memory) Values(ctx context.Context, worksheet string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows, ok := m.Cells[worksheet]
	if !ok {
		return nil, fmt.Errorf("%w '%v'", ErrWorksheetNotFound, worksheet)
	}

	values := make([][]string, len(rows))
	for i, row := range rows {
		values[i] = append([]string{}, row...)
	}

	return values, nil
}

func (m *Memory) Update(ctx context.Context, worksheet string, row, column int, value string) error {
	m.mu.Lock()

	if m.Fail != nil {
		m.mu.Unlock()
		return m.Fail
	}

	if err := m.set(worksheet, row, column, value); err != nil {
		m.mu.Unlock()
		return err
	}

	u := Update{Worksheet: worksheet, Row: row, Column: column, Value: value}
	m.Updates = append(m.Updates, u)
	m.mu.Unlock()

	if m.OnUpdate != nil {
		m.OnUpdate(m, u)
	}

	return nil
}

// Set writes a cell without recording it as an update.
func (m *Memory) Set(worksheet string, row, column int, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.set(worksheet, row, column, value)
}

// Get returns the value of a cell, or "" if the cell has never been written.
func (m *Memory) Get(worksheet string, row, column int) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.Cells[worksheet]
	if row < 1 || row > len(rows) || column < 1 || column > len(rows[row-1]) {
		return ""
	}

	return rows[row-1][column-1]
}

func (m *Memory) Close() error {
	return nil
}

func (m *Memory) set(worksheet string, row, column int, value string) error {
	rows, ok := m.Cells[worksheet]
	if !ok {
		return fmt.Errorf("%w '%v'", ErrWorksheetNotFound, worksheet)
	}

	if row < 1 || column < 1 {
		return fmt.Errorf("invalid cell (%v,%v)", row, column)
	}

	for len(rows) < row {
		rows = append(rows, []string{})
	}

	for len(rows[row-1]) < column {
		rows[row-1] = append(rows[row-1], "")
	}

	rows[row-1][column-1] = value
	m.Cells[worksheet] = rows

	return nil
}

func (o *MemoryOpener) OpenByKey(ctx context.Context, key string) (Workbook, error) {
	o.Opened = append(o.Opened, "key:"+key)

	if m, ok := o.ByKey[key]; ok {
		return m, nil
	}

	return nil, fmt.Errorf("%w (key:%v)", ErrNotFound, key)
}

func (o *MemoryOpener) OpenByName(ctx context.Context, name string) (Workbook, error) {
	o.Opened = append(o.Opened, "name:"+name)

	if m, ok := o.ByName[name]; ok {
		return m, nil
	}

	return nil, fmt.Errorf("%w (name:%v)", ErrNotFound, name)
}
