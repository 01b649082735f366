package sheets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"
)

// XLSXSheet appends rows to a local workbook. Appends are serialized.
type XLSXSheet struct {
	path string
	mu   sync.Mutex
}

// NewXLSXSheet uses the workbook <dir>/<name>.xlsx.
func NewXLSXSheet(dir, name string) (*XLSXSheet, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create sheets dir: %w", err)
	}
	return &XLSXSheet{path: filepath.Join(dir, name+".xlsx")}, nil
}

func (x *XLSXSheet) Path() string {
	return x.path
}

// EnsureWorksheets creates the workbook and any missing class worksheets,
// each starting with the header row.
func (x *XLSXSheet) EnsureWorksheets(classes []string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	f, created, err := x.openOrCreate()
	if err != nil {
		return err
	}
	defer f.Close()

	for _, class := range classes {
		name := excelSheetName(class)
		idx, err := f.GetSheetIndex(name)
		if err != nil {
			return fmt.Errorf("failed to look up sheet %s: %w", name, err)
		}
		if idx != -1 {
			continue
		}
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
		header := Header
		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return fmt.Errorf("failed to write header to %s: %w", name, err)
		}
	}

	if created && len(classes) > 0 {
		// drop the default sheet of a fresh workbook
		if idx, _ := f.GetSheetIndex("Sheet1"); idx != -1 && excelSheetName(classes[0]) != "Sheet1" {
			if err := f.DeleteSheet("Sheet1"); err != nil {
				return fmt.Errorf("failed to remove default sheet: %w", err)
			}
		}
	}

	if created {
		return f.SaveAs(x.path)
	}
	return f.Save()
}

func (x *XLSXSheet) AppendRow(ctx context.Context, worksheet string, row []interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	f, err := excelize.OpenFile(x.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSpreadsheetNotFound, x.path)
		}
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	name := excelSheetName(worksheet)
	idx, err := f.GetSheetIndex(name)
	if err != nil {
		return fmt.Errorf("failed to look up sheet %s: %w", name, err)
	}
	if idx == -1 {
		return fmt.Errorf("%w: %s", ErrWorksheetNotFound, worksheet)
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return fmt.Errorf("failed to read sheet %s: %w", name, err)
	}
	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(name, cell, &row); err != nil {
		return fmt.Errorf("failed to append row to %s: %w", name, err)
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (x *XLSXSheet) openOrCreate() (*excelize.File, bool, error) {
	f, err := excelize.OpenFile(x.path)
	if err == nil {
		return f, false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, false, fmt.Errorf("failed to open workbook: %w", err)
	}
	return excelize.NewFile(), true, nil
}
