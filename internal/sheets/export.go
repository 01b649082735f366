package sheets

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteWorkbook writes a workbook with one worksheet per class, in the
// order given, each starting with Header.
func WriteWorkbook(w io.Writer, classes []string, rows map[string][][]interface{}) error {
	if len(classes) == 0 {
		return fmt.Errorf("no classes to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, class := range classes {
		name := excelSheetName(class)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}

		header := Header
		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return fmt.Errorf("failed to write header to %s: %w", name, err)
		}
		for r, row := range rows[class] {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return fmt.Errorf("failed to write row to %s: %w", name, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
