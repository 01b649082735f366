package sheets

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrSpreadsheetNotFound = errors.New("spreadsheet not found")
	ErrWorksheetNotFound   = errors.New("worksheet not found")
)

// Header is the first row of every class worksheet.
var Header = []interface{}{
	"Roll Number", "Nickname", "Part 1 (Sudoku)", "Part 2", "Part 3", "Part 4", "Part 5", "Total", "Timestamp",
}

// ScoreSheet appends score rows to a worksheet named after a class.
type ScoreSheet interface {
	// AppendRow fails with ErrWorksheetNotFound, without writing anything,
	// when the worksheet does not exist.
	AppendRow(ctx context.Context, worksheet string, row []interface{}) error
}

// excelSheetName maps a class name onto the characters a workbook accepts
// in a sheet name.
func excelSheetName(name string) string {
	name = strings.NewReplacer("/", "-", "\\", "-", "?", "-", "*", "-", "[", "(", "]", ")", ":", "-").Replace(name)
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	return name
}
