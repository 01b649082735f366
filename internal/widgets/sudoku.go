package widgets

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/SAP-F-2025/exam-form-service/internal/models"
)

const SudokuComponent = "sudoku"

const (
	boardSize = 9
	boxSize   = 3
	cellCount = boardSize * boardSize
)

// Board holds cell values and which cells are fixed givens. Zero is empty.
type Board struct {
	Values [boardSize][boardSize]uint8
	Fixed  [boardSize][boardSize]bool
}

// ParseBoard reads up to 81 cells row by row. Digits 1-9 are kept; any other
// character, or a missing cell, is empty.
func ParseBoard(s string) Board {
	var b Board
	s = strings.Join(strings.Fields(s), "")
	for i := 0; i < cellCount && i < len(s); i++ {
		if c := s[i]; c >= '1' && c <= '9' {
			b.Values[i/boardSize][i%boardSize] = c - '0'
		}
	}
	return b
}

// Givens marks every non-empty cell as fixed.
func (b Board) Givens() Board {
	for r := 0; r < boardSize; r++ {
		for c := 0; c < boardSize; c++ {
			b.Fixed[r][c] = b.Values[r][c] != 0
		}
	}
	return b
}

// String encodes the board as 81 digits with 0 for empty cells.
func (b Board) String() string {
	var sb strings.Builder
	sb.Grow(cellCount)
	for r := 0; r < boardSize; r++ {
		for c := 0; c < boardSize; c++ {
			sb.WriteByte('0' + b.Values[r][c])
		}
	}
	return sb.String()
}

type sudokuCell struct {
	Name  string
	Value string
	Fixed bool
	Class string
}

var sudokuTemplate = template.Must(template.New("sudoku").Parse(`<table class="sudoku">
{{- range .}}
<tr>{{range .}}<td class="{{.Class}}"><input type="text" name="{{.Name}}" value="{{.Value}}" maxlength="1" inputmode="numeric" pattern="[1-9]?"{{if .Fixed}} readonly class="given"{{end}}></td>{{end}}</tr>
{{- end}}
</table>`))

type sudoku struct {
	key string
}

func NewSudoku(key string) Widget {
	return &sudoku{key: key}
}

func (s *sudoku) cellName(i int) string {
	return fmt.Sprintf("%s_cell_%d", s.key, i)
}

func (s *sudoku) Fields() []string {
	fields := make([]string, cellCount)
	for i := range fields {
		fields[i] = s.cellName(i)
	}
	return fields
}

func (s *sudoku) Render(item *models.CustomItem, value string) (template.HTML, error) {
	var puzzle string
	if item.Puzzle != nil {
		puzzle = *item.Puzzle
	}
	givens := ParseBoard(puzzle).Givens()
	answer := ParseBoard(value)

	rows := make([][]sudokuCell, boardSize)
	for r := 0; r < boardSize; r++ {
		rows[r] = make([]sudokuCell, boardSize)
		for c := 0; c < boardSize; c++ {
			v := answer.Values[r][c]
			if givens.Fixed[r][c] {
				v = givens.Values[r][c]
			}
			cell := sudokuCell{
				Name:  s.cellName(r*boardSize + c),
				Fixed: givens.Fixed[r][c],
				Class: boxClass(r, c),
			}
			if v != 0 {
				cell.Value = string('0' + rune(v))
			}
			rows[r][c] = cell
		}
	}

	var buf bytes.Buffer
	if err := sudokuTemplate.Execute(&buf, rows); err != nil {
		return "", fmt.Errorf("failed to render sudoku %s: %w", s.key, err)
	}
	return template.HTML(buf.String()), nil
}

func (s *sudoku) Decode(form url.Values) (string, bool) {
	var b Board
	found := false
	for i := 0; i < cellCount; i++ {
		vals, ok := form[s.cellName(i)]
		if !ok || len(vals) == 0 {
			continue
		}
		found = true
		v := strings.TrimSpace(vals[0])
		if len(v) == 1 && v[0] >= '1' && v[0] <= '9' {
			b.Values[i/boardSize][i%boardSize] = v[0] - '0'
		}
	}
	if !found {
		return "", false
	}
	return b.String(), true
}

// boxClass marks the thick borders between 3x3 boxes.
func boxClass(r, c int) string {
	var classes []string
	if r%boxSize == 0 {
		classes = append(classes, "box-top")
	}
	if c%boxSize == 0 {
		classes = append(classes, "box-left")
	}
	return strings.Join(classes, " ")
}
