package widgets

import (
	"html/template"
	"net/url"
	"strings"
	"testing"

	"github.com/SAP-F-2025/exam-form-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePuzzle = "530070000600195000098000060800060003400803001700020006060000280000419005000080079"

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()

	c, ok := r.Lookup(SudokuComponent)
	require.True(t, ok)
	assert.NotNil(t, c("q1"))

	_, ok = r.Lookup("crossword")
	assert.False(t, ok)

	r.Register("crossword", NewSudoku)
	assert.Equal(t, []string{"crossword", "sudoku"}, r.Names())
}

func TestRegistry_FormFields(t *testing.T) {
	r := DefaultRegistry()

	fields := r.FormFields(SudokuComponent, "s1")
	require.Len(t, fields, 81)
	assert.Equal(t, "s1_cell_0", fields[0])
	assert.Equal(t, "s1_cell_80", fields[80])

	assert.Nil(t, r.FormFields("crossword", "s1"))
}

func TestParseBoard(t *testing.T) {
	b := ParseBoard(samplePuzzle)
	assert.Equal(t, uint8(5), b.Values[0][0])
	assert.Equal(t, uint8(0), b.Values[0][2])
	assert.Equal(t, uint8(9), b.Values[8][8])
	assert.Equal(t, samplePuzzle, b.String())

	t.Run("dots and whitespace", func(t *testing.T) {
		b := ParseBoard("53..7 ....")
		assert.Equal(t, "530070000"+strings.Repeat("0", 72), b.String())
	})

	t.Run("givens", func(t *testing.T) {
		g := ParseBoard(samplePuzzle).Givens()
		assert.True(t, g.Fixed[0][0])
		assert.False(t, g.Fixed[0][2])
	})
}

func TestSudoku_Render(t *testing.T) {
	puzzle := samplePuzzle
	item := &models.CustomItem{
		ItemBase:  models.ItemBase{ID: "s1", Type: models.ItemSudoku},
		Component: SudokuComponent,
		Puzzle:    &puzzle,
	}

	// player answer in an empty cell plus an attempt to overwrite a given
	value := "914" + strings.Repeat("0", 78)
	html, err := NewSudoku("s1").Render(item, value)
	require.NoError(t, err)

	out := string(html)
	assert.Equal(t, cellCount, strings.Count(out, "<input"))
	assert.Contains(t, out, `name="s1_cell_0" value="5"`)
	assert.Contains(t, out, `name="s1_cell_2" value="4"`)
	assert.Contains(t, out, `readonly class="given"`)
	assert.IsType(t, template.HTML(""), html)
}

func TestSudoku_RenderWithoutPuzzle(t *testing.T) {
	item := &models.CustomItem{
		ItemBase:  models.ItemBase{ID: "s1", Type: models.ItemSudoku},
		Component: SudokuComponent,
	}

	html, err := NewSudoku("s1").Render(item, "")
	require.NoError(t, err)
	assert.NotContains(t, string(html), "readonly")
}

func TestSudoku_Decode(t *testing.T) {
	w := NewSudoku("s1")

	_, ok := w.Decode(url.Values{"other": {"1"}})
	assert.False(t, ok)

	form := url.Values{
		"s1_cell_0":  {"5"},
		"s1_cell_1":  {" 3 "},
		"s1_cell_2":  {"x"},
		"s1_cell_80": {"9"},
	}
	value, ok := w.Decode(form)
	require.True(t, ok)
	assert.Len(t, value, cellCount)
	assert.Equal(t, "530", value[:3])
	assert.Equal(t, byte('9'), value[80])
}
