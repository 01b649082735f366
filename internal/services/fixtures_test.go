package services

import (
	"encoding/base64"
	"io"
	"log/slog"
	"testing"

	"github.com/SAP-F-2025/exam-form-service/internal/models"
	"github.com/SAP-F-2025/exam-form-service/internal/validator"
	"github.com/stretchr/testify/require"
)

const (
	testPuzzle   = "530070000600195000098000060800060003400803001700020006060000280000419005000080079"
	testSolution = "534678912672195348198342567859761423426853791713924856961537284287419635345286179"
)

const testExamJSON = `{
  "title": "Final Exam",
  "sections": [
    {
      "title": "Part 1: Sudoku",
      "instruction": "Fill in the grid.",
      "part": 1,
      "items": [
        {"id": "sudoku1", "type": "sudoku", "text": "Solve the puzzle", "component": "sudoku",
         "puzzle": "` + testPuzzle + `", "answer": "` + testSolution + `", "points": 2}
      ]
    },
    {
      "title": "Part 2: Multiple choice",
      "items": [
        {"id": "intro", "type": "instruction", "text": "Pick one answer."},
        {"id": "q1", "type": "mcq", "text": "Capital of France?", "options": ["Paris", "Rome", "Madrid"], "answer": "Paris"}
      ]
    },
    {
      "title": "Part 3: GCF",
      "image": "gcf.png",
      "items": [
        {"id": "f1", "type": "gcf_factorization", "text": "List the factors", "num1": 12, "num2": 18},
        {"id": "s1", "type": "gcf_subtraction", "text": "Use subtraction", "num1": 6, "num2": 9},
        {"id": "d1", "type": "gcf_division", "text": "Use division", "num1": 150, "num2": 100, "points": 2}
      ]
    },
    {
      "title": "Part 4: Drawing",
      "items": [
        {"id": "draw1", "type": "drawing", "text": "Draw a triangle"}
      ]
    },
    {
      "title": "Part 5: Extras",
      "items": [
        {"id": "e1", "type": "essay", "text": "Explain"},
        {"id": "w1", "type": "sudoku", "text": "Mystery", "component": "crossword"}
      ]
    }
  ]
}`

var testClasses = []string{"3/11", "3/12"}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadTestExam(t *testing.T) *models.ExamDocument {
	t.Helper()
	doc, err := ParseExamDocument([]byte(testExamJSON), validator.New(testClasses...))
	require.NoError(t, err)
	return doc
}

func pngDataURL() string {
	data := append([]byte{}, pngSignature...)
	data = append(data, 0, 0, 0, 13, 'I', 'H', 'D', 'R')
	return pngDataURLPrefix + base64.StdEncoding.EncodeToString(data)
}
