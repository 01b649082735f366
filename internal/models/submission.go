package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// Scores are the per-part totals written to the score sheet.
type Scores struct {
	Part1Sudoku float64 `json:"part1_sudoku"`
	Part2       float64 `json:"part2"`
	Part3       float64 `json:"part3"`
	Part4       float64 `json:"part4"`
	Part5       float64 `json:"part5"`
	Total       float64 `json:"total"`
}

// Add credits points to a part bucket. Parts outside 1..MaxPart are ignored.
func (s *Scores) Add(part int, points float64) {
	switch part {
	case 1:
		s.Part1Sudoku += points
	case 2:
		s.Part2 += points
	case 3:
		s.Part3 += points
	case 4:
		s.Part4 += points
	case 5:
		s.Part5 += points
	}
}

func (s Scores) Sum() float64 {
	return s.Part1Sudoku + s.Part2 + s.Part3 + s.Part4 + s.Part5
}

// ItemAnswer is the submitted answer of one item.
type ItemAnswer struct {
	Type      ItemType `json:"type"`
	Part      int      `json:"part"`
	Value     string   `json:"value,omitempty"`
	FactorsN1 string   `json:"factors_n1,omitempty"`
	FactorsN2 string   `json:"factors_n2,omitempty"`
	Steps     []string `json:"steps,omitempty"`
	GCF       string   `json:"gcf,omitempty"`
	Drawing   string   `json:"drawing,omitempty"`
	Points    float64  `json:"points"`
}

// Submission is the immutable record of one exam attempt.
type Submission struct {
	RollNumber string                `json:"roll_number"`
	Nickname   string                `json:"nickname"`
	Class      string                `json:"class"`
	Timestamp  string                `json:"timestamp"`
	Answers    map[string]ItemAnswer `json:"answers"`
	Scores     Scores                `json:"scores"`
	MaxScore   float64               `json:"max_score"`
}

// ScoreRow returns the spreadsheet row for the submission.
func (s *Submission) ScoreRow() []interface{} {
	return []interface{}{
		s.RollNumber,
		s.Nickname,
		s.Scores.Part1Sudoku,
		s.Scores.Part2,
		s.Scores.Part3,
		s.Scores.Part4,
		s.Scores.Part5,
		s.Scores.Total,
		s.Timestamp,
	}
}

// SubmissionRecord is the archived copy of a submission.
type SubmissionRecord struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Class       string         `json:"class" gorm:"not null;size:32;index"`
	Nickname    string         `json:"nickname" gorm:"not null;size:100"`
	RollNumber  string         `json:"roll_number" gorm:"not null;size:32;index"`
	FileName    string         `json:"file_name" gorm:"size:255"`
	Total       float64        `json:"total"`
	MaxScore    float64        `json:"max_score"`
	Scores      datatypes.JSON `json:"scores" gorm:"type:jsonb"`
	Answers     datatypes.JSON `json:"answers" gorm:"type:jsonb"`
	SubmittedAt time.Time      `json:"submitted_at" gorm:"index"`
	CreatedAt   time.Time      `json:"created_at"`
}

func (SubmissionRecord) TableName() string {
	return "exam_submissions"
}

func NewSubmissionRecord(sub *Submission, fileName string, submittedAt time.Time) (*SubmissionRecord, error) {
	scores, err := json.Marshal(sub.Scores)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scores: %w", err)
	}
	answers, err := json.Marshal(sub.Answers)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal answers: %w", err)
	}

	return &SubmissionRecord{
		Class:       sub.Class,
		Nickname:    sub.Nickname,
		RollNumber:  sub.RollNumber,
		FileName:    fileName,
		Total:       sub.Scores.Total,
		MaxScore:    sub.MaxScore,
		Scores:      datatypes.JSON(scores),
		Answers:     datatypes.JSON(answers),
		SubmittedAt: submittedAt,
	}, nil
}
