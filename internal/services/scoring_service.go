package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/exam-form-service/internal/models"
)

// DefaultPoints is awarded for a correct answer when the item sets none.
const DefaultPoints = 1.0

// ScoringService turns a session's answers into a scored submission.
//
// Policy: an mcq scores when the selected option equals its answer; a gcf
// item scores when the GCF field holds gcd(num1, num2); a custom component
// scores when its value equals its answer ignoring whitespace. Drawings,
// instructions and unknown items score nothing.
type ScoringService interface {
	Score(state *models.AnswerState) (map[string]models.ItemAnswer, models.Scores, float64)
}

type scoringService struct {
	doc *models.ExamDocument
}

func NewScoringService(doc *models.ExamDocument) ScoringService {
	return &scoringService{doc: doc}
}

// Score returns the per-item answers, the part scores and the maximum
// attainable score.
func (s *scoringService) Score(state *models.AnswerState) (map[string]models.ItemAnswer, models.Scores, float64) {
	answers := make(map[string]models.ItemAnswer)
	var scores models.Scores
	var maxScore float64

	for si, section := range s.doc.Sections {
		part := s.doc.PartNumber(si)
		for _, item := range section.Items {
			answer, ok := collectAnswer(item, state.Item(item.Base().ID), part)
			if !ok {
				continue
			}
			earned, attainable := scoreItem(item, answer)
			answer.Points = earned
			answers[item.Base().ID] = answer
			scores.Add(part, earned)
			maxScore += attainable
		}
	}

	scores.Total = scores.Sum()
	return answers, scores, maxScore
}

// collectAnswer copies the stored values of one item. Items without input
// are skipped.
func collectAnswer(item models.Item, scope *models.ItemState, part int) (models.ItemAnswer, bool) {
	answer := models.ItemAnswer{Type: item.Kind(), Part: part}

	switch item.(type) {
	case *models.MCQItem, *models.CustomItem:
		answer.Value = scope.Get(models.SuffixValue)
	case *models.GCFFactorizationItem:
		answer.FactorsN1 = scope.Get(models.SuffixFactorsN1)
		answer.FactorsN2 = scope.Get(models.SuffixFactorsN2)
		answer.GCF = scope.Get(models.SuffixGCF)
	case *models.GCFSubtractionItem, *models.GCFDivisionItem:
		if steps := scope.Steps(); len(steps) > 0 {
			answer.Steps = steps
		}
		answer.GCF = scope.Get(models.SuffixGCF)
	case *models.DrawingItem:
		answer.Drawing = scope.Get(models.SuffixDrawing)
	default:
		return answer, false
	}
	return answer, true
}

// scoreItem returns the earned and attainable points of one answer.
func scoreItem(item models.Item, answer models.ItemAnswer) (float64, float64) {
	points := item.Base().PointsOr(DefaultPoints)

	switch it := item.(type) {
	case *models.MCQItem:
		if it.Answer == nil {
			return 0, 0
		}
		return award(answer.Value != "" && answer.Value == *it.Answer, points), points
	case *models.GCFFactorizationItem:
		return award(gcfMatches(answer.GCF, it.GCFOperands), points), points
	case *models.GCFSubtractionItem:
		return award(gcfMatches(answer.GCF, it.GCFOperands), points), points
	case *models.GCFDivisionItem:
		return award(gcfMatches(answer.GCF, it.GCFOperands), points), points
	case *models.CustomItem:
		if it.Answer == nil {
			return 0, 0
		}
		return award(answer.Value != "" && stripSpace(answer.Value) == stripSpace(*it.Answer), points), points
	default:
		return 0, 0
	}
}

func gcfMatches(raw string, operands models.GCFOperands) bool {
	guess, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return guess == GCD(operands.Num1, operands.Num2)
}

func award(correct bool, points float64) float64 {
	if correct {
		return points
	}
	return 0
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// RoundScore rounds a score to a whole number for display, halves to even.
// Score rows keep the unrounded parts.
func RoundScore(v float64) float64 {
	return math.RoundToEven(v)
}
