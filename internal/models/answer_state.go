package models

import (
	"strings"
	"time"
)

// Answer key suffixes. A key is the item id followed by one of these.
const (
	SuffixValue     = ""
	SuffixSteps     = "_steps"
	SuffixInput     = "_input"
	SuffixError     = "_error"
	SuffixGCF       = "_gcf"
	SuffixFactorsN1 = "_factors_n1"
	SuffixFactorsN2 = "_factors_n2"
	SuffixDrawing   = "_drawing"
)

func AnswerKey(itemID, suffix string) string {
	return itemID + suffix
}

// InputSuffixes returns the suffixes whose values come straight from form
// fields for the given item. Step lists and errors are only written by the
// item's own handlers and are not listed.
func InputSuffixes(item Item) []string {
	switch item.(type) {
	case *MCQItem, *CustomItem:
		return []string{SuffixValue}
	case *GCFFactorizationItem:
		return []string{SuffixFactorsN1, SuffixFactorsN2, SuffixGCF}
	case *GCFSubtractionItem, *GCFDivisionItem:
		return []string{SuffixInput, SuffixGCF}
	case *DrawingItem:
		return []string{SuffixDrawing}
	default:
		return nil
	}
}

// DerivedKeys returns every AnswerState key the item may own.
func DerivedKeys(item Item) []string {
	id := item.Base().ID
	suffixes := InputSuffixes(item)
	switch item.(type) {
	case *GCFSubtractionItem, *GCFDivisionItem:
		suffixes = append(suffixes, SuffixSteps, SuffixError)
	case *DrawingItem:
		suffixes = append(suffixes, SuffixError)
	}

	keys := make([]string, 0, len(suffixes))
	for _, suffix := range suffixes {
		keys = append(keys, AnswerKey(id, suffix))
	}
	return keys
}

// Identity is the student information collected above the exam.
type Identity struct {
	Class      string `json:"class" validate:"required,class_name"`
	Nickname   string `json:"nickname" validate:"required"`
	RollNumber string `json:"roll_number" validate:"required"`
}

// Normalize trims surrounding whitespace from every field.
func (i *Identity) Normalize() {
	i.Class = strings.TrimSpace(i.Class)
	i.Nickname = strings.TrimSpace(i.Nickname)
	i.RollNumber = strings.TrimSpace(i.RollNumber)
}

// AnswerState holds one session's in-progress answers.
type AnswerState struct {
	SessionID      string              `json:"session_id"`
	Identity       Identity            `json:"identity"`
	Values         map[string]string   `json:"values"`
	Lists          map[string][]string `json:"lists"`
	LastSubmission string              `json:"last_submission,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

func NewAnswerState(sessionID string) *AnswerState {
	now := time.Now()
	return &AnswerState{
		SessionID: sessionID,
		Values:    make(map[string]string),
		Lists:     make(map[string][]string),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *AnswerState) Value(key string) string {
	return s.Values[key]
}

func (s *AnswerState) SetValue(key, value string) {
	if s.Values == nil {
		s.Values = make(map[string]string)
	}
	s.Values[key] = value
}

func (s *AnswerState) List(key string) []string {
	return s.Lists[key]
}

func (s *AnswerState) Touch() {
	s.UpdatedAt = time.Now()
}

// Clone returns a deep copy of the state.
func (s *AnswerState) Clone() *AnswerState {
	out := *s
	out.Values = make(map[string]string, len(s.Values))
	for k, v := range s.Values {
		out.Values[k] = v
	}
	out.Lists = make(map[string][]string, len(s.Lists))
	for k, v := range s.Lists {
		list := make([]string, len(v))
		copy(list, v)
		out.Lists[k] = list
	}
	return &out
}

// Item returns a handle scoped to one item's keys.
func (s *AnswerState) Item(itemID string) *ItemState {
	return &ItemState{itemID: itemID, state: s}
}

// ItemState is the view of AnswerState a single item's renderer and
// handlers operate on.
type ItemState struct {
	itemID string
	state  *AnswerState
}

func (is *ItemState) ItemID() string {
	return is.itemID
}

func (is *ItemState) Get(suffix string) string {
	return is.state.Value(AnswerKey(is.itemID, suffix))
}

func (is *ItemState) Set(suffix, value string) {
	is.state.SetValue(AnswerKey(is.itemID, suffix), value)
}

// Steps returns a copy of the item's step list.
func (is *ItemState) Steps() []string {
	steps := is.state.List(AnswerKey(is.itemID, SuffixSteps))
	out := make([]string, len(steps))
	copy(out, steps)
	return out
}

// InitSteps creates the empty step list and error slot on first render.
// It reports whether anything was created.
func (is *ItemState) InitSteps() bool {
	key := AnswerKey(is.itemID, SuffixSteps)
	if is.state.Lists == nil {
		is.state.Lists = make(map[string][]string)
	}
	if _, ok := is.state.Lists[key]; ok {
		return false
	}
	is.state.Lists[key] = []string{}
	if _, ok := is.state.Values[AnswerKey(is.itemID, SuffixError)]; !ok {
		is.Set(SuffixError, "")
	}
	return true
}

func (is *ItemState) PushStep(step string) {
	key := AnswerKey(is.itemID, SuffixSteps)
	if is.state.Lists == nil {
		is.state.Lists = make(map[string][]string)
	}
	is.state.Lists[key] = append(is.state.Lists[key], step)
}

// PopStep removes the last step. It is a no-op on an empty list.
func (is *ItemState) PopStep() (string, bool) {
	key := AnswerKey(is.itemID, SuffixSteps)
	steps := is.state.Lists[key]
	if len(steps) == 0 {
		return "", false
	}
	last := steps[len(steps)-1]
	is.state.Lists[key] = steps[:len(steps)-1]
	return last, true
}
