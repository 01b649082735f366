package models

import (
	"encoding/json"
	"fmt"
)

type ItemType string

const (
	ItemInstruction      ItemType = "instruction"
	ItemMCQ              ItemType = "mcq"
	ItemSudoku           ItemType = "sudoku"
	ItemGCFFactorization ItemType = "gcf_factorization"
	ItemGCFSubtraction   ItemType = "gcf_subtraction"
	ItemGCFDivision      ItemType = "gcf_division"
	ItemDrawing          ItemType = "drawing"
)

// ItemTypes lists every item type the exam form knows how to render.
var ItemTypes = []ItemType{
	ItemInstruction,
	ItemMCQ,
	ItemSudoku,
	ItemGCFFactorization,
	ItemGCFSubtraction,
	ItemGCFDivision,
	ItemDrawing,
}

// MaxPart is the number of score buckets on the spreadsheet row.
const MaxPart = 5

type ExamDocument struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

type Section struct {
	Title       string  `json:"title"`
	Instruction *string `json:"instruction,omitempty"`
	Image       *string `json:"image,omitempty"`
	Part        int     `json:"part,omitempty"`
	Items       []Item  `json:"items"`
}

// Item is one entry of a section. The set of implementations is closed:
// only the types in this file satisfy it.
type Item interface {
	Base() *ItemBase
	Kind() ItemType
	isItem()
}

type ItemBase struct {
	ID     string   `json:"id"`
	Type   ItemType `json:"type"`
	Text   string   `json:"text"`
	Image  *string  `json:"image,omitempty"`
	Points *float64 `json:"points,omitempty"`
}

func (b *ItemBase) Base() *ItemBase { return b }
func (b *ItemBase) isItem()         {}

// PointsOr returns the configured points, or def when the item has none.
func (b *ItemBase) PointsOr(def float64) float64 {
	if b.Points == nil {
		return def
	}
	return *b.Points
}

type InstructionItem struct {
	ItemBase
}

type MCQItem struct {
	ItemBase
	Options []string `json:"options"`
	Answer  *string  `json:"answer,omitempty"`
}

// GCFOperands are the two numbers a GCF item works on.
type GCFOperands struct {
	Num1 int `json:"num1"`
	Num2 int `json:"num2"`
}

func (o GCFOperands) Bigger() int {
	if o.Num1 > o.Num2 {
		return o.Num1
	}
	return o.Num2
}

func (o GCFOperands) Smaller() int {
	if o.Num1 < o.Num2 {
		return o.Num1
	}
	return o.Num2
}

type GCFFactorizationItem struct {
	ItemBase
	GCFOperands
}

type GCFSubtractionItem struct {
	ItemBase
	GCFOperands
}

type GCFDivisionItem struct {
	ItemBase
	GCFOperands
}

type DrawingItem struct {
	ItemBase
}

// CustomItem is rendered by a widget looked up by Component.
type CustomItem struct {
	ItemBase
	Component string  `json:"component"`
	Puzzle    *string `json:"puzzle,omitempty"`
	Answer    *string `json:"answer,omitempty"`
}

// UnknownItem keeps an item whose type is not recognised so the form can
// warn about it instead of failing to load.
type UnknownItem struct {
	ItemBase
}

func (*InstructionItem) Kind() ItemType      { return ItemInstruction }
func (*MCQItem) Kind() ItemType              { return ItemMCQ }
func (*GCFFactorizationItem) Kind() ItemType { return ItemGCFFactorization }
func (*GCFSubtractionItem) Kind() ItemType   { return ItemGCFSubtraction }
func (*GCFDivisionItem) Kind() ItemType      { return ItemGCFDivision }
func (*DrawingItem) Kind() ItemType          { return ItemDrawing }
func (*CustomItem) Kind() ItemType           { return ItemSudoku }
func (u *UnknownItem) Kind() ItemType        { return u.Type }

// DecodeItem decodes a single item, dispatching on its "type" field.
func DecodeItem(data []byte) (Item, error) {
	var head struct {
		Type ItemType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("failed to read item type: %w", err)
	}

	var item Item
	switch head.Type {
	case ItemInstruction:
		item = &InstructionItem{}
	case ItemMCQ:
		item = &MCQItem{}
	case ItemSudoku:
		item = &CustomItem{}
	case ItemGCFFactorization:
		item = &GCFFactorizationItem{}
	case ItemGCFSubtraction:
		item = &GCFSubtractionItem{}
	case ItemGCFDivision:
		item = &GCFDivisionItem{}
	case ItemDrawing:
		item = &DrawingItem{}
	default:
		item = &UnknownItem{}
	}

	if err := json.Unmarshal(data, item); err != nil {
		return nil, fmt.Errorf("failed to decode %q item: %w", head.Type, err)
	}
	return item, nil
}

func (s *Section) UnmarshalJSON(data []byte) error {
	var raw struct {
		Title       string            `json:"title"`
		Instruction *string           `json:"instruction"`
		Image       *string           `json:"image"`
		Part        int               `json:"part"`
		Items       []json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.Title = raw.Title
	s.Instruction = raw.Instruction
	s.Image = raw.Image
	s.Part = raw.Part
	s.Items = make([]Item, 0, len(raw.Items))
	for i, msg := range raw.Items {
		item, err := DecodeItem(msg)
		if err != nil {
			return fmt.Errorf("section %q item %d: %w", raw.Title, i, err)
		}
		s.Items = append(s.Items, item)
	}
	return nil
}

// PartNumber returns the score bucket for the section at the given index.
func (d *ExamDocument) PartNumber(sectionIndex int) int {
	part := d.Sections[sectionIndex].Part
	if part <= 0 {
		part = sectionIndex + 1
	}
	if part > MaxPart {
		part = MaxPart
	}
	return part
}

// Items returns every item of the document in document order.
func (d *ExamDocument) Items() []Item {
	var items []Item
	for _, section := range d.Sections {
		items = append(items, section.Items...)
	}
	return items
}

func (d *ExamDocument) ItemByID(id string) (Item, bool) {
	for _, section := range d.Sections {
		for _, item := range section.Items {
			if item.Base().ID == id {
				return item, true
			}
		}
	}
	return nil, false
}
