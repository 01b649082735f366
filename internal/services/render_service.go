package services

import (
	"fmt"
	"html/template"
	"log/slog"

	"github.com/SAP-F-2025/exam-form-service/internal/models"
	"github.com/SAP-F-2025/exam-form-service/internal/widgets"
)

// Drawing canvas settings.
const (
	CanvasWidth  = 700
	CanvasHeight = 600
	StrokeWidth  = 3
	StrokeColor  = "#000000"
	CanvasColor  = "#FFFFFF"
)

// RenderService builds the page model for one session.
type RenderService interface {
	// Render returns the view of the whole exam. Step lists are created in
	// the state on first render, so callers should persist it afterwards.
	Render(state *models.AnswerState) *ExamView
	RenderItem(item models.Item, scope *models.ItemState, part int) ItemView
}

type ExamView struct {
	Title    string          `json:"title"`
	Identity models.Identity `json:"identity"`
	Classes  []string        `json:"classes"`
	Sections []SectionView   `json:"sections"`
}

type SectionView struct {
	Title       string     `json:"title"`
	Instruction string     `json:"instruction,omitempty"`
	Image       string     `json:"image,omitempty"`
	Part        int        `json:"part"`
	Items       []ItemView `json:"items"`
}

type OptionView struct {
	Label   string `json:"label"`
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

type CanvasView struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	StrokeWidth int    `json:"stroke_width"`
	StrokeColor string `json:"stroke_color"`
	Background  string `json:"background"`
}

// ItemView is everything the page needs to draw one item. Only the fields
// of the item's type are set.
type ItemView struct {
	ID      string          `json:"id"`
	Type    models.ItemType `json:"type"`
	Text    string          `json:"text,omitempty"`
	Image   string          `json:"image,omitempty"`
	Part    int             `json:"part"`
	Warning string          `json:"warning,omitempty"`

	Options []OptionView `json:"options,omitempty"`

	Num1        int      `json:"num1,omitempty"`
	Num2        int      `json:"num2,omitempty"`
	Bigger      int      `json:"bigger,omitempty"`
	Smaller     int      `json:"smaller,omitempty"`
	FactorHint1 string   `json:"factor_hint1,omitempty"`
	FactorHint2 string   `json:"factor_hint2,omitempty"`
	FactorsN1   string   `json:"factors_n1,omitempty"`
	FactorsN2   string   `json:"factors_n2,omitempty"`
	Steps       []string `json:"steps,omitempty"`
	Input       string   `json:"input,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	Error       string   `json:"error,omitempty"`
	GCF         string   `json:"gcf,omitempty"`

	Canvas  *CanvasView `json:"canvas,omitempty"`
	Drawing string      `json:"drawing,omitempty"`

	Component string        `json:"component,omitempty"`
	Widget    template.HTML `json:"widget,omitempty"`
}

type itemRenderer func(r *renderService, item models.Item, scope *models.ItemState, view *ItemView)

// itemRenderers must cover every entry of models.ItemTypes.
var itemRenderers = map[models.ItemType]itemRenderer{
	models.ItemInstruction:      renderInstruction,
	models.ItemMCQ:              renderMCQ,
	models.ItemSudoku:           renderCustom,
	models.ItemGCFFactorization: renderFactorization,
	models.ItemGCFSubtraction:   renderSteps,
	models.ItemGCFDivision:      renderSteps,
	models.ItemDrawing:          renderDrawing,
}

type renderService struct {
	doc     *models.ExamDocument
	widgets *widgets.Registry
	classes []string
	logger  *slog.Logger
}

func NewRenderService(doc *models.ExamDocument, registry *widgets.Registry, classes []string, logger *slog.Logger) RenderService {
	return &renderService{
		doc:     doc,
		widgets: registry,
		classes: classes,
		logger:  logger,
	}
}

func (r *renderService) Render(state *models.AnswerState) *ExamView {
	view := &ExamView{
		Title:    r.doc.Title,
		Identity: state.Identity,
		Classes:  r.classes,
		Sections: make([]SectionView, 0, len(r.doc.Sections)),
	}

	for si, section := range r.doc.Sections {
		part := r.doc.PartNumber(si)
		sv := SectionView{
			Title: section.Title,
			Part:  part,
			Items: make([]ItemView, 0, len(section.Items)),
		}
		if section.Instruction != nil {
			sv.Instruction = *section.Instruction
		}
		if section.Image != nil {
			sv.Image = *section.Image
		}
		for _, item := range section.Items {
			sv.Items = append(sv.Items, r.RenderItem(item, state.Item(item.Base().ID), part))
		}
		view.Sections = append(view.Sections, sv)
	}

	return view
}

func (r *renderService) RenderItem(item models.Item, scope *models.ItemState, part int) ItemView {
	base := item.Base()
	view := ItemView{
		ID:   base.ID,
		Type: item.Kind(),
		Text: base.Text,
		Part: part,
	}
	if base.Image != nil {
		view.Image = *base.Image
	}

	render, ok := itemRenderers[item.Kind()]
	if _, unknown := item.(*models.UnknownItem); unknown || !ok {
		view.Warning = fmt.Sprintf("Unknown item type: %s", item.Kind())
		r.logger.Warn("Unknown item type", "item_id", base.ID, "type", item.Kind())
		return view
	}

	render(r, item, scope, &view)
	return view
}

func renderInstruction(_ *renderService, _ models.Item, _ *models.ItemState, _ *ItemView) {}

func renderMCQ(_ *renderService, item models.Item, scope *models.ItemState, view *ItemView) {
	mcq := item.(*models.MCQItem)
	selected := scope.Get(models.SuffixValue)
	view.Options = make([]OptionView, len(mcq.Options))
	for i, opt := range mcq.Options {
		view.Options[i] = OptionView{
			Label:   OptionLabel(i),
			Text:    opt,
			Checked: opt == selected,
		}
	}
}

// OptionLabel returns the letter shown before the option at index i.
func OptionLabel(i int) string {
	label := ""
	for n := i; ; n = n/26 - 1 {
		label = string(rune('a'+n%26)) + label
		if n < 26 {
			break
		}
	}
	return label
}

func renderFactorization(_ *renderService, item models.Item, scope *models.ItemState, view *ItemView) {
	gcf := item.(*models.GCFFactorizationItem)
	view.Num1, view.Num2 = gcf.Num1, gcf.Num2
	view.FactorHint1 = FactorHint(gcf.Num1)
	view.FactorHint2 = FactorHint(gcf.Num2)
	view.FactorsN1 = scope.Get(models.SuffixFactorsN1)
	view.FactorsN2 = scope.Get(models.SuffixFactorsN2)
	view.GCF = scope.Get(models.SuffixGCF)
}

func renderSteps(_ *renderService, item models.Item, scope *models.ItemState, view *ItemView) {
	var operands models.GCFOperands
	sep := "-"
	switch it := item.(type) {
	case *models.GCFSubtractionItem:
		operands = it.GCFOperands
	case *models.GCFDivisionItem:
		operands = it.GCFOperands
		sep = "/"
	}

	scope.InitSteps()
	view.Num1, view.Num2 = operands.Num1, operands.Num2
	view.Bigger, view.Smaller = operands.Bigger(), operands.Smaller()
	view.Steps = scope.Steps()
	view.Input = scope.Get(models.SuffixInput)
	view.Error = scope.Get(models.SuffixError)
	view.Placeholder = fmt.Sprintf("e.g., %d%s%d", view.Bigger, sep, view.Smaller)
	view.GCF = scope.Get(models.SuffixGCF)
}

func renderDrawing(_ *renderService, _ models.Item, scope *models.ItemState, view *ItemView) {
	view.Canvas = &CanvasView{
		Width:       CanvasWidth,
		Height:      CanvasHeight,
		StrokeWidth: StrokeWidth,
		StrokeColor: StrokeColor,
		Background:  CanvasColor,
	}
	view.Drawing = scope.Get(models.SuffixDrawing)
	view.Error = scope.Get(models.SuffixError)
}

func renderCustom(r *renderService, item models.Item, scope *models.ItemState, view *ItemView) {
	custom := item.(*models.CustomItem)
	view.Component = custom.Component

	construct, ok := r.widgets.Lookup(custom.Component)
	if !ok {
		view.Warning = fmt.Sprintf("Unknown component: %s", custom.Component)
		r.logger.Warn("Unknown component", "item_id", custom.ID, "component", custom.Component)
		return
	}

	html, err := construct(custom.ID).Render(custom, scope.Get(models.SuffixValue))
	if err != nil {
		view.Warning = fmt.Sprintf("Failed to render component: %s", custom.Component)
		r.logger.Error("Failed to render component", "item_id", custom.ID, "error", err)
		return
	}
	view.Widget = html
}
