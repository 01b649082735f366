package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/SAP-F-2025/exam-form-service/internal/models"
	"github.com/SAP-F-2025/exam-form-service/internal/repositories"
	"github.com/SAP-F-2025/exam-form-service/internal/widgets"
)

// Form actions posted with the exam form.
const (
	ActionUpdate     = "update"
	ActionAddStep    = "add_step"
	ActionRemoveStep = "remove_step"
	ActionSubmit     = "submit"
	ActionReset      = "reset"
)

const pngDataURLPrefix = "data:image/png;base64,"

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Action is a parsed form action such as "add_step:q2".
type Action struct {
	Name   string `json:"name"`
	ItemID string `json:"item_id,omitempty"`
}

// ParseAction parses update, submit, reset, add_step:<id> and
// remove_step:<id>. An empty action is an update.
func ParseAction(raw string) (Action, error) {
	name, itemID, hasItem := strings.Cut(strings.TrimSpace(raw), ":")
	switch name {
	case "", ActionUpdate:
		return Action{Name: ActionUpdate}, nil
	case ActionSubmit, ActionReset:
		if hasItem {
			return Action{}, fmt.Errorf("%w: %s", ErrUnknownAction, raw)
		}
		return Action{Name: name}, nil
	case ActionAddStep, ActionRemoveStep:
		if itemID == "" {
			return Action{}, fmt.Errorf("%w: %s needs an item id", ErrUnknownAction, name)
		}
		return Action{Name: name, ItemID: itemID}, nil
	default:
		return Action{}, fmt.Errorf("%w: %s", ErrUnknownAction, raw)
	}
}

// AnswerService owns a session's AnswerState and every change made to it.
type AnswerService interface {
	// Load returns the stored state, or a fresh unsaved one.
	Load(ctx context.Context, sessionID string) (*models.AnswerState, error)
	Save(ctx context.Context, state *models.AnswerState) error
	// Apply copies the posted fields into the state and then runs the
	// action. Submit is not handled here.
	Apply(ctx context.Context, state *models.AnswerState, action Action, form url.Values) (*models.AnswerState, error)

	UpdateFields(state *models.AnswerState, form url.Values)
	AddStep(state *models.AnswerState, itemID string) error
	RemoveStep(state *models.AnswerState, itemID string) error
	Reset(ctx context.Context, sessionID string) (*models.AnswerState, error)
}

type answerService struct {
	doc             *models.ExamDocument
	sessions        repositories.SessionRepository
	widgets         *widgets.Registry
	maxDrawingBytes int
	logger          *slog.Logger
}

func NewAnswerService(doc *models.ExamDocument, sessions repositories.SessionRepository, registry *widgets.Registry, maxDrawingBytes int, logger *slog.Logger) AnswerService {
	return &answerService{
		doc:             doc,
		sessions:        sessions,
		widgets:         registry,
		maxDrawingBytes: maxDrawingBytes,
		logger:          logger,
	}
}

func (s *answerService) Load(ctx context.Context, sessionID string) (*models.AnswerState, error) {
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if state == nil {
		s.logger.Debug("Starting new session", "session_id", sessionID)
		return models.NewAnswerState(sessionID), nil
	}
	return state, nil
}

func (s *answerService) Save(ctx context.Context, state *models.AnswerState) error {
	state.Touch()
	if err := s.sessions.Save(ctx, state); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *answerService) Apply(ctx context.Context, state *models.AnswerState, action Action, form url.Values) (*models.AnswerState, error) {
	if action.Name == ActionReset {
		return s.Reset(ctx, state.SessionID)
	}

	s.UpdateFields(state, form)

	switch action.Name {
	case ActionUpdate:
		return state, nil
	case ActionAddStep:
		return state, s.AddStep(state, action.ItemID)
	case ActionRemoveStep:
		return state, s.RemoveStep(state, action.ItemID)
	default:
		return state, fmt.Errorf("%w: %s", ErrUnknownAction, action.Name)
	}
}

func (s *answerService) UpdateFields(state *models.AnswerState, form url.Values) {
	if v, ok := formValue(form, "class"); ok {
		state.Identity.Class = strings.TrimSpace(v)
	}
	if v, ok := formValue(form, "nickname"); ok {
		state.Identity.Nickname = strings.TrimSpace(v)
	}
	if v, ok := formValue(form, "roll_number"); ok {
		state.Identity.RollNumber = strings.TrimSpace(v)
	}

	for _, item := range s.doc.Items() {
		scope := state.Item(item.Base().ID)
		switch it := item.(type) {
		case *models.MCQItem:
			// only one of the listed options is accepted
			if v, ok := formValue(form, scope.ItemID()); ok && containsString(it.Options, v) {
				scope.Set(models.SuffixValue, v)
			}
		case *models.DrawingItem:
			s.updateDrawing(scope, form)
		case *models.CustomItem:
			construct, ok := s.widgets.Lookup(it.Component)
			if !ok {
				continue
			}
			if v, ok := construct(scope.ItemID()).Decode(form); ok {
				scope.Set(models.SuffixValue, v)
			}
		default:
			for _, suffix := range models.InputSuffixes(item) {
				if v, ok := formValue(form, models.AnswerKey(scope.ItemID(), suffix)); ok {
					scope.Set(suffix, v)
				}
			}
		}
	}
}

func (s *answerService) updateDrawing(scope *models.ItemState, form url.Values) {
	v, ok := formValue(form, models.AnswerKey(scope.ItemID(), models.SuffixDrawing))
	if !ok {
		return
	}
	switch err := ValidateDrawing(v, s.maxDrawingBytes); err {
	case nil:
		scope.Set(models.SuffixDrawing, v)
		scope.Set(models.SuffixError, "")
	case ErrDrawingTooLarge:
		scope.Set(models.SuffixError, "❌ Drawing is too large.")
	default:
		scope.Set(models.SuffixError, "❌ Drawing must be a PNG image.")
	}
}

func (s *answerService) AddStep(state *models.AnswerState, itemID string) error {
	item, ok := s.doc.ItemByID(itemID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}

	scope := state.Item(itemID)
	switch it := item.(type) {
	case *models.GCFSubtractionItem:
		AddSubtractionStep(scope, it)
	case *models.GCFDivisionItem:
		AddDivisionStep(scope, it)
	default:
		return fmt.Errorf("%w: %s", ErrItemNotSteppable, itemID)
	}
	return nil
}

func (s *answerService) RemoveStep(state *models.AnswerState, itemID string) error {
	item, ok := s.doc.ItemByID(itemID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}

	switch item.(type) {
	case *models.GCFSubtractionItem, *models.GCFDivisionItem:
		RemoveLastStep(state.Item(itemID))
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrItemNotSteppable, itemID)
	}
}

func (s *answerService) Reset(ctx context.Context, sessionID string) (*models.AnswerState, error) {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("failed to reset session: %w", err)
	}
	return models.NewAnswerState(sessionID), nil
}

// ValidateDrawing accepts an empty value (a cleared canvas) or a base64 PNG
// data URL no longer than maxBytes. A maxBytes of zero disables the limit.
func ValidateDrawing(v string, maxBytes int) error {
	if v == "" {
		return nil
	}
	if !strings.HasPrefix(v, pngDataURLPrefix) {
		return ErrInvalidDrawing
	}
	if maxBytes > 0 && len(v) > maxBytes {
		return ErrDrawingTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(v[len(pngDataURLPrefix):])
	if err != nil || !bytes.HasPrefix(data, pngSignature) {
		return ErrInvalidDrawing
	}
	return nil
}

func formValue(form url.Values, key string) (string, bool) {
	vals, ok := form[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
