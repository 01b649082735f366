package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/SAP-F-2025/exam-form-service/internal/services"
	"github.com/SAP-F-2025/exam-form-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// APIHandler exposes the exam form as JSON for script clients. It shares
// the session cookie with the HTML form.
type APIHandler struct {
	BaseHandler
	answers     services.AnswerService
	renderer    services.RenderService
	submissions services.SubmissionService
}

// ActionRequest applies one form action. Fields use the same names as the
// HTML form.
type ActionRequest struct {
	Action string            `json:"action"`
	Fields map[string]string `json:"fields"`
}

// SubmitRequest carries the last field values before submitting
type SubmitRequest struct {
	Fields map[string]string `json:"fields"`
}

// SubmissionFailure is the error detail of a partially failed submission
type SubmissionFailure struct {
	Result   *services.SubmissionResult `json:"result"`
	Failures interface{}                `json:"failures"`
}

func NewAPIHandler(
	answers services.AnswerService,
	renderer services.RenderService,
	submissions services.SubmissionService,
	logger utils.Logger,
) *APIHandler {
	return &APIHandler{
		BaseHandler: NewBaseHandler(logger),
		answers:     answers,
		renderer:    renderer,
		submissions: submissions,
	}
}

// GetExam returns the rendered exam for the current session
// @Summary Get exam
// @Tags exam
// @Produce json
// @Success 200 {object} SuccessResponse{data=services.ExamView}
// @Router /exam [get]
func (h *APIHandler) GetExam(c *gin.Context) {
	ctx := c.Request.Context()
	state, err := h.answers.Load(ctx, sessionID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	view := h.renderer.Render(state)
	if err := h.answers.Save(ctx, state); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Exam retrieved successfully", view)
}

// GetSession returns the stored answers of the current session
// @Summary Get session answers
// @Tags session
// @Produce json
// @Success 200 {object} SuccessResponse{data=models.AnswerState}
// @Router /session [get]
func (h *APIHandler) GetSession(c *gin.Context) {
	state, err := h.answers.Load(c.Request.Context(), sessionID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Session retrieved successfully", state)
}

// ApplyAction runs update, add_step, remove_step or reset
// @Summary Apply form action
// @Tags session
// @Accept json
// @Produce json
// @Param action body ActionRequest true "Action and field values"
// @Success 200 {object} SuccessResponse{data=models.AnswerState}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /session/actions [post]
func (h *APIHandler) ApplyAction(c *gin.Context) {
	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	action, err := services.ParseAction(req.Action)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if action.Name == services.ActionSubmit {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request", nil, "submit through POST /api/v1/submissions")
		return
	}

	ctx := c.Request.Context()
	state, err := h.answers.Load(ctx, sessionID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.LogRequest(c, "Applying session action", "action", action.Name, "item_id", action.ItemID)
	state, err = h.answers.Apply(ctx, state, action, formFromFields(req.Fields))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if err := h.answers.Save(ctx, state); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Action applied successfully", state)
}

// Submit scores the session, writes the submission file and appends the
// score row
// @Summary Submit exam
// @Tags submissions
// @Accept json
// @Produce json
// @Param submission body SubmitRequest false "Final field values"
// @Success 201 {object} SuccessResponse{data=services.SubmissionResult}
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse{details=SubmissionFailure}
// @Router /submissions [post]
func (h *APIHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	ctx := c.Request.Context()
	state, err := h.answers.Load(ctx, sessionID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.answers.UpdateFields(state, formFromFields(req.Fields))

	h.LogRequest(c, "Submitting exam", "class", state.Identity.Class, "roll_number", state.Identity.RollNumber)
	result, submitErr := h.submissions.Submit(ctx, state)
	if err := h.answers.Save(ctx, state); err != nil {
		h.LogError(c, err, "Failed to save session after submit")
	}

	if submitErr != nil {
		if result != nil {
			status, message := errorStatus(submitErr)
			h.RespondWithError(c, status, message, submitErr, SubmissionFailure{
				Result:   result,
				Failures: errorDetails(submitErr),
			})
			return
		}
		h.handleServiceError(c, submitErr)
		return
	}

	h.RespondWithSuccess(c, http.StatusCreated, "Submission recorded successfully", result)
}
