package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/SAP-F-2025/exam-form-service/internal/models"
	"github.com/SAP-F-2025/exam-form-service/internal/services"
	"github.com/SAP-F-2025/exam-form-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// ExamHandler serves the HTML exam form. Every button posts the whole form
// to /exam; non-submit actions redirect back to the page.
type ExamHandler struct {
	BaseHandler
	answers     services.AnswerService
	renderer    services.RenderService
	submissions services.SubmissionService
}

// examPage is the data handed to the exam template
type examPage struct {
	Exam     *services.ExamView
	Result   *services.SubmissionResult
	Errors   []string
	Failures map[string]string
}

func NewExamHandler(
	answers services.AnswerService,
	renderer services.RenderService,
	submissions services.SubmissionService,
	logger utils.Logger,
) *ExamHandler {
	return &ExamHandler{
		BaseHandler: NewBaseHandler(logger),
		answers:     answers,
		renderer:    renderer,
		submissions: submissions,
	}
}

// ShowExam renders the form from the session's answers
func (h *ExamHandler) ShowExam(c *gin.Context) {
	state, err := h.answers.Load(c.Request.Context(), sessionID(c))
	if err != nil {
		h.LogError(c, err, "Failed to load session")
		c.String(http.StatusInternalServerError, "Failed to load your answers")
		return
	}
	h.renderPage(c, http.StatusOK, state, examPage{})
}

// PostExam handles update, add_step:<id>, remove_step:<id>, submit and reset
func (h *ExamHandler) PostExam(c *gin.Context) {
	ctx := c.Request.Context()

	state, err := h.answers.Load(ctx, sessionID(c))
	if err != nil {
		h.LogError(c, err, "Failed to load session")
		c.String(http.StatusInternalServerError, "Failed to load your answers")
		return
	}

	form, err := postedForm(c)
	if err != nil {
		h.renderPage(c, http.StatusBadRequest, state, examPage{Errors: []string{"Invalid form data"}})
		return
	}

	action, err := services.ParseAction(form.Get("action"))
	if err != nil {
		h.LogWarn(c, "Rejected form action", "action", form.Get("action"))
		h.renderPage(c, http.StatusBadRequest, state, examPage{Errors: []string{err.Error()}})
		return
	}

	if action.Name == services.ActionSubmit {
		h.submit(c, state, form)
		return
	}

	h.LogRequest(c, "Applying form action", "action", action.Name, "item_id", action.ItemID)
	next, err := h.answers.Apply(ctx, state, action, form)
	if err != nil {
		status, _ := errorStatus(err)
		if status >= http.StatusInternalServerError {
			h.LogError(c, err, "Form action failed", "action", action.Name)
		}
		h.renderPage(c, status, state, examPage{Errors: []string{err.Error()}})
		return
	}
	state = next
	if err := h.answers.Save(ctx, state); err != nil {
		h.LogError(c, err, "Failed to save session")
		c.String(http.StatusInternalServerError, "Failed to save your answers")
		return
	}

	c.Redirect(http.StatusSeeOther, redirectTarget(action))
}

func (h *ExamHandler) submit(c *gin.Context, state *models.AnswerState, form url.Values) {
	h.answers.UpdateFields(state, form)

	result, err := h.submissions.Submit(c.Request.Context(), state)
	page := examPage{Result: result}
	status := http.StatusOK
	if err != nil {
		var message string
		status, message = errorStatus(err)

		var validationErrors services.ValidationErrors
		var pipelineErr *services.PipelineError
		switch {
		case errors.As(err, &validationErrors):
			page.Errors = validationErrors.Messages()
		case errors.As(err, &pipelineErr):
			page.Errors = []string{message}
			page.Failures = errorDetails(err).(map[string]string)
		default:
			h.LogError(c, err, "Submission failed")
			page.Errors = []string{message}
		}
	}

	h.renderPage(c, status, state, page)
}

// DownloadSubmission streams the session's last submission file
func (h *ExamHandler) DownloadSubmission(c *gin.Context) {
	name := ParseStringParam(c, "file")
	if name == "" {
		return
	}

	state, err := h.answers.Load(c.Request.Context(), sessionID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	rc, err := h.submissions.OpenSubmission(state, name)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, -1, "application/json", rc, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", name),
	})
}

// renderPage saves the state after rendering, since the first render
// initializes step lists.
func (h *ExamHandler) renderPage(c *gin.Context, status int, state *models.AnswerState, page examPage) {
	page.Exam = h.renderer.Render(state)
	if err := h.answers.Save(c.Request.Context(), state); err != nil {
		h.LogError(c, err, "Failed to save session")
	}
	c.HTML(status, examTemplate, page)
}

func redirectTarget(action services.Action) string {
	if action.ItemID != "" {
		return "/#item-" + action.ItemID
	}
	return "/"
}
