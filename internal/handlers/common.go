package handlers

import (
	"errors"
	"net/http"

	"github.com/SAP-F-2025/exam-form-service/internal/services"
	"github.com/SAP-F-2025/exam-form-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging functionality for all handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// log returns the request logger set by utils.ContextLogger.
func (h *BaseHandler) log(c *gin.Context) utils.Logger {
	return utils.GetLoggerFromContext(c, h.logger)
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, fields ...any) {
	h.log(c).InfoContext(c.Request.Context(), message, fields...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, message string, fields ...any) {
	h.log(c).ErrorContext(c.Request.Context(), message, append([]any{"error", err}, fields...)...)
}

func (h *BaseHandler) LogWarn(c *gin.Context, message string, fields ...any) {
	h.log(c).WarnContext(c.Request.Context(), message, fields...)
}

// RespondWithError sends a consistent error response and logs it
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, message string, err error, details ...interface{}) {
	errorResp := ErrorResponse{Message: message}
	if len(details) > 0 {
		errorResp.Details = details[0]
	}

	if err != nil && statusCode >= http.StatusInternalServerError {
		h.LogError(c, err, message, "status_code", statusCode)
	} else {
		h.LogWarn(c, message, "status_code", statusCode, "error", err)
	}

	c.JSON(statusCode, errorResp)
}

// RespondWithSuccess sends a consistent success response
func (h *BaseHandler) RespondWithSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, SuccessResponse{
		Message: message,
		Data:    data,
	})
}

// errorStatus maps a service error to its HTTP status and public message.
func errorStatus(err error) (int, string) {
	switch {
	case services.IsValidation(err):
		return http.StatusBadRequest, "Validation failed"
	case services.IsBadRequest(err):
		return http.StatusBadRequest, "Invalid request"
	case services.IsNotFound(err):
		return http.StatusNotFound, "Not found"
	case services.IsWorksheetNotFound(err):
		return http.StatusBadGateway, "Class worksheet not found in the score sheet"
	case services.IsPipeline(err):
		return http.StatusBadGateway, "Submission incomplete"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// errorDetails returns what the client may see about err.
func errorDetails(err error) interface{} {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		return validationErrors
	}
	var pe *services.PipelineError
	if errors.As(err, &pe) {
		failed := make(map[string]string, len(pe.Failures))
		for stage, stageErr := range pe.Failures {
			failed[stage] = stageErr.Error()
		}
		return failed
	}
	if services.IsBadRequest(err) || services.IsNotFound(err) {
		return err.Error()
	}
	return nil
}

func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	status, message := errorStatus(err)
	h.RespondWithError(c, status, message, err, errorDetails(err))
}

// HealthCheck reports liveness
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "exam-form-service",
	})
}
