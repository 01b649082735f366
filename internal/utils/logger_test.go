package utils

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestContextLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	base := newLogger(&buf, "development")

	router := gin.New()
	router.GET("/exam",
		func(c *gin.Context) { c.Set(SessionIDKey, "sess-1") },
		ContextLogger(base),
		func(c *gin.Context) {
			GetLoggerFromContext(c, nil).WarnContext(c.Request.Context(), "Rejected form action", "action", "explode")
			c.Status(http.StatusNoContent)
		},
	)

	req := httptest.NewRequest(http.MethodGet, "/exam", nil)
	req.Header.Set("X-Request-ID", "req-9")
	router.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	assert.Contains(t, line, "level=WARN")
	assert.Contains(t, line, "Rejected form action")
	assert.Contains(t, line, "session_id=sess-1")
	assert.Contains(t, line, "request_id=req-9")
	assert.Contains(t, line, "path=/exam")
	assert.Contains(t, line, "action=explode")
}

func TestGetLoggerFromContext_Fallback(t *testing.T) {
	fallback := NewSlogLogger(nil)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Same(t, fallback, GetLoggerFromContext(c, fallback))

	c.Set(loggerKey, "not a logger")
	assert.Same(t, fallback, GetLoggerFromContext(c, fallback))
}

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, "production").Debug("hidden")
	assert.Empty(t, buf.String())

	newLogger(&buf, "production").LogRequest(http.MethodPost, "/exam", http.StatusBadGateway, 0)
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), `"status_code":502`)
}
