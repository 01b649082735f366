package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SAP-F-2025/exam-form-service/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionCookie holds the exam session id
const SessionCookie = "exam_session"

// SessionMiddleware makes sure every request carries a session id, issuing a
// new cookie when the browser has none or sent something that is not a uuid.
func SessionMiddleware(ttl time.Duration, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, int(ttl.Seconds()), "/", "", secure, true)
		c.Set(utils.SessionIDKey, id)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(utils.SessionIDKey)
}

// ParseStringParam reads a path parameter and rejects blank values
func ParseStringParam(c *gin.Context, param string) string {
	value := strings.TrimSpace(c.Param(param))
	if value == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: param + " cannot be empty",
		})
		return ""
	}
	return value
}

// postedForm returns the url-encoded or multipart body fields.
func postedForm(c *gin.Context) (url.Values, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
			return nil, err
		}
	} else if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	return c.Request.PostForm, nil
}

// formFromFields converts a JSON field map to form values.
func formFromFields(fields map[string]string) url.Values {
	form := make(url.Values, len(fields))
	for k, v := range fields {
		form.Set(k, v)
	}
	return form
}
