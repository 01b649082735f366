package handlers

import (
	"embed"
	"html/template"
	"slices"
	"strings"
	"time"

	"github.com/SAP-F-2025/exam-form-service/internal/services"
	"github.com/SAP-F-2025/exam-form-service/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const examTemplate = "exam.tmpl"

// LoadTemplates parses the embedded page templates
func LoadTemplates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"asset": assetURL,
	}).ParseFS(templateFS, "templates/*.tmpl")
}

// assetURL serves relative exam image paths from /assets.
func assetURL(path string) string {
	if path == "" || strings.HasPrefix(path, "/") || strings.HasPrefix(path, "data:") || strings.Contains(path, "://") {
		return path
	}
	return "/assets/" + strings.TrimPrefix(path, "./")
}

// RouterOptions configure the session cookie, CORS and exam images
type RouterOptions struct {
	SessionTTL   time.Duration
	CookieSecure bool
	CORSOrigins  []string
	// AssetsDir is served under /assets when set
	AssetsDir string
}

type HandlerManager struct {
	logger      utils.Logger
	examHandler *ExamHandler
	apiHandler  *APIHandler
	templates   *template.Template
	options     RouterOptions
}

func NewHandlerManager(
	answers services.AnswerService,
	renderer services.RenderService,
	submissions services.SubmissionService,
	logger utils.Logger,
	options RouterOptions,
) (*HandlerManager, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}
	return &HandlerManager{
		logger:      logger,
		examHandler: NewExamHandler(answers, renderer, submissions, logger),
		apiHandler:  NewAPIHandler(answers, renderer, submissions, logger),
		templates:   templates,
		options:     options,
	}, nil
}

// SetupRoutes sets up the form pages and the JSON API
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.SetHTMLTemplate(hm.templates)
	if len(hm.options.CORSOrigins) > 0 {
		router.Use(newCORS(hm.options.CORSOrigins))
	}

	router.GET("/health", HealthCheck)
	if hm.options.AssetsDir != "" {
		router.Static("/assets", hm.options.AssetsDir)
	}

	session := SessionMiddleware(hm.options.SessionTTL, hm.options.CookieSecure)
	requestLogger := utils.ContextLogger(hm.logger)

	// Form routes
	form := router.Group("", session, requestLogger)
	{
		form.GET("/", hm.examHandler.ShowExam)
		form.POST("/exam", hm.examHandler.PostExam)
		form.GET("/submissions/:file", hm.examHandler.DownloadSubmission)
	}

	// API v1 routes
	v1 := router.Group("/api/v1", session, requestLogger)
	{
		v1.GET("/exam", hm.apiHandler.GetExam)
		v1.GET("/session", hm.apiHandler.GetSession)
		v1.POST("/session/actions", hm.apiHandler.ApplyAction)
		v1.POST("/submissions", hm.apiHandler.Submit)
	}
}

func newCORS(origins []string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		config.AllowAllOrigins = true
	} else {
		// the API relies on the session cookie
		config.AllowOrigins = origins
		config.AllowCredentials = true
	}
	return cors.New(config)
}
