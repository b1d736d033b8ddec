// Package transport exposes the services over HTTP with gin.
package transport

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ganot/accomplish/internal/domain/activity"
	"github.com/ganot/accomplish/internal/domain/project"
	"github.com/ganot/accomplish/internal/export"
	"github.com/ganot/accomplish/internal/importer"
	"github.com/ganot/accomplish/internal/period"
	"github.com/ganot/accomplish/internal/stats"
)

// ProjectService defines project operations needed over HTTP.
type ProjectService interface {
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	List(ctx context.Context) ([]project.ProjectSummary, error)
	Update(ctx context.Context, req project.UpdateRequest) (*project.Project, error)
	Delete(ctx context.Context, id string) (int, error)
}

// ActivityService defines activity operations needed over HTTP.
type ActivityService interface {
	Create(ctx context.Context, req activity.CreateRequest) (*activity.Activity, error)
	Get(ctx context.Context, id string) (*activity.Activity, error)
	List(ctx context.Context, opts activity.ListOptions) ([]activity.Activity, error)
	Update(ctx context.Context, req activity.UpdateRequest) (*activity.Activity, error)
	Delete(ctx context.Context, req activity.DeleteRequest) (*activity.DeleteResult, error)
	Upcoming(ctx context.Context, months, limit int) ([]activity.Activity, error)
}

// ImportService imports an uploaded file.
type ImportService interface {
	ImportFile(ctx context.Context, r io.Reader, format importer.Format) (*importer.Result, error)
}

// StatsService computes the dashboard.
type StatsService interface {
	Dashboard(ctx context.Context, f stats.Filter) (*stats.Dashboard, error)
}

// ExportService renders report files.
type ExportService interface {
	Export(w io.Writer, f export.Format, acts []activity.Activity, order period.Order) (*export.Artifact, error)
	Chart(w io.Writer, d *stats.Dashboard) (*export.Artifact, error)
}

// Services contains the domain services served over HTTP.
type Services struct {
	Projects   ProjectService
	Activities ActivityService
	Importer   ImportService
	Stats      StatsService
	Exporter   ExportService
}

// Config contains router configuration.
type Config struct {
	Services       Services
	Resolver       KeyResolver
	AuthEnabled    bool
	CORSOrigins    []string
	MaxUploadBytes int64
	DefaultSort    period.Order
	// MCP, when set, is mounted at /mcp. It authenticates on its own.
	MCP    http.Handler
	Logger *slog.Logger
}

type handler struct {
	Services
	maxUpload   int64
	defaultSort period.Order
	logger      *slog.Logger
}

// NewRouter creates the HTTP router with middleware.
func NewRouter(cfg Config) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(logger), CORS(cfg.CORSOrigins))

	h := &handler{
		Services:    cfg.Services,
		maxUpload:   cfg.MaxUploadBytes,
		defaultSort: cfg.DefaultSort,
		logger:      logger,
	}

	r.GET("/health", h.health)
	if cfg.MCP != nil {
		r.Any("/mcp", gin.WrapH(cfg.MCP))
	}

	api := r.Group("/api")
	if cfg.AuthEnabled {
		api.Use(AuthMiddleware(cfg.Resolver))
	}

	api.GET("/projects", h.listProjects)
	api.POST("/projects", h.createProject)
	api.POST("/projects/import", h.importActivities)
	api.GET("/projects/:id", h.getProject)
	api.PATCH("/projects/:id", h.updateProject)
	api.DELETE("/projects/:id", h.deleteProject)

	api.GET("/activities", h.listActivities)
	api.POST("/activities", h.createActivity)
	api.GET("/activities/upcoming", h.upcomingActivities)
	api.GET("/activities/export", h.exportActivities)
	api.GET("/activities/:id", h.getActivity)
	api.PATCH("/activities/:id", h.updateActivity)
	api.DELETE("/activities/:id", h.deleteActivity)

	api.GET("/stats", h.dashboard)
	api.GET("/stats/chart.png", h.chart)

	return r
}

func (h *handler) health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// fail writes err as an API error. Internal errors are logged and reported
// with fallback as their message.
func (h *handler) fail(c *gin.Context, err error, fallback string) {
	apiErr := MapError(err)
	if apiErr.Status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		if fallback != "" {
			apiErr.Message = fallback
		}
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(apiErr.Status, apiErr)
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, &APIError{Code: "BAD_REQUEST", Message: message})
}
