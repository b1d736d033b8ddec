// Package mcp exposes the reporting services as MCP tools.
package mcp

import (
	"context"
	"io"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/accomplish/internal/domain/activity"
	"github.com/ganot/accomplish/internal/domain/project"
	"github.com/ganot/accomplish/internal/export"
	"github.com/ganot/accomplish/internal/importer"
	"github.com/ganot/accomplish/internal/period"
	"github.com/ganot/accomplish/internal/stats"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	List(ctx context.Context) ([]project.ProjectSummary, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	List(ctx context.Context, opts activity.ListOptions) ([]activity.Activity, error)
}

// ImportService imports spreadsheet rows.
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
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects   ProjectService
	Activities ActivityService
	Importer   ImportService
	Stats      StatsService
	Exporter   ExportService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      KeyResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	DefaultSort   period.Order
	Version       string
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "accomplish",
		Version: cfg.Version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio is local only and never authenticates.
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver, cfg.Logger))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services, cfg.DefaultSort, cfg.Logger)

	return server
}
