package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ganot/accomplish/internal/config"
	"github.com/ganot/accomplish/internal/domain/activity"
	"github.com/ganot/accomplish/internal/domain/project"
	"github.com/ganot/accomplish/internal/export"
	"github.com/ganot/accomplish/internal/importer"
	"github.com/ganot/accomplish/internal/mcp"
	"github.com/ganot/accomplish/internal/period"
	"github.com/ganot/accomplish/internal/stats"
	"github.com/ganot/accomplish/internal/store"
	"github.com/ganot/accomplish/internal/transport"
)

// app holds the opened database and the services built on it.
type app struct {
	cfg        config.Config
	logger     *slog.Logger
	db         *store.DB
	keys       *store.APIKeyRepository
	projects   *project.Service
	activities *activity.Service
	importer   *importer.Importer
	stats      *stats.Service
	exporter   *export.Exporter
}

func openApp(cfg config.Config, logger *slog.Logger) (*app, error) {
	if cfg.DB.Driver == "" || cfg.DB.Driver == string(store.SQLite) {
		if err := ensureDBDir(cfg.DB.Path); err != nil {
			return nil, fmt.Errorf("failed to prepare database path: %w", err)
		}
	}

	db, err := store.New(cfg.DB.Driver, cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}

	projectSvc := project.NewService(store.NewProjectRepository(db), logger)
	activitySvc := activity.NewService(store.NewActivityRepository(db), projectSvc, logger)

	return &app{
		cfg:        cfg,
		logger:     logger,
		db:         db,
		keys:       store.NewAPIKeyRepository(db),
		projects:   projectSvc,
		activities: activitySvc,
		importer: importer.New(projectSvc, activitySvc, importer.Options{
			StrictNumbers:   cfg.Import.StrictNumbers,
			SkipLeadingRows: cfg.Import.SkipLeadingRows,
		}, logger),
		stats:    stats.NewService(projectSvc, activitySvc),
		exporter: export.New(cfg.Export.Title, logger),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func (a *app) defaultSort() period.Order {
	return period.ParseOrder(a.cfg.Export.DefaultSort, period.Asc)
}

func (a *app) mcpConfig(mode string) mcp.Config {
	return mcp.Config{
		Services: mcp.Services{
			Projects:   a.projects,
			Activities: a.activities,
			Importer:   a.importer,
			Stats:      a.stats,
			Exporter:   a.exporter,
		},
		Resolver:      a.keys,
		AuthEnabled:   a.cfg.Auth.Enabled,
		TransportMode: mode,
		DefaultSort:   a.defaultSort(),
		Version:       version,
		Logger:        a.logger,
	}
}

func (a *app) routerConfig() transport.Config {
	return transport.Config{
		Services: transport.Services{
			Projects:   a.projects,
			Activities: a.activities,
			Importer:   a.importer,
			Stats:      a.stats,
			Exporter:   a.exporter,
		},
		Resolver:       a.keys,
		AuthEnabled:    a.cfg.Auth.Enabled,
		CORSOrigins:    a.cfg.Server.CORSOrigins,
		MaxUploadBytes: a.cfg.Import.MaxUploadBytes,
		DefaultSort:    a.defaultSort(),
		Logger:         a.logger,
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
