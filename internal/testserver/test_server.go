// Package testserver runs the full HTTP stack on an in-memory database.
package testserver

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

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

// Options tune the stack under test.
type Options struct {
	AuthEnabled    bool
	StrictNumbers  bool
	MaxUploadBytes int64
	// Now fixes the clock of the activity service and the exporter.
	Now func() time.Time
}

type TestServer struct {
	Server     *httptest.Server
	DB         *store.DB
	Token      string
	Projects   *project.Service
	Activities *activity.Service
}

// New starts a server backed by a fresh in-memory database. When auth is
// enabled a key is issued and returned in Token.
func New(t *testing.T, opts Options) *TestServer {
	t.Helper()

	db, err := store.New("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	projectSvc := project.NewService(store.NewProjectRepository(db), nil)
	activitySvc := activity.NewService(store.NewActivityRepository(db), projectSvc, nil, activity.WithClock(now))
	importSvc := importer.New(projectSvc, activitySvc, importer.Options{StrictNumbers: opts.StrictNumbers}, nil)
	statsSvc := stats.NewService(projectSvc, activitySvc)
	exporter := export.New("Activities Report", nil, export.WithClock(now))
	keys := store.NewAPIKeyRepository(db)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects:   projectSvc,
			Activities: activitySvc,
			Importer:   importSvc,
			Stats:      statsSvc,
			Exporter:   exporter,
		},
		Resolver:      keys,
		AuthEnabled:   opts.AuthEnabled,
		TransportMode: "http",
		DefaultSort:   period.Asc,
	})

	router := transport.NewRouter(transport.Config{
		Services: transport.Services{
			Projects:   projectSvc,
			Activities: activitySvc,
			Importer:   importSvc,
			Stats:      statsSvc,
			Exporter:   exporter,
		},
		Resolver:       keys,
		AuthEnabled:    opts.AuthEnabled,
		MaxUploadBytes: opts.MaxUploadBytes,
		DefaultSort:    period.Asc,
		MCP:            mcp.NewHTTPHandler(mcpServer),
	})
	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:     server,
		DB:         db,
		Projects:   projectSvc,
		Activities: activitySvc,
	}
	if opts.AuthEnabled {
		ts.Token, err = keys.Create(context.Background(), t.Name())
		require.NoError(t, err)
	}

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// URL joins path onto the server address.
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}
