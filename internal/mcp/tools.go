package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/accomplish/internal/domain/activity"
	"github.com/ganot/accomplish/internal/domain/project"
	"github.com/ganot/accomplish/internal/export"
	"github.com/ganot/accomplish/internal/importer"
	"github.com/ganot/accomplish/internal/period"
	"github.com/ganot/accomplish/internal/stats"
)

type toolset struct {
	Services
	defaultSort period.Order
	logger      *slog.Logger
}

func registerTools(server *sdkmcp.Server, svc Services, defaultSort period.Order, logger *slog.Logger) {
	t := &toolset{Services: svc, defaultSort: defaultSort, logger: logger}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List every project with its activity count",
	}, t.listProjects)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_activities",
		Description: "List activities in creation order, filtered by project, year, status and period bucket",
	}, t.listActivities)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_dashboard_stats",
		Description: "Compute dashboard statistics: totals, averages, gender split, monthly distribution, top initiators, partners and statuses",
	}, t.dashboard)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "import_activities_csv",
		Description: "Import activities from CSV text; projects are created on first reference",
	}, t.importCSV)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "export_activities_csv",
		Description: "Export activities as a fully quoted CSV report",
	}, t.exportCSV)
}

func (t *toolset) listProjects(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ListProjectsParams) (*sdkmcp.CallToolResult, any, error) {
	projects, err := t.Projects.List(ctx)
	if err != nil {
		return nil, nil, t.fail("list_projects", err)
	}
	if projects == nil {
		projects = []project.ProjectSummary{}
	}
	return jsonResult(ListProjectsResult{Projects: projects})
}

func (t *toolset) listActivities(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListActivitiesParams) (*sdkmcp.CallToolResult, any, error) {
	acts, err := t.Activities.List(ctx, activity.ListOptions{
		Project: projectName(in.Project),
		Year:    in.Year,
		Status:  in.Status,
		Bucket:  period.ParseBucket(in.Bucket),
		Limit:   max(in.Limit, 0),
		Offset:  max(in.Offset, 0),
	})
	if err != nil {
		return nil, nil, t.fail("list_activities", err)
	}
	if acts == nil {
		acts = []activity.Activity{}
	}
	return jsonResult(ListActivitiesResult{Activities: acts, Count: len(acts)})
}

func (t *toolset) dashboard(ctx context.Context, _ *sdkmcp.CallToolRequest, in DashboardParams) (*sdkmcp.CallToolResult, any, error) {
	d, err := t.Stats.Dashboard(ctx, stats.Filter{
		Project: in.Project,
		Year:    in.Year,
		Bucket:  period.ParseBucket(in.Bucket),
	})
	if err != nil {
		return nil, nil, t.fail("get_dashboard_stats", err)
	}
	return jsonResult(d)
}

func (t *toolset) importCSV(ctx context.Context, _ *sdkmcp.CallToolRequest, in ImportParams) (*sdkmcp.CallToolResult, any, error) {
	res, err := t.Importer.ImportFile(ctx, strings.NewReader(in.CSV), importer.FormatCSV)
	if err != nil {
		return nil, nil, t.fail("import_activities_csv", err)
	}
	return jsonResult(res)
}

func (t *toolset) exportCSV(ctx context.Context, _ *sdkmcp.CallToolRequest, in ExportParams) (*sdkmcp.CallToolResult, any, error) {
	acts, err := t.Activities.List(ctx, activity.ListOptions{
		Project: projectName(in.Project),
		Year:    in.Year,
		Bucket:  period.ParseBucket(in.Bucket),
	})
	if err != nil {
		return nil, nil, t.fail("export_activities_csv", err)
	}

	var buf bytes.Buffer
	art, err := t.Exporter.Export(&buf, export.FormatCSV, acts, period.ParseOrder(in.Sort, t.defaultSort))
	if err != nil {
		return nil, nil, t.fail("export_activities_csv", err)
	}
	return jsonResult(ExportResult{Filename: art.Filename, Records: art.Records, CSV: buf.String()})
}

// fail logs errors that carry no domain meaning and maps the rest.
func (t *toolset) fail(tool string, err error) error {
	if MapError(err) == nil {
		t.logger.Error("tool failed", "tool", tool, "error", err)
	}
	return toolError(err)
}

func projectName(s string) string {
	if s == "all" {
		return ""
	}
	return s
}

// jsonResult returns v as the text content of a tool result.
func jsonResult(v any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}
