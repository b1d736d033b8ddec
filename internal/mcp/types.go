package mcp

import (
	"github.com/ganot/accomplish/internal/domain/activity"
	"github.com/ganot/accomplish/internal/domain/project"
)

// ListProjectsParams takes no arguments.
type ListProjectsParams struct{}

// ListProjectsResult is returned by list_projects.
type ListProjectsResult struct {
	Projects []project.ProjectSummary `json:"projects"`
}

// ListActivitiesParams filters list_activities.
type ListActivitiesParams struct {
	Project string `json:"project,omitempty" jsonschema:"project name; empty or all for every project"`
	Year    string `json:"year,omitempty" jsonschema:"calendar year such as 2024"`
	Status  string `json:"status,omitempty" jsonschema:"activity status such as Completed"`
	Bucket  string `json:"bucket,omitempty" jsonschema:"period bucket: all year Q1 Q2 Q3 Q4 S1 S2"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of activities"`
	Offset  int    `json:"offset,omitempty" jsonschema:"activities to skip"`
}

// ListActivitiesResult is returned by list_activities.
type ListActivitiesResult struct {
	Activities []activity.Activity `json:"activities"`
	Count      int                 `json:"count"`
}

// DashboardParams filters get_dashboard_stats.
type DashboardParams struct {
	Project string `json:"project,omitempty" jsonschema:"project name; empty or all for every project"`
	Year    string `json:"year,omitempty" jsonschema:"calendar year such as 2024"`
	Bucket  string `json:"bucket,omitempty" jsonschema:"period bucket: all year Q1 Q2 Q3 Q4 S1 S2"`
}

// ImportParams carries a CSV document for import_activities_csv.
type ImportParams struct {
	CSV string `json:"csv" jsonschema:"CSV text whose first line is the header row"`
}

// ExportParams filters export_activities_csv.
type ExportParams struct {
	Project string `json:"project,omitempty" jsonschema:"project name; empty or all for every project"`
	Year    string `json:"year,omitempty" jsonschema:"calendar year such as 2024"`
	Bucket  string `json:"bucket,omitempty" jsonschema:"period bucket: all year Q1 Q2 Q3 Q4 S1 S2"`
	Sort    string `json:"sort,omitempty" jsonschema:"asc or desc by month"`
}

// ExportResult is returned by export_activities_csv.
type ExportResult struct {
	Filename string `json:"filename"`
	Records  int    `json:"records"`
	CSV      string `json:"csv"`
}
