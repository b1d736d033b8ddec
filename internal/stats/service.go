package stats

import (
	"context"
	"fmt"

	"github.com/ganot/accomplish/internal/domain/activity"
	"github.com/ganot/accomplish/internal/domain/project"
	"github.com/ganot/accomplish/internal/period"
)

// ProjectLister lists projects with their activity counts.
type ProjectLister interface {
	List(ctx context.Context) ([]project.ProjectSummary, error)
}

// ActivityLister lists activities, applying the period bucket.
type ActivityLister interface {
	List(ctx context.Context, opts activity.ListOptions) ([]activity.Activity, error)
}

// Filter narrows the dashboard. Project is a project name; empty or "all"
// selects every project.
type Filter struct {
	Project string
	Year    string
	Bucket  period.Bucket
}

// Service loads projects and activities and computes the dashboard.
type Service struct {
	projects   ProjectLister
	activities ActivityLister
}

// NewService creates a stats Service.
func NewService(projects ProjectLister, activities ActivityLister) *Service {
	return &Service{projects: projects, activities: activities}
}

// Dashboard computes the dashboard for f.
func (s *Service) Dashboard(ctx context.Context, f Filter) (*Dashboard, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	opts := activity.ListOptions{Year: f.Year, Bucket: f.Bucket}
	if f.Project != "" && f.Project != "all" {
		selected := projects[:0:0]
		for _, p := range projects {
			if p.Name == f.Project {
				selected = append(selected, p)
			}
		}
		projects = selected
		opts.Project = f.Project
	}

	acts, err := s.activities.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	return Compute(projects, acts), nil
}
