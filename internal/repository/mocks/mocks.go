package mocks

import (
	"context"

	"github.com/ganot/accomplish/internal/domain/activity"
	"github.com/ganot/accomplish/internal/domain/project"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) GetByName(ctx context.Context, name string) (*project.Project, error) {
	args := m.Called(ctx, name)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Upsert(ctx context.Context, proj *project.Project) (*project.Project, bool, error) {
	args := m.Called(ctx, proj)
	if stored, ok := args.Get(0).(*project.Project); ok {
		return stored, args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

func (m *ProjectRepository) List(ctx context.Context) ([]project.ProjectSummary, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]project.ProjectSummary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Create(ctx context.Context, act *activity.Activity) error {
	args := m.Called(ctx, act)
	return args.Error(0)
}

func (m *ActivityRepository) CreateBatch(ctx context.Context, acts []*activity.Activity) (int, error) {
	args := m.Called(ctx, acts)
	return args.Int(0), args.Error(1)
}

func (m *ActivityRepository) Get(ctx context.Context, id string) (*activity.Activity, error) {
	args := m.Called(ctx, id)
	if act, ok := args.Get(0).(*activity.Activity); ok {
		return act, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) Update(ctx context.Context, act *activity.Activity) error {
	args := m.Called(ctx, act)
	return args.Error(0)
}

func (m *ActivityRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Activity, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.Activity); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) CountByProject(ctx context.Context, projectID string) (int, error) {
	args := m.Called(ctx, projectID)
	return args.Int(0), args.Error(1)
}

// ProjectResolver is a mock for activity.ProjectResolver.
type ProjectResolver struct {
	mock.Mock
}

func (m *ProjectResolver) Resolve(ctx context.Context, name string) (*project.Project, bool, error) {
	args := m.Called(ctx, name)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

func (m *ProjectResolver) Delete(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

// ActivityWriter is a mock for importer.ActivityWriter.
type ActivityWriter struct {
	mock.Mock
}

func (m *ActivityWriter) InsertBatch(ctx context.Context, acts []*activity.Activity) (int, error) {
	args := m.Called(ctx, acts)
	return args.Int(0), args.Error(1)
}
