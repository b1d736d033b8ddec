package activity

import (
	"context"

	"github.com/ganot/accomplish/internal/domain/project"
)

// Repository provides persistence operations for activities.
type Repository interface {
	Create(ctx context.Context, act *Activity) error
	// CreateBatch inserts all activities in one transaction.
	CreateBatch(ctx context.Context, acts []*Activity) (int, error)
	Get(ctx context.Context, id string) (*Activity, error)
	Update(ctx context.Context, act *Activity) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts ListOptions) ([]Activity, error)
	CountByProject(ctx context.Context, projectID string) (int, error)
}

// ProjectResolver finds or creates projects by name.
type ProjectResolver interface {
	Resolve(ctx context.Context, name string) (*project.Project, bool, error)
	Delete(ctx context.Context, id string) (int, error)
}
