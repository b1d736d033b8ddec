package project

import "context"

// Repository provides persistence for projects.
type Repository interface {
	Create(ctx context.Context, proj *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	GetByName(ctx context.Context, name string) (*Project, error)
	// Upsert returns the project with the given name, creating it when absent.
	// created reports whether this call inserted the row.
	Upsert(ctx context.Context, proj *Project) (stored *Project, created bool, err error)
	List(ctx context.Context) ([]ProjectSummary, error)
	Update(ctx context.Context, proj *Project) error
	// Delete removes the project and its activities, returning how many
	// activities went with it.
	Delete(ctx context.Context, id string) (int, error)
}
