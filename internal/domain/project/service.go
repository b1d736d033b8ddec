package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ganot/accomplish/internal/repository"
	"github.com/google/uuid"
)

// Service handles project operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	ID    string
	Name  string
	Image string
}

// UpdateRequest carries a partial project update. Nil fields are left alone.
type UpdateRequest struct {
	ID    string
	Name  *string
	Image *string
}

// Create creates a new project.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	id := req.ID
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}

	proj := &Project{
		ID:        id,
		Name:      name,
		Image:     strings.TrimSpace(req.Image),
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, proj); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("creating project: %w", err)
	}

	return proj, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// Resolve returns the project named name, creating it on first reference.
func (s *Service) Resolve(ctx context.Context, name string) (*Project, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, ErrInvalidInput
	}

	proj, created, err := s.repo.Upsert(ctx, &Project{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return nil, false, fmt.Errorf("resolving project %q: %w", name, err)
	}
	if created {
		s.logger.Info("project created", "id", proj.ID, "name", proj.Name)
	}
	return proj, created, nil
}

// List returns project summaries.
func (s *Service) List(ctx context.Context) ([]ProjectSummary, error) {
	return s.repo.List(ctx)
}

// Update applies a partial update and returns the stored project.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*Project, error) {
	proj, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrInvalidInput
		}
		proj.Name = name
	}
	if req.Image != nil {
		proj.Image = strings.TrimSpace(*req.Image)
	}

	if err := s.repo.Update(ctx, proj); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrProjectNotFound
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("updating project: %w", err)
	}
	return proj, nil
}

// Delete removes a project together with its activities.
func (s *Service) Delete(ctx context.Context, id string) (int, error) {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrProjectNotFound
		}
		return 0, fmt.Errorf("deleting project: %w", err)
	}
	s.logger.Info("project deleted", "id", id, "activities", removed)
	return removed, nil
}
