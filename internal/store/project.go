package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ganot/accomplish/internal/domain/project"
	"github.com/ganot/accomplish/internal/repository"
)

// ProjectRepository implements project.Repository on top of DB.
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a project, failing with repository.ErrConflict on a taken name.
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	query := `INSERT INTO projects (id, name, image, created_at) VALUES (?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		proj.ID,
		proj.Name,
		proj.Image,
		proj.CreatedAt.UTC(),
	)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	return r.getBy(ctx, "id", id)
}

// GetByName retrieves a project by its unique name.
func (r *ProjectRepository) GetByName(ctx context.Context, name string) (*project.Project, error) {
	return r.getBy(ctx, "name", name)
}

func (r *ProjectRepository) getBy(ctx context.Context, column, value string) (*project.Project, error) {
	query := `SELECT id, name, image, created_at FROM projects WHERE ` + column + ` = ?`

	var proj project.Project
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query), value).Scan(
		&proj.ID,
		&proj.Name,
		&proj.Image,
		&proj.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &proj, nil
}

// Upsert finds the project named proj.Name or creates it with proj's id.
// The unique constraint on name decides races: the loser reads the winner's
// row and reports created=false.
func (r *ProjectRepository) Upsert(ctx context.Context, proj *project.Project) (*project.Project, bool, error) {
	query := `
		INSERT INTO projects (id, name, image, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO NOTHING
	`

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		proj.ID,
		proj.Name,
		proj.Image,
		proj.CreatedAt.UTC(),
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert project: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	stored, err := r.GetByName(ctx, proj.Name)
	if err != nil {
		return nil, false, err
	}
	return stored, inserted > 0, nil
}

// List returns every project with its activity count, oldest first.
func (r *ProjectRepository) List(ctx context.Context) ([]project.ProjectSummary, error) {
	query := `
		SELECT
			p.id,
			p.name,
			p.image,
			p.created_at,
			COUNT(a.id) AS activity_count
		FROM projects p
		LEFT JOIN activities a ON a.project_id = p.id
		GROUP BY p.id, p.name, p.image, p.created_at
		ORDER BY p.created_at ASC, p.name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var summaries []project.ProjectSummary
	for rows.Next() {
		var summary project.ProjectSummary
		err := rows.Scan(
			&summary.ID,
			&summary.Name,
			&summary.Image,
			&summary.CreatedAt,
			&summary.ActivityCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project summary: %w", err)
		}
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	return summaries, nil
}

// Update writes name and image. A rename is carried onto the project name
// stored on each of its activities in the same transaction.
func (r *ProjectRepository) Update(ctx context.Context, proj *project.Project) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		r.db.Rebind(`UPDATE projects SET name = ?, image = ? WHERE id = ?`),
		proj.Name, proj.Image, proj.ID)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	_, err = tx.ExecContext(ctx,
		r.db.Rebind(`UPDATE activities SET project = ? WHERE project_id = ?`),
		proj.Name, proj.ID)
	if err != nil {
		return fmt.Errorf("failed to rename project activities: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete removes a project and its activities, returning how many
// activities went with it.
func (r *ProjectRepository) Delete(ctx context.Context, id string) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx,
		r.db.Rebind(`SELECT COUNT(*) FROM activities WHERE project_id = ?`), id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count project activities: %w", err)
	}

	result, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM projects WHERE id = ?`), id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete project: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return 0, repository.ErrNotFound
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return count, nil
}
