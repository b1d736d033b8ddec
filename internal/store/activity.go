package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ganot/accomplish/internal/domain/activity"
	"github.com/ganot/accomplish/internal/repository"
)

const activityColumns = `
	id, project_id, year, month, project, component, inclusive_dates,
	activity_name, nature_of_activity, number_of_hours, initiated_by, status,
	remarks, partnered_institutions, beneficiary, number_of_participants,
	male, female, movs, created_at`

// ActivityRepository implements activity.Repository on top of DB.
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *ActivityRepository) insert(ctx context.Context, ex execer, act *activity.Activity) error {
	query := `INSERT INTO activities (` + activityColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := ex.ExecContext(ctx, r.db.Rebind(query),
		act.ID,
		act.ProjectID,
		act.Year,
		act.Month,
		act.Project,
		act.Component,
		act.InclusiveDates,
		act.ActivityName,
		act.NatureOfActivity,
		act.NumberOfHours,
		act.InitiatedBy,
		act.Status,
		act.Remarks,
		act.PartneredInstitutions,
		act.Beneficiary,
		act.NumberOfParticipants,
		act.Male,
		act.Female,
		act.MOVs,
		act.CreatedAt.UTC(),
	)
	if isForeignKeyViolation(err) {
		return repository.ErrForeignKeyViolation
	}
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}
	return err
}

// Create inserts a single activity.
func (r *ActivityRepository) Create(ctx context.Context, act *activity.Activity) error {
	if err := r.insert(ctx, r.db, act); err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}
	return nil
}

// CreateBatch inserts all activities in one transaction; either every row
// lands or none does.
func (r *ActivityRepository) CreateBatch(ctx context.Context, acts []*activity.Activity) (int, error) {
	if len(acts) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, act := range acts {
		if err := r.insert(ctx, tx, act); err != nil {
			return 0, fmt.Errorf("failed to insert activity %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return len(acts), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanActivity(row scanner) (activity.Activity, error) {
	var act activity.Activity
	err := row.Scan(
		&act.ID,
		&act.ProjectID,
		&act.Year,
		&act.Month,
		&act.Project,
		&act.Component,
		&act.InclusiveDates,
		&act.ActivityName,
		&act.NatureOfActivity,
		&act.NumberOfHours,
		&act.InitiatedBy,
		&act.Status,
		&act.Remarks,
		&act.PartneredInstitutions,
		&act.Beneficiary,
		&act.NumberOfParticipants,
		&act.Male,
		&act.Female,
		&act.MOVs,
		&act.CreatedAt,
	)
	return act, err
}

// Get retrieves an activity by ID
func (r *ActivityRepository) Get(ctx context.Context, id string) (*activity.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = ?`

	act, err := scanActivity(r.db.QueryRowContext(ctx, r.db.Rebind(query), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return &act, nil
}

// Update overwrites every mutable column of an activity.
func (r *ActivityRepository) Update(ctx context.Context, act *activity.Activity) error {
	query := `
		UPDATE activities SET
			project_id = ?, year = ?, month = ?, project = ?, component = ?,
			inclusive_dates = ?, activity_name = ?, nature_of_activity = ?,
			number_of_hours = ?, initiated_by = ?, status = ?, remarks = ?,
			partnered_institutions = ?, beneficiary = ?,
			number_of_participants = ?, male = ?, female = ?, movs = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		act.ProjectID,
		act.Year,
		act.Month,
		act.Project,
		act.Component,
		act.InclusiveDates,
		act.ActivityName,
		act.NatureOfActivity,
		act.NumberOfHours,
		act.InitiatedBy,
		act.Status,
		act.Remarks,
		act.PartneredInstitutions,
		act.Beneficiary,
		act.NumberOfParticipants,
		act.Male,
		act.Female,
		act.MOVs,
		act.ID,
	)
	if isForeignKeyViolation(err) {
		return repository.ErrForeignKeyViolation
	}
	if err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an activity by ID.
func (r *ActivityRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM activities WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// List returns activities in creation order. The period bucket in opts is
// not applied here.
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Activity, error) {
	var (
		where []string
		args  []any
	)
	if opts.ProjectID != "" {
		where = append(where, "project_id = ?")
		args = append(args, opts.ProjectID)
	}
	if opts.Project != "" {
		where = append(where, "project = ?")
		args = append(args, opts.Project)
	}
	if opts.Year != "" {
		where = append(where, "year = ?")
		args = append(args, opts.Year)
	}
	if opts.Status != "" {
		where = append(where, "status = ?")
		args = append(args, opts.Status)
	}

	query := `SELECT ` + activityColumns + ` FROM activities`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq ASC"

	switch {
	case opts.Limit > 0:
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	case opts.Offset > 0 && r.db.Dialect() == SQLite:
		query += " LIMIT -1"
	}
	if opts.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var acts []activity.Activity
	for rows.Next() {
		act, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		acts = append(acts, act)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}
	return acts, nil
}

// CountByProject returns how many activities reference a project.
func (r *ActivityRepository) CountByProject(ctx context.Context, projectID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		r.db.Rebind(`SELECT COUNT(*) FROM activities WHERE project_id = ?`), projectID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return count, nil
}
