package activity

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ganot/accomplish/internal/period"
	"github.com/ganot/accomplish/internal/repository"
	"github.com/google/uuid"
)

// Service handles activity operations.
type Service struct {
	repo     Repository
	projects ProjectResolver
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for timestamps and the upcoming
// window.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new activity service.
func NewService(repo Repository, projects ProjectResolver, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{repo: repo, projects: projects, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateRequest describes an activity creation request. Project is a project
// name; it is created on first reference.
type CreateRequest struct {
	Year                  string `json:"year"`
	Month                 string `json:"month"`
	Project               string `json:"project"`
	Component             string `json:"component"`
	InclusiveDates        string `json:"inclusiveDates"`
	ActivityName          string `json:"activityName"`
	NatureOfActivity      string `json:"natureOfActivity"`
	NumberOfHours         int    `json:"numberOfHours"`
	InitiatedBy           string `json:"initiatedBy"`
	Status                string `json:"status"`
	Remarks               string `json:"remarks"`
	PartneredInstitutions string `json:"partneredInstitutions"`
	Beneficiary           string `json:"beneficiary"`
	NumberOfParticipants  int    `json:"numberOfParticipants"`
	Male                  int    `json:"male"`
	Female                int    `json:"female"`
	MOVs                  string `json:"movs"`
}

// UpdateRequest carries a partial update. Nil fields are left alone.
type UpdateRequest struct {
	ID                    string  `json:"-"`
	Year                  *string `json:"year"`
	Month                 *string `json:"month"`
	Project               *string `json:"project"`
	Component             *string `json:"component"`
	InclusiveDates        *string `json:"inclusiveDates"`
	ActivityName          *string `json:"activityName"`
	NatureOfActivity      *string `json:"natureOfActivity"`
	NumberOfHours         *int    `json:"numberOfHours"`
	InitiatedBy           *string `json:"initiatedBy"`
	Status                *string `json:"status"`
	Remarks               *string `json:"remarks"`
	PartneredInstitutions *string `json:"partneredInstitutions"`
	Beneficiary           *string `json:"beneficiary"`
	NumberOfParticipants  *int    `json:"numberOfParticipants"`
	Male                  *int    `json:"male"`
	Female                *int    `json:"female"`
	MOVs                  *string `json:"movs"`
}

// DeleteRequest identifies an activity to delete. When PruneEmptyProject is
// set and the parent project has nothing left, the project goes too.
type DeleteRequest struct {
	ID                string
	PruneEmptyProject bool
}

// Create validates and stores a new activity, resolving its project by name.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Activity, error) {
	act := &Activity{
		ID:                    uuid.NewString(),
		Year:                  strings.TrimSpace(req.Year),
		Month:                 strings.TrimSpace(req.Month),
		Project:               strings.TrimSpace(req.Project),
		Component:             req.Component,
		InclusiveDates:        req.InclusiveDates,
		ActivityName:          req.ActivityName,
		NatureOfActivity:      req.NatureOfActivity,
		NumberOfHours:         req.NumberOfHours,
		InitiatedBy:           req.InitiatedBy,
		Status:                req.Status,
		Remarks:               req.Remarks,
		PartneredInstitutions: req.PartneredInstitutions,
		Beneficiary:           req.Beneficiary,
		NumberOfParticipants:  req.NumberOfParticipants,
		Male:                  req.Male,
		Female:                req.Female,
		MOVs:                  req.MOVs,
		CreatedAt:             s.now(),
	}
	if strings.TrimSpace(act.Status) == "" {
		act.Status = DefaultStatus
	}
	if err := Validate(act); err != nil {
		return nil, err
	}

	proj, _, err := s.projects.Resolve(ctx, act.Project)
	if err != nil {
		return nil, fmt.Errorf("creating activity: %w", err)
	}
	act.ProjectID = proj.ID
	act.Project = proj.Name

	if err := s.repo.Create(ctx, act); err != nil {
		return nil, fmt.Errorf("creating activity: %w", err)
	}
	return act, nil
}

// InsertBatch stores pre-validated activities in one transaction. Every
// activity must already carry a ProjectID.
func (s *Service) InsertBatch(ctx context.Context, acts []*Activity) (int, error) {
	if len(acts) == 0 {
		return 0, nil
	}
	now := s.now()
	for _, act := range acts {
		if act.ProjectID == "" {
			return 0, fmt.Errorf("activity %q has no project id: %w", act.ActivityName, ErrInvalidInput)
		}
		if act.ID == "" {
			act.ID = uuid.NewString()
		}
		if act.CreatedAt.IsZero() {
			act.CreatedAt = now
		}
	}
	n, err := s.repo.CreateBatch(ctx, acts)
	if err != nil {
		return 0, fmt.Errorf("inserting activities: %w", err)
	}
	return n, nil
}

// Get fetches an activity by ID.
func (s *Service) Get(ctx context.Context, id string) (*Activity, error) {
	act, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("getting activity: %w", err)
	}
	return act, nil
}

// List returns activities matching opts in creation order. The bucket is
// applied after the store query.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Activity, error) {
	if _, filtered := period.MonthsIn(opts.Bucket); !filtered {
		acts, err := s.repo.List(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("listing activities: %w", err)
		}
		return acts, nil
	}

	// Paging has to happen after the bucket is applied.
	storeOpts := opts
	storeOpts.Limit, storeOpts.Offset = 0, 0
	acts, err := s.repo.List(ctx, storeOpts)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	acts = period.Filter(acts, opts.Bucket, MonthName)
	if opts.Offset > 0 {
		acts = acts[min(opts.Offset, len(acts)):]
	}
	if opts.Limit > 0 && len(acts) > opts.Limit {
		acts = acts[:opts.Limit]
	}
	return acts, nil
}

// Update applies a partial update. Changing the project name re-resolves the
// project reference.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*Activity, error) {
	act, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	setString(&act.Year, req.Year)
	setString(&act.Month, req.Month)
	setString(&act.Component, req.Component)
	setString(&act.InclusiveDates, req.InclusiveDates)
	setString(&act.ActivityName, req.ActivityName)
	setString(&act.NatureOfActivity, req.NatureOfActivity)
	setString(&act.InitiatedBy, req.InitiatedBy)
	setString(&act.Status, req.Status)
	setString(&act.Remarks, req.Remarks)
	setString(&act.PartneredInstitutions, req.PartneredInstitutions)
	setString(&act.Beneficiary, req.Beneficiary)
	setString(&act.MOVs, req.MOVs)
	setInt(&act.NumberOfHours, req.NumberOfHours)
	setInt(&act.NumberOfParticipants, req.NumberOfParticipants)
	setInt(&act.Male, req.Male)
	setInt(&act.Female, req.Female)

	if req.Project != nil && strings.TrimSpace(*req.Project) != act.Project {
		act.Project = strings.TrimSpace(*req.Project)
		if err := Validate(act); err != nil {
			return nil, err
		}
		proj, _, err := s.projects.Resolve(ctx, act.Project)
		if err != nil {
			return nil, fmt.Errorf("updating activity: %w", err)
		}
		act.ProjectID = proj.ID
		act.Project = proj.Name
	}
	if err := Validate(act); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, act); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("updating activity: %w", err)
	}
	return act, nil
}

// Delete removes an activity and reports how many siblings remain in its
// project.
func (s *Service) Delete(ctx context.Context, req DeleteRequest) (*DeleteResult, error) {
	act, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, act.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("deleting activity: %w", err)
	}

	remaining, err := s.repo.CountByProject(ctx, act.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("counting remaining activities: %w", err)
	}

	result := &DeleteResult{
		ID:                  act.ID,
		ProjectID:           act.ProjectID,
		RemainingActivities: remaining,
	}
	if remaining == 0 && req.PruneEmptyProject {
		if _, err := s.projects.Delete(ctx, act.ProjectID); err != nil {
			return nil, fmt.Errorf("pruning empty project: %w", err)
		}
		result.ProjectDeleted = true
	}
	s.logger.Info("activity deleted", "id", act.ID, "project_id", act.ProjectID, "remaining", remaining, "project_deleted", result.ProjectDeleted)
	return result, nil
}

// Upcoming lists activities dated from the current month through the given
// number of months ahead, soonest first, at most limit entries.
func (s *Service) Upcoming(ctx context.Context, months, limit int) ([]Activity, error) {
	acts, err := s.repo.List(ctx, ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}

	now := s.now()
	start := yearMonth(now.Year(), int(now.Month()))
	// Count from the first of the month so month-end days do not overflow.
	end := time.Date(now.Year(), now.Month()+time.Month(months), 1, 0, 0, 0, 0, now.Location())
	stop := yearMonth(end.Year(), int(end.Month()))

	type dated struct {
		act Activity
		key int
	}
	var window []dated
	for _, act := range acts {
		year, err := strconv.Atoi(strings.TrimSpace(act.Year))
		if err != nil {
			continue
		}
		month := period.Ordinal(act.Month)
		if month == 0 {
			continue
		}
		key := yearMonth(year, month)
		if key >= start && key <= stop {
			window = append(window, dated{act: act, key: key})
		}
	}
	slices.SortStableFunc(window, func(a, b dated) int { return cmp.Compare(a.key, b.key) })

	out := make([]Activity, 0, min(len(window), max(limit, 0)))
	for _, d := range window {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, d.act)
	}
	return out, nil
}

func yearMonth(year, month int) int {
	return year*100 + month
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
