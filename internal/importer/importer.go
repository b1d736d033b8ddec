// Package importer loads activity spreadsheets: headers are mapped to
// canonical keys, rows are coerced into activities, projects are resolved
// by name and the batch is stored in one transaction.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ganot/accomplish/internal/domain/activity"
)

// ErrNoHeader is returned when a file has no header row.
var ErrNoHeader = errors.New("file has no header row")

// ActivityWriter stores a batch of activities that already carry project ids.
type ActivityWriter interface {
	InsertBatch(ctx context.Context, acts []*activity.Activity) (int, error)
}

// Options tune how rows are read.
type Options struct {
	// StrictNumbers rejects rows whose numeric cells are not plain
	// non-negative integers instead of reading them as 0.
	StrictNumbers bool
	// SkipLeadingRows drops rows above the header, such as a title line.
	SkipLeadingRows int
}

// RowError reports a row that strict mode refused. Line is 1-based within
// the file.
type RowError struct {
	Line  int    `json:"line"`
	Field string `json:"field"`
	Value string `json:"value"`
}

// Result summarises an import.
type Result struct {
	// Count is the number of activities stored.
	Count int `json:"count"`
	// Projects is the number of distinct projects the stored rows reference.
	Projects int `json:"projects"`
	// CreatedProjects counts the projects this import created.
	CreatedProjects int `json:"createdProjects"`
	// Skipped counts rows without year, month or project.
	Skipped  int        `json:"skipped"`
	Rejected []RowError `json:"rejected,omitempty"`
}

// Importer runs the import pipeline.
type Importer struct {
	projects   ProjectResolver
	activities ActivityWriter
	opts       Options
	logger     *slog.Logger
}

// New creates an Importer.
func New(projects ProjectResolver, activities ActivityWriter, opts Options, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Importer{
		projects:   projects,
		activities: activities,
		opts:       opts,
		logger:     logger,
	}
}

// ImportFile reads r in the given format and imports its rows.
func (im *Importer) ImportFile(ctx context.Context, r io.Reader, format Format) (*Result, error) {
	rows, err := ReadRows(r, format)
	if err != nil {
		return nil, err
	}
	return im.Import(ctx, rows)
}

// Import imports rows whose first non-skipped, non-blank row is the header.
// Rows are validated before any project is created, so a project named only
// by dropped rows is never created.
func (im *Importer) Import(ctx context.Context, rows [][]string) (*Result, error) {
	res := &Result{}

	line := im.opts.SkipLeadingRows
	if line > len(rows) {
		line = len(rows)
	}

	var keys []string
	var acts []*activity.Activity
	for ; line < len(rows); line++ {
		row := rows[line]
		if blank(row) {
			continue
		}
		if keys == nil {
			keys = MapHeaders(row)
			continue
		}

		act, ok, err := Coerce(mapRow(keys, row), im.opts.StrictNumbers)
		if !ok {
			res.Skipped++
			continue
		}
		var fieldErr *FieldError
		if errors.As(err, &fieldErr) {
			res.Rejected = append(res.Rejected, RowError{Line: line + 1, Field: fieldErr.Field, Value: fieldErr.Value})
			continue
		}
		acts = append(acts, act)
	}
	if keys == nil {
		return nil, ErrNoHeader
	}

	resolution, err := ResolveProjects(ctx, im.projects, acts)
	if err != nil {
		return nil, err
	}
	if err := resolution.Stamp(acts); err != nil {
		return nil, err
	}

	n, err := im.activities.InsertBatch(ctx, acts)
	if err != nil {
		return nil, fmt.Errorf("storing activities: %w", err)
	}

	res.Count = n
	res.Projects = len(resolution.Names)
	res.CreatedProjects = resolution.Created

	im.logger.Info("activities imported",
		"count", res.Count,
		"projects", res.Projects,
		"created_projects", res.CreatedProjects,
		"skipped", res.Skipped,
		"rejected", len(res.Rejected),
	)
	return res, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
