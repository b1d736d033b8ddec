// Package export renders activities as CSV, workbook, PDF and chart files.
package export

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/ganot/accomplish/internal/domain/activity"
	"github.com/ganot/accomplish/internal/domain/project"
	"github.com/ganot/accomplish/internal/period"
	"github.com/ganot/accomplish/internal/stats"
)

// Format is an export file type.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
	FormatPDF   Format = "pdf"
	FormatPNG   Format = "png"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts a format name; "xlsx" is an alias for excel.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatExcel, FormatPDF, FormatPNG:
		return f, nil
	case "xlsx":
		return FormatExcel, nil
	case "":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Ext returns the file extension for f.
func (f Format) Ext() string {
	if f == FormatExcel {
		return "xlsx"
	}
	return string(f)
}

// ContentType returns the media type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	case FormatPNG:
		return "image/png"
	}
	return "application/octet-stream"
}

// Filename names an export made at now.
func Filename(f Format, now time.Time) string {
	return fmt.Sprintf("activities_report_%s.%s", now.Format(time.DateOnly), f.Ext())
}

// Artifact describes a written export.
type Artifact struct {
	Filename    string
	ContentType string
	Records     int
}

// Exporter writes exports stamped with its clock.
type Exporter struct {
	title  string
	now    func() time.Time
	logger *slog.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// New creates an Exporter. title heads PDF and chart output.
func New(title string, logger *slog.Logger, opts ...Option) *Exporter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	e := &Exporter{title: title, now: time.Now, logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export writes acts in format f, sorted by month in the given order.
// An empty acts writes a header-only file.
func (e *Exporter) Export(w io.Writer, f Format, acts []activity.Activity, order period.Order) (*Artifact, error) {
	now := e.now()
	sorted := Prepare(acts, order)

	var err error
	switch f {
	case FormatCSV:
		err = WriteCSV(w, sorted)
	case FormatExcel:
		err = WriteXLSX(w, sorted)
	case FormatPDF:
		err = WritePDF(w, sorted, PDFOptions{Title: e.title, GeneratedAt: now})
	case FormatPNG:
		return e.Chart(w, stats.Compute(projectsOf(acts), acts))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return nil, err
	}

	e.logger.Info("activities exported", "format", f, "records", len(acts))
	return &Artifact{Filename: Filename(f, now), ContentType: f.ContentType(), Records: len(acts)}, nil
}

// Chart writes the dashboard snapshot as PNG.
func (e *Exporter) Chart(w io.Writer, d *stats.Dashboard) (*Artifact, error) {
	if err := WriteChartPNG(w, d, e.title); err != nil {
		return nil, err
	}
	e.logger.Info("chart exported", "activities", d.TotalActivities)
	return &Artifact{
		Filename:    Filename(FormatPNG, e.now()),
		ContentType: FormatPNG.ContentType(),
		Records:     d.TotalActivities,
	}, nil
}

// projectsOf lists the projects acts reference, in first-seen order.
func projectsOf(acts []activity.Activity) []project.ProjectSummary {
	seen := map[string]int{}
	var out []project.ProjectSummary
	for _, a := range acts {
		if i, ok := seen[a.ProjectID]; ok {
			out[i].ActivityCount++
			continue
		}
		seen[a.ProjectID] = len(out)
		out = append(out, project.ProjectSummary{ID: a.ProjectID, Name: a.Project, ActivityCount: 1})
	}
	return out
}
