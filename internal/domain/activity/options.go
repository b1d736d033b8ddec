package activity

import "github.com/ganot/accomplish/internal/period"

// ListOptions provides filtering options for listing activities.
type ListOptions struct {
	ProjectID string
	Project   string
	Year      string
	Status    string
	Bucket    period.Bucket
	Limit     int
	Offset    int
}
