package project

import "time"

// Project groups activities under a unique name.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProjectSummary is a lightweight representation for listing
type ProjectSummary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Image         string    `json:"image,omitempty"`
	ActivityCount int       `json:"activityCount"`
	CreatedAt     time.Time `json:"createdAt"`
}
