package mcp

import (
	"errors"
	"fmt"

	"github.com/ganot/accomplish/internal/domain/activity"
	"github.com/ganot/accomplish/internal/domain/project"
	"github.com/ganot/accomplish/internal/export"
	"github.com/ganot/accomplish/internal/importer"
)

// APIError represents an MCP tool error.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects for valid names"}
	case errors.Is(err, activity.ErrActivityNotFound):
		return &APIError{Code: "ACTIVITY_NOT_FOUND", Message: "activity not found"}
	case errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: "year, month and project are required"}
	case errors.Is(err, importer.ErrNoHeader):
		return &APIError{Code: "INVALID_FILE", Message: "csv has no header row", RecoveryHint: "Send the header line first"}
	case errors.Is(err, export.ErrUnknownFormat):
		return &APIError{Code: "INVALID_FORMAT", Message: "unknown export format"}
	default:
		return nil
	}
}

// toolError hides store details behind a generic message.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return &APIError{Code: "INTERNAL", Message: "internal error"}
}
