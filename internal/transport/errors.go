package transport

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ganot/accomplish/internal/domain/activity"
	"github.com/ganot/accomplish/internal/domain/project"
	"github.com/ganot/accomplish/internal/export"
	"github.com/ganot/accomplish/internal/importer"
)

// APIError is the body of every error response.
type APIError struct {
	Status       int    `json:"-"`
	Code         string `json:"code"`
	Message      string `json:"error"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to API errors. Anything unrecognised becomes
// a generic internal error so store details never reach the caller.
func MapError(err error) *APIError {
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Status: http.StatusNotFound, Code: "PROJECT_NOT_FOUND", Message: "Project not found", RecoveryHint: "Check the project id"}
	case errors.Is(err, activity.ErrActivityNotFound):
		return &APIError{Status: http.StatusNotFound, Code: "ACTIVITY_NOT_FOUND", Message: "Activity not found", RecoveryHint: "Check the activity id"}
	case errors.Is(err, project.ErrDuplicateName):
		return &APIError{Status: http.StatusConflict, Code: "DUPLICATE_NAME", Message: "A project with this name already exists", RecoveryHint: "Pick another name"}
	case errors.Is(err, project.ErrInvalidInput):
		return &APIError{Status: http.StatusBadRequest, Code: "INVALID_INPUT", Message: "Project name is required"}
	case errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Status: http.StatusBadRequest, Code: "INVALID_INPUT", Message: "Year, month and project are required and counts must not be negative"}
	case errors.Is(err, importer.ErrNoHeader):
		return &APIError{Status: http.StatusBadRequest, Code: "INVALID_FILE", Message: "The file has no header row"}
	case errors.Is(err, importer.ErrUnsupportedFormat):
		return &APIError{Status: http.StatusBadRequest, Code: "INVALID_FILE_TYPE", Message: "Invalid file type. Please upload a CSV file."}
	case errors.Is(err, export.ErrUnknownFormat):
		return &APIError{Status: http.StatusBadRequest, Code: "INVALID_FORMAT", Message: "Unknown export format", RecoveryHint: "Use csv, excel, pdf or png"}
	default:
		return &APIError{Status: http.StatusInternalServerError, Code: "INTERNAL", Message: "Internal server error"}
	}
}
