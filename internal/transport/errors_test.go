package transport

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ganot/accomplish/internal/domain/activity"
	"github.com/ganot/accomplish/internal/domain/project"
	"github.com/ganot/accomplish/internal/importer"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{project.ErrProjectNotFound, http.StatusNotFound, "PROJECT_NOT_FOUND"},
		{fmt.Errorf("deleting: %w", activity.ErrActivityNotFound), http.StatusNotFound, "ACTIVITY_NOT_FOUND"},
		{project.ErrDuplicateName, http.StatusConflict, "DUPLICATE_NAME"},
		{activity.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
		{importer.ErrUnsupportedFormat, http.StatusBadRequest, "INVALID_FILE_TYPE"},
		{errors.New("database is locked"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range tests {
		apiErr := MapError(tc.err)
		require.Equal(t, tc.status, apiErr.Status, tc.err.Error())
		require.Equal(t, tc.code, apiErr.Code)
	}
	require.NotContains(t, MapError(errors.New("database is locked")).Message, "locked")
}
