package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"elearn-quiz/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperr.Validation("bad"), http.StatusBadRequest},
		{"ownership", apperr.Ownership("hidden"), http.StatusNotFound},
		{"not found", apperr.NotFound("hidden"), http.StatusNotFound},
		{"forbidden", apperr.Forbidden("not yours"), http.StatusForbidden},
		{"conflict", apperr.Conflict("dup"), http.StatusConflict},
		{"persistence", apperr.Persistence("db", errors.New("down")), http.StatusInternalServerError},
		{"foreign", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestErrorHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, apperr.Persistence("Error deleting quiz", errors.New("pq: deadlock detected")))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	raw := rec.Body.String()
	var body Envelope
	require.NoError(t, json.Unmarshal([]byte(raw), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Error deleting quiz", body.Message)
	assert.NotContains(t, raw, "deadlock")
}
