package certificate

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"elearn-quiz/internal/auth"
	"elearn-quiz/internal/models"
	"elearn-quiz/internal/respond"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, f *fixture, id auth.Identity, path string) (int, respond.Envelope) {
	t.Helper()
	r := mux.NewRouter()
	NewHandler(f.svc).Register(r)

	req := httptest.NewRequest("GET", path, nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), id))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env respond.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func TestHandlerEligible(t *testing.T) {
	f := newFixture(t)
	f.enroll(t, f.student.ID, 100)

	code, env := get(t, f, auth.Identity{UserID: f.student.ID, Role: models.RoleStudent}, "/certificates/eligible")
	require.Equal(t, http.StatusOK, code, env.Message)
	courses := env.Data.([]interface{})
	require.Len(t, courses, 1)
	course := courses[0].(map[string]interface{})
	assert.Equal(t, "Go Basics", course["title"])
	assert.Equal(t, "Ada Lovelace", course["instructor_name"])

	code, _ = get(t, f, auth.Identity{UserID: f.instructor.ID, Role: models.RoleInstructor}, "/certificates/eligible")
	assert.Equal(t, http.StatusUnauthorized, code)
}
