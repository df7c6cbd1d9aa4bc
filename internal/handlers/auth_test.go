package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yukikurage/team-task-board/internal/dto"
	apierrors "github.com/yukikurage/team-task-board/internal/errors"
)

func TestAuthHandler_Signup(t *testing.T) {
	env := setupTestEnv(t, nil)

	w := env.do(t, http.MethodPost, "/api/auth/signup", map[string]interface{}{
		"email":         "New.User@Team.com",
		"password":      "supersecret",
		"full_name":     "New User",
		"department_id": env.dept.ID,
	}, nil)

	require.Equal(t, http.StatusCreated, w.Code)
	response := decode[dto.UserDTO](t, w)
	assert.Equal(t, "new.user@team.com", response.Email)
	require.NotNil(t, response.DepartmentID)
	assert.Equal(t, env.dept.ID, *response.DepartmentID)
	assert.False(t, response.IsAdmin)
}

func TestAuthHandler_SignupErrors(t *testing.T) {
	env := setupTestEnv(t, nil)
	env.login(t, "taken@team.com", nil)

	cases := []struct {
		name   string
		body   map[string]interface{}
		status int
	}{
		{"missing fields", map[string]interface{}{"email": "a@team.com"}, http.StatusBadRequest},
		{"bad email", map[string]interface{}{"email": "nope", "password": "supersecret"}, http.StatusBadRequest},
		{"short password", map[string]interface{}{"email": "a@team.com", "password": "short"}, http.StatusBadRequest},
		{"taken", map[string]interface{}{"email": "TAKEN@team.com", "password": "supersecret"}, http.StatusConflict},
		{"unknown department", map[string]interface{}{"email": "a@team.com", "password": "supersecret", "department_id": "missing"}, http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/auth/signup", tc.body, nil)
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, "destructive", decode[apierrors.APIError](t, w).Severity)
		})
	}
}

func TestAuthHandler_LoginMeLogout(t *testing.T) {
	env := setupTestEnv(t, nil)
	user, cookies := env.login(t, "admin@team.com", nil)

	w := env.do(t, http.MethodGet, "/api/auth/me", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[dto.UserDTO](t, w)
	assert.Equal(t, user.ID, me.ID)
	assert.True(t, me.IsAdmin)

	w = env.do(t, http.MethodPost, "/api/auth/logout", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/auth/me", nil, w.Result().Cookies())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_LoginInvalidCredentials(t *testing.T) {
	env := setupTestEnv(t, nil)
	env.login(t, "user@team.com", nil)

	w := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "user@team.com",
		"password": "wrong-password",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apierrors.ErrCodeInvalidCredentials, decode[apierrors.APIError](t, w).Code)

	w = env.do(t, http.MethodGet, "/api/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDepartmentHandler_List(t *testing.T) {
	env := setupTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/departments", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	response := decode[struct {
		Departments []dto.DepartmentDTO `json:"departments"`
	}](t, w)
	require.Len(t, response.Departments, 1)
	assert.Equal(t, "TI", response.Departments[0].Name)
}

func TestHealth(t *testing.T) {
	env := setupTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
