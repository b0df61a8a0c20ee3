package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuitionhub/backend/core/user"
)

func TestAPIUserSignIn(t *testing.T) {
	app := newTestApp(t)

	tests := []httpTest{
		{
			name:     "empty body",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"name":  "this field is required",
				"email": "this field is required",
			}),
		},
		{
			name:     "invalid email",
			body:     []byte(`{"name": "Hamza", "email": "not-an-email"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"email": "email must be a valid email address",
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/user", tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("first sign-in creates a student account", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/user", []byte(`{"name": "Hamza", "email": "Hamza@Test.com"}`))
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp SignInResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
		assert.NotEmpty(t, resp.User.ID)
		assert.Equal(t, "Hamza", resp.User.Name)
		assert.Equal(t, "hamza@test.com", resp.User.Email) // lowercased
		assert.Equal(t, user.RoleStudent, resp.User.Role)

		count, err := app.userRepo.CountUsers(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("second sign-in reuses the account", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/user", []byte(`{"name": "Hamza", "email": "hamza@test.com"}`))
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		count, err := app.userRepo.CountUsers(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("sign-in keeps an existing role", func(t *testing.T) {
		admin := app.createUser(t, "Admin", "admin@test.com", user.RoleAdmin)

		req, rec := newRequest(http.MethodPost, "/user", []byte(`{"name": "Admin", "email": "admin@test.com"}`))
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp SignInResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, admin.ID, resp.User.ID)
		assert.Equal(t, user.RoleAdmin, resp.User.Role)
	})
}

func TestAPIUserRole(t *testing.T) {
	app := newTestApp(t)
	admin := app.createUser(t, "Admin", "admin@test.com", user.RoleAdmin)

	tests := []httpTest{
		{
			name:     "auth required",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "role of caller",
			token:    app.getToken(t, admin),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, RoleResponse{Role: user.RoleAdmin}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/user/role", tt.token)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func TestAPIUserQuery(t *testing.T) {
	app := newTestApp(t)
	admin := app.createUser(t, "Admin", "admin@test.com", user.RoleAdmin)
	student := app.createUser(t, "Hamza", "hamza@test.com", user.RoleStudent)

	tests := []httpTest{
		{
			name:     "auth required",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "caller is excluded",
			token:    app.getToken(t, admin),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, []user.User{student}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/users", tt.token)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func TestAPIUserUpdate(t *testing.T) {
	app := newTestApp(t)
	admin := app.createUser(t, "Admin", "admin@test.com", user.RoleAdmin)
	student := app.createUser(t, "Hamza", "hamza@test.com", user.RoleStudent)
	adminToken := app.getToken(t, admin)

	tests := []httpTest{
		{
			name:     "auth required",
			path:     "/user/" + student.ID,
			body:     []byte(`{"role": "admin"}`),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "admin required",
			path:     "/user/" + student.ID,
			body:     []byte(`{"role": "admin"}`),
			token:    app.getToken(t, student),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "admin only actions!"}),
		},
		{
			name:     "unknown user",
			path:     "/user/nope",
			body:     []byte(`{"role": "admin"}`),
			token:    adminToken,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: user.ErrNotFound.Error()}),
		},
		{
			name:     "invalid role",
			path:     "/user/" + student.ID,
			body:     []byte(`{"role": "superuser"}`),
			token:    adminToken,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"role": "invalid role"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPatch, tt.path, tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("admin promotes a student", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPatch, "/user/"+student.ID, adminToken, []byte(`{"role": "admin"}`))
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		updated, err := app.userRepo.GetUserByID(context.Background(), student.ID)
		require.NoError(t, err)
		assert.Equal(t, user.RoleAdmin, updated.Role)
		assert.Equal(t, student.Name, updated.Name) // unchanged
	})
}

func TestAPIUserDestroy(t *testing.T) {
	app := newTestApp(t)
	admin := app.createUser(t, "Admin", "admin@test.com", user.RoleAdmin)
	student := app.createUser(t, "Hamza", "hamza@test.com", user.RoleStudent)
	victim := app.createUser(t, "Victim", "victim@test.com", user.RoleStudent)

	tests := []httpTest{
		{
			name:     "auth required",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "admin required",
			token:    app.getToken(t, student),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "admin only actions!"}),
		},
		{
			name:     "admin deletes",
			token:    app.getToken(t, admin),
			wantCode: http.StatusNoContent,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodDelete, "/user/"+victim.ID, tt.token)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// only the admin attempt removed the record
	_, err := app.userRepo.GetUserByID(context.Background(), victim.ID)
	assert.Equal(t, user.ErrNotFound, errors.Cause(err))
}
