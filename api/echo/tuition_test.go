package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuitionhub/backend/core/tuition"
)

func TestAPITuitionCreate(t *testing.T) {
	app := newTestApp(t)

	tests := []httpTest{
		{
			name:     "missing student email",
			body:     []byte(`{"subject": "Physics", "student": {"name": "Hamza"}}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"student.email": "this field is required"}),
		},
		{
			name:     "missing subject",
			body:     []byte(`{"student": {"email": "hamza@test.com"}}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"subject": "this field is required"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/tuition", tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("new requests start Pending and unassigned", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/tuition", []byte(
			`{"student": {"email": "Hamza@Test.com", "name": "Hamza"}, "subject": "Physics", "class": "10", "budget": 100}`,
		))
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)

		var created tuition.Request
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "hamza@test.com", created.Student.Email) // lowercased
		assert.Equal(t, tuition.StatusPending, created.Status)
		assert.Nil(t, created.TutorID)
	})
}

func TestAPITuitionQuery(t *testing.T) {
	app := newTestApp(t)

	t.Run("empty listing", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/tuition")
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`[]`)}, rec)
	})

	now := time.Now().UTC()
	older := app.createTuition(t, "hamza@test.com", "Hamza", tuition.StatusPending, now.Add(-time.Hour))
	newer := app.createTuition(t, "sara@test.com", "Sara", tuition.StatusPending, now)

	t.Run("listing is ordered by creation time", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/tuition")
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, []tuition.Request{older, newer}),
		}, rec)
	})
}

func TestAPITuitionUpdateStatus(t *testing.T) {
	app := newTestApp(t)
	pending := app.createTuition(t, "hamza@test.com", "Hamza", tuition.StatusPending)
	rejected := app.createTuition(t, "sara@test.com", "Sara", tuition.StatusRejected)

	tests := []httpTest{
		{
			name:     "missing status",
			path:     "/tuition/" + pending.ID,
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"status": "this field is required"}),
		},
		{
			name:     "invalid status",
			path:     "/tuition/" + pending.ID,
			body:     []byte(`{"status": "Maybe"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"status": "invalid status"}),
		},
		{
			name:     "settled requests never return to Pending",
			path:     "/tuition/" + rejected.ID,
			body:     []byte(`{"status": "Pending"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"status": "a settled request cannot go back to Pending"}),
		},
		{
			name:     "unknown request",
			path:     "/tuition/nope",
			body:     []byte(`{"status": "Approved"}`),
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: tuition.ErrNotFound.Error()}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPatch, tt.path, tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("rejected updates leave the record untouched", func(t *testing.T) {
		stored, err := app.tuitionRepo.GetRequestByID(context.Background(), pending.ID)
		require.NoError(t, err)
		assert.Equal(t, tuition.StatusPending, stored.Status)
	})

	t.Run("valid decision returns the updated document", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPatch, "/tuition/"+pending.ID, "", []byte(`{"status": "Rejected"}`))
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var updated tuition.Request
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		assert.Equal(t, pending.ID, updated.ID)
		assert.Equal(t, tuition.StatusRejected, updated.Status)
	})
}

func TestAPITuitionDestroy(t *testing.T) {
	app := newTestApp(t)
	req := app.createTuition(t, "hamza@test.com", "Hamza", tuition.StatusPending)

	tests := []httpTest{
		{
			name:     "delete",
			path:     "/tuition/" + req.ID,
			wantCode: http.StatusNoContent,
		},
		{
			name:     "already gone",
			path:     "/tuition/" + req.ID,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: tuition.ErrNotFound.Error()}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpReq, rec := newRequest(http.MethodDelete, tt.path)
			app.server.ServeHTTP(rec, httpReq)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func TestAPITuitionQueryApprovedByTutor(t *testing.T) {
	app := newTestApp(t)
	tutorID := "tutor-1"

	assigned := app.createTuition(t, "hamza@test.com", "Hamza", tuition.StatusPending)
	_, err := app.tuitionRepo.ApproveOldestPending(context.Background(), "hamza@test.com", tutorID)
	require.NoError(t, err)
	assigned, err = app.tuitionRepo.GetRequestByID(context.Background(), assigned.ID)
	require.NoError(t, err)

	// approved for someone else, and still pending: both excluded
	other := app.createTuition(t, "sara@test.com", "Sara", tuition.StatusPending)
	_, err = app.tuitionRepo.ApproveOldestPending(context.Background(), other.Student.Email, "tutor-2")
	require.NoError(t, err)
	app.createTuition(t, "hamza@test.com", "Hamza", tuition.StatusPending)

	tests := []httpTest{
		{
			name:     "assigned requests only",
			path:     "/tuitions/tutor/approved/" + tutorID,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, []tuition.Request{assigned}),
		},
		{
			name:     "unknown tutor gets an empty list",
			path:     "/tuitions/tutor/approved/nope",
			wantCode: http.StatusOK,
			wantData: []byte(`[]`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
