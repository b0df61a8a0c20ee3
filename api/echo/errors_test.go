package echoapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/tuitionhub/backend/core"
)

func TestAppHTTPErrorHandlerShutdown(t *testing.T) {
	_, translator := core.NewValidator()

	tests := []struct {
		name         string
		err          error
		wantCode     int
		wantShutdown bool
	}{
		{
			name:         "shutdown error stops the server",
			err:          core.NewShutdownError("database gone"),
			wantCode:     http.StatusInternalServerError,
			wantShutdown: true,
		},
		{
			name:         "wrapped shutdown error stops the server",
			err:          errors.Wrap(core.NewShutdownError("database gone"), "querying tutors"),
			wantCode:     http.StatusInternalServerError,
			wantShutdown: true,
		},
		{
			name:     "ordinary server error does not",
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var shutdownCalled bool
			handler := newAppHTTPErrorHandler(testLogger{}, translator, func() { shutdownCalled = true })

			app := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()

			handler(tt.err, app.NewContext(req, rec))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantShutdown, shutdownCalled)
		})
	}
}
