package echoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuitionhub/backend/core/payment"
	"github.com/tuitionhub/backend/core/tuition"
	"github.com/tuitionhub/backend/core/tutor"
	"github.com/tuitionhub/backend/core/user"
)

func TestAPICreateCheckoutSession(t *testing.T) {
	app := newTestApp(t)
	tut := app.createTutor(t, "Rahim", "rahim@test.com", tutor.StatusPending)

	tests := []httpTest{
		{
			name:     "empty body",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"name":    "this field is required",
				"price":   "this field is required",
				"tutorId": "this field is required",
				"email":   "this field is required",
			}),
		},
		{
			name:     "negative price",
			body:     []byte(fmt.Sprintf(`{"name": "Tuition fee", "price": -10, "tutorId": %q, "student": {"email": "hamza@test.com"}}`, tut.ID)),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"price": "price must be greater than 0",
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/create-checkout-session", tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("returns the provider's redirect url", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/create-checkout-session", []byte(fmt.Sprintf(
			`{"name": "Tuition fee", "price": 49.99, "tutorId": %q, "student": {"email": "Hamza@Test.com", "name": "Hamza"}}`, tut.ID,
		)))
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp CheckoutSessionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.URL)

		// the session carries the reconciliation metadata
		sessID := resp.URL[strings.LastIndex(resp.URL, "/")+1:]
		sess, err := app.checkout.RetrieveSession(context.Background(), sessID)
		require.NoError(t, err)
		assert.Equal(t, tut.ID, sess.Metadata[payment.MetaTutorID])
		assert.Equal(t, "hamza@test.com", sess.Metadata[payment.MetaStudentEmail])
		assert.Equal(t, "Hamza", sess.Metadata[payment.MetaStudentName])
		assert.Equal(t, int64(4999), sess.AmountTotal)
	})
}

func TestAPIPaymentSuccess(t *testing.T) {
	app := newTestApp(t)
	tut := app.createTutor(t, "Rahim", "rahim@test.com", tutor.StatusPending)
	req := app.createTuition(t, "hamza@test.com", "Hamza", tuition.StatusPending)

	sessID := startCheckout(t, app, tut.ID, "hamza@test.com", "Hamza", 49.99)
	body := marchallObj(t, payment.ReconcileInput{SessionID: sessID})

	t.Run("missing session id", func(t *testing.T) {
		httpReq, rec := newRequest(http.MethodPost, "/payment-success", []byte(`{}`))
		app.server.ServeHTTP(rec, httpReq)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"sessionId": "this field is required"}),
		}, rec)
	})

	t.Run("unknown session", func(t *testing.T) {
		httpReq, rec := newRequest(http.MethodPost, "/payment-success", []byte(`{"sessionId": "cs_nope"}`))
		app.server.ServeHTTP(rec, httpReq)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: payment.ErrSessionNotFound.Error()}),
		}, rec)
	})

	t.Run("reconciles the charge", func(t *testing.T) {
		httpReq, rec := newRequest(http.MethodPost, "/payment-success", body)
		app.server.ServeHTTP(rec, httpReq)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, SuccessResponse{Success: true}),
		}, rec)

		// the charged amount comes from the provider, in major units
		payments, err := app.paymentRepo.QueryAllPayments(context.Background())
		require.NoError(t, err)
		require.Len(t, payments, 1)
		assert.Equal(t, 49.99, payments[0].Amount)
		assert.Equal(t, tut.ID, payments[0].TutorID)
		assert.Equal(t, "hamza@test.com", payments[0].StudentEmail)
		assert.Equal(t, payment.StatusSuccess, payments[0].Status)

		approvedTut, err := app.tutorRepo.GetTutorByID(context.Background(), tut.ID)
		require.NoError(t, err)
		assert.Equal(t, tutor.StatusApproved, approvedTut.Status)

		approvedReq, err := app.tuitionRepo.GetRequestByID(context.Background(), req.ID)
		require.NoError(t, err)
		assert.Equal(t, tuition.StatusApproved, approvedReq.Status)
		require.NotNil(t, approvedReq.TutorID)
		assert.Equal(t, tut.ID, *approvedReq.TutorID)
	})

	t.Run("redirect retries are idempotent", func(t *testing.T) {
		httpReq, rec := newRequest(http.MethodPost, "/payment-success", body)
		app.server.ServeHTTP(rec, httpReq)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, SuccessResponse{Success: true}),
		}, rec)

		count, err := app.paymentRepo.CountPayments(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestAPIPaymentSuccessUnknownTutor(t *testing.T) {
	app := newTestApp(t)
	app.createTuition(t, "hamza@test.com", "Hamza", tuition.StatusPending)

	sessID := startCheckout(t, app, "nope", "hamza@test.com", "Hamza", 49.99)

	httpReq, rec := newRequest(http.MethodPost, "/payment-success", marchallObj(t, payment.ReconcileInput{SessionID: sessID}))
	app.server.ServeHTTP(rec, httpReq)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadGateway,
		wantData: marchallObj(t, httpErr{Error: payment.ErrReconciliationIncomplete.Error()}),
	}, rec)

	// the payment record survives; a later retry finishes the rest
	count, err := app.paymentRepo.CountPayments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAPIPaymentQuery(t *testing.T) {
	app := newTestApp(t)
	admin := app.createUser(t, "Admin", "admin@test.com", user.RoleAdmin)

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/payment")
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		}, rec)
	})

	t.Run("empty listing", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/payment", app.getToken(t, admin))
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`[]`)}, rec)
	})

	t.Run("lists recorded charges", func(t *testing.T) {
		tut := app.createTutor(t, "Rahim", "rahim@test.com", tutor.StatusPending)
		app.createTuition(t, "hamza@test.com", "Hamza", tuition.StatusPending)
		sessID := startCheckout(t, app, tut.ID, "hamza@test.com", "Hamza", 25)

		httpReq, rec := newRequest(http.MethodPost, "/payment-success", marchallObj(t, payment.ReconcileInput{SessionID: sessID}))
		app.server.ServeHTTP(rec, httpReq)
		require.Equal(t, http.StatusOK, rec.Code)

		req, rec := newAuthRequest(http.MethodGet, "/payment", app.getToken(t, admin))
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var payments []payment.Payment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payments))
		require.Len(t, payments, 1)
		assert.Equal(t, 25.0, payments[0].Amount)
	})
}

// startCheckout runs the checkout handler and returns the created session id.
func startCheckout(t *testing.T, app *testApp, tutorID, studentEmail, studentName string, price float64) string {
	t.Helper()

	req, rec := newRequest(http.MethodPost, "/create-checkout-session", []byte(fmt.Sprintf(
		`{"name": "Tuition fee", "price": %v, "tutorId": %q, "student": {"email": %q, "name": %q}}`,
		price, tutorID, studentEmail, studentName,
	)))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CheckoutSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.URL[strings.LastIndex(resp.URL, "/")+1:]
}
