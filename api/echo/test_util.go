package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tuitionhub/backend/core"
	"github.com/tuitionhub/backend/core/payment"
	"github.com/tuitionhub/backend/core/tuition"
	"github.com/tuitionhub/backend/core/tutor"
	"github.com/tuitionhub/backend/core/user"
	dummycheckout "github.com/tuitionhub/backend/services/checkout/dummy"
	emailsvc "github.com/tuitionhub/backend/services/email"
	dummydb "github.com/tuitionhub/backend/storage/database/dummy"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

type testApp struct {
	server   Server
	conf     *core.Config
	db       *dummydb.DB
	checkout *dummycheckout.Service

	userRepo    user.Repository
	tutorRepo   tutor.Repository
	tuitionRepo tuition.Repository
	paymentRepo payment.Repository

	userSvc    *user.Service
	tutorSvc   *tutor.Service
	tuitionSvc *tuition.Service
	paymentSvc *payment.Service
}

// testLogger keeps test output quiet; failures assert on responses instead.
type testLogger struct{}

func (testLogger) Enable(bool)                  {}
func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Warn(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}
func (testLogger) Fatal(string, ...interface{}) {}

func testConfig() *core.Config {
	return &core.Config{
		TestMode:     true,
		AppName:      "TuitionHub",
		SecretKey:    "secret",
		ClientDomain: "http://localhost:5173",
		Server: core.ServerConfig{
			Host:               "localhost",
			Port:               8000,
			JWTExpirationDelta: 10 * time.Minute,
		},
	}
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	conf := testConfig()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("newTestApp() failed: %v", err)
	}

	validate, translator := core.NewValidator()
	user.RegisterValidators(validate, translator)

	app := &testApp{
		conf:        conf,
		db:          db,
		checkout:    dummycheckout.NewService(),
		userRepo:    dummydb.NewUserRepository(db),
		tutorRepo:   dummydb.NewTutorRepository(db),
		tuitionRepo: dummydb.NewTuitionRepository(db),
		paymentRepo: dummydb.NewPaymentRepository(db),
	}
	app.userSvc = user.NewService(app.userRepo)
	app.tutorSvc = tutor.NewService(app.tutorRepo)
	app.tuitionSvc = tuition.NewService(app.tuitionRepo)
	app.paymentSvc = payment.NewService(
		app.paymentRepo,
		app.tutorSvc,
		app.tuitionSvc,
		app.checkout,
		emailsvc.NewConsoleServiceMock(conf),
		testLogger{},
		conf.ClientDomain,
	)

	app.server = NewServer(&Options{
		Conf:           conf,
		Logger:         testLogger{},
		DisableReqLogs: true,
		UserSvc:        app.userSvc,
		TutorSvc:       app.tutorSvc,
		TuitionSvc:     app.tuitionSvc,
		PaymentSvc:     app.paymentSvc,
		Validate:       validate,
		Translator:     translator,
	})
	return app
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func (app *testApp) getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken([]byte(app.conf.SecretKey), GetUserClaims(app.conf, usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func (app *testApp) createUser(t *testing.T, name, email, role string) user.User {
	t.Helper()
	now := time.Now().UTC()
	usr, err := app.userRepo.CreateUser(context.Background(), user.User{
		Name:         name,
		Email:        email,
		Role:         role,
		CreatedAt:    now,
		LastLoggedIn: now,
	})
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func (app *testApp) createTutor(t *testing.T, name, email, status string) tutor.Tutor {
	t.Helper()
	tut, err := app.tutorRepo.CreateTutor(context.Background(), tutor.Tutor{
		Name:       name,
		Email:      email,
		Subject:    "Mathematics",
		Location:   "Dhaka",
		HourlyRate: 25,
		Status:     status,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("createTutor() failed: %v", err)
	}
	return tut
}

func (app *testApp) createTuition(t *testing.T, studentEmail, studentName, status string, createdAt ...time.Time) tuition.Request {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	req, err := app.tuitionRepo.CreateRequest(context.Background(), tuition.Request{
		Student:   tuition.Student{Email: studentEmail, Name: studentName},
		Subject:   "Physics",
		Class:     "10",
		Budget:    100,
		Status:    status,
		CreatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("createTuition() failed: %v", err)
	}
	return req
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	t.Helper()
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
