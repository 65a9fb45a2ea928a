package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/application"
	"github.com/trezcool/campus/core/fee"
	"github.com/trezcool/campus/core/menu"
	"github.com/trezcool/campus/core/session"
	"github.com/trezcool/campus/core/settings"
	"github.com/trezcool/campus/core/store"
	"github.com/trezcool/campus/core/user"
	emailsvc "github.com/trezcool/campus/services/email"
	i18nsvc "github.com/trezcool/campus/services/i18n"
	logsvc "github.com/trezcool/campus/services/logger"
	metricsvc "github.com/trezcool/campus/services/metrics"
	"github.com/trezcool/campus/storage/inmem"
)

var ctxBg = context.Background()

var errLoginRequired = func(role user.Role) loginRedirect {
	return loginRedirect{Error: "Please log in as " + string(role) + " to continue", Redirect: role.LoginPath()}
}

type httpErr struct {
	Error string `json:"error"`
}

type loginRedirect struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func setup(t *testing.T) (Server, ServerDeps) {
	t.Helper()
	require.NoError(t, i18nsvc.Init("en"))

	conf := core.NewTestConfig()
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "API : ", 0), conf)
	records := store.NewRecords(inmem.New())

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	application.InitValidators(validate, translator)
	menu.InitValidators(validate, translator)

	emailsvc.ResetSentMessages()
	usrSvc := user.NewService(records, conf)
	settingsSvc := settings.NewService(records)
	deps := ServerDeps{
		Conf:        conf,
		Logger:      logger,
		Metrics:     metricsvc.New(),
		Validate:    validate,
		Translator:  translator,
		UserSvc:     usrSvc,
		Revocations: session.NewRevocations(records),
		SettingsSvc: settingsSvc,
		MenuSvc:     menu.NewService(records),
		AppSvc:      application.NewService(records, usrSvc, emailsvc.NewConsoleServiceMock(conf), logger),
		FeeSvc:      fee.NewService(usrSvc, settingsSvc, logger),
	}
	return NewServer(deps), deps
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

func getToken(t *testing.T, deps ServerDeps, ident user.Identity) string {
	t.Helper()
	auth := newAuthenticator(deps.Conf, deps.UserSvc, deps.Revocations)
	body, err := json.Marshal(ident.Record())
	require.NoError(t, err)
	claims, err := auth.newClaims(string(ident.Role), body)
	require.NoError(t, err)
	token, err := auth.GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func studentToken(t *testing.T, deps ServerDeps, id string) string {
	t.Helper()
	s, err := deps.UserSvc.GetStudent(ctxBg, id)
	require.NoError(t, err)
	return getToken(t, deps, user.StudentIdentity(s))
}

func facultyToken(t *testing.T, deps ServerDeps, id string) string {
	t.Helper()
	f, err := deps.UserSvc.GetFaculty(ctxBg, id)
	require.NoError(t, err)
	return getToken(t, deps, user.FacultyIdentity(f))
}

func adminToken(t *testing.T, deps ServerDeps) string {
	return getToken(t, deps, user.AdminIdentity(deps.UserSvc.Admin()))
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
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
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
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

func runHTTPTests(t *testing.T, app Server, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
