package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/campus/core/application"
	"github.com/trezcool/campus/core/fee"
	"github.com/trezcool/campus/core/menu"
	"github.com/trezcool/campus/core/settings"
	"github.com/trezcool/campus/core/user"
)

func TestAdminApi_Students(t *testing.T) {
	app, deps := setup(t)
	tkn := adminToken(t, deps)

	newStudent := user.NewStudent{
		Name:         "Arun V",
		RollNumber:   "24AI003",
		Department:   "AIML",
		Batch:        "2024-2028",
		AcademicYear: "1st Year",
		Email:        "arun@example.com",
		StudentType:  user.DayScholar,
		Password:     "arun.pw",
	}

	req, rec := newAuthRequest(http.MethodPost, "/v1/admin/students", tkn, marchallObj(t, newStudent))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created user.Student
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Len(t, created.Fees, len(user.FeeCategories))
	for _, f := range created.Fees {
		assert.Zero(t, f.Amount)
		assert.Equal(t, user.FeeUnpaid, f.Status)
	}

	invalid := newStudent
	invalid.Department = "ARTS"
	invalid.Email = "arun2@example.com"

	runHTTPTests(t, app, []httpTest{
		{
			name:     "duplicate email",
			method:   http.MethodPost,
			path:     "/v1/admin/students",
			token:    tkn,
			body:     marchallObj(t, newStudent),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"email": "This email is already registered"}`),
		},
		{
			name:     "unknown department",
			method:   http.MethodPost,
			path:     "/v1/admin/students",
			token:    tkn,
			body:     marchallObj(t, invalid),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "update",
			method:   http.MethodPut,
			path:     "/v1/admin/students/" + created.ID,
			token:    tkn,
			body:     []byte(`{"academicYear": "2nd Year"}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "update unknown",
			method:   http.MethodPut,
			path:     "/v1/admin/students/s404",
			token:    tkn,
			body:     []byte(`{"academicYear": "2nd Year"}`),
			wantCode: http.StatusNotFound,
		},
		{
			name:     "delete",
			method:   http.MethodDelete,
			path:     "/v1/admin/students/s2",
			token:    tkn,
			wantCode: http.StatusNoContent,
		},
		{
			name:     "delete again",
			method:   http.MethodDelete,
			path:     "/v1/admin/students/s2",
			token:    tkn,
			wantCode: http.StatusNotFound,
		},
	})

	req, rec = newAuthRequest(http.MethodGet, "/v1/admin/students", tkn)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var students []user.Student
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &students))
	ids := make([]string, 0, len(students))
	for _, s := range students {
		ids = append(ids, s.ID)
		if s.ID == created.ID {
			assert.Equal(t, "2nd Year", s.AcademicYear)
		}
	}
	assert.Equal(t, []string{"s1", "s3", created.ID}, ids)

	// the new student can log in
	_, err := deps.UserSvc.Verify(ctxBg, "arun@example.com", "arun.pw", user.RoleStudent)
	assert.NoError(t, err)
}

func TestAdminApi_Fees(t *testing.T) {
	app, deps := setup(t)
	tkn := adminToken(t, deps)

	runHTTPTests(t, app, []httpTest{
		{
			name:     "negative amount",
			method:   http.MethodPut,
			path:     "/v1/admin/students/s3/fees",
			token:    tkn,
			body:     []byte(`{"fees": {"College": -1}}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown category",
			method:   http.MethodPut,
			path:     "/v1/admin/students/s3/fees",
			token:    tkn,
			body:     []byte(`{"fees": {"Gym": 100}}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "set amounts",
			method:   http.MethodPut,
			path:     "/v1/admin/students/s3/fees",
			token:    tkn,
			body:     []byte(`{"fees": {"College": 90000, "Lab": 3000}}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "toggle unknown category",
			method:   http.MethodPost,
			path:     "/v1/admin/students/s3/fees/Gym/toggle",
			token:    tkn,
			wantCode: http.StatusNotFound,
		},
	})

	s, err := deps.UserSvc.GetStudent(ctxBg, "s3")
	require.NoError(t, err)
	assert.Len(t, s.Fees, len(user.FeeCategories))
	assert.Equal(t, 90000.0, s.Fees[s.Fee(user.FeeCollege)].Amount)
	assert.Equal(t, 3000.0, s.Fees[s.Fee(user.FeeLab)].Amount)

	// the override ignores the payments switch
	off := false
	_, err = deps.SettingsSvc.Update(ctxBg, settings.UpdateSettings{PaymentsEnabled: &off})
	require.NoError(t, err)

	req, rec := newAuthRequest(http.MethodPost, "/v1/admin/students/s3/fees/College/toggle", tkn)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var item user.FeeItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, user.FeePaid, item.Status)
	assert.Equal(t, user.ModeBankTransfer, item.PaymentMode)
	assert.Regexp(t, `^ADMIN_OVERRIDE_\d+`, item.TransactionID)

	req, rec = newAuthRequest(http.MethodPost, "/v1/admin/students/s3/fees/College/toggle", tkn)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	item = user.FeeItem{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, user.FeeUnpaid, item.Status)
	assert.Empty(t, item.TransactionID)
}

func TestAdminApi_Faculty(t *testing.T) {
	app, deps := setup(t)
	tkn := adminToken(t, deps)

	nf := user.NewFaculty{Name: "Dr. Meena", Department: "EEE", Email: "meena@mkce.com", FacultyID: "F003", Password: "meena.pw"}
	req, rec := newAuthRequest(http.MethodPost, "/v1/admin/faculty", tkn, marchallObj(t, nf))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created user.Faculty
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	runHTTPTests(t, app, []httpTest{
		{
			name:     "update",
			method:   http.MethodPut,
			path:     "/v1/admin/faculty/" + created.ID,
			token:    tkn,
			body:     []byte(`{"department": "ECE"}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "delete",
			method:   http.MethodDelete,
			path:     "/v1/admin/faculty/f2",
			token:    tkn,
			wantCode: http.StatusNoContent,
		},
		{
			name:     "delete unknown",
			method:   http.MethodDelete,
			path:     "/v1/admin/faculty/f404",
			token:    tkn,
			wantCode: http.StatusNotFound,
		},
	})

	faculty, err := deps.UserSvc.Faculty(ctxBg)
	require.NoError(t, err)
	require.Len(t, faculty, 2)
	assert.Equal(t, "f1", faculty[0].ID)
	assert.Equal(t, "ECE", faculty[1].Department)

	_, err = deps.UserSvc.Verify(ctxBg, "anna.lee@example.com", "password123", user.RoleFaculty)
	assert.Error(t, err)
}

func TestAdminApi_Applications(t *testing.T) {
	app, deps := setup(t)
	tkn := adminToken(t, deps)

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"all", "", []string{"app1", "app2", "app3", "app4"}},
		{"department", "?department=CSE", []string{"app1", "app3", "app4"}},
		{"status", "?status=Approved", []string{"app3"}},
		{"batch and status", "?batch=2021-2025&status=Pending", []string{"app1", "app4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/admin/applications"+tt.query, tkn)
			app.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.ElementsMatch(t, tt.wantIDs, appIDs(t, rec.Body.Bytes()))
		})
	}

	reject := marchallObj(t, application.Decision{Status: application.StatusRejected, Remarks: "Insufficient details"})
	runHTTPTests(t, app, []httpTest{
		{
			name:     "bad status filter",
			path:     "/v1/admin/applications?status=Lost",
			token:    tkn,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "decide outside any department",
			method:   http.MethodPost,
			path:     "/v1/admin/applications/app2/decision",
			token:    tkn,
			body:     reject,
			wantCode: http.StatusOK,
		},
		{
			name:     "decide twice",
			method:   http.MethodPost,
			path:     "/v1/admin/applications/app2/decision",
			token:    tkn,
			body:     reject,
			wantCode: http.StatusConflict,
		},
	})

	decided, err := deps.AppSvc.Get(ctxBg, "app2")
	require.NoError(t, err)
	assert.Equal(t, application.StatusRejected, decided.Status)
	assert.Equal(t, deps.UserSvc.Admin().ID, decided.FacultyActionByID)
}

func TestAdminApi_Settings(t *testing.T) {
	app, deps := setup(t)
	tkn := adminToken(t, deps)

	runHTTPTests(t, app, []httpTest{
		{
			name:     "defaults",
			path:     "/v1/admin/settings",
			token:    tkn,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, settings.Settings{PaymentsEnabled: true, FacultyCanEdit: false}),
		},
		{
			name:     "partial update",
			method:   http.MethodPut,
			path:     "/v1/admin/settings",
			token:    tkn,
			body:     []byte(`{"facultyCanEdit": true}`),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, settings.Settings{PaymentsEnabled: true, FacultyCanEdit: true}),
		},
		{
			name:     "disable payments",
			method:   http.MethodPut,
			path:     "/v1/admin/settings",
			token:    tkn,
			body:     []byte(`{"paymentsEnabled": false}`),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, settings.Settings{PaymentsEnabled: false, FacultyCanEdit: true}),
		},
	})
}

func TestAdminApi_HostelMenu(t *testing.T) {
	app, deps := setup(t)
	tkn := adminToken(t, deps)

	monday := menu.DayMenu{Breakfast: "Pongal", Lunch: "Sambar Rice", Dinner: "Chapati"}
	runHTTPTests(t, app, []httpTest{
		{
			name:     "unknown day",
			method:   http.MethodPut,
			path:     "/v1/admin/hostel-menu",
			token:    tkn,
			body:     []byte(`{"days": {"Funday": {"breakfast": "Cake"}}}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "update monday",
			method:   http.MethodPut,
			path:     "/v1/admin/hostel-menu",
			token:    tkn,
			body:     marchallObj(t, menu.UpdateMenu{Days: map[string]menu.DayMenu{"Monday": monday}}),
			wantCode: http.StatusOK,
		},
	})

	m, err := deps.MenuSvc.Get(ctxBg)
	require.NoError(t, err)
	assert.Equal(t, monday, m["Monday"])
	assert.Equal(t, menu.Seed()["Tuesday"], m["Tuesday"])
}

func TestAdminApi_Reports(t *testing.T) {
	app, deps := setup(t)

	req, rec := newAuthRequest(http.MethodGet, "/v1/admin/reports", adminToken(t, deps))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var report ReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, application.Counts{Total: 4, Pending: 3, Approved: 1}, report.Applications)
	assert.Equal(t, 336000.0, report.Fees.Total)
	assert.Equal(t, 117000.0, report.Fees.Collected)
	assert.Equal(t, "34.82", report.Fees.CompletionRatio)
	assert.Equal(t, []fee.StudentDues{
		{Name: "MKCE Student", RollNumber: "21CS001", Department: "CSE", Pending: 122500},
		{Name: "John Smith", RollNumber: "21CS042", Department: "CSE", Pending: 96500},
	}, report.Fees.StudentsWithDues)
}

func TestMetricsEndpoint(t *testing.T) {
	app, _ := setup(t)

	body := marchallObj(t, LoginRequest{Email: "mkce@2025", Password: "wrong"})
	req, rec := newRequest(http.MethodPost, "/v1/student/login", body)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req, rec = newRequest(http.MethodGet, "/metrics")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `campus_session_logins_total{role="student",success="false"} 1`)
}
