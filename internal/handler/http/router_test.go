package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gate-garments/hrms-backend-go/internal/config"
	"github.com/gate-garments/hrms-backend-go/internal/domain/attendance"
	"github.com/gate-garments/hrms-backend-go/internal/domain/employee"
	"github.com/gate-garments/hrms-backend-go/internal/domain/salary"
	"github.com/gate-garments/hrms-backend-go/internal/domain/user"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/jwt"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/storage"
	"github.com/gate-garments/hrms-backend-go/internal/repository/memory"
	attendanceService "github.com/gate-garments/hrms-backend-go/internal/service/attendance"
	authService "github.com/gate-garments/hrms-backend-go/internal/service/auth"
	deductionService "github.com/gate-garments/hrms-backend-go/internal/service/deduction"
	employeeService "github.com/gate-garments/hrms-backend-go/internal/service/employee"
	"github.com/gate-garments/hrms-backend-go/internal/service/file"
	holidayService "github.com/gate-garments/hrms-backend-go/internal/service/holiday"
	leaveService "github.com/gate-garments/hrms-backend-go/internal/service/leave"
	payrollService "github.com/gate-garments/hrms-backend-go/internal/service/payroll"
	salaryService "github.com/gate-garments/hrms-backend-go/internal/service/salary"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "test-secret-key-for-jwt"
	testPassword = "Secret123!"
)

type testServer struct {
	t          *testing.T
	store      *memory.Store
	jwt        jwt.Service
	handler    http.Handler
	employee   employee.Employee
	adminToken string
	empToken   string
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	jwtService := jwt.NewJWTService(testSecret, time.Hour)

	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	leaves := leaveService.NewLeaveService(store.Leaves(), store.Employees())
	att := attendanceService.NewAttendanceService(
		store.Attendance(),
		store.Employees(),
		store.Periods(),
		leaveService.ApprovedLeaveSource{Repo: store.Leaves()},
	)
	pay := payrollService.NewPayrollService(
		memory.Transactor{},
		store.Periods(),
		store.Records(),
		store.Slips(),
		store.Employees(),
		store.Structures(),
		store.Deductions(),
		store.Holidays(),
		att,
		file.NewFileService(local),
		payrollService.Config{CompanyName: "Gate Garments"},
	)

	handlers := Handlers{
		Auth: NewAuthHandler(authService.NewAuthService(store.Users(), jwtService)),
		Employee: NewEmployeeHandler(
			employeeService.NewEmployeeService(store.Employees(), store.Departments()),
			salaryService.NewSalaryService(store.Structures(), store.Employees()),
			deductionService.NewDeductionService(store.Deductions(), store.Employees()),
		),
		Attendance: NewAttendanceHandler(att),
		Leave:      NewLeaveHandler(leaves),
		Payroll:    NewPayrollHandler(pay),
		Holiday:    NewHolidayHandler(holidayService.NewHolidayService(store.Holidays())),
	}

	app := config.AppConfig{Env: "test", AllowedOrigins: []string{"http://localhost:3000"}}
	s := &testServer{
		t:       t,
		store:   store,
		jwt:     jwtService,
		handler: NewRouter(app, jwtService, handlers),
	}

	ctx := context.Background()
	s.employee, err = store.Employees().Create(ctx, employee.Employee{
		EmployeeCode:  "E001",
		FirstName:     "Asha",
		LastName:      "Rao",
		Email:         "asha@gategarments.test",
		PhoneNumber:   "9876543210",
		Gender:        employee.GenderFemale,
		Designation:   "Tailor",
		DateOfJoining: time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
		Status:        employee.StatusActive,
	})
	require.NoError(t, err)

	adminUser := s.addUser("admin", "admin@gategarments.test", user.RoleAdmin, nil, true)
	empUser := s.addUser("asha", "asha@gategarments.test", user.RoleEmployee, &s.employee.ID, true)
	s.adminToken = s.token(adminUser)
	s.empToken = s.token(empUser)
	return s
}

func (s *testServer) addUser(username, email string, role user.Role, employeeID *string, active bool) user.User {
	s.t.Helper()
	hash, err := authService.HashPassword(testPassword)
	require.NoError(s.t, err)
	u, err := s.store.Users().Create(context.Background(), user.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		EmployeeID:   employeeID,
		IsActive:     active,
	})
	require.NoError(s.t, err)
	return u
}

func (s *testServer) token(u user.User) string {
	s.t.Helper()
	token, _, err := s.jwt.GenerateAccessToken(u)
	require.NoError(s.t, err)
	return token
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func (s *testServer) seedPayrollInputs() {
	s.t.Helper()
	ctx := context.Background()
	_, err := s.store.Structures().Upsert(ctx, salary.Structure{
		EmployeeID: s.employee.ID,
		Earnings: salary.Earnings{
			Basic:      decimal.NewFromInt(25000),
			HRA:        decimal.NewFromInt(5000),
			DA:         decimal.NewFromInt(3000),
			Conveyance: decimal.NewFromInt(1500),
			Medical:    decimal.NewFromInt(1000),
		},
		Deductions: salary.Deductions{
			PF:        decimal.NewFromInt(2250),
			ESI:       decimal.NewFromInt(800),
			IncomeTax: decimal.NewFromInt(2000),
		},
	})
	require.NoError(s.t, err)

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 20; i++ {
		_, err := s.store.Attendance().Upsert(ctx, attendance.Record{
			EmployeeID: s.employee.ID,
			Date:       start.AddDate(0, 0, i),
			Status:     attendance.StatusPresent,
		})
		require.NoError(s.t, err)
	}
}

func TestRouter_Login(t *testing.T) {
	s := newTestServer(t)

	t.Run("username", func(t *testing.T) {
		rr := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"username": "admin",
			"password": testPassword,
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var data struct {
			AccessToken string `json:"access_token"`
			Role        string `json:"role"`
		}
		decode(t, rr, &data)
		assert.NotEmpty(t, data.AccessToken)
		assert.Equal(t, "admin", data.Role)

		me := s.do(http.MethodGet, "/api/v1/auth/me", data.AccessToken, nil)
		require.Equal(t, http.StatusOK, me.Code)
		var actor map[string]interface{}
		decode(t, me, &actor)
		assert.Equal(t, "admin", actor["role"])
	})

	t.Run("email is accepted as username", func(t *testing.T) {
		rr := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"username": "ASHA@gategarments.test",
			"password": testPassword,
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var data struct {
			EmployeeID *string `json:"employee_id"`
		}
		decode(t, rr, &data)
		require.NotNil(t, data.EmployeeID)
		assert.Equal(t, s.employee.ID, *data.EmployeeID)
	})

	t.Run("wrong password", func(t *testing.T) {
		rr := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"username": "admin",
			"password": "nope",
		})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("disabled account", func(t *testing.T) {
		s.addUser("gone", "gone@gategarments.test", user.RoleEmployee, nil, false)
		rr := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"username": "gone",
			"password": testPassword,
		})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		rr := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "admin"})
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		env := decode(t, rr, nil)
		require.NotNil(t, env.Error)
		assert.Contains(t, env.Error.Details, "password")
	})

	t.Run("malformed body", func(t *testing.T) {
		rr := s.do(http.MethodPost, "/api/v1/auth/login", "", "{not json")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestRouter_AuthenticationRequired(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(http.MethodGet, "/api/v1/payroll/periods", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(http.MethodGet, "/api/v1/payroll/periods", "garbage.token.value", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	other := jwt.NewJWTService("another-secret", time.Hour)
	forged, _, err := other.GenerateAccessToken(user.User{ID: "x", Username: "x", Role: user.RoleAdmin})
	require.NoError(t, err)
	rr = s.do(http.MethodGet, "/api/v1/payroll/periods", forged, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouter_AdminOnlyRoutes(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodPost, "/api/v1/payroll/process", map[string]int{"year": 2025, "month": 1}},
		{http.MethodPost, "/api/v1/payroll/periods/abc/approve", nil},
		{http.MethodPut, "/api/v1/attendance", map[string]string{}},
		{http.MethodPost, "/api/v1/employees", map[string]string{}},
		{http.MethodGet, "/api/v1/employees", nil},
		{http.MethodDelete, "/api/v1/deductions/abc", nil},
		{http.MethodPost, "/api/v1/holidays", map[string]string{}},
		{http.MethodPost, "/api/v1/leaves/abc/decision", map[string]string{"decision": "approve"}},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rr := s.do(tc.method, tc.path, s.empToken, tc.body)
			assert.Equal(t, http.StatusForbidden, rr.Code, rr.Body.String())
		})
	}
}

func TestRouter_PayrollFlow(t *testing.T) {
	s := newTestServer(t)
	s.seedPayrollInputs()

	rr := s.do(http.MethodPost, "/api/v1/payroll/process", s.adminToken, map[string]int{"year": 2025, "month": 1})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var summary struct {
		Period struct {
			ID     string `json:"id"`
			Period string `json:"period"`
			Status string `json:"status"`
		} `json:"period"`
		ProcessedCount int `json:"processed_count"`
		SkippedCount   int `json:"skipped_count"`
	}
	decode(t, rr, &summary)
	assert.Equal(t, 1, summary.ProcessedCount)
	assert.Equal(t, 0, summary.SkippedCount)
	assert.Equal(t, "2025-01", summary.Period.Period)
	assert.Equal(t, "processed", summary.Period.Status)
	periodID := summary.Period.ID

	// The employee reads their own record.
	rr = s.do(http.MethodGet, "/api/v1/payroll/records/"+s.employee.ID+"/"+periodID, s.empToken, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var record struct {
		ID              string          `json:"id"`
		GrossSalary     decimal.Decimal `json:"gross_salary"`
		TotalDeductions decimal.Decimal `json:"total_deductions"`
		NetSalary       decimal.Decimal `json:"net_salary"`
		PresentDays     int             `json:"present_days"`
	}
	decode(t, rr, &record)
	assert.True(t, decimal.RequireFromString("35500").Equal(record.GrossSalary), record.GrossSalary.String())
	assert.True(t, decimal.RequireFromString("5050").Equal(record.TotalDeductions), record.TotalDeductions.String())
	assert.True(t, decimal.RequireFromString("30450").Equal(record.NetSalary), record.NetSalary.String())
	assert.Equal(t, 20, record.PresentDays)

	slip, err := s.store.Slips().GetByRecordID(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, "SLIP-2025-01-E001", slip.SlipNumber)

	rr = s.do(http.MethodGet, "/api/v1/payroll/slips/"+slip.ID+"/pdf", s.empToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "SLIP-2025-01-E001.pdf")
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF-")))

	// Paying before approval is an invalid transition.
	rr = s.do(http.MethodPost, "/api/v1/payroll/periods/"+periodID+"/pay", s.adminToken, nil)
	assert.Equal(t, http.StatusConflict, rr.Code, rr.Body.String())

	rr = s.do(http.MethodPost, "/api/v1/payroll/periods/"+periodID+"/approve", s.adminToken, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	// Approved periods are locked against reprocessing.
	rr = s.do(http.MethodPost, "/api/v1/payroll/process", s.adminToken, map[string]int{"year": 2025, "month": 1})
	assert.Equal(t, http.StatusConflict, rr.Code, rr.Body.String())

	rr = s.do(http.MethodPost, "/api/v1/payroll/periods/"+periodID+"/pay", s.adminToken, map[string]string{"payment_date": "2025-02-01"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var paid struct {
		Status      string  `json:"status"`
		PaymentDate *string `json:"payment_date"`
	}
	decode(t, rr, &paid)
	assert.Equal(t, "paid", paid.Status)
	require.NotNil(t, paid.PaymentDate)
	assert.Equal(t, "2025-02-01", *paid.PaymentDate)

	rr = s.do(http.MethodGet, "/api/v1/payroll/slips/"+slip.ID, s.empToken, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var slipResp struct {
		SlipNumber   string `json:"slip_number"`
		PDFGenerated bool   `json:"pdf_generated"`
	}
	decode(t, rr, &slipResp)
	assert.Equal(t, "SLIP-2025-01-E001", slipResp.SlipNumber)
}

func TestRouter_ProcessPayroll_InvalidPeriod(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(http.MethodPost, "/api/v1/payroll/process", s.adminToken, map[string]int{"year": 2025, "month": 13})
	assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())

	rr = s.do(http.MethodPost, "/api/v1/payroll/process", s.adminToken, "{")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRouter_PayrollRecords_EmployeeSeesOwnOnly(t *testing.T) {
	s := newTestServer(t)
	s.seedPayrollInputs()

	other, err := s.store.Employees().Create(context.Background(), employee.Employee{
		EmployeeCode:  "E002",
		FirstName:     "Ravi",
		Email:         "ravi@gategarments.test",
		Gender:        employee.GenderMale,
		Designation:   "Cutter",
		DateOfJoining: time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC),
		Status:        employee.StatusActive,
	})
	require.NoError(t, err)
	_, err = s.store.Structures().Upsert(context.Background(), salary.Structure{
		EmployeeID: other.ID,
		Earnings:   salary.Earnings{Basic: decimal.NewFromInt(20000)},
	})
	require.NoError(t, err)

	rr := s.do(http.MethodPost, "/api/v1/payroll/process", s.adminToken, map[string]int{"year": 2025, "month": 1})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var records []struct {
		EmployeeID string `json:"employee_id"`
	}
	rr = s.do(http.MethodGet, "/api/v1/payroll/records", s.adminToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decode(t, rr, &records)
	assert.Len(t, records, 2)

	rr = s.do(http.MethodGet, "/api/v1/payroll/records?employee_id="+other.ID, s.empToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	records = nil
	decode(t, rr, &records)
	require.Len(t, records, 1)
	assert.Equal(t, s.employee.ID, records[0].EmployeeID)
}

func TestRouter_LeaveFlow(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(http.MethodPost, "/api/v1/leaves", s.empToken, map[string]string{
		"leave_type": "SL",
		"start_date": "2025-03-03",
		"end_date":   "2025-03-05",
		"reason":     "fever",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created struct {
		ID           string `json:"id"`
		NumberOfDays int    `json:"number_of_days"`
		Status       string `json:"status"`
	}
	decode(t, rr, &created)
	assert.Equal(t, 3, created.NumberOfDays)
	assert.Equal(t, "pending", created.Status)

	rr = s.do(http.MethodPost, "/api/v1/leaves/"+created.ID+"/decision", s.adminToken, map[string]string{"decision": "maybe"})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code, rr.Body.String())

	rr = s.do(http.MethodPost, "/api/v1/leaves/"+created.ID+"/decision", s.adminToken, map[string]string{"decision": "approve"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = s.do(http.MethodPost, "/api/v1/leaves/"+created.ID+"/decision", s.adminToken, map[string]string{"decision": "reject"})
	assert.Equal(t, http.StatusConflict, rr.Code, rr.Body.String())

	rr = s.do(http.MethodGet, "/api/v1/leaves/"+created.ID, s.empToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var got struct {
		Status string `json:"status"`
	}
	decode(t, rr, &got)
	assert.Equal(t, "approved", got.Status)
}

func TestRouter_Attendance(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(http.MethodPut, "/api/v1/attendance", s.adminToken, map[string]string{
		"employee_id": s.employee.ID,
		"date":        "2025-01-06",
		"status":      "P",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	tomorrow := time.Now().UTC().AddDate(0, 0, 2).Format(time.DateOnly)
	rr = s.do(http.MethodPut, "/api/v1/attendance", s.adminToken, map[string]string{
		"employee_id": s.employee.ID,
		"date":        tomorrow,
		"status":      "P",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code, rr.Body.String())

	rr = s.do(http.MethodGet, "/api/v1/attendance/summary?start_date=2025-01-01&end_date=2025-01-31", s.empToken, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var summary struct {
		Present int `json:"present_days"`
	}
	decode(t, rr, &summary)
	assert.Equal(t, 1, summary.Present)
}

func TestRouter_NotFound(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(http.MethodGet, "/api/v1/payroll/periods/0190a1b2-0000-7000-8000-000000000000", s.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(http.MethodGet, "/api/v1/employees/0190a1b2-0000-7000-8000-000000000000", s.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
