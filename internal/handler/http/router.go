package http

import (
	"log/slog"
	"os"

	"github.com/gate-garments/hrms-backend-go/internal/config"
	"github.com/gate-garments/hrms-backend-go/internal/handler/http/middleware"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/time/rate"
)

type Handlers struct {
	Auth       AuthHandler
	Employee   EmployeeHandler
	Attendance AttendanceHandler
	Leave      LeaveHandler
	Payroll    PayrollHandler
	Holiday    HolidayHandler
}

func NewRouter(app config.AppConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(app.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "gate-hrms"),
		slog.String("version", "v1.0.0"),
		slog.String("env", app.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		loginLimit := rate.Limit(float64(app.LoginRatePerMinute) / 60)
		r.With(middleware.RateLimitByIP(loginLimit, app.LoginBurst)).Post("/auth/login", h.Auth.Login)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Get("/auth/me", h.Auth.Me)
			mountRoutes(r, h)
		})
	})
	return r
}

// mountRoutes registers every authenticated route. Tests mount it behind
// their own actor middleware.
func mountRoutes(r chi.Router, h Handlers) {
	r.Route("/payroll", func(r chi.Router) {
		r.Get("/periods", h.Payroll.ListPeriods)
		r.Get("/periods/{id}", h.Payroll.GetPeriod)
		r.Get("/records", h.Payroll.ListRecords)
		r.Get("/records/{employeeId}/{periodId}", h.Payroll.GetRecord)
		r.Get("/slips/{id}", h.Payroll.GetSlip)
		r.Get("/slips/{id}/pdf", h.Payroll.DownloadSlip)

		// Admin only
		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminOnly)
			r.Post("/process", h.Payroll.Process)
			r.Post("/periods/{id}/approve", h.Payroll.ApprovePeriod)
			r.Post("/periods/{id}/pay", h.Payroll.MarkPeriodPaid)
		})
	})

	r.Route("/attendance", func(r chi.Router) {
		r.Get("/", h.Attendance.List)
		r.Get("/summary", h.Attendance.Summary)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminOnly)
			r.Put("/", h.Attendance.Mark)
			r.Post("/bulk", h.Attendance.BulkMark)
		})
	})

	r.Route("/leaves", func(r chi.Router) {
		r.Post("/", h.Leave.Create)
		r.Get("/", h.Leave.List)
		r.Get("/{id}", h.Leave.Get)
		r.With(middleware.AdminOnly).Post("/{id}/decision", h.Leave.Decide)
	})

	r.Route("/employees", func(r chi.Router) {
		r.Get("/{id}", h.Employee.Get)
		r.Get("/{id}/salary-structure", h.Employee.GetSalaryStructure)
		r.Get("/{id}/deductions", h.Employee.ListDeductions)

		// Admin only
		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminOnly)
			r.Post("/", h.Employee.Create)
			r.Get("/", h.Employee.List)
			r.Put("/{id}", h.Employee.Update)
			r.Patch("/{id}/status", h.Employee.ChangeStatus)
			r.Put("/{id}/salary-structure", h.Employee.SaveSalaryStructure)
			r.Post("/{id}/deductions", h.Employee.CreateDeduction)
		})
	})
	r.With(middleware.AdminOnly).Delete("/deductions/{id}", h.Employee.DeactivateDeduction)

	r.Route("/departments", func(r chi.Router) {
		r.Get("/", h.Employee.ListDepartments)
		r.With(middleware.AdminOnly).Post("/", h.Employee.CreateDepartment)
	})

	r.Route("/holidays", func(r chi.Router) {
		r.Get("/", h.Holiday.List)
		r.With(middleware.AdminOnly).Post("/", h.Holiday.Create)
	})
}
