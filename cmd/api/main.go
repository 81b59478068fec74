package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gate-garments/hrms-backend-go/internal/config"
	"github.com/gate-garments/hrms-backend-go/internal/domain/payroll"
	appHTTP "github.com/gate-garments/hrms-backend-go/internal/handler/http"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/cron"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/database"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/jwt"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/migration"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/storage"
	"github.com/gate-garments/hrms-backend-go/internal/repository/postgresql"
	attendanceService "github.com/gate-garments/hrms-backend-go/internal/service/attendance"
	serviceAuth "github.com/gate-garments/hrms-backend-go/internal/service/auth"
	deductionService "github.com/gate-garments/hrms-backend-go/internal/service/deduction"
	employeeService "github.com/gate-garments/hrms-backend-go/internal/service/employee"
	"github.com/gate-garments/hrms-backend-go/internal/service/file"
	holidayService "github.com/gate-garments/hrms-backend-go/internal/service/holiday"
	"github.com/gate-garments/hrms-backend-go/internal/service/leave"
	payrollService "github.com/gate-garments/hrms-backend-go/internal/service/payroll"
	salaryService "github.com/gate-garments/hrms-backend-go/internal/service/salary"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.App.LogLevel),
	})))

	dsn := cfg.DatabaseURL()
	if cfg.Database.AutoMigrate {
		if err := migrateUp(dsn); err != nil {
			return err
		}
	}

	db, err := database.NewPostgreSQLDBWithOptions(dsn, database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	transactor := postgresql.NewTransactor(db, cfg.Database.MaxRetries)
	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	structureRepo := postgresql.NewSalaryStructureRepository(db)
	deductionRepo := postgresql.NewDeductionRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	periodRepo := postgresql.NewPeriodRepository(db)
	recordRepo := postgresql.NewRecordRepository(db)
	slipRepo := postgresql.NewSlipRepository(db)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath)
	if err != nil {
		return fmt.Errorf("initialize local storage: %w", err)
	}
	fileService := file.NewFileService(fileStorage)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	authService := serviceAuth.NewAuthService(userRepo, JWTService)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, departmentRepo)
	salarySvc := salaryService.NewSalaryService(structureRepo, employeeRepo)
	deductionSvc := deductionService.NewDeductionService(deductionRepo, employeeRepo)
	holidaySvc := holidayService.NewHolidayService(holidayRepo)
	leaveSvc := leave.NewLeaveService(leaveRepo, employeeRepo)
	attendanceSvc := attendanceService.NewAttendanceService(
		attendanceRepo,
		employeeRepo,
		periodRepo,
		leave.ApprovedLeaveSource{Repo: leaveRepo},
	)
	payrollSvc := payrollService.NewPayrollService(
		transactor,
		periodRepo,
		recordRepo,
		slipRepo,
		employeeRepo,
		structureRepo,
		deductionRepo,
		holidayRepo,
		attendanceSvc,
		fileService,
		payrollService.Config{
			WorkingDaysMode: payroll.WorkingDaysMode(cfg.Payroll.WorkingDaysMode),
			BatchSize:       cfg.Payroll.BatchSize,
			Workers:         cfg.Payroll.Workers,
			CompanyName:     cfg.Payroll.CompanyName,
		},
	)

	router := appHTTP.NewRouter(cfg.App, JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authService),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc, salarySvc, deductionSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc),
		Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
		Holiday:    appHTTP.NewHolidayHandler(holidaySvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := cron.NewScheduler()
	cron.NewPayrollJobs(payrollSvc, cfg.Payroll.SlipRenderInterval).RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", server.Addr, "env", cfg.App.Env)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func migrateUp(dsn string) error {
	m, err := migration.New(dsn)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			slog.Warn("failed to close migrator", "error", err)
		}
	}()
	return m.Up()
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
