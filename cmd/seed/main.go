package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/gate-garments/hrms-backend-go/internal/config"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/database"
	"github.com/gate-garments/hrms-backend-go/internal/repository/postgresql"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	cfg, err := config.LoadDatabase()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	repos := repositories{
		tx:          postgresql.NewTransactor(db, cfg.Database.MaxRetries),
		users:       postgresql.NewUserRepository(db),
		employees:   postgresql.NewEmployeeRepository(db),
		departments: postgresql.NewDepartmentRepository(db),
		structures:  postgresql.NewSalaryStructureRepository(db),
	}
	creds := credentials{
		AdminPassword:    envOr("SEED_ADMIN_PASSWORD", "admin123"),
		EmployeePassword: envOr("SEED_EMPLOYEE_PASSWORD", "employee123"),
	}

	if err := seed(context.Background(), repos, creds); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
	slog.Info("seed completed")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
