package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/gate-garments/hrms-backend-go/internal/config"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/migration"
)

func main() {
	var databaseURL string
	flag.StringVar(&databaseURL, "database", "", "Postgres URL (default: built from DB_* environment)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	if databaseURL == "" {
		cfg, err := config.LoadDatabase()
		if err != nil {
			fatal("failed to load configuration", err)
		}
		databaseURL = cfg.DatabaseURL()
	}

	m, err := migration.New(databaseURL)
	if err != nil {
		fatal("failed to create migrator", err)
	}
	defer func() {
		if err := m.Close(); err != nil {
			slog.Warn("failed to close migrator", "error", err)
		}
	}()

	switch command := args[0]; command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "step":
		n, convErr := intArg(args, "migrate step <n>")
		if convErr != nil {
			fatal("invalid step count", convErr)
		}
		err = m.Steps(n)
	case "version":
		version, dirty, verErr := m.Version()
		if verErr != nil {
			fatal("failed to read version", verErr)
		}
		slog.Info("current migration version", "version", version, "dirty", dirty)
	case "force":
		version, convErr := intArg(args, "migrate force <version>")
		if convErr != nil {
			fatal("invalid version", convErr)
		}
		err = m.Force(version)
	default:
		slog.Error("unknown command", "command", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fatal("migration failed", err)
	}
}

func intArg(args []string, usage string) (int, error) {
	if len(args) < 2 {
		return 0, fmt.Errorf("missing argument, usage: %s", usage)
	}
	return strconv.Atoi(args[1])
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Println(`Gate Garments HRMS migration tool

Usage:
  migrate [-database url] <command> [arguments]

Commands:
  up                Apply all pending migrations
  down              Roll back all migrations
  step <n>          Apply n migrations (positive=up, negative=down)
  version           Show current migration version
  force <version>   Force set migration version after a failed run

Environment:
  DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME, DB_SSL_MODE`)
}
