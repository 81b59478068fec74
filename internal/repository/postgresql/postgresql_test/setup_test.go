package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/gate-garments/hrms-backend-go/internal/pkg/database"
	"github.com/gate-garments/hrms-backend-go/internal/pkg/migration"
	"github.com/stretchr/testify/require"
)

var (
	testDB     *database.DB
	testDBErr  error
	testDBOnce sync.Once
)

// openTestDB connects to TEST_DATABASE_URL and applies the schema once per
// test binary. Tests are skipped when the variable is unset.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	testDBOnce.Do(func() {
		m, err := migration.New(dsn)
		if err != nil {
			testDBErr = err
			return
		}
		defer m.Close()
		if err := m.Up(); err != nil {
			testDBErr = err
			return
		}
		testDB, testDBErr = database.NewPostgreSQLDB(dsn)
	})
	require.NoError(t, testDBErr)

	truncateAll(t, testDB)
	return testDB
}

var tables = []string{
	"salary_slips",
	"payroll_record_deductions",
	"payroll_records",
	"payroll_periods",
	"holidays",
	"deductions",
	"leaves",
	"attendance",
	"salary_structures",
	"users",
	"employees",
	"departments",
}

func truncateAll(t *testing.T, db *database.DB) {
	t.Helper()
	_, err := db.Exec(context.Background(), fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(tables, ", ")))
	require.NoError(t, err)
}
