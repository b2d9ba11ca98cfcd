//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"solidario/migrations"
	id "solidario/pkg/domain"
)

// PostgresContainer wraps a testcontainers Postgres instance.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts a new Postgres container with migrations applied.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("solidario_test"),
		postgres.WithUsername("solidario"),
		postgres.WithPassword("solidario_test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to connect to postgres: %v", err)
	}

	pc := &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
	}

	if err := pc.runMigrations(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Note: We don't register t.Cleanup here because the container is managed
	// by the singleton Manager and shared across test suites. Ryuk (testcontainers'
	// cleanup sidecar) handles container cleanup when the test process exits.

	return pc
}

// runMigrations executes all *.up.sql migrations from the embedded migrations.FS.
func (p *PostgresContainer) runMigrations(ctx context.Context) error {
	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := fs.ReadFile(migrations.FS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}

		if _, err := p.DB.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("execute migration %s: %w", file, err)
		}
	}

	return nil
}

// TruncateTables clears all data from the specified tables.
// Use between tests to ensure isolation without restarting the container.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		_, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE "+table+" CASCADE")
		if err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

// TruncateModuleTables truncates all module tables for full integration test isolation.
// Tables are truncated with CASCADE to handle foreign key dependencies.
func (p *PostgresContainer) TruncateModuleTables(ctx context.Context) error {
	tables := []string{
		"audit_events",
		"deliveries",
		"publications",
		"benefits",
		"programs",
		"staff_users",
	}
	return p.TruncateTables(ctx, tables...)
}

// Exec runs a SQL statement and returns the result.
func (p *PostgresContainer) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return p.DB.ExecContext(ctx, query, args...)
}

// Query runs a SQL query and returns rows.
func (p *PostgresContainer) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return p.DB.QueryContext(ctx, query, args...)
}

// QueryRow runs a SQL query expected to return a single row.
func (p *PostgresContainer) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return p.DB.QueryRowContext(ctx, query, args...)
}

// CreateTestStaffUser inserts a staff user with the given role and returns its ID.
// Fails the test if insertion fails.
func (p *PostgresContainer) CreateTestStaffUser(ctx context.Context, t testing.TB, role string) id.UserID {
	t.Helper()
	userID := id.NewUserID()
	_, err := p.Exec(ctx, `
		INSERT INTO staff_users (id, username, full_name, password_hash, role, active, created_at, updated_at)
		VALUES ($1, $2, 'Usuario De Prueba', '$2a$10$invalidhashforintegrationtests0000000000000000000000', $3, true, NOW(), NOW())
	`, uuid.UUID(userID), "test-"+uuid.NewString(), role)
	if err != nil {
		t.Fatalf("CreateTestStaffUser: %v", err)
	}
	return userID
}

// CreateTestProgram inserts a program with one benefit and returns both IDs.
// Fails the test if insertion fails.
func (p *PostgresContainer) CreateTestProgram(ctx context.Context, t testing.TB) (id.ProgramID, id.BenefitID) {
	t.Helper()
	var programID int64
	err := p.QueryRow(ctx, `
		INSERT INTO programs (code, name, active)
		VALUES ($1, 'Programa de Prueba', true)
		RETURNING id
	`, "PRG-"+uuid.NewString()[:8]).Scan(&programID)
	if err != nil {
		t.Fatalf("CreateTestProgram: %v", err)
	}

	var benefitID int64
	err = p.QueryRow(ctx, `
		INSERT INTO benefits (program_id, code, short_name, active)
		VALUES ($1, $2, 'Beneficio de Prueba', true)
		RETURNING id
	`, programID, "BEN-"+uuid.NewString()[:8]).Scan(&benefitID)
	if err != nil {
		t.Fatalf("CreateTestProgram benefit: %v", err)
	}
	return id.ProgramID(programID), id.BenefitID(benefitID)
}
