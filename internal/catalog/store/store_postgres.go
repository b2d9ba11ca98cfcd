package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"solidario/internal/catalog/models"
	id "solidario/pkg/domain"
	"solidario/pkg/platform/sentinel"
)

// dbExecutor is the subset of *sql.DB and *sql.Tx the store needs.
type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore persists the catalog in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPostgresStore creates a catalog store backed by the given database.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// WithTx returns a store that runs all statements inside tx.
func (s *PostgresStore) WithTx(tx *sql.Tx) *PostgresStore {
	return &PostgresStore{db: s.db, tx: tx}
}

func (s *PostgresStore) execer() dbExecutor {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func (s *PostgresStore) ListPrograms(ctx context.Context, activeOnly bool) ([]*models.Program, error) {
	query := `SELECT id, code, name, active, created_at, updated_at FROM programs`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY code`

	rows, err := s.execer().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing programs: %w", err)
	}
	defer rows.Close()

	byID := make(map[id.ProgramID]*models.Program)
	var programs []*models.Program
	for rows.Next() {
		var p models.Program
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning program: %w", err)
		}
		p.Benefits = make([]models.Benefit, 0)
		byID[p.ID] = &p
		programs = append(programs, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating programs: %w", err)
	}

	if err := s.attachBenefits(ctx, byID, activeOnly); err != nil {
		return nil, err
	}
	return programs, nil
}

func (s *PostgresStore) FindProgram(ctx context.Context, programID id.ProgramID) (*models.Program, error) {
	var p models.Program
	err := s.execer().QueryRowContext(ctx,
		`SELECT id, code, name, active, created_at, updated_at FROM programs WHERE id = $1`,
		programID,
	).Scan(&p.ID, &p.Code, &p.Name, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding program: %w", err)
	}

	p.Benefits = make([]models.Benefit, 0)
	if err := s.attachBenefits(ctx, map[id.ProgramID]*models.Program{p.ID: &p}, false); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) FindBenefit(ctx context.Context, benefitID id.BenefitID) (*models.Benefit, error) {
	var b models.Benefit
	err := s.execer().QueryRowContext(ctx,
		`SELECT id, program_id, code, short_name, active FROM benefits WHERE id = $1`,
		benefitID,
	).Scan(&b.ID, &b.ProgramID, &b.Code, &b.ShortName, &b.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding benefit: %w", err)
	}
	return &b, nil
}

func (s *PostgresStore) CreateProgram(ctx context.Context, program *models.Program) error {
	err := s.execer().QueryRowContext(ctx,
		`INSERT INTO programs (code, name, active)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		program.Code, program.Name, program.Active,
	).Scan(&program.ID, &program.CreatedAt, &program.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating program: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateProgram(ctx context.Context, program *models.Program) error {
	res, err := s.execer().ExecContext(ctx,
		`UPDATE programs SET name = $2, active = $3, updated_at = now() WHERE id = $1`,
		program.ID, program.Name, program.Active,
	)
	if err != nil {
		return fmt.Errorf("updating program: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CreateBenefit(ctx context.Context, benefit *models.Benefit) error {
	err := s.execer().QueryRowContext(ctx,
		`INSERT INTO benefits (program_id, code, short_name, active)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		benefit.ProgramID, benefit.Code, benefit.ShortName, benefit.Active,
	).Scan(&benefit.ID)
	if err != nil {
		return fmt.Errorf("creating benefit: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateBenefit(ctx context.Context, benefit *models.Benefit) error {
	res, err := s.execer().ExecContext(ctx,
		`UPDATE benefits SET short_name = $2, active = $3 WHERE id = $1`,
		benefit.ID, benefit.ShortName, benefit.Active,
	)
	if err != nil {
		return fmt.Errorf("updating benefit: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) attachBenefits(ctx context.Context, byID map[id.ProgramID]*models.Program, activeOnly bool) error {
	if len(byID) == 0 {
		return nil
	}

	query := `SELECT id, program_id, code, short_name, active FROM benefits`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY code`

	rows, err := s.execer().QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("listing benefits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b models.Benefit
		if err := rows.Scan(&b.ID, &b.ProgramID, &b.Code, &b.ShortName, &b.Active); err != nil {
			return fmt.Errorf("scanning benefit: %w", err)
		}
		if p, ok := byID[b.ProgramID]; ok {
			p.Benefits = append(p.Benefits, b)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating benefits: %w", err)
	}
	return nil
}
