package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"solidario/internal/auth/models"
	id "solidario/pkg/domain"
	"solidario/pkg/platform/sentinel"
)

// pgUniqueViolation is the PostgreSQL error code raised by the username
// unique constraint.
const pgUniqueViolation = "23505"

const staffColumns = `id, username, full_name, password_hash, role, active, created_at, updated_at`

// dbExecutor is the subset of *sql.DB and *sql.Tx the store needs.
type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore persists staff users in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPostgresStore creates a staff store backed by the given database.
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

func (s *PostgresStore) Create(ctx context.Context, user *models.StaffUser) error {
	err := s.execer().QueryRowContext(ctx,
		`INSERT INTO staff_users (id, username, full_name, password_hash, role, active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at`,
		uuid.UUID(user.ID), user.Username, user.FullName, user.PasswordHash,
		user.Role, user.Active,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("creating staff user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByUsername(ctx context.Context, username string) (*models.StaffUser, error) {
	row := s.execer().QueryRowContext(ctx,
		`SELECT `+staffColumns+` FROM staff_users WHERE username = $1`, username)
	return scanStaffUser(row)
}

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (*models.StaffUser, error) {
	row := s.execer().QueryRowContext(ctx,
		`SELECT `+staffColumns+` FROM staff_users WHERE id = $1`, uuid.UUID(userID))
	return scanStaffUser(row)
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.StaffUser, error) {
	rows, err := s.execer().QueryContext(ctx,
		`SELECT `+staffColumns+` FROM staff_users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("listing staff users: %w", err)
	}
	defer rows.Close()

	users := []*models.StaffUser{}
	for rows.Next() {
		user, err := scanStaffUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating staff users: %w", err)
	}
	return users, nil
}

func (s *PostgresStore) SetActive(ctx context.Context, userID id.UserID, active bool) error {
	res, err := s.execer().ExecContext(ctx,
		`UPDATE staff_users SET active = $2, updated_at = now() WHERE id = $1`,
		uuid.UUID(userID), active,
	)
	if err != nil {
		return fmt.Errorf("updating staff user: %w", err)
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

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanStaffUser(row rowScanner) (*models.StaffUser, error) {
	var (
		user     models.StaffUser
		userUUID uuid.UUID
	)
	err := row.Scan(
		&userUUID, &user.Username, &user.FullName, &user.PasswordHash,
		&user.Role, &user.Active, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning staff user: %w", err)
	}
	user.ID = id.UserID(userUUID)
	return &user, nil
}
