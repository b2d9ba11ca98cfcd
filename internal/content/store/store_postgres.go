package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"solidario/internal/content/models"
	id "solidario/pkg/domain"
	"solidario/pkg/platform/sentinel"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint
// violations, raised by the (kind, slug) index.
const pgUniqueViolation = "23505"

const publicationColumns = `id, kind, title, slug, summary, body,
	cover_image_url, status, author_id, published_at, created_at, updated_at`

// dbExecutor is the subset of *sql.DB and *sql.Tx the store needs.
type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore persists publications in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPostgresStore creates a publication store backed by the given database.
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

func (s *PostgresStore) Create(ctx context.Context, pub *models.Publication) error {
	_, err := s.execer().ExecContext(ctx,
		`INSERT INTO publications (id, kind, title, slug, summary, body,
		 cover_image_url, status, author_id, published_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		uuid.UUID(pub.ID), pub.Kind, pub.Title, pub.Slug, pub.Summary, pub.Body,
		pub.CoverImageURL, pub.Status, uuid.UUID(pub.AuthorID), pub.PublishedAt,
		pub.CreatedAt, pub.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("creating publication: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, pub *models.Publication) error {
	res, err := s.execer().ExecContext(ctx,
		`UPDATE publications SET kind = $2, title = $3, slug = $4, summary = $5,
		 body = $6, cover_image_url = $7, status = $8, published_at = $9,
		 updated_at = $10
		 WHERE id = $1`,
		uuid.UUID(pub.ID), pub.Kind, pub.Title, pub.Slug, pub.Summary,
		pub.Body, pub.CoverImageURL, pub.Status, pub.PublishedAt, pub.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("updating publication: %w", err)
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

func (s *PostgresStore) FindByID(ctx context.Context, pubID id.PublicationID) (*models.Publication, error) {
	row := s.execer().QueryRowContext(ctx,
		`SELECT `+publicationColumns+` FROM publications WHERE id = $1`,
		uuid.UUID(pubID),
	)
	return scanPublication(row)
}

func (s *PostgresStore) FindBySlug(ctx context.Context, kind models.Kind, slug string) (*models.Publication, error) {
	row := s.execer().QueryRowContext(ctx,
		`SELECT `+publicationColumns+` FROM publications WHERE kind = $1 AND slug = $2`,
		kind, slug,
	)
	return scanPublication(row)
}

func (s *PostgresStore) List(ctx context.Context, filter ListFilter) ([]*models.Publication, error) {
	query := `SELECT ` + publicationColumns + ` FROM publications`
	var args []any
	var conds []string

	if filter.Kind != "" {
		args = append(args, filter.Kind)
		conds = append(conds, "kind = $"+strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, "status = $"+strconv.Itoa(len(args)))
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY COALESCE(published_at, created_at) DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, err := s.execer().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing publications: %w", err)
	}
	defer rows.Close()

	publications := []*models.Publication{}
	for rows.Next() {
		pub, err := scanPublication(rows)
		if err != nil {
			return nil, err
		}
		publications = append(publications, pub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating publications: %w", err)
	}
	return publications, nil
}

func (s *PostgresStore) Delete(ctx context.Context, pubID id.PublicationID) error {
	res, err := s.execer().ExecContext(ctx,
		`DELETE FROM publications WHERE id = $1`, uuid.UUID(pubID))
	if err != nil {
		return fmt.Errorf("deleting publication: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
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

func scanPublication(row rowScanner) (*models.Publication, error) {
	var (
		pub     models.Publication
		pubUUID uuid.UUID
		author  uuid.UUID
		cover   sql.NullString
		publAt  sql.NullTime
	)
	err := row.Scan(
		&pubUUID, &pub.Kind, &pub.Title, &pub.Slug, &pub.Summary, &pub.Body,
		&cover, &pub.Status, &author, &publAt, &pub.CreatedAt, &pub.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning publication: %w", err)
	}

	pub.ID = id.PublicationID(pubUUID)
	pub.AuthorID = id.UserID(author)
	pub.CoverImageURL = cover.String
	if publAt.Valid {
		t := publAt.Time
		pub.PublishedAt = &t
	}
	return &pub, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
