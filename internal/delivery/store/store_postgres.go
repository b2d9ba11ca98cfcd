package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	id "solidario/pkg/domain"
	"solidario/pkg/platform/sentinel"

	"solidario/internal/delivery/models"
)

// PostgresDeliveryStore persists delivery records in PostgreSQL.
type PostgresDeliveryStore struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPostgresDelivery constructs a PostgreSQL-backed delivery store.
func NewPostgresDelivery(db *sql.DB) *PostgresDeliveryStore {
	return &PostgresDeliveryStore{db: db}
}

// NewPostgresDeliveryTx constructs a store bound to a transaction.
func NewPostgresDeliveryTx(tx *sql.Tx) *PostgresDeliveryStore {
	return &PostgresDeliveryStore{tx: tx}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresDeliveryStore) execer() dbExecutor {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

const deliveryColumns = `
	id, cui,
	first_name, second_name, third_name,
	first_surname, second_surname, third_surname,
	sex_code, birth_date, birth_department, birth_municipality,
	ethnic_group_code, linguistic_community_code, language_code,
	household_id, residence_department, residence_municipality, address, phone,
	schooling_code, disability_flag, works_flag,
	institution_code, program_id, benefit_id,
	delivery_department, delivery_municipality, delivery_date,
	quantity, value, reference, status,
	created_by, created_at
`

func (s *PostgresDeliveryStore) Save(ctx context.Context, record *models.DeliveryRecord) error {
	if record == nil {
		return fmt.Errorf("delivery record is required")
	}
	query := `
		INSERT INTO deliveries (` + deliveryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29,
			$30, $31, $32, $33, $34, $35)
	`
	_, err := s.execer().ExecContext(ctx, query,
		uuid.UUID(record.ID), record.CUI,
		record.FirstName, record.SecondName, record.ThirdName,
		record.FirstSurname, record.SecondSurname, record.ThirdSurname,
		record.SexCode, record.BirthDate, record.BirthDepartment, record.BirthMunicipality,
		record.EthnicGroupCode, record.LinguisticCommunityCode, record.LanguageCode,
		record.HouseholdID, record.ResidenceDepartment, record.ResidenceMunicipality, record.Address, record.Phone,
		record.SchoolingCode, record.DisabilityFlag, record.WorksFlag,
		record.InstitutionCode, int64(record.ProgramID), int64(record.BenefitID),
		record.DeliveryDepartment, record.DeliveryMunicipality, record.DeliveryDate,
		record.Quantity, record.Value, record.Reference, record.Status,
		uuid.UUID(record.CreatedBy), record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save delivery: %w", err)
	}
	return nil
}

func (s *PostgresDeliveryStore) FindByID(ctx context.Context, deliveryID id.DeliveryID) (*models.DeliveryRecord, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE id = $1`
	row := s.execer().QueryRowContext(ctx, query, uuid.UUID(deliveryID))
	record, err := scanDelivery(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find delivery: %w", err)
	}
	return record, nil
}

func (s *PostgresDeliveryStore) List(ctx context.Context, filter ListFilter) ([]*models.DeliveryRecord, error) {
	query := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE 1=1`
	var args []any

	if filter.CUI != "" {
		args = append(args, filter.CUI)
		query += ` AND cui = $` + strconv.Itoa(len(args))
	}
	if !filter.ProgramID.IsZero() {
		args = append(args, int64(filter.ProgramID))
		query += ` AND program_id = $` + strconv.Itoa(len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += ` AND delivery_date >= $` + strconv.Itoa(len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += ` AND delivery_date <= $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.execer().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}
	defer rows.Close()

	var out []*models.DeliveryRecord
	for rows.Next() {
		record, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivery: %w", err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deliveries: %w", err)
	}
	return out, nil
}

func (s *PostgresDeliveryStore) CountByCUI(ctx context.Context, cui string) (int, error) {
	query := `SELECT COUNT(*) FROM deliveries WHERE cui = $1 AND status = $2`
	var count int
	err := s.execer().QueryRowContext(ctx, query, cui, models.StatusRegistered).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count deliveries: %w", err)
	}
	return count, nil
}

func (s *PostgresDeliveryStore) UpdateStatus(ctx context.Context, deliveryID id.DeliveryID, status string) error {
	query := `UPDATE deliveries SET status = $1 WHERE id = $2`
	result, err := s.execer().ExecContext(ctx, query, status, uuid.UUID(deliveryID))
	if err != nil {
		return fmt.Errorf("failed to update delivery status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDelivery(row rowScanner) (*models.DeliveryRecord, error) {
	var (
		record     models.DeliveryRecord
		recordUUID uuid.UUID
		createdBy  uuid.UUID
		programID  int64
		benefitID  int64
	)
	err := row.Scan(
		&recordUUID, &record.CUI,
		&record.FirstName, &record.SecondName, &record.ThirdName,
		&record.FirstSurname, &record.SecondSurname, &record.ThirdSurname,
		&record.SexCode, &record.BirthDate, &record.BirthDepartment, &record.BirthMunicipality,
		&record.EthnicGroupCode, &record.LinguisticCommunityCode, &record.LanguageCode,
		&record.HouseholdID, &record.ResidenceDepartment, &record.ResidenceMunicipality, &record.Address, &record.Phone,
		&record.SchoolingCode, &record.DisabilityFlag, &record.WorksFlag,
		&record.InstitutionCode, &programID, &benefitID,
		&record.DeliveryDepartment, &record.DeliveryMunicipality, &record.DeliveryDate,
		&record.Quantity, &record.Value, &record.Reference, &record.Status,
		&createdBy, &record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	record.ID = id.DeliveryID(recordUUID)
	record.CreatedBy = id.UserID(createdBy)
	record.ProgramID = id.ProgramID(programID)
	record.BenefitID = id.BenefitID(benefitID)
	return &record, nil
}

var _ DeliveryStore = (*PostgresDeliveryStore)(nil)
