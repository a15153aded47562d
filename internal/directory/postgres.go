package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/kontraq/kontraq-be/internal/domain"
	"github.com/kontraq/kontraq-be/shared/postgresql"
)

// PostgresStore is the production Store on PostgreSQL via sqlx.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a Store backed by the given PostgreSQL client.
func NewPostgresStore(pg *postgresql.Client) *PostgresStore {
	return &PostgresStore{
		db: pg.GetDB(),
	}
}

var _ Store = (*PostgresStore)(nil)

func (s *PostgresStore) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	var job domain.Job
	query := `
		SELECT
			job_id, contractor_id, client_name, location, zip_code,
			job_type, status, subcontractor_id, quote_amount, inspector_id,
			version, created_at, updated_at
		FROM jobs
		WHERE job_id = $1
	`

	err := s.db.GetContext(ctx, &job, query, jobID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrJobNotFound, jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

func (s *PostgresStore) ListJobs(ctx context.Context, filter JobFilter) ([]domain.Job, error) {
	query := `
		SELECT
			job_id, contractor_id, client_name, location, zip_code,
			job_type, status, subcontractor_id, quote_amount, inspector_id,
			version, created_at, updated_at
		FROM jobs
		WHERE 1=1
	`
	args := []interface{}{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}

	if filter.ZipCode != "" {
		query += fmt.Sprintf(" AND zip_code = $%d", argIdx)
		args = append(args, filter.ZipCode)
		argIdx++
	}

	if filter.SubcontractorID != "" {
		query += fmt.Sprintf(" AND subcontractor_id = $%d", argIdx)
		args = append(args, filter.SubcontractorID)
		argIdx++
	}

	if filter.ContractorID != "" {
		query += fmt.Sprintf(" AND contractor_id = $%d", argIdx)
		args = append(args, filter.ContractorID)
		argIdx++
	}

	// Insertion order matters to the eligibility filter downstream.
	query += " ORDER BY created_at ASC, job_id ASC"

	var jobs []domain.Job
	if err := s.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	return jobs, nil
}

func (s *PostgresStore) UpsertJob(ctx context.Context, job *domain.Job) error {
	// Version-guarded update first: the common path is a status transition
	// on an existing row.
	updateQuery := `
		UPDATE jobs SET
			contractor_id = $2, client_name = $3, location = $4, zip_code = $5,
			job_type = $6, status = $7, subcontractor_id = $8, quote_amount = $9,
			inspector_id = $10, version = version + 1, updated_at = $11
		WHERE job_id = $1 AND version = $12
	`

	res, err := s.db.ExecContext(
		ctx,
		updateQuery,
		job.JobID,
		job.ContractorID,
		job.ClientName,
		job.Location,
		job.ZipCode,
		job.JobType,
		job.Status,
		job.SubcontractorID,
		job.QuoteAmount,
		job.InspectorID,
		job.UpdatedAt,
		job.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	} else if n == 1 {
		job.Version++
		return nil
	}

	// No row matched: either the job is new, or the version is stale.
	insertQuery := `
		INSERT INTO jobs (
			job_id, contractor_id, client_name, location, zip_code,
			job_type, status, subcontractor_id, quote_amount, inspector_id,
			version, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		ON CONFLICT (job_id) DO NOTHING
	`

	res, err = s.db.ExecContext(
		ctx,
		insertQuery,
		job.JobID,
		job.ContractorID,
		job.ClientName,
		job.Location,
		job.ZipCode,
		job.JobType,
		job.Status,
		job.SubcontractorID,
		job.QuoteAmount,
		job.InspectorID,
		job.Version+1,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}

	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to read insert result: %w", err)
	} else if n == 0 {
		return fmt.Errorf("%w: job %s version %d", domain.ErrConcurrentModification, job.JobID, job.Version)
	}

	job.Version++
	return nil
}

// subcontractorRow maps the subcontractors table; the array columns need
// pq wrappers before they become domain slices.
type subcontractorRow struct {
	SubcontractorID string         `db:"subcontractor_id"`
	Name            string         `db:"name"`
	Email           string         `db:"email"`
	Phone           string         `db:"phone"`
	ZipCodes        pq.StringArray `db:"zip_codes"`
	Specialties     pq.StringArray `db:"specialties"`
	Availability    string         `db:"availability"`
	LicenseStatus   string         `db:"license_status"`
	CreatedAt       sql.NullTime   `db:"created_at"`
	UpdatedAt       sql.NullTime   `db:"updated_at"`
}

func (r *subcontractorRow) toDomain() domain.Subcontractor {
	sub := domain.Subcontractor{
		SubcontractorID: r.SubcontractorID,
		Name:            r.Name,
		Email:           r.Email,
		Phone:           r.Phone,
		ZipCodes:        []string(r.ZipCodes),
		Availability:    domain.Availability(r.Availability),
		LicenseStatus:   domain.LicenseStatus(r.LicenseStatus),
		CreatedAt:       r.CreatedAt.Time,
		UpdatedAt:       r.UpdatedAt.Time,
	}
	for _, sp := range r.Specialties {
		sub.Specialties = append(sub.Specialties, domain.Specialty(sp))
	}
	return sub
}

func (s *PostgresStore) GetSubcontractor(ctx context.Context, subID string) (*domain.Subcontractor, error) {
	var row subcontractorRow
	query := `
		SELECT
			subcontractor_id, name, email, phone, zip_codes, specialties,
			availability, license_status, created_at, updated_at
		FROM subcontractors
		WHERE subcontractor_id = $1
	`

	err := s.db.GetContext(ctx, &row, query, subID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSubcontractorNotFound, subID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subcontractor: %w", err)
	}

	sub := row.toDomain()
	return &sub, nil
}

func (s *PostgresStore) ListSubcontractors(ctx context.Context) ([]domain.Subcontractor, error) {
	query := `
		SELECT
			subcontractor_id, name, email, phone, zip_codes, specialties,
			availability, license_status, created_at, updated_at
		FROM subcontractors
		ORDER BY created_at ASC, subcontractor_id ASC
	`

	var rows []subcontractorRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list subcontractors: %w", err)
	}

	subs := make([]domain.Subcontractor, 0, len(rows))
	for i := range rows {
		subs = append(subs, rows[i].toDomain())
	}
	return subs, nil
}

func (s *PostgresStore) UpsertSubcontractor(ctx context.Context, sub *domain.Subcontractor) error {
	specialties := make(pq.StringArray, 0, len(sub.Specialties))
	for _, sp := range sub.Specialties {
		specialties = append(specialties, string(sp))
	}

	query := `
		INSERT INTO subcontractors (
			subcontractor_id, name, email, phone, zip_codes, specialties,
			availability, license_status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
		ON CONFLICT (subcontractor_id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			zip_codes = EXCLUDED.zip_codes,
			specialties = EXCLUDED.specialties,
			availability = EXCLUDED.availability,
			license_status = EXCLUDED.license_status,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		sub.SubcontractorID,
		sub.Name,
		sub.Email,
		sub.Phone,
		pq.StringArray(sub.ZipCodes),
		specialties,
		sub.Availability,
		sub.LicenseStatus,
		sub.CreatedAt,
		sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert subcontractor: %w", err)
	}

	return nil
}

func (s *PostgresStore) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	var account domain.Account
	query := `
		SELECT
			account_id, name, email, role, payment_status, trial_ends_at, created_at
		FROM accounts
		WHERE account_id = $1
	`

	err := s.db.GetContext(ctx, &account, query, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, accountID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &account, nil
}

func (s *PostgresStore) UpsertAccount(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (
			account_id, name, email, role, payment_status, trial_ends_at, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		ON CONFLICT (account_id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			role = EXCLUDED.role,
			payment_status = EXCLUDED.payment_status,
			trial_ends_at = EXCLUDED.trial_ends_at
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		account.AccountID,
		account.Name,
		account.Email,
		account.Role,
		account.PaymentStatus,
		account.TrialEndsAt,
		account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert account: %w", err)
	}

	return nil
}
