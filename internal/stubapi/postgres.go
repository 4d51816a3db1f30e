package stubapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ministryofjustice/claims-ui/internal/domain/model"
	apperrors "github.com/ministryofjustice/claims-ui/internal/errors"
)

const (
	claimColumns = `id, ufn, client, category, concluded, fee_type, claimed::float8, submission_id::text`

	submissionColumns = `id::text, friendly_id, provider_user_id, provider_office_id,
		submission_type_code, submission_date, period_start_date, period_end_date, schedule_id`
)

// PostgresStore is a Store backed by the tables created by the migrate
// package.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps pool. The schema must already be migrated.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, errors.New("postgres pool is required")
	}
	return &PostgresStore{pool: pool}, nil
}

var _ Store = (*PostgresStore)(nil)

// ListClaims implements Store.
func (s *PostgresStore) ListClaims(ctx context.Context, opts model.ListOptions) (model.Page[model.Claim], error) {
	total, err := s.count(ctx, "claims")
	if err != nil {
		return model.Page[model.Claim]{}, err
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+claimColumns+` FROM claims ORDER BY id LIMIT $1 OFFSET $2`,
		opts.Limit, opts.Offset())
	if err != nil {
		return model.Page[model.Claim]{}, apperrors.MapDBError(err)
	}
	claims, err := pgx.CollectRows(rows, scanClaim)
	if err != nil {
		return model.Page[model.Claim]{}, apperrors.MapDBError(err)
	}
	return model.Page[model.Claim]{
		Items: claims,
		Meta:  model.PaginationMeta{Total: total, Page: opts.Page, Limit: opts.Limit},
	}, nil
}

// GetClaim implements Store.
func (s *PostgresStore) GetClaim(ctx context.Context, id int64) (model.Claim, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+claimColumns+` FROM claims WHERE id = $1`, id)
	if err != nil {
		return model.Claim{}, apperrors.MapDBError(err)
	}
	claim, err := pgx.CollectExactlyOneRow(rows, scanClaim)
	if err != nil {
		return model.Claim{}, apperrors.MapDBError(err)
	}
	return claim, nil
}

// ListSubmissions implements Store.
func (s *PostgresStore) ListSubmissions(ctx context.Context, opts model.ListOptions) (model.Page[model.Submission], error) {
	total, err := s.count(ctx, "submissions")
	if err != nil {
		return model.Page[model.Submission]{}, err
	}
	rows, err := s.pool.Query(ctx,
		`SELECT `+submissionColumns+` FROM submissions
		 ORDER BY submission_date DESC NULLS LAST, id LIMIT $1 OFFSET $2`,
		opts.Limit, opts.Offset())
	if err != nil {
		return model.Page[model.Submission]{}, apperrors.MapDBError(err)
	}
	subs, err := pgx.CollectRows(rows, scanSubmission)
	if err != nil {
		return model.Page[model.Submission]{}, apperrors.MapDBError(err)
	}
	return model.Page[model.Submission]{
		Items: subs,
		Meta:  model.PaginationMeta{Total: total, Page: opts.Page, Limit: opts.Limit},
	}, nil
}

// GetSubmission implements Store.
func (s *PostgresStore) GetSubmission(ctx context.Context, id string) (model.Submission, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE id = $1::uuid`, id)
	if err != nil {
		return model.Submission{}, apperrors.MapDBError(err)
	}
	sub, err := pgx.CollectExactlyOneRow(rows, scanSubmission)
	if err != nil {
		return model.Submission{}, apperrors.MapDBError(err)
	}

	rows, err = s.pool.Query(ctx,
		`SELECT `+claimColumns+` FROM claims WHERE submission_id = $1::uuid ORDER BY id`, id)
	if err != nil {
		return model.Submission{}, apperrors.MapDBError(err)
	}
	sub.Claims, err = pgx.CollectRows(rows, scanClaim)
	if err != nil {
		return model.Submission{}, apperrors.MapDBError(err)
	}
	return sub, nil
}

// Load implements Store. The tables are truncated and refilled in one
// transaction.
func (s *PostgresStore) Load(ctx context.Context, ds Dataset) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `TRUNCATE claims, submissions`); err != nil {
			return fmt.Errorf("truncate: %w", err)
		}

		batch := &pgx.Batch{}
		for _, sub := range ds.Submissions {
			batch.Queue(`INSERT INTO submissions (`+submissionInsertColumns+`)
				VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9)`,
				sub.ID, sub.FriendlyID, sub.ProviderUserID, sub.ProviderOfficeID,
				sub.SubmissionTypeCode, sub.SubmissionDate, sub.SubmissionPeriodStartDate,
				sub.SubmissionPeriodEndDate, sub.ScheduleID)
		}
		for _, c := range ds.Claims {
			batch.Queue(`INSERT INTO claims (id, ufn, client, category, concluded, fee_type, claimed, submission_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8::uuid)`,
				c.ID, c.UFN, c.Client, c.Category, c.Concluded, c.FeeType, c.Claimed, c.SubmissionID)
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert dataset: %w", err)
		}
		return nil
	})
	return apperrors.MapDBError(err)
}

const submissionInsertColumns = `id, friendly_id, provider_user_id, provider_office_id,
	submission_type_code, submission_date, period_start_date, period_end_date, schedule_id`

func (s *PostgresStore) count(ctx context.Context, table string) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM `+pgx.Identifier{table}.Sanitize()).Scan(&n); err != nil {
		return 0, apperrors.MapDBError(err)
	}
	return n, nil
}

func scanClaim(row pgx.CollectableRow) (model.Claim, error) {
	var c model.Claim
	err := row.Scan(&c.ID, &c.UFN, &c.Client, &c.Category, &c.Concluded, &c.FeeType, &c.Claimed, &c.SubmissionID)
	c.Concluded = utcDate(c.Concluded)
	return c, err
}

func scanSubmission(row pgx.CollectableRow) (model.Submission, error) {
	var s model.Submission
	err := row.Scan(&s.ID, &s.FriendlyID, &s.ProviderUserID, &s.ProviderOfficeID, &s.SubmissionTypeCode,
		&s.SubmissionDate, &s.SubmissionPeriodStartDate, &s.SubmissionPeriodEndDate, &s.ScheduleID)
	s.SubmissionDate = utcDate(s.SubmissionDate)
	s.SubmissionPeriodStartDate = utcDate(s.SubmissionPeriodStartDate)
	s.SubmissionPeriodEndDate = utcDate(s.SubmissionPeriodEndDate)
	return s, err
}

func utcDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
