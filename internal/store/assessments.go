// internal/store/assessments.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"loan-advisor-workers/internal/common/database"
	"loan-advisor-workers/internal/loan"
	"loan-advisor-workers/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var ErrAssessmentNotFound = errors.New("assessment not found")

// AssessmentStore persists eligibility decisions in the loan_assessments
// table.
type AssessmentStore struct {
	pg  *database.PostgresClient
	now func() time.Time
}

func NewAssessmentStore(pg *database.PostgresClient) *AssessmentStore {
	return &AssessmentStore{pg: pg, now: time.Now}
}

// Create inserts the assessment together with its audit log entry. An empty
// a.ID is assigned a random UUID. Inserting an ID that already exists is a
// no-op, so retried jobs that pass a stable ID record the assessment once;
// a.CreatedAt is then set to the stored row's timestamp.
func (s *AssessmentStore) Create(ctx context.Context, a *models.Assessment) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.CreatedAt = s.now().UTC().Truncate(time.Microsecond)

	profileJSON, err := json.Marshal(a.Profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	auditJSON, err := json.Marshal(map[string]interface{}{
		"applicationId": a.ApplicationID,
		"loanType":      a.LoanType,
		"eligible":      a.Eligible,
	})
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}

	return s.pg.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO loan_assessments (
				id, application_id, applicant_name, applicant_email, loan_type,
				requested_amount, status, eligible, max_eligible_amount,
				suggested_interest_rate, reasons, recommendations, profile, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (id) DO NOTHING`,
			a.ID,
			nullString(a.ApplicationID),
			nullString(a.ApplicantName),
			nullString(a.ApplicantEmail),
			string(a.LoanType),
			a.RequestedAmount,
			string(a.Status),
			a.Eligible,
			a.MaxEligibleAmount,
			a.SuggestedInterestRate,
			pq.Array(nonNil(a.Reasons)),
			pq.Array(nonNil(a.Recommendations)),
			profileJSON,
			a.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert assessment: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			err := tx.QueryRowContext(ctx,
				`SELECT created_at FROM loan_assessments WHERE id = $1`, a.ID).Scan(&a.CreatedAt)
			if err != nil {
				return fmt.Errorf("load existing assessment: %w", err)
			}
			return nil
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			"assessment_recorded",
			"loan_assessment",
			a.ID,
			auditJSON,
			a.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert audit log: %w", err)
		}
		return nil
	})
}

// Get loads one assessment by ID. IDs that are not UUIDs cannot exist and
// are reported as ErrAssessmentNotFound without a query.
func (s *AssessmentStore) Get(ctx context.Context, id string) (*models.Assessment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAssessmentNotFound, id)
	}

	var (
		a                          models.Assessment
		applicationID, name, email sql.NullString
		loanType, status           string
		profileJSON                []byte
	)

	err := s.pg.QueryRow(ctx, `
		SELECT id, application_id, applicant_name, applicant_email, loan_type,
			requested_amount, status, eligible, max_eligible_amount,
			suggested_interest_rate, reasons, recommendations, profile, created_at
		FROM loan_assessments
		WHERE id = $1`, id).Scan(
		&a.ID,
		&applicationID,
		&name,
		&email,
		&loanType,
		&a.RequestedAmount,
		&status,
		&a.Eligible,
		&a.MaxEligibleAmount,
		&a.SuggestedInterestRate,
		pq.Array(&a.Reasons),
		pq.Array(&a.Recommendations),
		&profileJSON,
		&a.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrAssessmentNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query assessment: %w", err)
	}

	if err := json.Unmarshal(profileJSON, &a.Profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	a.ApplicationID = applicationID.String
	a.ApplicantName = name.String
	a.ApplicantEmail = email.String
	a.LoanType = loan.LoanType(loanType)
	a.Status = models.AssessmentStatus(status)
	return &a, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
