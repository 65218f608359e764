package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AnshAggr1303/loan-agent-system/internal/core/domain"
)

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) SaveApplication(ctx context.Context, app *domain.LoanApplication) error {
	decisionJSON, err := json.Marshal(app.Decision)
	if err != nil {
		return fmt.Errorf("marshal decision: %w", err)
	}
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now().UTC()
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO loan_applications (
	id, session_id, pan_number, full_name, phone, employment_type,
	monthly_income, requested_amount, loan_purpose, tenure_months,
	existing_emi, credit_score, decision, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
`,
		app.ID, app.SessionID, app.PANNumber, app.FullName, app.Phone, string(app.EmploymentType),
		app.MonthlyIncome, app.RequestedAmount, app.LoanPurpose, app.TenureMonths,
		app.ExistingEMI, app.CreditScore, decisionJSON, app.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*domain.LoanApplication, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, session_id, pan_number, full_name, COALESCE(phone, ''), employment_type,
	monthly_income, requested_amount, COALESCE(loan_purpose, ''), tenure_months,
	existing_emi, COALESCE(credit_score, 0), decision, created_at
FROM loan_applications
WHERE id = $1
`, id)

	var app domain.LoanApplication
	var employment string
	var decisionRaw []byte

	err := row.Scan(
		&app.ID, &app.SessionID, &app.PANNumber, &app.FullName, &app.Phone, &employment,
		&app.MonthlyIncome, &app.RequestedAmount, &app.LoanPurpose, &app.TenureMonths,
		&app.ExistingEMI, &app.CreditScore, &decisionRaw, &app.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "postgres.GetByID",
				fmt.Errorf("application %s not found", id))
		}
		return nil, fmt.Errorf("select application: %w", err)
	}

	app.EmploymentType = domain.EmploymentType(employment)
	if err := json.Unmarshal(decisionRaw, &app.Decision); err != nil {
		return nil, fmt.Errorf("unmarshal decision: %w", err)
	}
	return &app, nil
}
