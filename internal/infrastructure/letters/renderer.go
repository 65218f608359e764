package letters

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
	"time"

	"github.com/AnshAggr1303/loan-agent-system/internal/core/domain"
	"github.com/AnshAggr1303/loan-agent-system/internal/core/loancalc"
	"github.com/AnshAggr1303/loan-agent-system/internal/core/ports"
)

const sanctionLetterTemplate = `QUICKLOAN FINANCE LTD
SANCTION LETTER

Reference: {{.ApplicationID}}
Date: {{.Date}}

Dear {{.FullName}},

We are pleased to inform you that your personal loan application has been
approved. The sanctioned terms are:

    Applicant PAN        : {{.PANNumber}}
    Loan purpose         : {{.LoanPurpose}}
    Sanctioned amount    : Rs. {{.SanctionedAmount}}
    Interest rate        : {{.InterestRate}}% per annum (reducing balance)
    Tenure               : {{.TenureMonths}} months
    Monthly EMI          : Rs. {{.MonthlyEMI}}
    Processing fee       : Rs. {{.ProcessingFee}}
    Total interest       : Rs. {{.TotalInterest}}
    Total repayment      : Rs. {{.TotalRepayment}}

This sanction is valid for 30 days from the date above and is subject to
execution of the loan agreement. The processing fee is deducted from the
disbursed amount.

Sincerely,
QuickLoan Lending Desk
`

// Renderer produces the sanction letter for an approved application and
// writes it to object storage.
type Renderer struct {
	storage ports.ObjectStorage
	tmpl    *template.Template
	now     func() time.Time
}

func NewRenderer(storage ports.ObjectStorage) *Renderer {
	return &Renderer{
		storage: storage,
		tmpl:    template.Must(template.New("sanction-letter").Parse(sanctionLetterTemplate)),
		now:     time.Now,
	}
}

func LetterKey(applicationID string) string {
	return fmt.Sprintf("sanction-letter-%s.txt", applicationID)
}

func (r *Renderer) RenderSanctionLetter(ctx context.Context, app *domain.LoanApplication) (string, error) {
	if app == nil {
		return "", fmt.Errorf("nil application")
	}
	if !app.Decision.Approved {
		return "", fmt.Errorf("application %s is not approved", app.ID)
	}

	decision := app.Decision
	fee := loancalc.ProcessingFee(decision.SanctionedAmount)
	totalInterest := loancalc.TotalInterest(decision.SanctionedAmount, decision.MonthlyEMI, decision.TenureMonths)

	var buf bytes.Buffer
	err := r.tmpl.Execute(&buf, map[string]any{
		"ApplicationID":    app.ID,
		"Date":             r.now().UTC().Format("02 January 2006"),
		"FullName":         app.FullName,
		"PANNumber":        app.PANNumber,
		"LoanPurpose":      app.LoanPurpose,
		"SanctionedAmount": domain.FormatINR(decision.SanctionedAmount),
		"InterestRate":     fmt.Sprintf("%.1f", decision.InterestRate),
		"TenureMonths":     decision.TenureMonths,
		"MonthlyEMI":       domain.FormatINR(decision.MonthlyEMI),
		"ProcessingFee":    domain.FormatINR(fee),
		"TotalInterest":    domain.FormatINR(totalInterest),
		"TotalRepayment":   domain.FormatINR(decision.SanctionedAmount + totalInterest),
	})
	if err != nil {
		return "", fmt.Errorf("execute letter template: %w", err)
	}

	key := LetterKey(app.ID)
	if err := r.storage.Save(ctx, key, &buf); err != nil {
		return "", fmt.Errorf("store letter: %w", err)
	}
	return key, nil
}
