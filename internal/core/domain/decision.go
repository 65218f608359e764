package domain

import "time"

// Decision is the underwriting outcome. It is terminal: once produced for a
// completed profile it is never recomputed within the same session.
type Decision struct {
	Approved bool `json:"approved"`

	SanctionedAmount float64 `json:"sanctioned_amount,omitempty"`
	InterestRate     float64 `json:"interest_rate,omitempty"`
	TenureMonths     int     `json:"tenure,omitempty"`
	MonthlyEMI       float64 `json:"monthly_emi,omitempty"`
	DTIRatio         float64 `json:"dti_ratio,omitempty"`

	RejectionReason string   `json:"rejection_reason,omitempty"`
	FailedRules     []string `json:"failed_rules,omitempty"`
}

// LoanApplication is the persisted record written once per decision.
type LoanApplication struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	PANNumber string    `json:"pan_number"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone,omitempty"`

	EmploymentType  EmploymentType `json:"employment_type"`
	MonthlyIncome   float64        `json:"monthly_income"`
	RequestedAmount float64        `json:"requested_amount"`
	LoanPurpose     string         `json:"loan_purpose"`
	TenureMonths    int            `json:"tenure_months"`
	ExistingEMI     float64        `json:"existing_emi"`
	CreditScore     int            `json:"credit_score,omitempty"`

	Decision  Decision  `json:"decision"`
	CreatedAt time.Time `json:"created_at"`
}
