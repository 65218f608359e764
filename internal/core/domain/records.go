package domain

import "time"

type KYCStatus string

const (
	KYCStatusVerified    KYCStatus = "VERIFIED"
	KYCStatusPendingLink KYCStatus = "PENDING_AADHAAR_LINK"
	KYCStatusBlocked     KYCStatus = "BLOCKED"
)

// IdentityRecord is an immutable external lookup result keyed by PAN.
type IdentityRecord struct {
	PANNumber   string    `json:"pan_number"`
	FullName    string    `json:"full_name"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Status      KYCStatus `json:"kyc_status"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address,omitempty"`
}

// VerifiedIdentity is the verifier's canonical output: record fields plus the
// age derived from date of birth.
type VerifiedIdentity struct {
	PANNumber   string    `json:"pan_number"`
	FullName    string    `json:"full_name"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Age         int       `json:"age"`
	Phone       string    `json:"phone"`
}

// CreditRecord mirrors a credit bureau response.
type CreditRecord struct {
	PANNumber      string `json:"pan_number"`
	Score          int    `json:"score"`
	Status         string `json:"status"`
	ActiveLoans    int    `json:"active_loans"`
	HistoryYears   int    `json:"credit_history_years"`
	Defaults       int    `json:"defaults"`
	LatePayments6M int    `json:"late_payments_6m"`
	UtilizationPct int    `json:"credit_utilization"`
}

type RiskTier string

const (
	RiskTierLow    RiskTier = "Low"
	RiskTierMedium RiskTier = "Medium"
	RiskTierHigh   RiskTier = "High"
)

// RiskSummary is the scorer's structured assessment of a credit record.
type RiskSummary struct {
	Score           int      `json:"score"`
	Band            string   `json:"band"`
	Tier            RiskTier `json:"tier"`
	Status          string   `json:"status"`
	ActiveLoans     int      `json:"active_loans"`
	HistoryYears    int      `json:"credit_history_years"`
	DefaultsSummary string   `json:"defaults_summary"`
}

// ExtractedIntent is a best-effort structured extraction from free text,
// produced by the optional language-model fallback. Entity values arrive as
// whatever JSON the model emitted; callers re-validate everything.
type ExtractedIntent struct {
	Intent         string         `json:"intent"`
	Entities       map[string]any `json:"entities"`
	SuggestedReply string         `json:"suggested_reply,omitempty"`
}

// LoanProduct is one entry of the product catalog.
type LoanProduct struct {
	Name         string   `yaml:"name" json:"name"`
	Description  string   `yaml:"description" json:"description"`
	MinAmount    float64  `yaml:"min_amount" json:"min_amount"`
	MaxAmount    float64  `yaml:"max_amount" json:"max_amount"`
	MinRatePct   float64  `yaml:"min_rate_pct" json:"min_rate_pct"`
	MaxRatePct   float64  `yaml:"max_rate_pct" json:"max_rate_pct"`
	TenureMonths []int    `yaml:"tenure_months" json:"tenure_months"`
	Purposes     []string `yaml:"purposes,omitempty" json:"purposes,omitempty"`
}
