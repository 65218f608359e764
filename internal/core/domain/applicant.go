package domain

import "time"

type Stage string

const (
	StageGreeting           Stage = "greeting"
	StageCollectIdentity    Stage = "collect_identity"
	StageCollectEmployment  Stage = "collect_employment"
	StageCollectIncome      Stage = "collect_income"
	StageCollectLoanDetails Stage = "collect_loan_details"
	StageCollectObligations Stage = "collect_obligations"
	StageUnderwriting       Stage = "underwriting"
	StageApproved           Stage = "approved"
	StageRejected           Stage = "rejected"
	StageCompleted          Stage = "completed"
)

type EmploymentType string

const (
	EmploymentSalaried     EmploymentType = "Salaried"
	EmploymentSelfEmployed EmploymentType = "Self-Employed"
	EmploymentBusiness     EmploymentType = "Business Owner"
)

func (e EmploymentType) IsSalaried() bool {
	return e == EmploymentSalaried
}

// ApplicantProfile accumulates collected fields across turns. Numeric fields
// use zero as "not collected yet"; the one input that can legitimately be zero
// (ExistingEMI) is defaulted explicitly by the obligations stage.
type ApplicantProfile struct {
	PANNumber string `json:"pan_number,omitempty"`
	FullName  string `json:"full_name,omitempty"`
	Age       int    `json:"age,omitempty"`
	Phone     string `json:"phone,omitempty"`

	EmploymentType EmploymentType `json:"employment_type,omitempty"`
	Employer       string         `json:"employer,omitempty"`
	MonthlyIncome  float64        `json:"monthly_income,omitempty"`

	LoanAmount   float64 `json:"loan_amount_requested,omitempty"`
	LoanPurpose  string  `json:"loan_purpose,omitempty"`
	TenureMonths int     `json:"preferred_tenure,omitempty"`

	ExistingEMI float64 `json:"existing_emi"`

	CreditScore     int    `json:"credit_score,omitempty"`
	CreditStatus    string `json:"credit_status,omitempty"`
	ActiveLoanCount int    `json:"active_loan_count,omitempty"`

	// Awarded terms, set once on approval and never recomputed within a session.
	SanctionedAmount float64 `json:"sanctioned_amount,omitempty"`
	InterestRate     float64 `json:"interest_rate,omitempty"`
	MonthlyEMI       float64 `json:"monthly_emi,omitempty"`
}

const (
	SenderUser  = "user"
	SenderAgent = "agent"
)

// ChatMessage is one entry in the ordered conversation log. Agent responses
// carry the tag of the component that produced them (master, kyc, credit,
// underwriting).
type ChatMessage struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Sender    string    `json:"sender"`
	Agent     string    `json:"agent,omitempty"`
	Body      string    `json:"body"`
	Turn      int       `json:"turn"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationState is owned by the caller between turns. The dialogue
// manager receives it as a value, mutates a copy and returns it; it keeps no
// state of its own.
type ConversationState struct {
	SessionID        string            `json:"session_id"`
	Stage            Stage             `json:"stage"`
	Profile          ApplicantProfile  `json:"profile"`
	Messages         []ChatMessage     `json:"messages"`
	IdentityVerified bool              `json:"identity_verified"`
	RiskChecked      bool              `json:"risk_checked"`
	Turn             int               `json:"turn"`
	CreatedAt        time.Time         `json:"created_at"`
}

func NewConversationState(sessionID string, now time.Time) ConversationState {
	return ConversationState{
		SessionID: sessionID,
		Stage:     StageGreeting,
		CreatedAt: now.UTC(),
	}
}

// TurnReply is the per-turn output next to the updated state.
type TurnReply struct {
	Response string    `json:"response"`
	Agent    string    `json:"agent_used"`
	Stage    Stage     `json:"stage"`
	Decision *Decision `json:"decision,omitempty"`
}
