package ports

import (
	"context"
	"io"
	"time"

	"github.com/AnshAggr1303/loan-agent-system/internal/core/domain"
)

// IdentityDirectory is the external KYC lookup service. A missing identifier
// surfaces as a domain.ErrNotFound kind.
type IdentityDirectory interface {
	LookupPAN(ctx context.Context, pan string) (*domain.IdentityRecord, error)
}

// CreditBureau is the external credit lookup service. A missing record
// surfaces as a domain.ErrNoHistory kind.
type CreditBureau interface {
	LookupCredit(ctx context.Context, pan string) (*domain.CreditRecord, error)
}

// SessionStore persists the append-only conversation log. Failures are
// non-fatal to turn processing.
type SessionStore interface {
	EnsureSession(ctx context.Context, sessionID string) error
	UpdateStage(ctx context.Context, sessionID string, stage domain.Stage) error
	AppendMessage(ctx context.Context, message domain.ChatMessage) error
	ListMessages(ctx context.Context, sessionID string) ([]domain.ChatMessage, error)
}

// ApplicationStore persists one record per underwriting decision.
type ApplicationStore interface {
	SaveApplication(ctx context.Context, app *domain.LoanApplication) error
	GetByID(ctx context.Context, id string) (*domain.LoanApplication, error)
}

// DecisionPublisher announces decided applications to downstream consumers
// (the sanction-letter worker).
type DecisionPublisher interface {
	PublishDecision(ctx context.Context, applicationID string) error
	SubscribeDecisions(ctx context.Context, handler func(context.Context, string) error) error
}

// IntentExtractor is the optional language-model fallback for free-text
// extraction. Its output is advisory; deterministic validation remains
// authoritative.
type IntentExtractor interface {
	ExtractIntent(ctx context.Context, stage domain.Stage, message string, history []domain.ChatMessage) (*domain.ExtractedIntent, error)
}

// ConversationMetrics records dialogue-level measurements: external lookup
// timings and model-fallback consultations. A nil implementation disables
// recording and nothing else.
type ConversationMetrics interface {
	RecordLookup(target string, duration time.Duration, err error)
	RecordExtractionFallback(stage, result string)
}

// ObjectStorage stores rendered documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// LetterRenderer produces the binder-style sanction letter for an approved
// application and returns the storage key it was written under.
type LetterRenderer interface {
	RenderSanctionLetter(ctx context.Context, app *domain.LoanApplication) (string, error)
}

// ProductCatalog serves the loan-product knowledge used for product
// questions.
type ProductCatalog interface {
	Products() []domain.LoanProduct
}
