package ports

import (
	"context"

	"github.com/AnshAggr1303/loan-agent-system/internal/core/domain"
)

// ConversationService is the inbound contract for one dialogue turn: the
// caller owns the state between turns and must serialize turns per session.
type ConversationService interface {
	ProcessTurn(ctx context.Context, state domain.ConversationState, message string) (domain.ConversationState, domain.TurnReply)
}

// ApplicationReader is the inbound read model for decided applications.
type ApplicationReader interface {
	GetByID(ctx context.Context, id string) (*domain.LoanApplication, error)
}
