package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AnshAggr1303/loan-agent-system/internal/core/credit"
	"github.com/AnshAggr1303/loan-agent-system/internal/core/domain"
	"github.com/AnshAggr1303/loan-agent-system/internal/core/kyc"
	"github.com/AnshAggr1303/loan-agent-system/internal/core/ports"
	"github.com/AnshAggr1303/loan-agent-system/internal/core/underwriting"
)

const (
	agentMaster       = "master"
	agentKYC          = "kyc"
	agentCredit       = "credit"
	agentUnderwriting = "underwriting"

	// Incomes below this are not worth underwriting at all; the stage keeps
	// re-prompting instead of letting the eligibility rules reject later.
	minAcceptedIncome = 10000
)

// ConversationUseCase is the dialogue manager: it owns the stage transitions
// and delegates verification, scoring and decisioning to the core services.
// The session store, application store, publisher and extractor are optional;
// a nil dependency disables that side effect and nothing else.
type ConversationUseCase struct {
	verifier  *kyc.Verifier
	scorer    *credit.Scorer
	engine    *underwriting.Engine
	sessions  ports.SessionStore
	apps      ports.ApplicationStore
	publisher ports.DecisionPublisher
	extractor ports.IntentExtractor
	metrics   ports.ConversationMetrics
	logger    *slog.Logger
	now       func() time.Time
}

func NewConversationUseCase(
	verifier *kyc.Verifier,
	scorer *credit.Scorer,
	engine *underwriting.Engine,
	sessions ports.SessionStore,
	apps ports.ApplicationStore,
	publisher ports.DecisionPublisher,
	extractor ports.IntentExtractor,
	metrics ports.ConversationMetrics,
	logger *slog.Logger,
) *ConversationUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConversationUseCase{
		verifier:  verifier,
		scorer:    scorer,
		engine:    engine,
		sessions:  sessions,
		apps:      apps,
		publisher: publisher,
		extractor: extractor,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// ProcessTurn advances the conversation by exactly one turn: one user message
// appended, one agent response appended, at most one stage transition. The
// updated state is returned by value; persistence failures degrade to warnings
// and never fail the turn.
func (u *ConversationUseCase) ProcessTurn(ctx context.Context, state domain.ConversationState, message string) (domain.ConversationState, domain.TurnReply) {
	state.Turn++
	u.ensureSession(ctx, state.SessionID)
	u.record(ctx, &state, domain.SenderUser, "", message)

	reply := u.dispatch(ctx, &state, strings.TrimSpace(message))
	reply.Stage = state.Stage

	u.record(ctx, &state, domain.SenderAgent, reply.Agent, reply.Response)
	u.persistStage(ctx, state)
	return state, reply
}

func (u *ConversationUseCase) dispatch(ctx context.Context, state *domain.ConversationState, message string) domain.TurnReply {
	switch state.Stage {
	case domain.StageGreeting:
		state.Stage = domain.StageCollectIdentity
		return domain.TurnReply{Response: greetingResponse(), Agent: agentMaster}
	case domain.StageCollectIdentity:
		return u.handleIdentity(ctx, state, message)
	case domain.StageCollectEmployment:
		return u.handleEmployment(ctx, state, message)
	case domain.StageCollectIncome:
		return u.handleIncome(ctx, state, message)
	case domain.StageCollectLoanDetails:
		return u.handleLoanDetails(ctx, state, message)
	case domain.StageCollectObligations:
		return u.handleObligations(ctx, state, message)
	case domain.StageUnderwriting:
		return u.handleUnderwriting(ctx, state)
	case domain.StageApproved, domain.StageRejected:
		state.Stage = domain.StageCompleted
		return domain.TurnReply{Response: closingResponse(), Agent: agentMaster}
	default:
		// Completed sessions and unrecognized stages both restart cleanly.
		state.Profile = domain.ApplicantProfile{}
		state.IdentityVerified = false
		state.RiskChecked = false
		state.Stage = domain.StageCollectIdentity
		return domain.TurnReply{Response: resetResponse(), Agent: agentMaster}
	}
}

func (u *ConversationUseCase) handleIdentity(ctx context.Context, state *domain.ConversationState, message string) domain.TurnReply {
	pan, ok := findPAN(message)
	if !ok {
		if candidate := stringEntity(u.extractEntities(ctx, state, message), "pan_number"); candidate != "" {
			pan, ok = findPAN(candidate)
		}
	}
	if !ok {
		return domain.TurnReply{Response: identityRepromptResponse(), Agent: agentKYC}
	}

	start := time.Now()
	identity, err := u.verifier.Verify(ctx, pan)
	u.recordLookup("kyc", time.Since(start), err)
	if err != nil {
		u.logger.Warn("identity verification failed", "session_id", state.SessionID, "error", err)
		return domain.TurnReply{Response: identityFailureResponse(err), Agent: agentKYC}
	}

	state.Profile.PANNumber = identity.PANNumber
	state.Profile.FullName = identity.FullName
	state.Profile.Age = identity.Age
	state.Profile.Phone = identity.Phone
	state.IdentityVerified = true
	state.Stage = domain.StageCollectEmployment
	return domain.TurnReply{Response: identitySuccessResponse(identity.FullName), Agent: agentKYC}
}

func (u *ConversationUseCase) handleEmployment(ctx context.Context, state *domain.ConversationState, message string) domain.TurnReply {
	employment, ok := matchEmployment(message)
	if !ok {
		if candidate := stringEntity(u.extractEntities(ctx, state, message), "employment_type"); candidate != "" {
			employment, ok = matchEmployment(candidate)
		}
	}
	if !ok {
		return domain.TurnReply{Response: employmentRepromptResponse(), Agent: agentMaster}
	}

	state.Profile.EmploymentType = employment
	state.Stage = domain.StageCollectIncome
	return domain.TurnReply{Response: employmentNotedResponse(employment), Agent: agentMaster}
}

func (u *ConversationUseCase) handleIncome(ctx context.Context, state *domain.ConversationState, message string) domain.TurnReply {
	income, ok := firstNumber(message)
	if !ok {
		income, ok = numberEntity(u.extractEntities(ctx, state, message), "monthly_income")
	}
	if !ok || income < minAcceptedIncome {
		return domain.TurnReply{Response: incomeRepromptResponse(), Agent: agentMaster}
	}

	state.Profile.MonthlyIncome = income
	state.Stage = domain.StageCollectLoanDetails
	return domain.TurnReply{Response: incomeNotedResponse(income), Agent: agentMaster}
}

func (u *ConversationUseCase) handleLoanDetails(ctx context.Context, state *domain.ConversationState, message string) domain.TurnReply {
	// Tenure first, then strip its digits so "3 lakh over 24 months" does not
	// read 24 as the amount.
	if state.Profile.TenureMonths == 0 {
		if months, ok := findTenureMonths(message); ok {
			state.Profile.TenureMonths = months
		}
	}
	if state.Profile.LoanAmount == 0 {
		if amount, ok := firstNumber(tenurePattern.ReplaceAllString(message, "")); ok {
			state.Profile.LoanAmount = amount
		}
	}
	if state.Profile.LoanPurpose == "" {
		if purpose, ok := findPurpose(message); ok {
			state.Profile.LoanPurpose = purpose
		}
	}

	if state.Profile.LoanAmount == 0 || state.Profile.LoanPurpose == "" || state.Profile.TenureMonths == 0 {
		entities := u.extractEntities(ctx, state, message)
		if state.Profile.LoanAmount == 0 {
			if amount, ok := numberEntity(entities, "loan_amount"); ok && amount > 0 {
				state.Profile.LoanAmount = amount
			}
		}
		if state.Profile.LoanPurpose == "" {
			if purpose, ok := findPurpose(stringEntity(entities, "loan_purpose")); ok {
				state.Profile.LoanPurpose = purpose
			}
		}
		if state.Profile.TenureMonths == 0 {
			if months, ok := numberEntity(entities, "tenure_months"); ok && months > 0 {
				state.Profile.TenureMonths = int(months)
			}
		}
	}

	var missing []string
	if state.Profile.LoanAmount == 0 {
		missing = append(missing, "the loan amount in rupees")
	}
	if state.Profile.LoanPurpose == "" {
		missing = append(missing, "the loan purpose (wedding/education/medical/home renovation/business)")
	}
	if state.Profile.TenureMonths == 0 {
		missing = append(missing, "the tenure in months")
	}
	if len(missing) > 0 {
		return domain.TurnReply{Response: loanDetailsRepromptResponse(missing), Agent: agentMaster}
	}

	state.Stage = domain.StageCollectObligations
	return domain.TurnReply{Response: loanDetailsCapturedResponse(state.Profile), Agent: agentMaster}
}

func (u *ConversationUseCase) handleObligations(ctx context.Context, state *domain.ConversationState, message string) domain.TurnReply {
	// Anything that doesn't carry a number counts as "no existing EMIs".
	emi, ok := firstNumber(message)
	if !ok {
		emi = 0
	}
	state.Profile.ExistingEMI = emi

	// The credit check runs here, synchronously: its outcome shapes both the
	// narrative of this response and the decision on the next turn. A bureau
	// failure is not a rejection; underwriting prices the missing score
	// conservatively.
	var summary *domain.RiskSummary
	start := time.Now()
	assessed, err := u.scorer.Assess(ctx, state.Profile.PANNumber)
	u.recordLookup("bureau", time.Since(start), err)
	if err != nil {
		u.logger.Warn("credit assessment unavailable",
			"session_id", state.SessionID, "error", err)
	} else {
		summary = assessed
		state.Profile.CreditScore = assessed.Score
		state.Profile.CreditStatus = assessed.Status
		state.Profile.ActiveLoanCount = assessed.ActiveLoans
		state.RiskChecked = true
	}

	state.Stage = domain.StageUnderwriting
	return domain.TurnReply{Response: obligationsNotedResponse(emi, summary), Agent: agentCredit}
}

func (u *ConversationUseCase) handleUnderwriting(ctx context.Context, state *domain.ConversationState) domain.TurnReply {
	decision := u.engine.Evaluate(state.Profile)

	var response string
	if decision.Approved {
		state.Profile.SanctionedAmount = decision.SanctionedAmount
		state.Profile.InterestRate = decision.InterestRate
		state.Profile.MonthlyEMI = decision.MonthlyEMI
		state.Stage = domain.StageApproved
		response = approvalResponse(state.Profile.FullName, decision)
	} else {
		state.Stage = domain.StageRejected
		offer, hasOffer := u.engine.CounterOffer(state.Profile)
		response = rejectionResponse(state.Profile.FullName, decision, offer, hasOffer)
	}

	u.recordApplication(ctx, state, decision)
	return domain.TurnReply{Response: response, Agent: agentUnderwriting, Decision: &decision}
}

// recordApplication writes the application record and announces it. Both are
// best-effort: a storage or broker outage must not retract a decision already
// communicated to the applicant.
func (u *ConversationUseCase) recordApplication(ctx context.Context, state *domain.ConversationState, decision domain.Decision) {
	if u.apps == nil {
		return
	}
	app := &domain.LoanApplication{
		ID:              uuid.NewString(),
		SessionID:       state.SessionID,
		PANNumber:       state.Profile.PANNumber,
		FullName:        state.Profile.FullName,
		Phone:           state.Profile.Phone,
		EmploymentType:  state.Profile.EmploymentType,
		MonthlyIncome:   state.Profile.MonthlyIncome,
		RequestedAmount: state.Profile.LoanAmount,
		LoanPurpose:     state.Profile.LoanPurpose,
		TenureMonths:    state.Profile.TenureMonths,
		ExistingEMI:     state.Profile.ExistingEMI,
		CreditScore:     state.Profile.CreditScore,
		Decision:        decision,
		CreatedAt:       u.now().UTC(),
	}
	if err := u.apps.SaveApplication(ctx, app); err != nil {
		u.logger.Warn("save application failed", "application_id", app.ID, "error", err)
		return
	}
	if u.publisher == nil {
		return
	}
	if err := u.publisher.PublishDecision(ctx, app.ID); err != nil {
		u.logger.Warn("publish decision failed", "application_id", app.ID, "error", err)
	}
}

func (u *ConversationUseCase) extractEntities(ctx context.Context, state *domain.ConversationState, message string) map[string]any {
	if u.extractor == nil {
		return nil
	}
	intent, err := u.extractor.ExtractIntent(ctx, state.Stage, message, state.Messages)
	if err != nil {
		u.recordFallback(state.Stage, "error")
		u.logger.Warn("intent extraction failed",
			"session_id", state.SessionID, "stage", state.Stage, "error", err)
		return nil
	}
	if len(intent.Entities) == 0 {
		u.recordFallback(state.Stage, "miss")
		return nil
	}
	u.recordFallback(state.Stage, "hit")
	return intent.Entities
}

func (u *ConversationUseCase) recordLookup(target string, duration time.Duration, err error) {
	if u.metrics == nil {
		return
	}
	u.metrics.RecordLookup(target, duration, err)
}

func (u *ConversationUseCase) recordFallback(stage domain.Stage, result string) {
	if u.metrics == nil {
		return
	}
	u.metrics.RecordExtractionFallback(string(stage), result)
}

func (u *ConversationUseCase) ensureSession(ctx context.Context, sessionID string) {
	if u.sessions == nil {
		return
	}
	if err := u.sessions.EnsureSession(ctx, sessionID); err != nil {
		u.logger.Warn("ensure session failed", "session_id", sessionID, "error", err)
	}
}

func (u *ConversationUseCase) record(ctx context.Context, state *domain.ConversationState, sender, agent, body string) {
	msg := domain.ChatMessage{
		ID:        uuid.NewString(),
		SessionID: state.SessionID,
		Sender:    sender,
		Agent:     agent,
		Body:      body,
		Turn:      state.Turn,
		CreatedAt: u.now().UTC(),
	}
	state.Messages = append(state.Messages, msg)
	if u.sessions == nil {
		return
	}
	if err := u.sessions.AppendMessage(ctx, msg); err != nil {
		u.logger.Warn("append message failed", "session_id", state.SessionID, "error", err)
	}
}

func (u *ConversationUseCase) persistStage(ctx context.Context, state domain.ConversationState) {
	if u.sessions == nil {
		return
	}
	if err := u.sessions.UpdateStage(ctx, state.SessionID, state.Stage); err != nil {
		u.logger.Warn("update stage failed", "session_id", state.SessionID, "error", err)
	}
}
