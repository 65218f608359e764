package ollama

import (
	"fmt"
	"strings"

	"github.com/AnshAggr1303/loan-agent-system/internal/core/domain"
)

// stageEntityHints maps each collection stage to the entity keys the model
// should try to fill. Keys must match what the dialogue manager reads back.
var stageEntityHints = map[domain.Stage]string{
	domain.StageCollectIdentity:    `pan_number (string, format ABCDE1234F)`,
	domain.StageCollectEmployment:  `employment_type (string: Salaried, Self-Employed or Business Owner)`,
	domain.StageCollectIncome:      `monthly_income (number, rupees per month)`,
	domain.StageCollectLoanDetails: `loan_amount (number, rupees), loan_purpose (string: wedding, education, medical, home renovation or business), tenure_months (number)`,
	domain.StageCollectObligations: `existing_emi (number, rupees per month, 0 if none)`,
}

func buildExtractionPrompt(stage domain.Stage, message string, history []domain.ChatMessage) string {
	hints, ok := stageEntityHints[stage]
	if !ok {
		hints = "none"
	}

	var historyBuilder strings.Builder
	// Only the tail of the conversation matters for disambiguation.
	const maxHistory = 6
	start := len(history) - maxHistory
	if start < 0 {
		start = 0
	}
	for _, msg := range history[start:] {
		historyBuilder.WriteString(fmt.Sprintf("%s: %s\n", msg.Sender, msg.Body))
	}

	return fmt.Sprintf(`You extract structured fields from one message in a loan application chat.
Return a strict JSON object with keys:
intent (string), entities (object), suggested_reply (string).
Only include entity keys you are confident about. No markdown, no extra keys.

Entities to look for at this step:
%s

Recent conversation:
%s
Message:
%s
`, hints, historyBuilder.String(), message)
}
