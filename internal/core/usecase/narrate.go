package usecase

import (
	"fmt"
	"strings"

	"github.com/AnshAggr1303/loan-agent-system/internal/core/domain"
	"github.com/AnshAggr1303/loan-agent-system/internal/core/loancalc"
)

// Response narratives. Kept apart from the state machine so the texts can
// change without touching transition logic.

func greetingResponse() string {
	return "Welcome to QuickLoan! I'm here to help you apply for a personal loan.\n\n" +
		"To verify your identity, please share your PAN number (format: ABCDE1234F)."
}

func identityRepromptResponse() string {
	return "I couldn't find a valid PAN number in your message. " +
		"Please provide your PAN in the format ABCDE1234F."
}

func identityFailureResponse(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrNotFound):
		return "This PAN is not present in our records. Please double-check the number and try again."
	case domain.IsKind(err, domain.ErrNotEligible):
		if strings.Contains(err.Error(), string(domain.KYCStatusPendingLink)) ||
			strings.Contains(err.Error(), "linkage") {
			return "Your KYC is incomplete: Aadhaar linkage is still pending. " +
				"Please complete the linkage and share your PAN again."
		}
		return "Your KYC record is blocked. Please contact support before applying."
	case domain.IsKind(err, domain.ErrInvalidInput):
		return identityRepromptResponse()
	default:
		return "We could not verify your PAN right now. Please try again in a moment."
	}
}

func identitySuccessResponse(name string) string {
	return fmt.Sprintf("KYC verified successfully. Welcome, %s!\n\n", name) +
		employmentPrompt()
}

func employmentPrompt() string {
	return "Let's talk about your employment. Are you:\n" +
		"1. Salaried\n2. Self-Employed\n3. Business Owner"
}

func employmentRepromptResponse() string {
	return "Please choose one of:\n1. Salaried\n2. Self-Employed\n3. Business Owner"
}

func employmentNotedResponse(employment domain.EmploymentType) string {
	return fmt.Sprintf("Noted, you're %s.\n\nWhat is your monthly income in rupees?", employment)
}

func incomeRepromptResponse() string {
	return "Please enter your monthly income as a number in rupees (for example 50000). " +
		"Amounts below ₹10,000 cannot be considered."
}

func incomeNotedResponse(income float64) string {
	return fmt.Sprintf("Monthly income of ₹%s noted.\n\n", domain.FormatINR(income)) +
		"Now the loan itself: how much do you need, for what purpose " +
		"(wedding/education/medical/home renovation/business), and over how many months?"
}

func loanDetailsRepromptResponse(missing []string) string {
	return "I still need the following to proceed:\n- " + strings.Join(missing, "\n- ")
}

func loanDetailsCapturedResponse(profile domain.ApplicantProfile) string {
	return fmt.Sprintf(
		"Loan details captured:\n- Amount: ₹%s\n- Purpose: %s\n- Tenure: %d months\n\n",
		domain.FormatINR(profile.LoanAmount), profile.LoanPurpose, profile.TenureMonths) +
		"Last question: do you have any existing monthly EMIs from other loans? " +
		"If yes, what is the total monthly amount? If not, just say 0."
}

func creditNarrative(summary domain.RiskSummary) string {
	return fmt.Sprintf(
		"Credit score: %d (%s)\n\nCredit assessment:\n- Status: %s\n- Active loans: %d\n- Credit history: %d years\n- %s",
		summary.Score, summary.Band, summary.Status, summary.ActiveLoans,
		summary.HistoryYears, summary.DefaultsSummary)
}

func obligationsNotedResponse(existingEMI float64, summary *domain.RiskSummary) string {
	out := fmt.Sprintf("Existing EMI of ₹%s noted.\n\n", domain.FormatINR(existingEMI))
	if summary != nil {
		out += creditNarrative(*summary) + "\n\n"
	} else {
		out += "We could not retrieve your credit history right now; " +
			"the application will be assessed with the information on file.\n\n"
	}
	return out + "Analyzing your application... send any message to continue."
}

func approvalResponse(name string, decision domain.Decision) string {
	fee := loancalc.ProcessingFee(decision.SanctionedAmount)
	return fmt.Sprintf("Congratulations %s! Your loan has been APPROVED.\n\n", name) +
		"Loan details:\n" +
		fmt.Sprintf("- Sanctioned amount: ₹%s\n", domain.FormatINR(decision.SanctionedAmount)) +
		fmt.Sprintf("- Interest rate: %.1f%% per annum\n", decision.InterestRate) +
		fmt.Sprintf("- Tenure: %d months\n", decision.TenureMonths) +
		fmt.Sprintf("- Monthly EMI: ₹%s\n", domain.FormatINR(decision.MonthlyEMI)) +
		fmt.Sprintf("- Processing fee: ₹%s\n", domain.FormatINR(fee)) +
		fmt.Sprintf("- Debt-to-income ratio: %.1f%%\n\n", decision.DTIRatio) +
		"Your sanction letter is being generated."
}

func rejectionResponse(name string, decision domain.Decision, counterOffer float64, hasOffer bool) string {
	out := fmt.Sprintf("Sorry %s, we're unable to approve your loan application at this time.\n\n", name) +
		fmt.Sprintf("Reason: %s\n\nRequirements not met:\n", decision.RejectionReason)
	for _, rule := range decision.FailedRules {
		out += "- " + rule + "\n"
	}
	if hasOffer && counterOffer > 0 {
		out += fmt.Sprintf("\nBased on your income we could consider an amount of up to ₹%s instead.\n",
			domain.FormatINR(counterOffer))
	}
	out += "\nYou can improve your chances by raising your credit score, reducing existing " +
		"obligations, or applying for a smaller amount. We encourage you to reapply once " +
		"these requirements are addressed."
	return out
}

func closingResponse() string {
	return "Your application has been processed. Thank you for choosing QuickLoan!"
}

func resetResponse() string {
	return "This conversation has ended, so let's start a new application.\n\n" + greetingResponse()
}
