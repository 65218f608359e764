// Package underwriting evaluates a complete applicant profile against the
// eligibility rule set and computes the offered terms. Rules are kept
// centralized so the whole decision is testable in one place.
package underwriting

import (
	"fmt"
	"math"

	"github.com/AnshAggr1303/loan-agent-system/internal/core/credit"
	"github.com/AnshAggr1303/loan-agent-system/internal/core/domain"
	"github.com/AnshAggr1303/loan-agent-system/internal/core/loancalc"
)

const (
	MinAge = 21
	MaxAge = 60

	MinIncomeSalaried    = 25000
	MinIncomeNonSalaried = 40000

	// MaxDTIPct is the highest acceptable projected debt-to-income ratio.
	MaxDTIPct = 50.0

	counterOfferFraction = 0.6
	counterOfferRounding = 10000

	rejectionReason = "Application does not meet eligibility criteria"
)

type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate runs every rule and collects all failures; it never short-circuits
// on the first one. On a clean pass the decision carries the offered terms:
// the sanctioned amount is the requested amount unchanged, the rate comes
// from the score tier and the EMI from the amortization formula.
func (e *Engine) Evaluate(profile domain.ApplicantProfile) domain.Decision {
	var failed []string

	// Rule 1: age window. The two bounds are independent checks; in practice
	// a single value trips at most one of them.
	if profile.Age == 0 || profile.Age < MinAge {
		failed = append(failed, fmt.Sprintf("Minimum age requirement: %d years", MinAge))
	}
	if profile.Age != 0 && profile.Age > MaxAge {
		failed = append(failed, fmt.Sprintf("Maximum age limit: %d years", MaxAge))
	}

	// Rule 2: minimum income by employment type.
	minIncome := float64(MinIncomeNonSalaried)
	if profile.EmploymentType.IsSalaried() {
		minIncome = MinIncomeSalaried
	}
	if profile.MonthlyIncome == 0 || profile.MonthlyIncome < minIncome {
		msg := fmt.Sprintf("Minimum monthly income: ₹%s", domain.FormatINR(minIncome))
		if profile.EmploymentType != "" {
			msg = fmt.Sprintf("%s for %s", msg, profile.EmploymentType)
		}
		failed = append(failed, msg)
	}

	// Rule 3: minimum credit score, shared boundary with the risk scorer.
	if profile.CreditScore == 0 || !credit.MeetsMinimumScore(profile.CreditScore) {
		failed = append(failed, fmt.Sprintf("Minimum credit score required: %d", credit.MinimumScore))
	}

	// Rule 4: projected debt-to-income, only when the inputs needed to
	// project an installment are all present. A missing score prices at the
	// lowest acceptable tier.
	if profile.MonthlyIncome > 0 && profile.LoanAmount > 0 && profile.TenureMonths > 0 {
		score := profile.CreditScore
		if score == 0 {
			score = credit.MinimumScore
		}
		rate := loancalc.InterestRateForScore(score)
		projectedEMI := loancalc.Installment(profile.LoanAmount, rate, profile.TenureMonths)
		dti := loancalc.DebtToIncome(profile.ExistingEMI, projectedEMI, profile.MonthlyIncome)
		if dti > MaxDTIPct {
			failed = append(failed, fmt.Sprintf(
				"Debt-to-Income ratio (%.1f%%) exceeds maximum allowed (%.0f%%)", dti, MaxDTIPct))
		}
	}

	// Rule 5: income-multiplier cap on the requested amount.
	if profile.MonthlyIncome > 0 && profile.LoanAmount > 0 {
		maxAmount := loancalc.MaxEligibleAmount(profile.MonthlyIncome, profile.EmploymentType)
		if profile.LoanAmount > maxAmount {
			failed = append(failed, fmt.Sprintf(
				"Maximum loan amount for your income: ₹%s", domain.FormatINR(maxAmount)))
		}
	}

	if len(failed) > 0 {
		return domain.Decision{
			Approved:        false,
			RejectionReason: rejectionReason,
			FailedRules:     failed,
		}
	}

	rate := loancalc.InterestRateForScore(profile.CreditScore)
	emi := loancalc.Installment(profile.LoanAmount, rate, profile.TenureMonths)
	return domain.Decision{
		Approved:         true,
		SanctionedAmount: profile.LoanAmount,
		InterestRate:     rate,
		TenureMonths:     profile.TenureMonths,
		MonthlyEMI:       emi,
		DTIRatio:         loancalc.DebtToIncome(profile.ExistingEMI, emi, profile.MonthlyIncome),
	}
}

// CounterOffer proposes a reduced amount for a rejected application:
// min(income-multiplier cap, 60% of the requested amount), floored to the
// nearest 10,000. Returns false when income is unknown.
func (e *Engine) CounterOffer(profile domain.ApplicantProfile) (float64, bool) {
	if profile.MonthlyIncome == 0 {
		return 0, false
	}
	maxAmount := loancalc.MaxEligibleAmount(profile.MonthlyIncome, profile.EmploymentType)
	offer := math.Min(maxAmount, profile.LoanAmount*counterOfferFraction)
	return math.Floor(offer/counterOfferRounding) * counterOfferRounding, true
}
