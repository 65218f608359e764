// Package loancalc holds the pure numeric functions of the loan pipeline:
// reducing-balance amortization, debt ratios, score-tiered pricing and fee
// bounds. Everything here is deterministic and free of I/O.
package loancalc

import (
	"math"

	"github.com/AnshAggr1303/loan-agent-system/internal/core/domain"
)

const (
	processingFeePct = 1.0
	processingFeeMin = 1000
	processingFeeMax = 10000

	multiplierSalaried    = 10
	multiplierNonSalaried = 5
)

// Installment returns the fixed monthly installment for a reducing-balance
// loan: P*r*(1+r)^n / ((1+r)^n - 1), with r the monthly rate. A zero rate
// degenerates to straight-line principal/months.
func Installment(principal, annualRatePct float64, months int) float64 {
	monthlyRate := annualRatePct / 12 / 100
	if monthlyRate == 0 {
		return principal / float64(months)
	}
	compound := math.Pow(1+monthlyRate, float64(months))
	emi := principal * monthlyRate * compound / (compound - 1)
	return roundCents(emi)
}

// DebtToIncome returns (existing+new)/income as a percentage. Callers must
// guard monthlyIncome > 0.
func DebtToIncome(existingEMI, newEMI, monthlyIncome float64) float64 {
	return roundCents((existingEMI + newEMI) / monthlyIncome * 100)
}

// InterestRateForScore prices the loan off the credit score tier.
func InterestRateForScore(score int) float64 {
	switch {
	case score >= 800:
		return 10.5
	case score >= 750:
		return 11.5
	case score >= 700:
		return 12.5
	case score >= 650:
		return 14.0
	default:
		return 16.0
	}
}

// ProcessingFee is 1% of the loan amount clamped to [1000, 10000].
func ProcessingFee(loanAmount float64) float64 {
	fee := loanAmount * processingFeePct / 100
	if fee < processingFeeMin {
		return processingFeeMin
	}
	if fee > processingFeeMax {
		return processingFeeMax
	}
	return fee
}

// MaxEligibleAmount caps the loan by an income multiplier: 10x for salaried,
// 5x for self-employed and business applicants.
func MaxEligibleAmount(monthlyIncome float64, employment domain.EmploymentType) float64 {
	if employment.IsSalaried() {
		return monthlyIncome * multiplierSalaried
	}
	return monthlyIncome * multiplierNonSalaried
}

// TotalInterest is the interest paid over the full tenure.
func TotalInterest(principal, monthlyEMI float64, months int) float64 {
	return roundCents(monthlyEMI*float64(months) - principal)
}

// roundCents rounds to 2 decimal places, half-up on the cent digit.
func roundCents(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
