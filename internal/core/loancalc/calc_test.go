package loancalc

import (
	"math"
	"testing"

	"github.com/AnshAggr1303/loan-agent-system/internal/core/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func TestInstallmentReducingBalance(t *testing.T) {
	cases := []struct {
		name      string
		principal float64
		rate      float64
		months    int
		want      float64
	}{
		{"mid tenure", 300000, 10.5, 24, 13912.81},
		{"long tenure", 500000, 10.5, 36, 16251.22},
		{"higher rate", 500000, 12.5, 36, 16726.81},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Installment(tc.principal, tc.rate, tc.months)
			if !almostEqual(got, tc.want) {
				t.Fatalf("Installment(%v, %v, %d) = %v, want %v", tc.principal, tc.rate, tc.months, got, tc.want)
			}
		})
	}
}

func TestInstallmentZeroRateIsStraightLine(t *testing.T) {
	got := Installment(120000, 0, 12)
	if got != 10000 {
		t.Fatalf("expected 10000, got %v", got)
	}
}

func TestInstallmentRoundsHalfUpToCents(t *testing.T) {
	got := Installment(300000, 10.5, 24)
	if got != math.Floor(got*100+0.5)/100 {
		t.Fatalf("EMI %v carries sub-cent precision", got)
	}
}

func TestDebtToIncome(t *testing.T) {
	if got := DebtToIncome(0, 13912.81, 50000); !almostEqual(got, 27.83) {
		t.Fatalf("expected 27.83, got %v", got)
	}
	if got := DebtToIncome(5000, 35633.15, 40000); !almostEqual(got, 101.58) {
		t.Fatalf("expected 101.58, got %v", got)
	}
}

func TestInterestRateForScoreTiers(t *testing.T) {
	cases := []struct {
		score int
		want  float64
	}{
		{820, 10.5}, {800, 10.5},
		{799, 11.5}, {750, 11.5},
		{749, 12.5}, {700, 12.5},
		{699, 14.0}, {650, 14.0},
		{649, 16.0}, {500, 16.0},
	}
	for _, tc := range cases {
		if got := InterestRateForScore(tc.score); got != tc.want {
			t.Fatalf("InterestRateForScore(%d) = %v, want %v", tc.score, got, tc.want)
		}
	}
}

func TestRateIsMonotonicNonIncreasingInScore(t *testing.T) {
	prev := InterestRateForScore(300)
	for score := 301; score <= 900; score++ {
		cur := InterestRateForScore(score)
		if cur > prev {
			t.Fatalf("rate increased from %v to %v at score %d", prev, cur, score)
		}
		prev = cur
	}
}

func TestProcessingFeeClamps(t *testing.T) {
	if got := ProcessingFee(50000); got != 1000 {
		t.Fatalf("expected floor 1000, got %v", got)
	}
	if got := ProcessingFee(300000); got != 3000 {
		t.Fatalf("expected 1%% fee 3000, got %v", got)
	}
	if got := ProcessingFee(2000000); got != 10000 {
		t.Fatalf("expected cap 10000, got %v", got)
	}
}

func TestMaxEligibleAmountByEmployment(t *testing.T) {
	if got := MaxEligibleAmount(50000, domain.EmploymentSalaried); got != 500000 {
		t.Fatalf("expected 10x for salaried, got %v", got)
	}
	if got := MaxEligibleAmount(50000, domain.EmploymentSelfEmployed); got != 250000 {
		t.Fatalf("expected 5x for self-employed, got %v", got)
	}
	if got := MaxEligibleAmount(50000, domain.EmploymentBusiness); got != 250000 {
		t.Fatalf("expected 5x for business, got %v", got)
	}
}

func TestTotalInterestConsistentWithInstallment(t *testing.T) {
	emi := Installment(300000, 10.5, 24)
	total := TotalInterest(300000, emi, 24)
	if !almostEqual(total, emi*24-300000) {
		t.Fatalf("total interest %v inconsistent with EMI %v", total, emi)
	}
	if total <= 0 {
		t.Fatalf("expected positive interest, got %v", total)
	}
}
