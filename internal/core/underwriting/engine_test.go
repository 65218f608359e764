package underwriting

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/AnshAggr1303/loan-agent-system/internal/core/domain"
)

func cleanProfile() domain.ApplicantProfile {
	return domain.ApplicantProfile{
		PANNumber:      "ABCDE1234F",
		FullName:       "Rahul Sharma",
		Age:            36,
		EmploymentType: domain.EmploymentSalaried,
		MonthlyIncome:  50000,
		LoanAmount:     300000,
		LoanPurpose:    "Wedding",
		TenureMonths:   24,
		CreditScore:    820,
	}
}

func TestEvaluateApprovesCleanProfileWithTerms(t *testing.T) {
	engine := NewEngine()
	decision := engine.Evaluate(cleanProfile())

	if !decision.Approved {
		t.Fatalf("expected approval, failed rules: %v", decision.FailedRules)
	}
	if decision.SanctionedAmount != 300000 {
		t.Fatalf("sanctioned amount must equal requested, got %v", decision.SanctionedAmount)
	}
	if decision.InterestRate != 10.5 {
		t.Fatalf("expected rate 10.5 for score 820, got %v", decision.InterestRate)
	}
	if math.Abs(decision.MonthlyEMI-13912.81) > 0.01 {
		t.Fatalf("expected EMI 13912.81, got %v", decision.MonthlyEMI)
	}
	if math.Abs(decision.DTIRatio-27.83) > 0.01 {
		t.Fatalf("expected DTI 27.83, got %v", decision.DTIRatio)
	}
	if decision.TenureMonths != 24 {
		t.Fatalf("expected tenure 24, got %d", decision.TenureMonths)
	}
}

func TestEvaluateAgeBoundaries(t *testing.T) {
	engine := NewEngine()
	cases := []struct {
		age  int
		pass bool
	}{
		{20, false}, {21, true}, {60, true}, {61, false},
	}
	for _, tc := range cases {
		profile := cleanProfile()
		profile.Age = tc.age
		decision := engine.Evaluate(profile)
		if decision.Approved != tc.pass {
			t.Fatalf("age %d: approved = %v, want %v (%v)", tc.age, decision.Approved, tc.pass, decision.FailedRules)
		}
	}
}

func TestEvaluateMinimumIncomeByEmployment(t *testing.T) {
	engine := NewEngine()

	profile := cleanProfile()
	profile.MonthlyIncome = 24999
	profile.LoanAmount = 100000
	decision := engine.Evaluate(profile)
	if decision.Approved {
		t.Fatalf("expected rejection below salaried income floor")
	}

	profile = cleanProfile()
	profile.EmploymentType = domain.EmploymentSelfEmployed
	profile.MonthlyIncome = 39999
	profile.LoanAmount = 100000
	decision = engine.Evaluate(profile)
	if decision.Approved {
		t.Fatalf("expected rejection below non-salaried income floor")
	}
	found := false
	for _, rule := range decision.FailedRules {
		if strings.Contains(rule, "₹40,000") && strings.Contains(rule, "Self-Employed") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected employment-specific income rule, got %v", decision.FailedRules)
	}
}

func TestEvaluateCollectsAllFailuresWithoutShortCircuit(t *testing.T) {
	engine := NewEngine()
	profile := domain.ApplicantProfile{
		PANNumber:      "UVWXY7890Z",
		FullName:       "Vikram Singh",
		Age:            47,
		EmploymentType: domain.EmploymentSalaried,
		MonthlyIncome:  30000,
		LoanAmount:     400000,
		LoanPurpose:    "Business",
		TenureMonths:   60,
		CreditScore:    620,
	}

	decision := engine.Evaluate(profile)
	if decision.Approved {
		t.Fatalf("expected rejection")
	}
	if decision.RejectionReason != "Application does not meet eligibility criteria" {
		t.Fatalf("unexpected rejection reason %q", decision.RejectionReason)
	}
	// Score below 650 and amount above the 10x cap; DTI stays under 50 at
	// this tenure so exactly two rules trip.
	if len(decision.FailedRules) != 2 {
		t.Fatalf("expected exactly 2 failed rules, got %v", decision.FailedRules)
	}
	if !strings.Contains(decision.FailedRules[0], "Minimum credit score required: 650") {
		t.Fatalf("expected score rule first, got %v", decision.FailedRules)
	}
	if !strings.Contains(decision.FailedRules[1], "Maximum loan amount for your income: ₹3,00,000") {
		t.Fatalf("expected amount cap rule, got %v", decision.FailedRules)
	}
}

func TestEvaluateSelfEmployedLowIncomeAndScore(t *testing.T) {
	engine := NewEngine()
	profile := domain.ApplicantProfile{
		PANNumber:      "PQRST3456U",
		FullName:       "Sneha Iyer",
		Age:            35,
		EmploymentType: domain.EmploymentSelfEmployed,
		MonthlyIncome:  30000,
		CreditScore:    600,
	}

	decision := engine.Evaluate(profile)
	if decision.Approved {
		t.Fatalf("expected rejection")
	}
	// Income below the self-employed floor and score below 650; with no
	// amount or tenure on file the DTI and cap rules have nothing to check.
	if len(decision.FailedRules) != 2 {
		t.Fatalf("expected exactly 2 failed rules, got %v", decision.FailedRules)
	}
	if decision.FailedRules[0] != "Minimum monthly income: ₹40,000 for Self-Employed" {
		t.Fatalf("expected income rule first, got %q", decision.FailedRules[0])
	}
	if decision.FailedRules[1] != "Minimum credit score required: 650" {
		t.Fatalf("expected score rule second, got %q", decision.FailedRules[1])
	}
}

func TestEvaluateDTIRuleUsesDefaultRateWhenScoreMissing(t *testing.T) {
	engine := NewEngine()
	profile := cleanProfile()
	profile.CreditScore = 0
	profile.ExistingEMI = 30000

	decision := engine.Evaluate(profile)
	if decision.Approved {
		t.Fatalf("expected rejection")
	}
	var dtiRule, scoreRule bool
	for _, rule := range decision.FailedRules {
		if strings.Contains(rule, "Debt-to-Income ratio") && strings.Contains(rule, "maximum allowed (50%)") {
			dtiRule = true
		}
		if strings.Contains(rule, "Minimum credit score") {
			scoreRule = true
		}
	}
	if !dtiRule || !scoreRule {
		t.Fatalf("expected DTI and score rules, got %v", decision.FailedRules)
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	engine := NewEngine()
	profile := cleanProfile()
	first := engine.Evaluate(profile)
	second := engine.Evaluate(profile)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical decisions, got %+v vs %+v", first, second)
	}
}

func TestCounterOfferRoundsDownToTenThousand(t *testing.T) {
	engine := NewEngine()
	profile := domain.ApplicantProfile{
		EmploymentType: domain.EmploymentSalaried,
		MonthlyIncome:  80000,
		LoanAmount:     800000,
	}

	offer, ok := engine.CounterOffer(profile)
	if !ok {
		t.Fatalf("expected an offer")
	}
	if offer != 480000 {
		t.Fatalf("expected 480000, got %v", offer)
	}
}

func TestCounterOfferCappedByIncomeMultiplier(t *testing.T) {
	engine := NewEngine()
	profile := domain.ApplicantProfile{
		EmploymentType: domain.EmploymentSelfEmployed,
		MonthlyIncome:  40000,
		LoanAmount:     1000000,
	}

	offer, ok := engine.CounterOffer(profile)
	if !ok {
		t.Fatalf("expected an offer")
	}
	// 5x cap (200000) is below 60% of the requested amount.
	if offer != 200000 {
		t.Fatalf("expected 200000, got %v", offer)
	}
}

func TestCounterOfferRequiresKnownIncome(t *testing.T) {
	engine := NewEngine()
	if _, ok := engine.CounterOffer(domain.ApplicantProfile{LoanAmount: 500000}); ok {
		t.Fatalf("expected no offer without income")
	}
}
