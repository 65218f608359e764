package credit

import (
	"context"
	"fmt"
	"testing"

	"github.com/AnshAggr1303/loan-agent-system/internal/core/domain"
)

type fakeBureau struct {
	records map[string]domain.CreditRecord
}

func (f *fakeBureau) LookupCredit(_ context.Context, pan string) (*domain.CreditRecord, error) {
	record, ok := f.records[pan]
	if !ok {
		return nil, domain.WrapError(domain.ErrNoHistory, "lookup credit",
			fmt.Errorf("no history for %s", pan))
	}
	return &record, nil
}

func TestBandBoundaries(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{820, "Excellent"}, {800, "Excellent"},
		{799, "Very Good"}, {750, "Very Good"},
		{749, "Good"}, {700, "Good"},
		{699, "Fair"}, {650, "Fair"},
		{649, "Poor"}, {400, "Poor"},
	}
	for _, tc := range cases {
		if got := Band(tc.score); got != tc.want {
			t.Fatalf("Band(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestTierForHighRiskCriteria(t *testing.T) {
	cases := []struct {
		name   string
		record domain.CreditRecord
	}{
		{"low score", domain.CreditRecord{Score: 649}},
		{"default on file", domain.CreditRecord{Score: 800, Defaults: 1}},
		{"frequent late payments", domain.CreditRecord{Score: 800, LatePayments6M: 3}},
		{"high utilization", domain.CreditRecord{Score: 800, UtilizationPct: 76}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TierFor(tc.record); got != domain.RiskTierHigh {
				t.Fatalf("expected High, got %v", got)
			}
		})
	}
}

func TestTierForLowAndMedium(t *testing.T) {
	low := domain.CreditRecord{Score: 780, UtilizationPct: 20}
	if got := TierFor(low); got != domain.RiskTierLow {
		t.Fatalf("expected Low, got %v", got)
	}

	// A clean record that misses the Low bar lands in Medium, not High.
	medium := domain.CreditRecord{Score: 700, LatePayments6M: 1, UtilizationPct: 50}
	if got := TierFor(medium); got != domain.RiskTierMedium {
		t.Fatalf("expected Medium, got %v", got)
	}
}

func TestAssessBuildsSummary(t *testing.T) {
	scorer := NewScorer(&fakeBureau{records: map[string]domain.CreditRecord{
		"UVWXY7890Z": {
			PANNumber:      "UVWXY7890Z",
			Score:          620,
			Status:         "Delinquent",
			ActiveLoans:    4,
			HistoryYears:   12,
			Defaults:       1,
			LatePayments6M: 3,
			UtilizationPct: 85,
		},
	}})

	summary, err := scorer.Assess(context.Background(), "UVWXY7890Z")
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}
	if summary.Band != "Poor" {
		t.Fatalf("expected Poor band, got %q", summary.Band)
	}
	if summary.Tier != domain.RiskTierHigh {
		t.Fatalf("expected High tier, got %v", summary.Tier)
	}
	if summary.DefaultsSummary != "1 default(s) in past 2 years" {
		t.Fatalf("unexpected defaults summary %q", summary.DefaultsSummary)
	}
}

func TestAssessCleanRecordSummary(t *testing.T) {
	scorer := NewScorer(&fakeBureau{records: map[string]domain.CreditRecord{
		"ABCDE1234F": {PANNumber: "ABCDE1234F", Score: 820, Status: "Active", ActiveLoans: 1, HistoryYears: 8},
	}})

	summary, err := scorer.Assess(context.Background(), "ABCDE1234F")
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}
	if summary.DefaultsSummary != "No defaults" {
		t.Fatalf("unexpected defaults summary %q", summary.DefaultsSummary)
	}
	if summary.Tier != domain.RiskTierLow {
		t.Fatalf("expected Low tier, got %v", summary.Tier)
	}
}

func TestAssessPropagatesNoHistoryKind(t *testing.T) {
	scorer := NewScorer(&fakeBureau{})

	_, err := scorer.Assess(context.Background(), "BCDEA2345G")
	if !domain.IsKind(err, domain.ErrNoHistory) {
		t.Fatalf("expected no-history kind, got %v", err)
	}
}

func TestMeetsMinimumScoreBoundary(t *testing.T) {
	if MeetsMinimumScore(649) {
		t.Fatalf("649 must fail the gate")
	}
	if !MeetsMinimumScore(650) {
		t.Fatalf("650 must pass the gate")
	}
}
