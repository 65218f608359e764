// Package credit assesses an applicant's credit record: risk band and tier
// derivation plus the minimum-score gate shared with underwriting.
package credit

import (
	"context"
	"fmt"

	"github.com/AnshAggr1303/loan-agent-system/internal/core/domain"
	"github.com/AnshAggr1303/loan-agent-system/internal/core/ports"
)

// MinimumScore is the single source of truth for the lowest acceptable credit
// score; the underwriting engine prices rejected-by-default profiles off the
// same boundary.
const MinimumScore = 650

type Scorer struct {
	bureau ports.CreditBureau
}

func NewScorer(bureau ports.CreditBureau) *Scorer {
	return &Scorer{bureau: bureau}
}

// Assess fetches the credit record for a PAN and derives the structured risk
// summary. A missing record surfaces as domain.ErrNoHistory.
func (s *Scorer) Assess(ctx context.Context, pan string) (*domain.RiskSummary, error) {
	record, err := s.bureau.LookupCredit(ctx, pan)
	if err != nil {
		return nil, err
	}

	return &domain.RiskSummary{
		Score:           record.Score,
		Band:            Band(record.Score),
		Tier:            TierFor(*record),
		Status:          record.Status,
		ActiveLoans:     record.ActiveLoans,
		HistoryYears:    record.HistoryYears,
		DefaultsSummary: defaultsSummary(record.Defaults),
	}, nil
}

func MeetsMinimumScore(score int) bool {
	return score >= MinimumScore
}

// Band maps a numeric score onto its qualitative band.
func Band(score int) string {
	switch {
	case score >= 800:
		return "Excellent"
	case score >= 750:
		return "Very Good"
	case score >= 700:
		return "Good"
	case score >= 650:
		return "Fair"
	default:
		return "Poor"
	}
}

// TierFor derives the coarse risk tier. High and Low have explicit criteria;
// everything in between lands in Medium.
func TierFor(record domain.CreditRecord) domain.RiskTier {
	if record.Score < MinimumScore || record.Defaults > 0 || record.LatePayments6M >= 3 || record.UtilizationPct > 75 {
		return domain.RiskTierHigh
	}
	if record.Score >= 750 && record.Defaults == 0 && record.LatePayments6M == 0 && record.UtilizationPct <= 30 {
		return domain.RiskTierLow
	}
	return domain.RiskTierMedium
}

func defaultsSummary(defaults int) string {
	if defaults == 0 {
		return "No defaults"
	}
	return fmt.Sprintf("%d default(s) in past 2 years", defaults)
}
