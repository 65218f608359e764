package letters

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/AnshAggr1303/loan-agent-system/internal/core/domain"
)

type memoryStorage struct {
	saved map[string][]byte
}

func (m *memoryStorage) Save(_ context.Context, key string, data io.Reader) error {
	if m.saved == nil {
		m.saved = map[string][]byte{}
	}
	body, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	m.saved[key] = body
	return nil
}

func (m *memoryStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m.saved[key])), nil
}

func approvedApplication() *domain.LoanApplication {
	return &domain.LoanApplication{
		ID:              "app-42",
		SessionID:       "s-1",
		PANNumber:       "ABCDE1234F",
		FullName:        "Rahul Sharma",
		EmploymentType:  domain.EmploymentSalaried,
		MonthlyIncome:   50000,
		RequestedAmount: 300000,
		LoanPurpose:     "Wedding",
		TenureMonths:    24,
		Decision: domain.Decision{
			Approved:         true,
			SanctionedAmount: 300000,
			InterestRate:     10.5,
			TenureMonths:     24,
			MonthlyEMI:       13912.81,
			DTIRatio:         27.83,
		},
	}
}

func TestRenderSanctionLetterWritesDerivedFigures(t *testing.T) {
	storage := &memoryStorage{}
	renderer := NewRenderer(storage)
	renderer.now = func() time.Time { return time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC) }

	key, err := renderer.RenderSanctionLetter(context.Background(), approvedApplication())
	if err != nil {
		t.Fatalf("RenderSanctionLetter() error = %v", err)
	}
	if key != "sanction-letter-app-42.txt" {
		t.Fatalf("unexpected key %q", key)
	}

	body := string(storage.saved[key])
	for _, want := range []string{
		"Rahul Sharma",
		"ABCDE1234F",
		"Rs. 3,00,000",
		"10.5% per annum",
		"24 months",
		"Rs. 13,912.81",
		// 1% of 3,00,000.
		"Processing fee       : Rs. 3,000",
		"01 March 2026",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("letter missing %q:\n%s", want, body)
		}
	}
}

func TestRenderSanctionLetterRejectsUnapproved(t *testing.T) {
	renderer := NewRenderer(&memoryStorage{})

	app := approvedApplication()
	app.Decision.Approved = false
	if _, err := renderer.RenderSanctionLetter(context.Background(), app); err == nil {
		t.Fatalf("expected error for unapproved application")
	}
}
