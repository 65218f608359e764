package usecase

import (
	"testing"

	"github.com/AnshAggr1303/loan-agent-system/internal/core/domain"
)

func TestFindPAN(t *testing.T) {
	tests := []struct {
		message string
		want    string
		ok      bool
	}{
		{"ABCDE1234F", "ABCDE1234F", true},
		{"my pan is abcde1234f, thanks", "ABCDE1234F", true},
		{"PAN: FGHIJ5678K end", "FGHIJ5678K", true},
		{"ABCD1234F", "", false},  // four leading letters
		{"ABCDE123F", "", false},  // three digits
		{"no pan here 1234", "", false},
	}
	for _, tt := range tests {
		got, ok := findPAN(tt.message)
		if ok != tt.ok || got != tt.want {
			t.Errorf("findPAN(%q) = (%q, %v), want (%q, %v)", tt.message, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFirstNumber(t *testing.T) {
	tests := []struct {
		message string
		want    float64
		ok      bool
	}{
		{"50000", 50000, true},
		{"I earn 50000 per month", 50000, true},
		{"3,00,000 for a wedding", 300000, true},
		{"around 45,000 rupees", 45000, true},
		{"none", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := firstNumber(tt.message)
		if ok != tt.ok || got != tt.want {
			t.Errorf("firstNumber(%q) = (%v, %v), want (%v, %v)", tt.message, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFindTenureMonths(t *testing.T) {
	tests := []struct {
		message string
		want    int
		ok      bool
	}{
		{"over 24 months", 24, true},
		{"36mo", 36, true},
		{"12 month plan", 12, true},
		{"300000 for a wedding", 0, false},
		{"months", 0, false},
	}
	for _, tt := range tests {
		got, ok := findTenureMonths(tt.message)
		if ok != tt.ok || got != tt.want {
			t.Errorf("findTenureMonths(%q) = (%d, %v), want (%d, %v)", tt.message, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFindTenureStrippedBeforeAmount(t *testing.T) {
	// The loan-details stage removes the tenure phrase before reading the
	// amount, so the month count must not be mistaken for the amount.
	message := "24 months for 300000"
	if got, _ := firstNumber(tenurePattern.ReplaceAllString(message, "")); got != 300000 {
		t.Fatalf("amount after tenure strip = %v, want 300000", got)
	}
}

func TestFindPurpose(t *testing.T) {
	tests := []struct {
		message string
		want    string
		ok      bool
	}{
		{"for my wedding", "Wedding", true},
		{"EDUCATION loan please", "Education", true},
		{"medical emergency", "Medical", true},
		{"home renovation", "Home Renovation", true},
		{"renovation work", "Home Renovation", true},
		{"to expand my business", "Business", true},
		{"for a vacation", "", false},
	}
	for _, tt := range tests {
		got, ok := findPurpose(tt.message)
		if ok != tt.ok || got != tt.want {
			t.Errorf("findPurpose(%q) = (%q, %v), want (%q, %v)", tt.message, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMatchEmployment(t *testing.T) {
	tests := []struct {
		message string
		want    domain.EmploymentType
		ok      bool
	}{
		{"1", domain.EmploymentSalaried, true},
		{"I am salaried", domain.EmploymentSalaried, true},
		{"self-employed", domain.EmploymentSelfEmployed, true},
		{"2", domain.EmploymentSelfEmployed, true},
		{"business owner", domain.EmploymentBusiness, true},
		{"3", domain.EmploymentBusiness, true},
		{"unemployed right now", domain.EmploymentType(""), false},
	}
	for _, tt := range tests {
		got, ok := matchEmployment(tt.message)
		if ok != tt.ok || got != tt.want {
			t.Errorf("matchEmployment(%q) = (%q, %v), want (%q, %v)", tt.message, got, ok, tt.want, tt.ok)
		}
	}
}

func TestStringEntity(t *testing.T) {
	entities := map[string]any{
		"pan_number": "  abcde1234f  ",
		"tenure":     24.0,
		"nested":     map[string]any{},
	}
	if got := stringEntity(entities, "pan_number"); got != "abcde1234f" {
		t.Errorf("stringEntity pan_number = %q", got)
	}
	if got := stringEntity(entities, "tenure"); got != "24" {
		t.Errorf("stringEntity tenure = %q", got)
	}
	if got := stringEntity(entities, "nested"); got != "" {
		t.Errorf("stringEntity nested = %q, want empty", got)
	}
	if got := stringEntity(nil, "pan_number"); got != "" {
		t.Errorf("stringEntity on nil map = %q, want empty", got)
	}
}

func TestNumberEntity(t *testing.T) {
	entities := map[string]any{
		"loan_amount":    300000.0,
		"income_string":  "50,000",
		"zero":           0.0,
		"not_a_number":   "soon",
		"missing_is_nil": nil,
	}
	if got, ok := numberEntity(entities, "loan_amount"); !ok || got != 300000 {
		t.Errorf("numberEntity loan_amount = (%v, %v)", got, ok)
	}
	if got, ok := numberEntity(entities, "income_string"); !ok || got != 50000 {
		t.Errorf("numberEntity income_string = (%v, %v)", got, ok)
	}
	if _, ok := numberEntity(entities, "zero"); ok {
		t.Errorf("numberEntity zero must not be usable")
	}
	if _, ok := numberEntity(entities, "not_a_number"); ok {
		t.Errorf("numberEntity non-numeric string must not parse")
	}
	if _, ok := numberEntity(entities, "missing_is_nil"); ok {
		t.Errorf("numberEntity nil value must not parse")
	}
	if _, ok := numberEntity(nil, "loan_amount"); ok {
		t.Errorf("numberEntity on nil map must fail")
	}
}
