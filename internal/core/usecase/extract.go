package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/AnshAggr1303/loan-agent-system/internal/core/domain"
)

// Deterministic free-text extraction. These rules are authoritative; the
// language-model fallback only proposes values that are re-validated here.
var (
	panAnywherePattern = regexp.MustCompile(`(?i)[A-Z]{5}[0-9]{4}[A-Z]`)
	numberPattern      = regexp.MustCompile(`\d[\d,]*`)
	tenurePattern      = regexp.MustCompile(`(?i)(\d+)\s*(month|months|mo)\b`)
)

// purposeVocabulary is ordered; the first keyword found in the message wins.
var purposeVocabulary = []struct {
	keywords []string
	purpose  string
}{
	{[]string{"wedding"}, "Wedding"},
	{[]string{"education"}, "Education"},
	{[]string{"medical"}, "Medical"},
	{[]string{"home", "renovation"}, "Home Renovation"},
	{[]string{"business"}, "Business"},
}

func findPAN(message string) (string, bool) {
	match := panAnywherePattern.FindString(message)
	if match == "" {
		return "", false
	}
	return strings.ToUpper(match), true
}

// firstNumber returns the first contiguous numeral in the message, with
// thousands separators stripped.
func firstNumber(message string) (float64, bool) {
	match := numberPattern.FindString(message)
	if match == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// findTenureMonths looks for a numeral immediately preceding a month-unit
// word ("36 months", "24mo").
func findTenureMonths(message string) (int, bool) {
	match := tenurePattern.FindStringSubmatch(message)
	if match == nil {
		return 0, false
	}
	months, err := strconv.Atoi(match[1])
	if err != nil || months <= 0 {
		return 0, false
	}
	return months, true
}

func findPurpose(message string) (string, bool) {
	lower := strings.ToLower(message)
	for _, entry := range purposeVocabulary {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.purpose, true
			}
		}
	}
	return "", false
}

// matchEmployment keyword-matches the employment type; priority order is
// salaried/1, self/2, business/3 and the first hit wins.
func matchEmployment(message string) (domain.EmploymentType, bool) {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "salaried") || strings.Contains(lower, "1"):
		return domain.EmploymentSalaried, true
	case strings.Contains(lower, "self") || strings.Contains(lower, "2"):
		return domain.EmploymentSelfEmployed, true
	case strings.Contains(lower, "business") || strings.Contains(lower, "3"):
		return domain.EmploymentBusiness, true
	default:
		return "", false
	}
}

// Entity helpers for the language-model fallback, which may emit numbers as
// JSON numbers or strings.

func stringEntity(entities map[string]any, key string) string {
	if entities == nil {
		return ""
	}
	value, ok := entities[key]
	if !ok || value == nil {
		return ""
	}
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return ""
	}
}

func numberEntity(entities map[string]any, key string) (float64, bool) {
	if entities == nil {
		return 0, false
	}
	value, ok := entities[key]
	if !ok || value == nil {
		return 0, false
	}
	switch typed := value.(type) {
	case float64:
		return typed, typed > 0
	case int:
		return float64(typed), typed > 0
	case string:
		return firstNumber(typed)
	default:
		return 0, false
	}
}
