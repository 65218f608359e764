package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatINR renders a rupee amount with Indian digit grouping (last three
// digits, then groups of two). Whole amounts omit the paise part.
func FormatINR(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	whole := int64(amount)
	paise := int64(amount*100+0.5) - whole*100
	if paise >= 100 {
		whole++
		paise -= 100
	}

	digits := strconv.FormatInt(whole, 10)
	grouped := digits
	if len(digits) > 3 {
		head := digits[:len(digits)-3]
		var parts []string
		for len(head) > 2 {
			parts = append([]string{head[len(head)-2:]}, parts...)
			head = head[:len(head)-2]
		}
		if head != "" {
			parts = append([]string{head}, parts...)
		}
		grouped = strings.Join(parts, ",") + "," + digits[len(digits)-3:]
	}

	if paise == 0 {
		return sign + grouped
	}
	return fmt.Sprintf("%s%s.%02d", sign, grouped, paise)
}
