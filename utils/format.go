package utils

import (
	"fmt"
	"strings"
)

// FormatINR renders an amount as Indian Rupees with Indian digit grouping,
// e.g. 1234567.5 → "₹12,34,567.50". The last three integer digits form one
// group, every pair before that forms another.
func FormatINR(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	whole := int64(amount)
	frac := int64(amount*100+0.5) - whole*100
	if frac >= 100 {
		whole++
		frac -= 100
	}

	digits := fmt.Sprintf("%d", whole)
	var groups []string
	if len(digits) > 3 {
		head := digits[:len(digits)-3]
		groups = append(groups, digits[len(digits)-3:])
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
	} else {
		groups = []string{digits}
	}

	out := fmt.Sprintf("₹%s.%02d", strings.Join(groups, ","), frac)
	if neg {
		return "-" + out
	}
	return out
}
