package common

import (
	"fmt"
	"strings"
)

// FormatMoney formats a dollar amount with thousands separation,
// e.g. 1234567.89 -> "$1,234,567.89".
func FormatMoney(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.2f", v)
	parts := strings.SplitN(s, ".", 2)
	out := GroupThousands(parts[0])
	if neg {
		return "-$" + out + "." + parts[1]
	}
	return "$" + out + "." + parts[1]
}

// GroupThousands inserts commas into a string of digits.
func GroupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var sb strings.Builder
	rem := n % 3
	if rem > 0 {
		sb.WriteString(digits[:rem])
	}
	for i := rem; i < n; i += 3 {
		if sb.Len() > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(digits[i : i+3])
	}
	return sb.String()
}
