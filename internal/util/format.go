package util

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders a native currency amount with exactly two decimals.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// FormatUSD renders a USD value as "$1,234.56".
func FormatUSD(amount decimal.Decimal) string {
	str := amount.StringFixed(2)
	negative := strings.HasPrefix(str, "-")
	str = strings.TrimPrefix(str, "-")

	intPart, decPart, _ := strings.Cut(str, ".")
	intPart = groupThousands(intPart)

	if negative {
		return "-$" + intPart + "." + decPart
	}
	return "$" + intPart + "." + decPart
}

// FormatCount formats an integer with comma thousands separators.
func FormatCount(n int) string {
	s := decimal.NewFromInt(int64(n)).String()
	if strings.HasPrefix(s, "-") {
		return "-" + groupThousands(s[1:])
	}
	return groupThousands(s)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
