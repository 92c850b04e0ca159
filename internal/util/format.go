package util

import (
	"strconv"

	"github.com/dustin/go-humanize"
)

// FormatPHP converts a decimal amount string as returned by the delivery
// provider (e.g. "1250.00") into display form, e.g. "₱1,250.00".
func FormatPHP(amount string) string {
	value, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return "₱" + amount
	}

	return "₱" + humanize.CommafWithDigits(value, 2)
}

func TruncateContent(title string, maxLength int) string {
	if len(title) <= maxLength {
		return title
	}
	return title[:maxLength] + "..."
}

func StringPointer(s string) *string {
	return &s
}
