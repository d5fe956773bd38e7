package core

import (
	"strings"
	"time"
)

// Formatting always uses en-US month abbreviations and dollar grouping;
// there is no locale configuration.

// FormatCurrency renders |a| as US-dollar currency with two decimals and
// thousands grouping, e.g. "$1,234.50".
func FormatCurrency(a Amount) string {
	s := a.Decimal.Abs().StringFixed(2)
	dot := strings.IndexByte(s, '.')
	return "$" + groupThousands(s[:dot]) + s[dot:]
}

// FormatDate renders a stored date as "Jan 5, 2024". It accepts both the
// calendar-date layout used by Transaction.Date and the ISO-8601 timestamps
// used by CreatedAt. Unparseable input is returned unchanged.
func FormatDate(date string) string {
	if t, err := time.Parse(DateLayout, date); err == nil {
		return t.Format("Jan 2, 2006")
	}
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		return t.Format("Jan 2, 2006")
	}
	return date
}

// FormatMonthLabel renders a "YYYY-MM" group key as "Jan 2024" for the chart's
// category axis. Unparseable keys are returned unchanged.
func FormatMonthLabel(key string) string {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return key
	}
	return t.Format("Jan 2006")
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	pre := len(digits) % 3
	if pre > 0 {
		b.WriteString(digits[:pre])
	}
	for i := pre; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
