package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatAmount renders a currency value with two decimals and thousands
// grouped by a space, e.g. "-1 234 567.50".
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(places)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// FormatPercent renders a percentage with two decimals and a decimal comma.
func FormatPercent(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(places), ".", ",", 1)
}

// FormatTimestamp renders a record time as dd.MM.yyyy HH:mm in loc.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("02.01.2006 15:04")
}
