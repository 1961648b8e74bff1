package core

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidInstant = errors.New("invalid date-time")

// instantLayouts are tried in order; layouts without an offset are read in the
// business location.
var instantLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"20060102T150405",
	"20060102T1504",
	"20060102",
}

// ParseNumber reads a numeric cell. Blank or unparseable text yields an
// invalid NullDecimal. Spaces (including non-breaking ones) are thousands
// separators. A lone comma is a decimal comma; when commas and dots are mixed
// the last one is the decimal separator and the other groups thousands.
func ParseNumber(s string) decimal.NullDecimal {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
	if s == "" {
		return decimal.NullDecimal{}
	}
	s, ok := normalizeSeparators(s)
	if !ok {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// normalizeSeparators rewrites s with a dot as the only separator.
func normalizeSeparators(s string) (string, bool) {
	commas, dots := strings.Count(s, ","), strings.Count(s, ".")
	var group, dec string
	switch {
	case commas == 0 && dots <= 1:
		return s, true
	case commas == 0:
		group = "."
	case dots == 0 && commas == 1:
		return strings.Replace(s, ",", ".", 1), true
	case dots == 0:
		group = ","
	case strings.LastIndex(s, ",") > strings.LastIndex(s, "."):
		if commas > 1 {
			return "", false
		}
		group, dec = ".", ","
	default:
		if dots > 1 {
			return "", false
		}
		group, dec = ",", "."
	}

	whole, frac := s, ""
	if dec != "" {
		i := strings.LastIndex(s, dec)
		whole, frac = s[:i], "."+s[i+1:]
	}
	parts := strings.Split(whole, group)
	if strings.TrimLeft(parts[0], "+-") == "" {
		return "", false
	}
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return "", false
		}
	}
	return strings.Join(parts, "") + frac, true
}

// NumberFromAny converts a loosely typed cell (as returned by spreadsheet APIs
// or JSON decoding) into a NullDecimal.
func NumberFromAny(v any) decimal.NullDecimal {
	switch n := v.(type) {
	case nil:
		return decimal.NullDecimal{}
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.NullDecimal{}
		}
		return decimal.NewNullDecimal(decimal.NewFromFloat(n))
	case float32:
		return NumberFromAny(float64(n))
	case int:
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(n)))
	case int64:
		return decimal.NewNullDecimal(decimal.NewFromInt(n))
	case decimal.Decimal:
		return decimal.NewNullDecimal(n)
	case string:
		return ParseNumber(n)
	default:
		return decimal.NullDecimal{}
	}
}

// ParseInstant parses an ISO-8601 date or date-time. Values without an explicit
// offset are interpreted in loc.
func ParseInstant(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidInstant
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidInstant
}

// InstantFromAny converts a timestamp cell. Numbers are Unix seconds, which is
// how spreadsheet exports and SQLite integer columns carry them. Text is read
// as ISO-8601 first, so a basic date like 20240115 is not taken for seconds.
func InstantFromAny(v any, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, ErrInvalidInstant
		}
		return t.In(loc), nil
	case float64:
		sec, frac := math.Modf(t)
		return time.Unix(int64(sec), int64(frac*1e9)).In(loc), nil
	case int64:
		return time.Unix(t, 0).In(loc), nil
	case int:
		return time.Unix(int64(t), 0).In(loc), nil
	case string:
		parsed, err := ParseInstant(t, loc)
		if err == nil {
			return parsed, nil
		}
		if sec, serr := strconv.ParseInt(strings.TrimSpace(t), 10, 64); serr == nil {
			return time.Unix(sec, 0).In(loc), nil
		}
		return time.Time{}, err
	default:
		return time.Time{}, ErrInvalidInstant
	}
}
