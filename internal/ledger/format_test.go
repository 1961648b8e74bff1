package ledger

import (
	"testing"
	"time"
)

func TestFormatAmount(t *testing.T) {
	cases := map[string]string{
		"0":         "0.00",
		"12.3":      "12.30",
		"999":       "999.00",
		"1000":      "1 000.00",
		"1234567.5": "1 234 567.50",
		"-1234.567": "-1 234.57",
		"100000":    "100 000.00",
		"-50":       "-50.00",
	}
	for in, want := range cases {
		if got := FormatAmount(dec(t, in)); got != want {
			t.Errorf("FormatAmount(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatPercentAndTimestamp(t *testing.T) {
	if got := FormatPercent(dec(t, "3.456")); got != "3,46" {
		t.Fatalf("percent: %q", got)
	}
	if got := FormatTimestamp(time.Time{}, time.UTC); got != "" {
		t.Fatalf("zero timestamp: %q", got)
	}
	loc := time.FixedZone("MSK", 3*3600)
	ts := time.Date(2024, 5, 1, 7, 5, 0, 0, time.UTC)
	if got := FormatTimestamp(ts, loc); got != "01.05.2024 10:05" {
		t.Fatalf("timestamp: %q", got)
	}
}
