package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseAcceptsKnownFrequencies(t *testing.T) {
	cases := map[string]Frequency{
		"weekly":    FrequencyWeekly,
		"monthly":   FrequencyMonthly,
		"yearly":    FrequencyYearly,
		" Monthly ": FrequencyMonthly,
		"YEARLY":    FrequencyYearly,
	}
	for raw, want := range cases {
		got, err := Parse(raw)
		if err != nil {
			t.Fatalf("Parse(%q): expected no error, got %v", raw, err)
		}
		if got != want {
			t.Fatalf("Parse(%q): expected %q, got %q", raw, want, got)
		}
	}
}

func TestParseRejectsUnknownFrequency(t *testing.T) {
	for _, raw := range []string{"daily", "quarterly", "", "month"} {
		if _, err := Parse(raw); !errors.Is(err, ErrInvalidFrequency) {
			t.Fatalf("Parse(%q): expected ErrInvalidFrequency, got %v", raw, err)
		}
	}
}

func TestOrderRanksFrequencies(t *testing.T) {
	weekly, _ := Order(FrequencyWeekly)
	monthly, _ := Order(FrequencyMonthly)
	yearly, _ := Order(FrequencyYearly)
	if !(weekly < monthly && monthly < yearly) {
		t.Fatalf("expected weekly < monthly < yearly, got %d %d %d", weekly, monthly, yearly)
	}
	if _, err := Order(Frequency("daily")); !errors.Is(err, ErrInvalidFrequency) {
		t.Fatalf("expected ErrInvalidFrequency, got %v", err)
	}
}

func TestAmountDerivation(t *testing.T) {
	price := decimal.RequireFromString("10.00")

	cases := []struct {
		freq Frequency
		want string
	}{
		{FrequencyMonthly, "10.00"},
		{FrequencyYearly, "120.00"},
		{FrequencyWeekly, "2.50"},
	}
	for _, tc := range cases {
		got := Amount(price, tc.freq)
		if got.StringFixed(2) != tc.want {
			t.Fatalf("Amount(10.00, %s): expected %s, got %s", tc.freq, tc.want, got.StringFixed(2))
		}
	}
}

func TestAmountUnrecognizedFrequencyFallsBackToBase(t *testing.T) {
	price := decimal.RequireFromString("9.99")
	if got := Amount(price, Frequency("daily")); !got.Equal(price) {
		t.Fatalf("expected base price fallback, got %s", got)
	}
}

func TestEndDateDerivation(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		freq Frequency
		days int
	}{
		{FrequencyWeekly, 7},
		{FrequencyMonthly, 30},
		{FrequencyYearly, 365},
	}
	for _, tc := range cases {
		want := start.Add(time.Duration(tc.days) * 24 * time.Hour)
		if got := EndDate(start, tc.freq); !got.Equal(want) {
			t.Fatalf("EndDate(%s): expected %v, got %v", tc.freq, want, got)
		}
	}
}

func TestEndDateUnrecognizedFrequencyFallsBackToMonthly(t *testing.T) {
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	want := start.Add(30 * 24 * time.Hour)
	if got := EndDate(start, Frequency("daily")); !got.Equal(want) {
		t.Fatalf("expected monthly fallback, got %v", got)
	}
}

func TestIsUpgradePlanChangeAlwaysAllowed(t *testing.T) {
	if !IsUpgrade(FrequencyMonthly, FrequencyWeekly, 1, 2) {
		t.Fatal("plan change with shorter frequency should be allowed")
	}
	if !IsUpgrade(FrequencyYearly, FrequencyWeekly, 1, 2) {
		t.Fatal("plan change should be allowed regardless of frequency direction")
	}
}

func TestIsUpgradeSamePlanRequiresLongerFrequency(t *testing.T) {
	if IsUpgrade(FrequencyMonthly, FrequencyWeekly, 1, 1) {
		t.Fatal("same-plan monthly->weekly should be rejected")
	}
	if IsUpgrade(FrequencyMonthly, FrequencyMonthly, 1, 1) {
		t.Fatal("same-plan same-frequency should be rejected")
	}
	if !IsUpgrade(FrequencyWeekly, FrequencyMonthly, 1, 1) {
		t.Fatal("same-plan weekly->monthly should be allowed")
	}
	if !IsUpgrade(FrequencyMonthly, FrequencyYearly, 1, 1) {
		t.Fatal("same-plan monthly->yearly should be allowed")
	}
}
