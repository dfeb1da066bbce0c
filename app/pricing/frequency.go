package pricing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidFrequency = errors.New("invalid frequency")

type Frequency string

const (
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// frequencyOrder ranks billing cadences; strictly longer cadences rank higher.
var frequencyOrder = map[Frequency]int{
	FrequencyWeekly:  1,
	FrequencyMonthly: 2,
	FrequencyYearly:  3,
}

func Parse(raw string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := frequencyOrder[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidFrequency, raw)
	}
	return f, nil
}

func Order(f Frequency) (int, error) {
	rank, ok := frequencyOrder[f]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFrequency, f)
	}
	return rank, nil
}

// Amount derives the billed amount from the plan's monthly base price.
// The weekly rate is monthly/4 by policy, not a calendar-accurate rate.
func Amount(price decimal.Decimal, f Frequency) decimal.Decimal {
	switch f {
	case FrequencyYearly:
		return price.Mul(decimal.NewFromInt(12))
	case FrequencyWeekly:
		return price.Div(decimal.NewFromInt(4))
	default:
		return price
	}
}

// EndDate derives the period end from the start. Monthly and yearly use
// fixed 30/365 day windows, not month-aware arithmetic.
func EndDate(start time.Time, f Frequency) time.Time {
	switch f {
	case FrequencyWeekly:
		return start.Add(7 * 24 * time.Hour)
	case FrequencyYearly:
		return start.Add(365 * 24 * time.Hour)
	default:
		return start.Add(30 * 24 * time.Hour)
	}
}

// IsUpgrade reports whether a transition is allowed: any plan change is,
// and a same-plan change must move to a strictly longer frequency.
func IsUpgrade(oldFreq, newFreq Frequency, oldPlanID, newPlanID uint64) bool {
	if oldPlanID != newPlanID {
		return true
	}
	oldRank, err := Order(oldFreq)
	if err != nil {
		return false
	}
	newRank, err := Order(newFreq)
	if err != nil {
		return false
	}
	return newRank > oldRank
}
