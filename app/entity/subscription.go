package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/planforge/ms-go-plans/app/pricing"
)

type Subscription struct {
	ID        uint64
	UserID    string
	PlanID    uint64
	Plan      *Plan
	Frequency pricing.Frequency
	Amount    decimal.Decimal
	StartDate time.Time
	EndDate   time.Time
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
