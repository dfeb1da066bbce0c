package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Feature struct {
	ID        uint64
	Name      string
	CreatedAt time.Time
}

type Plan struct {
	ID        uint64
	Name      string
	Price     decimal.Decimal
	IsActive  bool
	Features  []Feature
	CreatedAt time.Time
}
