package dto

import (
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

type CreateSubscriptionRequest struct {
	PlanID    uint64 `json:"plan_id"`
	Frequency string `json:"frequency"`
}

func NewCreateSubscriptionRequestFromContext(ctx echo.Context) (*CreateSubscriptionRequest, error) {
	var body CreateSubscriptionRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.Frequency = strings.TrimSpace(body.Frequency)
	return &body, nil
}

func (r *CreateSubscriptionRequest) Validate() error {
	if r.PlanID == 0 {
		return errors.New("plan_id is required")
	}
	return nil
}

type UpdateSubscriptionRequest struct {
	ID        uint64 `json:"-"`
	Frequency string `json:"frequency"`
}

func NewUpdateSubscriptionRequestFromContext(ctx echo.Context) (*UpdateSubscriptionRequest, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return nil, err
	}

	var body UpdateSubscriptionRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.ID = id
	body.Frequency = strings.TrimSpace(body.Frequency)
	return &body, nil
}

func (r *UpdateSubscriptionRequest) Validate() error {
	if r.ID == 0 {
		return errors.New("invalid subscription id")
	}
	if r.Frequency == "" {
		return errors.New("frequency is required")
	}
	return nil
}

type SubscriptionIDRequest struct {
	ID uint64
}

func NewSubscriptionIDRequestFromContext(ctx echo.Context) (*SubscriptionIDRequest, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return nil, err
	}
	return &SubscriptionIDRequest{ID: id}, nil
}

func (r *SubscriptionIDRequest) Validate() error {
	if r.ID == 0 {
		return errors.New("invalid subscription id")
	}
	return nil
}

type FeatureResponse struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type PlanResponse struct {
	ID       uint64            `json:"id"`
	Name     string            `json:"name"`
	Price    string            `json:"price"`
	Features []FeatureResponse `json:"features"`
}

type SubscriptionResponse struct {
	ID        uint64        `json:"id"`
	Frequency string        `json:"frequency"`
	Amount    string        `json:"amount"`
	Plan      *PlanResponse `json:"plan"`
	IsActive  bool          `json:"is_active"`
	StartDate string        `json:"start_date"`
	EndDate   string        `json:"end_date"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
