package service

import "errors"

var (
	ErrPlanNotFound             = errors.New("plan not found")
	ErrSubscriptionNotFound     = errors.New("subscription not found or already inactive")
	ErrActiveSubscriptionExists = errors.New("user already has an active subscription")
	ErrDowngradeNotAllowed      = errors.New("switching to a shorter frequency on the same plan is not allowed")
)
