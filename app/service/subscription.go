package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/planforge/ms-go-plans/app/entity"
	"github.com/planforge/ms-go-plans/app/pricing"
	"github.com/planforge/ms-go-plans/app/repository"
)

type planRepository interface {
	FindByID(ctx context.Context, id uint64) (*entity.Plan, error)
	ListActive(ctx context.Context) ([]*entity.Plan, error)
}

type txManager interface {
	WithinTx(ctx context.Context, fn repository.TxFunc) error
}

// SubscriptionService owns every transition of a user's subscription state.
// Requested input is validated before any row is locked, so invalid requests
// never block or mutate anything.
type SubscriptionService struct {
	store    repository.SubscriptionStore
	planRepo planRepository
	tx       txManager
}

func NewSubscriptionService(
	store repository.SubscriptionStore,
	planRepo planRepository,
	tx txManager,
) *SubscriptionService {
	return &SubscriptionService{
		store:    store,
		planRepo: planRepo,
		tx:       tx,
	}
}

func (s *SubscriptionService) Create(ctx context.Context, userID string, planID uint64, rawFrequency string) (*entity.Subscription, error) {
	plan, frequency, err := s.validateRequest(ctx, planID, rawFrequency)
	if err != nil {
		return nil, err
	}
	return s.createSubscription(ctx, s.store, userID, plan, frequency)
}

// SwitchPlan atomically replaces the user's active subscription. The current
// active row is locked first; concurrent switches for the same user serialize
// on that lock and re-evaluate against the committed state.
func (s *SubscriptionService) SwitchPlan(ctx context.Context, userID string, planID uint64, rawFrequency string) (*entity.Subscription, error) {
	plan, frequency, err := s.validateRequest(ctx, planID, rawFrequency)
	if err != nil {
		return nil, err
	}

	var created *entity.Subscription
	err = s.tx.WithinTx(ctx, func(ctx context.Context, store repository.SubscriptionStore) error {
		current, err := store.FindActiveByUserForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		if current != nil {
			if !pricing.IsUpgrade(current.Frequency, frequency, current.PlanID, plan.ID) {
				return ErrDowngradeNotAllowed
			}
			affected, err := store.Deactivate(ctx, current.ID, userID)
			if err != nil {
				return err
			}
			if affected == 0 {
				return fmt.Errorf("deactivate subscription %d: no rows affected", current.ID)
			}
		}

		created, err = s.createSubscription(ctx, store, userID, plan, frequency)
		return err
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Deactivate is idempotent from the caller's perspective: retrying after a
// success reports the same not-found failure without touching any row.
func (s *SubscriptionService) Deactivate(ctx context.Context, userID string, id uint64) (*entity.Subscription, error) {
	affected, err := s.store.Deactivate(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrSubscriptionNotFound
	}

	item, err := s.store.FindByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrSubscriptionNotFound
	}
	return item, nil
}

func (s *SubscriptionService) Get(ctx context.Context, userID string, id uint64) (*entity.Subscription, error) {
	item, err := s.store.FindByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrSubscriptionNotFound
	}
	return item, nil
}

func (s *SubscriptionService) List(ctx context.Context, userID string) ([]*entity.Subscription, error) {
	return s.store.ListByUser(ctx, userID)
}

// UpdateFrequency changes the billing cadence of an existing subscription.
// Amount and end date are recomputed from the stored plan price and start
// date; they are never taken from the caller.
func (s *SubscriptionService) UpdateFrequency(ctx context.Context, userID string, id uint64, rawFrequency string) (*entity.Subscription, error) {
	frequency, err := pricing.Parse(rawFrequency)
	if err != nil {
		return nil, err
	}

	item, err := s.store.FindByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrSubscriptionNotFound
	}

	item.Frequency = frequency
	item.Amount = pricing.Amount(item.Plan.Price, frequency)
	item.EndDate = pricing.EndDate(item.StartDate, frequency)
	item.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, item); err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}

	return item, nil
}

// RunExpirationBatch deactivates active subscriptions whose end date passed.
func (s *SubscriptionService) RunExpirationBatch(ctx context.Context) (int64, error) {
	return s.store.ExpireEnded(ctx, time.Now().UTC())
}

func (s *SubscriptionService) validateRequest(ctx context.Context, planID uint64, rawFrequency string) (*entity.Plan, pricing.Frequency, error) {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, "", err
	}
	if plan == nil {
		return nil, "", ErrPlanNotFound
	}

	if rawFrequency == "" {
		return plan, pricing.FrequencyMonthly, nil
	}
	frequency, err := pricing.Parse(rawFrequency)
	if err != nil {
		return nil, "", err
	}
	return plan, frequency, nil
}

func (s *SubscriptionService) createSubscription(
	ctx context.Context,
	store repository.SubscriptionStore,
	userID string,
	plan *entity.Plan,
	frequency pricing.Frequency,
) (*entity.Subscription, error) {
	now := time.Now().UTC()
	subscription := &entity.Subscription{
		UserID:    userID,
		PlanID:    plan.ID,
		Plan:      plan,
		Frequency: frequency,
		Amount:    pricing.Amount(plan.Price, frequency),
		StartDate: now,
		EndDate:   pricing.EndDate(now, frequency),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := store.Create(ctx, subscription); err != nil {
		if errors.Is(err, repository.ErrActiveSubscriptionExists) {
			return nil, ErrActiveSubscriptionExists
		}
		return nil, err
	}

	return subscription, nil
}
