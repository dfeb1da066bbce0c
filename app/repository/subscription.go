package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/planforge/ms-go-plans/app/entity"
	"github.com/planforge/ms-go-plans/app/pricing"
)

var (
	ErrSubscriptionNotFound     = errors.New("subscription not found")
	ErrActiveSubscriptionExists = errors.New("user already has an active subscription")
)

// SubscriptionStore is the persistence contract the lifecycle service works
// against, both outside and inside a transaction.
type SubscriptionStore interface {
	Create(ctx context.Context, subscription *entity.Subscription) error
	FindActiveByUserForUpdate(ctx context.Context, userID string) (*entity.Subscription, error)
	FindByIDForUser(ctx context.Context, id uint64, userID string) (*entity.Subscription, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Subscription, error)
	Deactivate(ctx context.Context, id uint64, userID string) (int64, error)
	Update(ctx context.Context, subscription *entity.Subscription) error
	ExpireEnded(ctx context.Context, now time.Time) (int64, error)
}

type SubscriptionRepository struct {
	db DBTX
}

func NewSubscriptionRepository(db DBTX) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, subscription *entity.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			user_id, plan_id, frequency, amount,
			start_date, end_date, is_active,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		subscription.UserID,
		subscription.PlanID,
		string(subscription.Frequency),
		subscription.Amount,
		subscription.StartDate,
		subscription.EndDate,
		subscription.IsActive,
		subscription.CreatedAt,
		subscription.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrActiveSubscriptionExists
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	subscription.ID = uint64(id)
	return nil
}

// FindActiveByUserForUpdate locks the user's active row for the duration of
// the surrounding transaction. Rows of other users are never touched.
func (r *SubscriptionRepository) FindActiveByUserForUpdate(ctx context.Context, userID string) (*entity.Subscription, error) {
	query := `
		SELECT id, user_id, plan_id, frequency, amount,
		       start_date, end_date, is_active,
		       created_at, updated_at
		FROM subscriptions
		WHERE user_id = ? AND is_active = 1
		LIMIT 1
		FOR UPDATE
	`

	item := &entity.Subscription{}
	if err := scanSubscription(r.db.QueryRowContext(ctx, query, userID), item); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return item, nil
}

func (r *SubscriptionRepository) FindByIDForUser(ctx context.Context, id uint64, userID string) (*entity.Subscription, error) {
	query := subscriptionWithPlanSelect + `
		WHERE s.id = ? AND s.user_id = ?
	`

	item := &entity.Subscription{}
	if err := scanSubscriptionWithPlan(r.db.QueryRowContext(ctx, query, id, userID), item); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	if err := attachFeatures(ctx, r.db, []*entity.Subscription{item}); err != nil {
		return nil, err
	}
	return item, nil
}

func (r *SubscriptionRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Subscription, error) {
	query := subscriptionWithPlanSelect + `
		WHERE s.user_id = ?
		ORDER BY s.created_at DESC, s.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.Subscription, 0)
	for rows.Next() {
		item := &entity.Subscription{}
		if err := scanSubscriptionWithPlan(rows, item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := attachFeatures(ctx, r.db, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Deactivate flips is_active off for the caller's row. Returns the number of
// rows changed; 0 means the row is absent, foreign, or already inactive.
func (r *SubscriptionRepository) Deactivate(ctx context.Context, id uint64, userID string) (int64, error) {
	query := `
		UPDATE subscriptions
		SET is_active = 0, updated_at = ?
		WHERE id = ? AND user_id = ? AND is_active = 1
	`

	result, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *SubscriptionRepository) Update(ctx context.Context, subscription *entity.Subscription) error {
	query := `
		UPDATE subscriptions
		SET frequency = ?, amount = ?, end_date = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		string(subscription.Frequency),
		subscription.Amount,
		subscription.EndDate,
		subscription.UpdatedAt,
		subscription.ID,
		subscription.UserID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrSubscriptionNotFound
	}

	return nil
}

func (r *SubscriptionRepository) ExpireEnded(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE subscriptions
		SET is_active = 0, updated_at = ?
		WHERE is_active = 1 AND end_date < ?
	`

	result, err := r.db.ExecContext(ctx, query, now, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const subscriptionWithPlanSelect = `
		SELECT s.id, s.user_id, s.plan_id, s.frequency, s.amount,
		       s.start_date, s.end_date, s.is_active,
		       s.created_at, s.updated_at,
		       p.id, p.name, p.price, p.is_active, p.created_at
		FROM subscriptions s
		JOIN plans p ON p.id = s.plan_id
`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSubscription(scanner rowScanner, item *entity.Subscription) error {
	var frequency string
	if err := scanner.Scan(
		&item.ID,
		&item.UserID,
		&item.PlanID,
		&frequency,
		&item.Amount,
		&item.StartDate,
		&item.EndDate,
		&item.IsActive,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return err
	}
	item.Frequency = pricing.Frequency(frequency)
	return nil
}

func scanSubscriptionWithPlan(scanner rowScanner, item *entity.Subscription) error {
	var frequency string
	plan := &entity.Plan{}
	if err := scanner.Scan(
		&item.ID,
		&item.UserID,
		&item.PlanID,
		&frequency,
		&item.Amount,
		&item.StartDate,
		&item.EndDate,
		&item.IsActive,
		&item.CreatedAt,
		&item.UpdatedAt,
		&plan.ID,
		&plan.Name,
		&plan.Price,
		&plan.IsActive,
		&plan.CreatedAt,
	); err != nil {
		return err
	}
	item.Frequency = pricing.Frequency(frequency)
	item.Plan = plan
	return nil
}

// attachFeatures resolves plan features for all subscriptions with a single
// IN query instead of one query per row.
func attachFeatures(ctx context.Context, db DBTX, items []*entity.Subscription) error {
	planIDs := make([]uint64, 0, len(items))
	seen := make(map[uint64]bool, len(items))
	for _, item := range items {
		if item.Plan == nil || seen[item.Plan.ID] {
			continue
		}
		seen[item.Plan.ID] = true
		planIDs = append(planIDs, item.Plan.ID)
	}
	if len(planIDs) == 0 {
		return nil
	}

	featuresByPlan, err := loadFeaturesByPlanIDs(ctx, db, planIDs)
	if err != nil {
		return err
	}
	for _, item := range items {
		if item.Plan != nil {
			item.Plan.Features = featuresByPlan[item.Plan.ID]
		}
	}
	return nil
}
