package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/planforge/ms-go-plans/app/entity"
)

type PlanRepository struct {
	db DBTX
}

func NewPlanRepository(db DBTX) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) FindByID(ctx context.Context, id uint64) (*entity.Plan, error) {
	query := `
		SELECT id, name, price, is_active, created_at
		FROM plans
		WHERE id = ?
	`

	item := &entity.Plan{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.Name,
		&item.Price,
		&item.IsActive,
		&item.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	featuresByPlan, err := loadFeaturesByPlanIDs(ctx, r.db, []uint64{item.ID})
	if err != nil {
		return nil, err
	}
	item.Features = featuresByPlan[item.ID]
	return item, nil
}

func (r *PlanRepository) ListActive(ctx context.Context) ([]*entity.Plan, error) {
	query := `
		SELECT id, name, price, is_active, created_at
		FROM plans
		WHERE is_active = 1
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*entity.Plan, 0)
	planIDs := make([]uint64, 0)
	for rows.Next() {
		item := &entity.Plan{}
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.IsActive, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
		planIDs = append(planIDs, item.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(planIDs) > 0 {
		featuresByPlan, err := loadFeaturesByPlanIDs(ctx, r.db, planIDs)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			item.Features = featuresByPlan[item.ID]
		}
	}
	return items, nil
}

func loadFeaturesByPlanIDs(ctx context.Context, db DBTX, planIDs []uint64) (map[uint64][]entity.Feature, error) {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(planIDs)), ",")
	query := `
		SELECT pf.plan_id, f.id, f.name, f.created_at
		FROM plan_features pf
		JOIN features f ON f.id = pf.feature_id
		WHERE pf.plan_id IN (` + placeholders + `)
		ORDER BY f.name ASC
	`

	args := make([]interface{}, 0, len(planIDs))
	for _, id := range planIDs {
		args = append(args, id)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[uint64][]entity.Feature, len(planIDs))
	for rows.Next() {
		var planID uint64
		var feature entity.Feature
		if err := rows.Scan(&planID, &feature.ID, &feature.Name, &feature.CreatedAt); err != nil {
			return nil, err
		}
		result[planID] = append(result[planID], feature)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
