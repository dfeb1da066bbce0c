package mapper

import (
	"time"

	"github.com/planforge/ms-go-plans/app/dto"
	"github.com/planforge/ms-go-plans/app/entity"
)

func FeatureToResponse(item entity.Feature) dto.FeatureResponse {
	return dto.FeatureResponse{
		ID:   item.ID,
		Name: item.Name,
	}
}

func PlanToResponse(item *entity.Plan) *dto.PlanResponse {
	if item == nil {
		return nil
	}

	features := make([]dto.FeatureResponse, 0, len(item.Features))
	for _, feature := range item.Features {
		features = append(features, FeatureToResponse(feature))
	}

	return &dto.PlanResponse{
		ID:       item.ID,
		Name:     item.Name,
		Price:    item.Price.StringFixed(2),
		Features: features,
	}
}

func PlansToResponse(items []*entity.Plan) []*dto.PlanResponse {
	result := make([]*dto.PlanResponse, 0, len(items))
	for _, item := range items {
		result = append(result, PlanToResponse(item))
	}
	return result
}

func SubscriptionToResponse(item *entity.Subscription) *dto.SubscriptionResponse {
	if item == nil {
		return nil
	}

	return &dto.SubscriptionResponse{
		ID:        item.ID,
		Frequency: string(item.Frequency),
		Amount:    item.Amount.StringFixed(2),
		Plan:      PlanToResponse(item.Plan),
		IsActive:  item.IsActive,
		StartDate: item.StartDate.UTC().Format(time.RFC3339),
		EndDate:   item.EndDate.UTC().Format(time.RFC3339),
	}
}

func SubscriptionsToResponse(items []*entity.Subscription) []*dto.SubscriptionResponse {
	result := make([]*dto.SubscriptionResponse, 0, len(items))
	for _, item := range items {
		result = append(result, SubscriptionToResponse(item))
	}
	return result
}
