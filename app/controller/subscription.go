package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/planforge/ms-go-plans/app/auth"
	"github.com/planforge/ms-go-plans/app/dto"
	"github.com/planforge/ms-go-plans/app/factory"
	"github.com/planforge/ms-go-plans/app/mapper"
	"github.com/planforge/ms-go-plans/app/pricing"
	"github.com/planforge/ms-go-plans/app/service"
)

type SubscriptionController struct {
	subscriptionService *service.SubscriptionService
	planService         *service.PlanService
	logger              logrus.FieldLogger
}

func NewSubscriptionController(
	subscriptionService *service.SubscriptionService,
	planService *service.PlanService,
) *SubscriptionController {
	return &SubscriptionController{
		subscriptionService: subscriptionService,
		planService:         planService,
		logger:              factory.NewModuleLogger("subscriptions-controller"),
	}
}

func (c *SubscriptionController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &dto.HealthResponse{Status: "ok"})
}

func (c *SubscriptionController) ListPlans(ctx echo.Context) error {
	items, err := c.planService.ListPlans(ctx.Request().Context())
	if err != nil {
		c.logger.WithError(err).Error("List plans failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, mapper.PlansToResponse(items))
}

func (c *SubscriptionController) CreateSubscription(ctx echo.Context) error {
	req, err := dto.NewCreateSubscriptionRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.subscriptionService.Create(ctx.Request().Context(), auth.UserIDFromContext(ctx), req.PlanID, req.Frequency)
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrInvalidFrequency):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrPlanNotFound):
			return c.writeError(ctx, http.StatusNotFound, "plan not found")
		case errors.Is(err, service.ErrActiveSubscriptionExists):
			return c.writeError(ctx, http.StatusConflict, "user already has an active subscription")
		default:
			c.logger.WithError(err).Error("Create subscription failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusCreated, mapper.SubscriptionToResponse(item))
}

func (c *SubscriptionController) SwitchPlan(ctx echo.Context) error {
	req, err := dto.NewCreateSubscriptionRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.subscriptionService.SwitchPlan(ctx.Request().Context(), auth.UserIDFromContext(ctx), req.PlanID, req.Frequency)
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrInvalidFrequency), errors.Is(err, service.ErrDowngradeNotAllowed):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrPlanNotFound):
			return c.writeError(ctx, http.StatusNotFound, "plan not found")
		case errors.Is(err, service.ErrActiveSubscriptionExists):
			return c.writeError(ctx, http.StatusConflict, "user already has an active subscription")
		default:
			c.logger.WithError(err).Error("Switch plan failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusCreated, mapper.SubscriptionToResponse(item))
}

func (c *SubscriptionController) GetSubscription(ctx echo.Context) error {
	req, err := dto.NewSubscriptionIDRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.subscriptionService.Get(ctx.Request().Context(), auth.UserIDFromContext(ctx), req.ID)
	if err != nil {
		if errors.Is(err, service.ErrSubscriptionNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "subscription not found")
		}
		c.logger.WithError(err).Error("Get subscription failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, mapper.SubscriptionToResponse(item))
}

func (c *SubscriptionController) ListSubscriptions(ctx echo.Context) error {
	items, err := c.subscriptionService.List(ctx.Request().Context(), auth.UserIDFromContext(ctx))
	if err != nil {
		c.logger.WithError(err).Error("List subscriptions failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, mapper.SubscriptionsToResponse(items))
}

func (c *SubscriptionController) UpdateSubscription(ctx echo.Context) error {
	req, err := dto.NewUpdateSubscriptionRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.subscriptionService.UpdateFrequency(ctx.Request().Context(), auth.UserIDFromContext(ctx), req.ID, req.Frequency)
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrInvalidFrequency):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrSubscriptionNotFound):
			return c.writeError(ctx, http.StatusNotFound, "subscription not found")
		default:
			c.logger.WithError(err).Error("Update subscription failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, mapper.SubscriptionToResponse(item))
}

func (c *SubscriptionController) DeactivateSubscription(ctx echo.Context) error {
	req, err := dto.NewSubscriptionIDRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	item, err := c.subscriptionService.Deactivate(ctx.Request().Context(), auth.UserIDFromContext(ctx), req.ID)
	if err != nil {
		if errors.Is(err, service.ErrSubscriptionNotFound) {
			return c.writeError(ctx, http.StatusNotFound, "subscription not found or already inactive")
		}
		c.logger.WithError(err).Error("Deactivate subscription failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, mapper.SubscriptionToResponse(item))
}

func (c *SubscriptionController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &dto.ErrorResponse{Error: message})
}
