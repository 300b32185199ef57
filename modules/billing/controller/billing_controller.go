package controller

import (
	"hiringdesk/core/constants"
	"hiringdesk/core/controller"
	"hiringdesk/core/errors"
	"hiringdesk/core/utils"
	"hiringdesk/modules/billing/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// BillingController serves the finance dashboards
type BillingController struct {
	controller.BaseController
	BillingService service.BillingServiceInterface
}

func NewBillingController(svc service.BillingServiceInterface) *BillingController {
	return &BillingController{
		BaseController: controller.NewBaseController(),
		BillingService: svc,
	}
}

func (c *BillingController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "User not authenticated", nil)
	}

	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data", nil)
	}

	return claims.UserID, nil
}

// GetClientRecords handles GET /client/finance
func (c *BillingController) GetClientRecords(ctx echo.Context) error {
	userID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.BillingService.GetClientRecords(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Billing records retrieved successfully")
}

// GetInterviewerRecords handles GET /interviewer/finance
func (c *BillingController) GetInterviewerRecords(ctx echo.Context) error {
	interviewerID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.BillingService.GetInterviewerRecords(ctx.Request().Context(), interviewerID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Payment records retrieved successfully")
}
