package controller

import (
	"hiringdesk/core/constants"
	"hiringdesk/core/controller"
	"hiringdesk/core/errors"
	"hiringdesk/core/utils"
	"hiringdesk/modules/feedback/dto"
	"hiringdesk/modules/feedback/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// FeedbackController handles feedback HTTP requests
type FeedbackController struct {
	controller.BaseController
	FeedbackService service.FeedbackServiceInterface
}

// NewFeedbackController creates a new controller
func NewFeedbackController(svc service.FeedbackServiceInterface) *FeedbackController {
	return &FeedbackController{
		BaseController:  controller.NewBaseController(),
		FeedbackService: svc,
	}
}

func (c *FeedbackController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// Submit handles POST /interviewer/feedback
func (c *FeedbackController) Submit(ctx echo.Context) error {
	interviewerID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.SubmitFeedbackRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.FeedbackService.Submit(ctx.Request().Context(), interviewerID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Feedback submitted successfully")
}

// GetByInterview handles GET /interviews/:id/feedback
func (c *FeedbackController) GetByInterview(ctx echo.Context) error {
	interviewID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid interview id")
	}

	result, appErr := c.FeedbackService.GetByInterview(ctx.Request().Context(), interviewID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Feedback retrieved successfully")
}

// RateInterviewer handles POST /public/interviews/:id/rating
func (c *FeedbackController) RateInterviewer(ctx echo.Context) error {
	interviewID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid interview id")
	}

	var req dto.RateInterviewerRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	if appErr := c.FeedbackService.RateInterviewer(ctx.Request().Context(), interviewID, &req); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Rating recorded successfully")
}
