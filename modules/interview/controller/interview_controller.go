package controller

import (
	"hiringdesk/core/constants"
	"hiringdesk/core/controller"
	"hiringdesk/core/errors"
	"hiringdesk/core/utils"
	"hiringdesk/modules/interview/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// InterviewController handles interview HTTP requests
type InterviewController struct {
	controller.BaseController
	InterviewService service.InterviewServiceInterface
}

func NewInterviewController(svc service.InterviewServiceInterface) *InterviewController {
	return &InterviewController{
		BaseController:   controller.NewBaseController(),
		InterviewService: svc,
	}
}

func (c *InterviewController) getUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// GetMyInterviews handles GET /interviewer/interviews
func (c *InterviewController) GetMyInterviews(ctx echo.Context) error {
	interviewerID, err := c.getUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.InterviewService.GetMyInterviews(ctx.Request().Context(), interviewerID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Interviews retrieved successfully")
}

// GetCandidateInterviews handles GET /candidates/:id/interviews
func (c *InterviewController) GetCandidateInterviews(ctx echo.Context) error {
	candidateID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid candidate id")
	}

	result, appErr := c.InterviewService.GetCandidateInterviews(ctx.Request().Context(), candidateID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Interviews retrieved successfully")
}

// GetInterview handles GET /interviews/:id
func (c *InterviewController) GetInterview(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid interview id")
	}

	result, appErr := c.InterviewService.GetInterview(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Interview retrieved successfully")
}
