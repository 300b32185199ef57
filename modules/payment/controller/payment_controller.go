package controller

import (
	"io"
	"net/http"

	"hiringdesk/core/controller"
	"hiringdesk/core/errors"
	"hiringdesk/core/logger"
	"hiringdesk/modules/payment/dto"
	"hiringdesk/modules/payment/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// PaymentController handles payment HTTP requests
type PaymentController struct {
	controller.BaseController
	PaymentService service.PaymentServiceInterface
}

// NewPaymentController creates a new controller
func NewPaymentController(svc service.PaymentServiceInterface) *PaymentController {
	return &PaymentController{
		BaseController: controller.NewBaseController(),
		PaymentService: svc,
	}
}

// CreateLink handles POST /client/payments/link
func (c *PaymentController) CreateLink(ctx echo.Context) error {
	var req dto.CreateLinkRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.PaymentService.CreateLink(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Payment link ready")
}

// Webhook handles POST /public/payments/webhook. The gateway retries on any
// non-2xx, so processing failures past signature verification still get a
// 200 and are recovered from logs.
func (c *PaymentController) Webhook(ctx echo.Context) error {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Unreadable request body")
	}

	timestamp := ctx.Request().Header.Get("x-webhook-timestamp")
	signature := ctx.Request().Header.Get("x-webhook-signature")

	if appErr := c.PaymentService.ApplyWebhook(ctx.Request().Context(), timestamp, signature, body); appErr != nil {
		if appErr.Code == errors.ErrUnauthorized {
			return c.ErrorResponse(ctx, appErr)
		}
		logger.Error("PaymentController:Webhook:Apply", "error", appErr)
	}

	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// GetRecordPayments handles GET /client/payments/records/:public_id
func (c *PaymentController) GetRecordPayments(ctx echo.Context) error {
	publicID, err := uuid.Parse(ctx.Param("public_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid record public id")
	}

	result, appErr := c.PaymentService.GetRecordPayments(ctx.Request().Context(), publicID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Payments retrieved successfully")
}
