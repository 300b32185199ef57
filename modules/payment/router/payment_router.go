package router

import (
	"hiringdesk/core/middleware"
	"hiringdesk/modules/payment/controller"

	"github.com/labstack/echo/v4"
)

// PaymentRouter handles payment routes
type PaymentRouter struct {
	PaymentController *controller.PaymentController
}

// NewPaymentRouter creates a new router
func NewPaymentRouter(paymentController *controller.PaymentController) *PaymentRouter {
	return &PaymentRouter{
		PaymentController: paymentController,
	}
}

// Setup registers payment routes
func (r *PaymentRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")
	publicRoutes := v1.Group("/public")

	clientRoutes := privateRoutes.Group("/client/payments",
		mw.AuthMiddleware(), mw.RequireRole("client", "admin"))
	clientRoutes.POST("/link", r.PaymentController.CreateLink)
	clientRoutes.GET("/records/:public_id", r.PaymentController.GetRecordPayments)

	// Gateway callback, authenticated by signature instead of JWT.
	publicRoutes.POST("/payments/webhook", r.PaymentController.Webhook)
}
