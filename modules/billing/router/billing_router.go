package router

import (
	"hiringdesk/core/middleware"
	"hiringdesk/modules/billing/controller"

	"github.com/labstack/echo/v4"
)

// BillingRouter handles finance routes
type BillingRouter struct {
	BillingController *controller.BillingController
}

func NewBillingRouter(billingController *controller.BillingController) *BillingRouter {
	return &BillingRouter{
		BillingController: billingController,
	}
}

// Setup registers finance routes
func (r *BillingRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	clientRoutes := privateRoutes.Group("/client/finance",
		mw.AuthMiddleware(), mw.RequireRole("client", "admin"))
	clientRoutes.GET("", r.BillingController.GetClientRecords)

	interviewerRoutes := privateRoutes.Group("/interviewer/finance",
		mw.AuthMiddleware(), mw.RequireRole("interviewer", "admin"))
	interviewerRoutes.GET("", r.BillingController.GetInterviewerRecords)
}
