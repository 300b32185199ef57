package router

import (
	"hiringdesk/core/middleware"
	"hiringdesk/modules/scheduling/controller"

	"github.com/labstack/echo/v4"
)

// SchedulingRouter handles booking routes
type SchedulingRouter struct {
	SchedulingController *controller.SchedulingController
}

func NewSchedulingRouter(schedulingController *controller.SchedulingController) *SchedulingRouter {
	return &SchedulingRouter{
		SchedulingController: schedulingController,
	}
}

// Setup registers booking routes
func (r *SchedulingRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	publicRoutes := v1.Group("/public")
	publicRoutes.GET("/scheduling/respond", r.SchedulingController.Respond)

	privateRoutes := v1.Group("/private")
	schedulingRoutes := privateRoutes.Group("/scheduling",
		mw.AuthMiddleware(), mw.RequireRole("recruiter", "client", "admin"))
	schedulingRoutes.POST("/initiate", r.SchedulingController.Initiate)
}
