package router

import (
	"hiringdesk/core/middleware"
	"hiringdesk/modules/availability/controller"

	"github.com/labstack/echo/v4"
)

// AvailabilityRouter handles availability routes
type AvailabilityRouter struct {
	AvailabilityController *controller.AvailabilityController
}

// NewAvailabilityRouter creates a new router
func NewAvailabilityRouter(availabilityController *controller.AvailabilityController) *AvailabilityRouter {
	return &AvailabilityRouter{
		AvailabilityController: availabilityController,
	}
}

// Setup registers availability routes
func (r *AvailabilityRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	slotRoutes := privateRoutes.Group("/interviewer/availability",
		mw.AuthMiddleware(), mw.RequireRole("interviewer", "admin"))

	slotRoutes.POST("", r.AvailabilityController.CreateSlot)
	slotRoutes.GET("", r.AvailabilityController.GetMySlots)
	slotRoutes.DELETE("/:id", r.AvailabilityController.ArchiveSlot)
}
