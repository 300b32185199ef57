package router

import (
	"hiringdesk/core/middleware"
	"hiringdesk/modules/feedback/controller"

	"github.com/labstack/echo/v4"
)

// FeedbackRouter handles feedback routes
type FeedbackRouter struct {
	FeedbackController *controller.FeedbackController
}

// NewFeedbackRouter creates a new router
func NewFeedbackRouter(feedbackController *controller.FeedbackController) *FeedbackRouter {
	return &FeedbackRouter{
		FeedbackController: feedbackController,
	}
}

// Setup registers feedback routes
func (r *FeedbackRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")
	publicRoutes := v1.Group("/public")

	submitRoutes := privateRoutes.Group("/interviewer/feedback",
		mw.AuthMiddleware(), mw.RequireRole("interviewer", "admin"))
	submitRoutes.POST("", r.FeedbackController.Submit)

	readRoutes := privateRoutes.Group("/interviews",
		mw.AuthMiddleware(), mw.RequireRole("recruiter", "client", "admin"))
	readRoutes.GET("/:id/feedback", r.FeedbackController.GetByInterview)

	// Candidates rate the interview from an emailed link, no account needed.
	publicRoutes.POST("/interviews/:id/rating", r.FeedbackController.RateInterviewer)
}
