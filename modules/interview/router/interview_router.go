package router

import (
	"hiringdesk/core/middleware"
	"hiringdesk/modules/interview/controller"

	"github.com/labstack/echo/v4"
)

// InterviewRouter handles interview routes
type InterviewRouter struct {
	InterviewController *controller.InterviewController
}

func NewInterviewRouter(interviewController *controller.InterviewController) *InterviewRouter {
	return &InterviewRouter{
		InterviewController: interviewController,
	}
}

// Setup registers interview routes
func (r *InterviewRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")
	privateRoutes := v1.Group("/private")

	interviewerRoutes := privateRoutes.Group("/interviewer/interviews",
		mw.AuthMiddleware(), mw.RequireRole("interviewer", "admin"))
	interviewerRoutes.GET("", r.InterviewController.GetMyInterviews)

	recruiterRoutes := privateRoutes.Group("", mw.AuthMiddleware(), mw.RequireRole("recruiter", "admin"))
	recruiterRoutes.GET("/candidates/:id/interviews", r.InterviewController.GetCandidateInterviews)
	recruiterRoutes.GET("/interviews/:id", r.InterviewController.GetInterview)
}
