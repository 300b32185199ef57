package interview

import (
	"hiringdesk/core/database"
	"hiringdesk/core/middleware"
	"hiringdesk/modules/interview/controller"
	"hiringdesk/modules/interview/repository"
	"hiringdesk/modules/interview/router"
	"hiringdesk/modules/interview/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the interview module and registers routes. The repository
// is returned so the scheduling and feedback modules can write interview rows
// inside their transactions.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) repository.InterviewRepositoryInterface {
	repo := repository.NewInterviewRepository(db)
	svc := service.NewInterviewService(repo)
	ctrl := controller.NewInterviewController(svc)
	rtr := router.NewInterviewRouter(ctrl)

	rtr.Setup(e, mw)
	return repo
}
