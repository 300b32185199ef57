package feedback

import (
	"hiringdesk/core/database"
	"hiringdesk/core/middleware"
	"hiringdesk/core/tasks"
	"hiringdesk/externals/storage"
	billingservice "hiringdesk/modules/billing/service"
	candidaterepo "hiringdesk/modules/candidate/repository"
	"hiringdesk/modules/feedback/controller"
	"hiringdesk/modules/feedback/handler"
	"hiringdesk/modules/feedback/repository"
	"hiringdesk/modules/feedback/router"
	"hiringdesk/modules/feedback/service"
	interviewrepo "hiringdesk/modules/interview/repository"
	userrepo "hiringdesk/modules/user/repository"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

// Deps are the cross-module collaborators the feedback flow needs.
type Deps struct {
	Interviews interviewrepo.InterviewRepositoryInterface
	Candidates candidaterepo.CandidateRepositoryInterface
	Billing    billingservice.BillingServiceInterface
	Users      userrepo.UserRepositoryInterface
	Dispatcher tasks.Dispatcher
	Uploader   storage.UploaderInterface
}

// Init initializes the feedback module, registers routes and binds the PDF
// worker onto the task mux.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware, mux *asynq.ServeMux, deps Deps) {
	repo := repository.NewFeedbackRepository(db)
	svc := service.NewFeedbackService(db, repo, deps.Interviews, deps.Candidates, deps.Billing, deps.Users, deps.Dispatcher)
	ctrl := controller.NewFeedbackController(svc)
	rtr := router.NewFeedbackRouter(ctrl)

	rtr.Setup(e, mw)
	handler.NewPDFHandler(repo, deps.Interviews, deps.Candidates, deps.Users, deps.Uploader).Register(mux)
}
