package scheduling

import (
	"hiringdesk/core/database"
	"hiringdesk/core/middleware"
	"hiringdesk/core/tasks"
	"hiringdesk/externals/google"
	availabilityrepo "hiringdesk/modules/availability/repository"
	billingservice "hiringdesk/modules/billing/service"
	candidaterepo "hiringdesk/modules/candidate/repository"
	interviewrepo "hiringdesk/modules/interview/repository"
	"hiringdesk/modules/scheduling/controller"
	"hiringdesk/modules/scheduling/handler"
	"hiringdesk/modules/scheduling/repository"
	"hiringdesk/modules/scheduling/router"
	"hiringdesk/modules/scheduling/service"
	userrepo "hiringdesk/modules/user/repository"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

// Deps are the cross-module pieces the booking flow drives.
type Deps struct {
	Candidates   candidaterepo.CandidateRepositoryInterface
	Availability availabilityrepo.AvailabilityRepositoryInterface
	Interviews   interviewrepo.InterviewRepositoryInterface
	Billing      billingservice.BillingServiceInterface
	Users        userrepo.UserRepositoryInterface
	Dispatcher   tasks.Dispatcher
	Meet         google.MeetProviderInterface
}

// Init initializes the scheduling module: HTTP routes plus the meeting task
// handlers on the worker mux.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware, mux *asynq.ServeMux, deps Deps) {
	repo := repository.NewScheduleRepository(db)
	svc := service.NewSchedulingService(db, deps.Candidates, deps.Availability,
		deps.Interviews, repo, deps.Billing, deps.Users, deps.Dispatcher)
	ctrl := controller.NewSchedulingController(svc)
	rtr := router.NewSchedulingRouter(ctrl)
	rtr.Setup(e, mw)

	taskHandler := handler.NewTaskHandler(deps.Interviews, deps.Availability,
		deps.Candidates, deps.Users, deps.Meet)
	taskHandler.Register(mux)
}
