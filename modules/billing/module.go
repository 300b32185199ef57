package billing

import (
	"hiringdesk/core/database"
	"hiringdesk/core/middleware"
	"hiringdesk/modules/billing/controller"
	"hiringdesk/modules/billing/repository"
	"hiringdesk/modules/billing/router"
	"hiringdesk/modules/billing/service"
	userrepo "hiringdesk/modules/user/repository"

	"github.com/labstack/echo/v4"
)

// Init initializes the billing module and registers the finance routes. The
// service and repository are returned: scheduling and feedback bill through
// the service inside their transactions, payment settles records through the
// repository.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware, users userrepo.UserRepositoryInterface) (service.BillingServiceInterface, repository.BillingRepositoryInterface) {
	repo := repository.NewBillingRepository(db)
	svc := service.NewBillingService(repo, users)
	ctrl := controller.NewBillingController(svc)
	rtr := router.NewBillingRouter(ctrl)

	rtr.Setup(e, mw)
	return svc, repo
}
