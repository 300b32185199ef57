package availability

import (
	"hiringdesk/core/database"
	"hiringdesk/core/middleware"
	"hiringdesk/modules/availability/controller"
	"hiringdesk/modules/availability/repository"
	"hiringdesk/modules/availability/router"
	"hiringdesk/modules/availability/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the availability module and registers routes. The
// repository is returned so the scheduling module can claim and release
// slots inside its own transactions.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) repository.AvailabilityRepositoryInterface {
	repo := repository.NewAvailabilityRepository(db)
	svc := service.NewAvailabilityService(repo)
	ctrl := controller.NewAvailabilityController(svc)
	rtr := router.NewAvailabilityRouter(ctrl)

	rtr.Setup(e, mw)
	return repo
}
