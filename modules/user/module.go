package user

import (
	"hiringdesk/core/database"
	"hiringdesk/core/middleware"
	"hiringdesk/modules/user/controller"
	"hiringdesk/modules/user/repository"
	"hiringdesk/modules/user/router"
	"hiringdesk/modules/user/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the user module and registers routes. The repository
// doubles as the contact directory for scheduling notifications.
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) repository.UserRepositoryInterface {
	repo := repository.NewUserRepository(db)
	svc := service.NewUserService(repo)
	ctrl := controller.NewUserController(svc)
	rtr := router.NewUserRouter(ctrl)

	rtr.Setup(e, mw)
	return repo
}
