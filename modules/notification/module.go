package notification

import (
	"hiringdesk/core/database"
	"hiringdesk/core/middleware"
	"hiringdesk/externals/mail"
	"hiringdesk/modules/notification/controller"
	"hiringdesk/modules/notification/handler"
	"hiringdesk/modules/notification/repository"
	"hiringdesk/modules/notification/router"
	"hiringdesk/modules/notification/service"
	userrepo "hiringdesk/modules/user/repository"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

// Init initializes the notification module: the in-app feed routes and the
// email fan-out worker.
func Init(
	e *echo.Echo,
	db database.IDatabase,
	mw *middleware.Middleware,
	mux *asynq.ServeMux,
	mailer mail.MailerInterface,
	users userrepo.UserRepositoryInterface,
) {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo)
	ctrl := controller.NewNotificationController(svc)
	rtr := router.NewNotificationRouter(ctrl)

	rtr.Setup(e, mw)
	handler.NewSendHandler(mailer, svc, users).Register(mux)
}
