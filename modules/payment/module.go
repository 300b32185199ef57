package payment

import (
	"hiringdesk/core/database"
	"hiringdesk/core/middleware"
	"hiringdesk/core/tasks"
	gateway "hiringdesk/externals/payment"
	billingrepo "hiringdesk/modules/billing/repository"
	"hiringdesk/modules/payment/controller"
	"hiringdesk/modules/payment/repository"
	"hiringdesk/modules/payment/router"
	"hiringdesk/modules/payment/service"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Init initializes the payment module and registers routes.
func Init(
	e *echo.Echo,
	db database.IDatabase,
	mw *middleware.Middleware,
	billing billingrepo.BillingRepositoryInterface,
	gw gateway.GatewayInterface,
	redisClient *redis.Client,
	dispatcher tasks.Dispatcher,
) {
	repo := repository.NewPaymentRepository(db)
	svc := service.NewPaymentService(db, repo, billing, gw, redisClient, dispatcher)
	ctrl := controller.NewPaymentController(svc)
	rtr := router.NewPaymentRouter(ctrl)

	rtr.Setup(e, mw)
}
