package router

import (
	"hiringdesk/core/middleware"
	"hiringdesk/modules/user/controller"

	"github.com/labstack/echo/v4"
)

// UserRouter handles auth and profile routes
type UserRouter struct {
	UserController *controller.UserController
}

func NewUserRouter(userController *controller.UserController) *UserRouter {
	return &UserRouter{
		UserController: userController,
	}
}

// Setup registers auth routes
func (r *UserRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	publicRoutes := v1.Group("/public")
	publicRoutes.POST("/auth/login", r.UserController.Login)

	privateRoutes := v1.Group("/private")
	privateRoutes.GET("/me", r.UserController.GetProfile, mw.AuthMiddleware())
	privateRoutes.POST("/users", r.UserController.CreateUser,
		mw.AuthMiddleware(), mw.RequireRole("admin"))
}
