package middleware

import (
	goerrors "errors"
	"net/http"
	"strings"

	"hiringdesk/core/constants"
	"hiringdesk/core/controller"
	"hiringdesk/core/errors"
	"hiringdesk/core/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type Middleware struct{}

func NewMiddleware() *Middleware {
	return &Middleware{}
}

// AuthMiddleware validates the bearer token and stores the parsed claims on
// the request context under constants.ContextTokenData.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return c.JSON(http.StatusUnauthorized, controller.NewErrorResponse(
					http.StatusUnauthorized, errors.ErrMissingAuthorizationHeader, "Authorization header is required"))
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, controller.NewErrorResponse(
					http.StatusUnauthorized, errors.ErrInvalidTokenFormat, "Authorization header must be a Bearer token"))
			}

			claims, err := utils.ParseAccessToken(parts[1])
			if err != nil {
				code := errors.ErrUnauthorized
				if goerrors.Is(err, jwt.ErrTokenExpired) {
					code = errors.ErrTokenExpired
				}
				return c.JSON(http.StatusUnauthorized, controller.NewErrorResponse(
					http.StatusUnauthorized, code, "Invalid or expired token"))
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}

// RequireRole enforces that the authenticated user carries one of the given
// roles. It must run after AuthMiddleware.
func (m *Middleware) RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenData := c.Get(constants.ContextTokenData)
			claims, ok := tokenData.(*utils.TokenClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, controller.NewErrorResponse(
					http.StatusUnauthorized, errors.ErrUnauthorized, "User not authenticated"))
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, controller.NewErrorResponse(
				http.StatusForbidden, errors.ErrForbidden, "Insufficient permissions"))
		}
	}
}
