package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Middleware verifies the bearer token on every request and attaches the
// session to the request context. The skipper exempts routes such as login
// and health checks.
func Middleware(svc *Service, skipper func(echo.Context) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper != nil && skipper(c) {
				return next(c)
			}

			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			sess, err := svc.VerifyToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
			}

			req := c.Request()
			c.SetRequest(req.WithContext(WithSession(req.Context(), sess)))
			return next(c)
		}
	}
}

// DevMiddleware attaches a synthetic session to every request. Development
// mode only.
func DevMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			sess := &Session{Username: "dev"}
			c.SetRequest(req.WithContext(WithSession(req.Context(), sess)))
			return next(c)
		}
	}
}
