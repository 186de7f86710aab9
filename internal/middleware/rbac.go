package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireSelf ensures the path parameter named param matches the caller's id.
// Usage: route(..., RequireSelf("id"))
func RequireSelf(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid := UserID(c)
			if uid == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			if c.Param(param) != uid {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
			}
			return next(c)
		}
	}
}
