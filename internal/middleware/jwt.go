package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/ecosync/internal/utils"
)

const userIDKey = "user_id"

// JWTMiddleware rejects requests without a valid bearer token and stores the
// caller's id under "user_id".
func JWTMiddleware(tokens *utils.Tokens) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := utils.BearerToken(c.Request().Header.Get("Authorization"))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
			}
			claims, err := tokens.Validate(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}
			c.Set(userIDKey, claims.UserID)
			return next(c)
		}
	}
}

// OptionalJWT stores the caller's id when a valid token is present and lets
// anonymous requests through otherwise.
func OptionalJWT(tokens *utils.Tokens) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw, err := utils.BearerToken(c.Request().Header.Get("Authorization")); err == nil {
				if claims, err := tokens.Validate(raw); err == nil {
					c.Set(userIDKey, claims.UserID)
				}
			}
			return next(c)
		}
	}
}

// UserID returns the authenticated caller's id, or "" for anonymous requests.
func UserID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}
