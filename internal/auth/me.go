package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sudo-init-do/ecosync/internal/errs"
	mware "github.com/sudo-init-do/ecosync/internal/middleware"
)

// Me returns the currently authenticated user's profile.
func (h *Handler) Me(c echo.Context) error {
	userID := mware.UserID(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	u, err := h.users.GetByID(c.Request().Context(), userID)
	if errors.Is(err, errs.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err != nil {
		h.logger.Error("load current user", zap.String("user_id", userID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch user"})
	}
	return c.JSON(http.StatusOK, u)
}
