package wallet

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	mware "github.com/sudo-init-do/ecosync/internal/middleware"
)

// History returns the authenticated user's ledger entries, newest first.
func (h *Handler) History(c echo.Context) error {
	userID := mware.UserID(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	entries, err := h.ledger.List(c.Request().Context(), userID)
	if err != nil {
		h.logger.Error("list ledger", zap.String("user_id", userID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not fetch ledger"})
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": entries})
}
