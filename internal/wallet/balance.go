package wallet

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sudo-init-do/ecosync/internal/db"
	mware "github.com/sudo-init-do/ecosync/internal/middleware"
)

// Handler serves the caller's eco points balance and ledger.
type Handler struct {
	pool   db.PgxPool
	ledger *Ledger
	logger *zap.Logger
}

// NewHandler constructs a Handler.
func NewHandler(pool db.PgxPool, logger *zap.Logger) *Handler {
	return &Handler{pool: pool, ledger: NewLedger(pool), logger: logger}
}

// Balance returns the authenticated user's eco points and level.
func (h *Handler) Balance(c echo.Context) error {
	userID := mware.UserID(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var points int
	var level string
	err := h.pool.QueryRow(c.Request().Context(),
		`SELECT eco_points, level FROM users WHERE id = $1`, userID).
		Scan(&points, &level)
	if db.NoRows(err) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	if err != nil {
		h.logger.Error("load balance", zap.String("user_id", userID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load balance"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"userId":    userID,
		"ecoPoints": points,
		"level":     level,
	})
}
