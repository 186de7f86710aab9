package user

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sudo-init-do/ecosync/internal/errs"
)

// Handler serves the /api/users routes.
type Handler struct {
	repo   *Repo
	logger *zap.Logger
}

// NewHandler constructs a Handler.
func NewHandler(repo *Repo, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// GetPublicProfile handles GET /api/users/:id.
func (h *Handler) GetPublicProfile(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing user id"})
	}

	u, err := h.repo.GetByID(c.Request().Context(), userID)
	if err != nil {
		return errs.Respond(c, h.logger, err, "failed to fetch user")
	}
	return c.JSON(http.StatusOK, u)
}

