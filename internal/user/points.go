package user

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/ecosync/internal/errs"
	"github.com/sudo-init-do/ecosync/internal/wallet"
)

type pointsRequest struct {
	Points *int `json:"points"`
}

// AddPoints handles PATCH /api/users/:id/points. The delta is additive and the level
// follows the new balance.
func (h *Handler) AddPoints(c echo.Context) error {
	var req pointsRequest
	if err := c.Bind(&req); err != nil || req.Points == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "points is required"})
	}

	u, err := h.repo.AddPoints(c.Request().Context(), c.Param("id"), *req.Points, wallet.ReasonAward, "")
	if err != nil {
		return errs.Respond(c, h.logger, err, "failed to update points")
	}
	return c.JSON(http.StatusOK, u)
}
