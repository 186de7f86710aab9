package marketplace

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/ecosync/internal/errs"
	mware "github.com/sudo-init-do/ecosync/internal/middleware"
)

type ReviewRequest struct {
	Rating int    `json:"rating"`
	Review string `json:"review"`
}

// POST /api/transactions/:id/review
func (h *OrderHandler) Review(c echo.Context) error {
	callerID := mware.UserID(c)
	if callerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	o, err := h.svc.Review(c.Request().Context(), callerID, c.Param("id"), req.Rating, strings.TrimSpace(req.Review))
	if err != nil {
		return errs.Respond(c, h.logger, err, "failed to save review")
	}
	return c.JSON(http.StatusOK, o)
}
