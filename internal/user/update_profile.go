package user

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/ecosync/internal/errs"
	"github.com/sudo-init-do/ecosync/internal/geo"
)

type UpdateProfileRequest struct {
	Name         *string   `json:"name"`
	Address      *string   `json:"address"`
	ProfilePhoto *string   `json:"profilePhoto"`
	Coordinates  []float64 `json:"coordinates"` // [lng, lat]
}

// UpdateProfile handles PATCH /api/users/:id (self only).
func (h *Handler) UpdateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	var upd ProfileUpdate
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return errs.Respond(c, h.logger, errs.Invalid("name must not be empty"), "")
		}
		upd.Name = &name
	}
	upd.Address = req.Address
	upd.ProfilePhoto = req.ProfilePhoto
	if req.Coordinates != nil {
		pt, err := geo.FromLngLat(req.Coordinates)
		if err != nil || !pt.Valid() {
			return errs.Respond(c, h.logger, errs.Invalid("coordinates must be [lng, lat]"), "")
		}
		upd.Lng, upd.Lat = &pt.Lng, &pt.Lat
	}

	u, err := h.repo.UpdateProfile(c.Request().Context(), c.Param("id"), upd)
	if err != nil {
		return errs.Respond(c, h.logger, err, "failed to update profile")
	}
	return c.JSON(http.StatusOK, u)
}
