package requests

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sudo-init-do/ecosync/internal/errs"
	"github.com/sudo-init-do/ecosync/internal/geo"
	mware "github.com/sudo-init-do/ecosync/internal/middleware"
)

// Handler serves /api/requests.
type Handler struct {
	repo   *Repo
	logger *zap.Logger
}

// NewHandler constructs a Handler.
func NewHandler(repo *Repo, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// GET /api/requests
func (h *Handler) List(c echo.Context) error {
	out, err := h.repo.ListActive(c.Request().Context())
	if err != nil {
		return errs.Respond(c, h.logger, err, "failed to fetch requests")
	}
	return c.JSON(http.StatusOK, out)
}

// GET /api/requests/nearby?lng&lat&maxDistance
func (h *Handler) Nearby(c echo.Context) error {
	p, maxDistance, err := geo.ParseNearby(c.QueryParam("lng"), c.QueryParam("lat"), c.QueryParam("maxDistance"))
	if err != nil {
		return errs.Respond(c, h.logger, err, "")
	}
	out, err := h.repo.Nearby(c.Request().Context(), p, maxDistance)
	if err != nil {
		return errs.Respond(c, h.logger, err, "failed to fetch nearby requests")
	}
	return c.JSON(http.StatusOK, out)
}

type CreateRequest struct {
	ItemName    string    `json:"itemName"`
	Description string    `json:"description"`
	Urgency     Urgency   `json:"urgency"`
	Coordinates []float64 `json:"coordinates"` // [lat, lng] as picked on the map
}

// POST /api/requests
func (h *Handler) Create(c echo.Context) error {
	userID := mware.UserID(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var body CreateRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	p, err := geo.FromLatLng(body.Coordinates)
	if err != nil {
		return errs.Respond(c, h.logger, errs.Invalid("coordinates must be [lat, lng]"), "")
	}

	req := &Request{
		UserID:      userID,
		ItemName:    body.ItemName,
		Description: body.Description,
		Urgency:     body.Urgency,
		Location:    p,
	}
	if err := h.repo.Create(c.Request().Context(), req); err != nil {
		return errs.Respond(c, h.logger, err, "failed to create request")
	}
	return c.JSON(http.StatusCreated, req)
}

// PATCH /api/requests/:id
func (h *Handler) UpdateStatus(c echo.Context) error {
	var body struct {
		Status Status `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	req, err := h.repo.SetStatus(c.Request().Context(), c.Param("id"), body.Status)
	if err != nil {
		return errs.Respond(c, h.logger, err, "failed to update request")
	}
	return c.JSON(http.StatusOK, req)
}

// DELETE /api/requests/:id
func (h *Handler) Delete(c echo.Context) error {
	userID := mware.UserID(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.repo.Delete(c.Request().Context(), c.Param("id"), userID); err != nil {
		return errs.Respond(c, h.logger, err, "failed to delete request")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Request deleted"})
}
