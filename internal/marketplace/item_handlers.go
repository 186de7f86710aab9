package marketplace

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sudo-init-do/ecosync/internal/errs"
	"github.com/sudo-init-do/ecosync/internal/geo"
	mware "github.com/sudo-init-do/ecosync/internal/middleware"
)

// ItemHandler serves /api/items.
type ItemHandler struct {
	items  *ItemRepo
	logger *zap.Logger
}

// NewItemHandler constructs an ItemHandler.
func NewItemHandler(items *ItemRepo, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{items: items, logger: logger}
}

// GET /api/items
func (h *ItemHandler) List(c echo.Context) error {
	items, err := h.items.ListAvailable(c.Request().Context())
	if err != nil {
		return errs.Respond(c, h.logger, err, "failed to fetch items")
	}
	return c.JSON(http.StatusOK, items)
}

// GET /api/items/nearby?lng&lat&maxDistance&category
func (h *ItemHandler) Nearby(c echo.Context) error {
	p, maxDistance, err := geo.ParseNearby(c.QueryParam("lng"), c.QueryParam("lat"), c.QueryParam("maxDistance"))
	if err != nil {
		return errs.Respond(c, h.logger, err, "")
	}
	category := Category(c.QueryParam("category"))
	if category != "" && !category.Valid() {
		return errs.Respond(c, h.logger, errs.Invalid("unknown category %q", category), "")
	}

	items, err := h.items.Nearby(c.Request().Context(), p, maxDistance, category)
	if err != nil {
		return errs.Respond(c, h.logger, err, "failed to fetch nearby items")
	}
	return c.JSON(http.StatusOK, items)
}

// GET /api/items/:id
func (h *ItemHandler) Get(c echo.Context) error {
	it, err := h.items.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errs.Respond(c, h.logger, err, "failed to fetch item")
	}
	return c.JSON(http.StatusOK, it)
}

type CreateItemRequest struct {
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Category          Category  `json:"category"`
	Type              ItemType  `json:"type"`
	Price             float64   `json:"price"`
	Coordinates       []float64 `json:"coordinates"` // [lat, lng] as picked on the map
	ImageURL          string    `json:"imageUrl"`
	ConditionPhotoURL string    `json:"conditionPhotoUrl"`
}

// POST /api/items
func (h *ItemHandler) Create(c echo.Context) error {
	ownerID := mware.UserID(c)
	if ownerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	p, err := geo.FromLatLng(req.Coordinates)
	if err != nil {
		return errs.Respond(c, h.logger, errs.Invalid("coordinates must be [lat, lng]"), "")
	}

	it := &Item{
		OwnerID:           ownerID,
		Title:             req.Title,
		Description:       req.Description,
		Category:          req.Category,
		Type:              req.Type,
		Price:             req.Price,
		Location:          p,
		ImageURL:          req.ImageURL,
		ConditionPhotoURL: req.ConditionPhotoURL,
	}
	if err := h.items.Create(c.Request().Context(), it); err != nil {
		return errs.Respond(c, h.logger, err, "failed to create item")
	}
	return c.JSON(http.StatusCreated, it)
}

type UpdateItemRequest struct {
	Title             *string     `json:"title"`
	Description       *string     `json:"description"`
	Category          *Category   `json:"category"`
	Type              *ItemType   `json:"type"`
	Price             *float64    `json:"price"`
	Status            *ItemStatus `json:"status"`
	ImageURL          *string     `json:"imageUrl"`
	ConditionPhotoURL *string     `json:"conditionPhotoUrl"`
}

// PATCH /api/items/:id
func (h *ItemHandler) Update(c echo.Context) error {
	callerID := mware.UserID(c)
	if callerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	it, err := h.items.Update(c.Request().Context(), c.Param("id"), callerID, ItemUpdate(req))
	if err != nil {
		return errs.Respond(c, h.logger, err, "failed to update item")
	}
	return c.JSON(http.StatusOK, it)
}

// DELETE /api/items/:id
func (h *ItemHandler) Delete(c echo.Context) error {
	callerID := mware.UserID(c)
	if callerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	if err := h.items.Delete(c.Request().Context(), c.Param("id"), callerID); err != nil {
		return errs.Respond(c, h.logger, err, "failed to delete item")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Item deleted"})
}
