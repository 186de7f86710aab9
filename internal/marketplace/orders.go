package marketplace

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sudo-init-do/ecosync/internal/errs"
	mware "github.com/sudo-init-do/ecosync/internal/middleware"
)

// OrderHandler serves /api/transactions.
type OrderHandler struct {
	svc    *OrderService
	logger *zap.Logger
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(svc *OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{svc: svc, logger: logger}
}

// GET /api/transactions
func (h *OrderHandler) List(c echo.Context) error {
	orders, err := h.svc.ListAll(c.Request().Context())
	if err != nil {
		return errs.Respond(c, h.logger, err, "failed to fetch transactions")
	}
	return c.JSON(http.StatusOK, orders)
}

// GET /api/transactions/user/:userId
func (h *OrderHandler) ListForUser(c echo.Context) error {
	orders, err := h.svc.ListForUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return errs.Respond(c, h.logger, err, "failed to fetch transactions")
	}
	return c.JSON(http.StatusOK, orders)
}

type CreateOrderRequest struct {
	Item          string        `json:"item"`
	PickupTime    time.Time     `json:"pickupTime"`
	ReturnTime    time.Time     `json:"returnTime"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	EcoImpactCO2  float64       `json:"ecoImpactCO2"`
}

// POST /api/transactions
func (h *OrderHandler) Create(c echo.Context) error {
	borrowerID := mware.UserID(c)
	if borrowerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	o, err := h.svc.Create(c.Request().Context(), borrowerID, CreateOrderInput{
		ItemID:        req.Item,
		PickupTime:    req.PickupTime,
		ReturnTime:    req.ReturnTime,
		PaymentMethod: req.PaymentMethod,
		EcoImpactCO2:  req.EcoImpactCO2,
	})
	if err != nil {
		return errs.Respond(c, h.logger, err, "failed to create transaction")
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":     "Transaction requested. Awaiting lender acceptance.",
		"transaction": o,
	})
}

type transitionRequest struct {
	Status         OrderStatus `json:"status"`
	ExpectedStatus OrderStatus `json:"expectedStatus"`
}

// PATCH /api/transactions/:id
func (h *OrderHandler) Update(c echo.Context) error {
	callerID := mware.UserID(c)
	if callerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if !req.Status.Valid() {
		return errs.Respond(c, h.logger, errs.Invalid("unknown status %q", req.Status), "")
	}

	o, err := h.svc.Transition(c.Request().Context(), callerID, c.Param("id"), req.ExpectedStatus, req.Status)
	if err != nil {
		return errs.Respond(c, h.logger, err, "failed to update transaction")
	}
	return c.JSON(http.StatusOK, o)
}

// POST /api/transactions/:id/accept
func (h *OrderHandler) Accept(c echo.Context) error {
	callerID := mware.UserID(c)
	if callerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	o, err := h.svc.Accept(c.Request().Context(), callerID, c.Param("id"))
	if err != nil {
		return errs.Respond(c, h.logger, err, "failed to accept transaction")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Transaction accepted", "transaction": o})
}

// POST /api/transactions/:id/decline
func (h *OrderHandler) Decline(c echo.Context) error {
	callerID := mware.UserID(c)
	if callerID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	o, err := h.svc.Decline(c.Request().Context(), callerID, c.Param("id"))
	if err != nil {
		return errs.Respond(c, h.logger, err, "failed to decline transaction")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Transaction declined", "transaction": o})
}
