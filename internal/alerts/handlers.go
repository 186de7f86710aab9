package alerts

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sudo-init-do/ecosync/internal/marketplace"
	mware "github.com/sudo-init-do/ecosync/internal/middleware"
	"github.com/sudo-init-do/ecosync/internal/requests"
)

// StoreSource reads notifications' inputs straight from the repositories.
type StoreSource struct {
	Orders   *marketplace.OrderRepo
	Requests *requests.Repo
	Items    *marketplace.ItemRepo
}

func (s StoreSource) UserTransactions(ctx context.Context, userID string) ([]marketplace.Order, error) {
	return s.Orders.ListForUser(ctx, userID)
}

func (s StoreSource) ActiveRequests(ctx context.Context) ([]requests.Request, error) {
	return s.Requests.ListActive(ctx)
}

func (s StoreSource) AvailableItems(ctx context.Context) ([]marketplace.Item, error) {
	return s.Items.ListAvailable(ctx)
}

type Handler struct {
	src    Source
	logger *zap.Logger
}

func NewHandler(src Source, logger *zap.Logger) *Handler {
	return &Handler{src: src, logger: logger}
}

// GET /api/notifications
func (h *Handler) List(c echo.Context) error {
	userID := mware.UserID(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := Collect(c.Request().Context(), h.src, userID)
	if err != nil {
		h.logger.Error("failed to load notifications", zap.String("user_id", userID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load notifications"})
	}
	if list == nil {
		list = []Notification{}
	}
	return c.JSON(http.StatusOK, list)
}
