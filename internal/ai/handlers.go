package ai

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sudo-init-do/ecosync/internal/errs"
	"github.com/sudo-init-do/ecosync/internal/marketplace"
	mware "github.com/sudo-init-do/ecosync/internal/middleware"
	"github.com/sudo-init-do/ecosync/internal/user"
)

const (
	co2PerItem        = 5
	co2PerTransaction = 3
	// defaultMoneySaved stands in for transactions that carry no money impact.
	defaultMoneySaved = 50
	responseRate      = 95
)

type userStore interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

type itemStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]marketplace.Item, error)
}

type orderStore interface {
	ListForUser(ctx context.Context, userID string) ([]marketplace.Order, error)
}

// Handler serves /api/ai.
type Handler struct {
	svc    *Service
	users  userStore
	items  itemStore
	orders orderStore
	logger *zap.Logger
	now    func() time.Time
}

func NewHandler(svc *Service, users userStore, items itemStore, orders orderStore, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, users: users, items: items, orders: orders, logger: logger, now: time.Now}
}

type snapshot struct {
	user   *user.User
	items  []marketplace.Item
	orders []marketplace.Order
}

func (h *Handler) load(ctx context.Context, userID string, withOrders bool) (*snapshot, error) {
	u, err := h.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := h.items.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	snap := &snapshot{user: u, items: items}
	if withOrders {
		if snap.orders, err = h.orders.ListForUser(ctx, userID); err != nil {
			return nil, err
		}
	}
	return snap, nil
}

func (s *snapshot) profile() Profile {
	return Profile{Name: s.user.Name, EcoPoints: s.user.EcoPoints, Level: string(s.user.Level)}
}

func (s *snapshot) activity(now time.Time) Activity {
	a := Activity{Transactions: len(s.orders), ResponseRate: responseRate, Categories: []string{}}
	seen := map[marketplace.Category]bool{}
	for _, it := range s.items {
		a.ItemTitles = append(a.ItemTitles, it.Title)
		if !seen[it.Category] {
			seen[it.Category] = true
			a.Categories = append(a.Categories, string(it.Category))
		}
	}
	for _, o := range s.orders {
		if o.Item != nil {
			a.RecentTitles = append(a.RecentTitles, o.Item.Title)
		}
	}
	if !s.user.CreatedAt.IsZero() {
		a.DaysActive = int(now.Sub(s.user.CreatedAt) / (24 * time.Hour))
	}
	return a
}

func (s *snapshot) impact() Impact {
	im := Impact{
		CO2Saved:    float64(len(s.items)*co2PerItem + len(s.orders)*co2PerTransaction),
		ItemsShared: len(s.items),
	}
	for _, o := range s.orders {
		if o.EcoImpactMoney > 0 {
			im.MoneySaved += o.EcoImpactMoney
		} else {
			im.MoneySaved += defaultMoneySaved
		}
	}
	return im
}

func (s *snapshot) achievements() []string {
	var out []string
	if len(s.items) > 0 {
		out = append(out, "Item Sharer")
	}
	if len(s.orders) >= 5 {
		out = append(out, "Active Trader")
	}
	if s.user.EcoPoints >= 100 {
		out = append(out, "Eco Warrior")
	}
	if s.user.Level == user.LevelChampion {
		out = append(out, "Platform Champion")
	}
	return out
}

// GET /api/ai/recommendations
func (h *Handler) Recommendations(c echo.Context) error {
	ctx := c.Request().Context()
	snap, err := h.load(ctx, mware.UserID(c), true)
	if err != nil {
		return errs.Respond(c, h.logger, err, "Failed to generate recommendations")
	}
	res := h.svc.Recommendations(ctx, snap.profile(), snap.activity(h.now()))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "recommendations": res.Value, "status": res.Status})
}

// GET /api/ai/insights
func (h *Handler) Insights(c echo.Context) error {
	ctx := c.Request().Context()
	snap, err := h.load(ctx, mware.UserID(c), true)
	if err != nil {
		return errs.Respond(c, h.logger, err, "Failed to generate insights")
	}
	res := h.svc.EcoInsights(ctx, snap.profile(), snap.impact())
	return c.JSON(http.StatusOK, echo.Map{"success": true, "insights": res.Value, "status": res.Status})
}

// GET /api/ai/achievement-summary
func (h *Handler) AchievementSummary(c echo.Context) error {
	ctx := c.Request().Context()
	snap, err := h.load(ctx, mware.UserID(c), true)
	if err != nil {
		return errs.Respond(c, h.logger, err, "Failed to generate summary")
	}
	res := h.svc.AchievementSummary(ctx, snap.profile(), snap.achievements())
	return c.JSON(http.StatusOK, echo.Map{"success": true, "summary": res.Value, "status": res.Status})
}

// GET /api/ai/smart-badges
func (h *Handler) SmartBadges(c echo.Context) error {
	ctx := c.Request().Context()
	snap, err := h.load(ctx, mware.UserID(c), true)
	if err != nil {
		return errs.Respond(c, h.logger, err, "Failed to generate badges")
	}
	res := h.svc.SmartBadges(ctx, snap.activity(h.now()))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "badges": res.Value, "status": res.Status})
}

// POST /api/ai/analyze-image
func (h *Handler) AnalyzeImage(c echo.Context) error {
	var req struct {
		ImageBase64 string `json:"imageBase64"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.ImageBase64 == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Image data is required"})
	}
	data, err := DecodeBase64Image(req.ImageBase64)
	if err != nil {
		return errs.Respond(c, h.logger, err, "")
	}
	img, err := PrepareImage(data)
	if err != nil {
		return errs.Respond(c, h.logger, err, "Failed to analyze image")
	}

	res := h.svc.AnalyzeImage(c.Request().Context(), img)
	var analysis any = echo.Map{"message": "Could not analyze image"}
	if res.OK() {
		analysis = res.Value
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "analysis": analysis, "status": res.Status})
}

// POST /api/ai/chat; callers may be anonymous.
func (h *Handler) Chat(c echo.Context) error {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Message is required"})
	}

	ctx := c.Request().Context()
	var cc ChatContext
	if userID := mware.UserID(c); userID != "" {
		snap, err := h.load(ctx, userID, false)
		if err != nil {
			return errs.Respond(c, h.logger, err, "Failed to get response")
		}
		cc = ChatContext{LoggedIn: true, UserName: snap.user.Name, ItemsShared: len(snap.items)}
	}
	res := h.svc.Chat(ctx, req.Message, cc)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "response": res.Value, "status": res.Status})
}

// POST /api/ai/profile-suggestions
func (h *Handler) ProfileSuggestions(c echo.Context) error {
	var req PartialProfile
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	res := h.svc.ProfileSuggestions(c.Request().Context(), req)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "suggestions": res.Value, "status": res.Status})
}
