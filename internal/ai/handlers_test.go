package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sudo-init-do/ecosync/internal/errs"
	"github.com/sudo-init-do/ecosync/internal/marketplace"
	"github.com/sudo-init-do/ecosync/internal/user"
)

type fakeStore struct {
	user   *user.User
	items  []marketplace.Item
	orders []marketplace.Order
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*user.User, error) {
	if f.user == nil || f.user.ID != id {
		return nil, errs.ErrNotFound
	}
	return f.user, nil
}

func (f *fakeStore) ListByOwner(context.Context, string) ([]marketplace.Item, error) {
	return f.items, nil
}

func (f *fakeStore) ListForUser(context.Context, string) ([]marketplace.Order, error) {
	return f.orders, nil
}

var now = time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)

func newStore() *fakeStore {
	return &fakeStore{
		user: &user.User{ID: "u1", Name: "Ann", EcoPoints: 320, Level: user.LevelChampion, CreatedAt: now.Add(-10 * 24 * time.Hour)},
		items: []marketplace.Item{
			{Title: "Drill", Category: marketplace.CategoryTools},
			{Title: "Saw", Category: marketplace.CategoryTools},
		},
		orders: []marketplace.Order{{EcoImpactMoney: 20}, {}, {}, {}, {}},
	}
}

func newHandler(m Model, st *fakeStore) *Handler {
	h := NewHandler(NewService(m, zap.NewNop()), st, st, st, zap.NewNop())
	h.now = func() time.Time { return now }
	return h
}

func call(t *testing.T, fn echo.HandlerFunc, method, body, userID string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	if userID != "" {
		c.Set("user_id", userID)
	}
	require.NoError(t, fn(c))
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func TestSnapshot_Derivations(t *testing.T) {
	snap := &snapshot{user: newStore().user, items: newStore().items, orders: newStore().orders}

	im := snap.impact()
	require.Equal(t, float64(2*5+5*3), im.CO2Saved)
	require.Equal(t, float64(20+4*50), im.MoneySaved)
	require.Equal(t, []string{"Item Sharer", "Active Trader", "Eco Warrior", "Platform Champion"}, snap.achievements())

	a := snap.activity(now)
	require.Equal(t, 10, a.DaysActive)
	require.Equal(t, 95, a.ResponseRate)
	require.Equal(t, []string{"tools"}, a.Categories)
}

func TestHandler_Insights_PromptCarriesImpact(t *testing.T) {
	m := &fakeModel{reply: `[{"tip":"Lend your ladder","potential_impact":"5kg CO2"}]`}
	rec, out := call(t, newHandler(m, newStore()).Insights, http.MethodGet, "", "u1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", out["status"])
	require.Len(t, out["insights"], 1)
	require.Contains(t, m.prompts[0], "- CO2 Saved: 25 kg")
	require.Contains(t, m.prompts[0], "- Money Saved: ₹220")
}

func TestHandler_UnavailableDefaults(t *testing.T) {
	h := newHandler(nil, newStore())

	_, out := call(t, h.AchievementSummary, http.MethodGet, "", "u1")
	require.Equal(t, DefaultSummary, out["summary"])
	require.Equal(t, "unavailable", out["status"])

	_, out = call(t, h.Recommendations, http.MethodGet, "", "u1")
	require.Equal(t, []any{}, out["recommendations"])

	_, out = call(t, h.ProfileSuggestions, http.MethodPost, `{"name":"Ann"}`, "u1")
	require.Equal(t, map[string]any{"bio": "", "skills": []any{}, "interests": []any{}}, out["suggestions"])
}

func TestHandler_UnknownUserIs404(t *testing.T) {
	rec, _ := call(t, newHandler(nil, newStore()).SmartBadges, http.MethodGet, "", "ghost")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Chat(t *testing.T) {
	m := &fakeModel{reply: "Hi Ann!"}
	h := newHandler(m, newStore())

	rec, out := call(t, h.Chat, http.MethodPost, `{}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Message is required", out["error"])

	_, out = call(t, h.Chat, http.MethodPost, `{"message":"hello"}`, "")
	require.Equal(t, "Hi Ann!", out["response"])
	require.Contains(t, m.prompts[0], "- Logged in: false")
	require.Contains(t, m.prompts[0], "- User name: Guest")

	_, _ = call(t, h.Chat, http.MethodPost, `{"message":"hello"}`, "u1")
	require.Contains(t, m.prompts[1], "- Logged in: true")
	require.Contains(t, m.prompts[1], "- Items shared: 2")
}

func TestHandler_AnalyzeImage(t *testing.T) {
	h := newHandler(nil, newStore())

	rec, out := call(t, h.AnalyzeImage, http.MethodPost, `{}`, "u1")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Image data is required", out["error"])

	rec, _ = call(t, h.AnalyzeImage, http.MethodPost, `{"imageBase64":"aGVsbG8="}`, "u1")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
