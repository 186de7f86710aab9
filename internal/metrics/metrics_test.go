package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestMiddleware_CountsMatchedRoute(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/ping/:id", func(c echo.Context) error { return c.String(http.StatusTeapot, "x") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping/7", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	require.Contains(t, scrape(t), `ecosync_http_requests_total{method="GET",route="/ping/:id",status="418"} 1`)
}

func TestRecordAIResultAndTransition(t *testing.T) {
	RecordAIResult("chat", "degraded")
	RecordTransition("active", errors.New("conflict"))
	RecordTransition("disputed", nil)

	body := scrape(t)
	require.Contains(t, body, `ecosync_ai_results_total{op="chat",status="degraded"} 1`)
	require.Contains(t, body, `ecosync_orders_transitions_total{outcome="rejected",to="active"} 1`)
	require.Contains(t, body, `ecosync_orders_transitions_total{outcome="ok",to="disputed"} 1`)
}
