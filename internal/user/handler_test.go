package user

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandler_GetPublicProfile_HidesPassword(t *testing.T) {
	r, mock := newRepo(t)
	defer mock.Close()
	h := NewHandler(r, zap.NewNop())

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs("u1").
		WillReturnRows(userRow("u1", 0, "seedling"))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/users/u1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/users/:id")
	c.SetParamNames("id")
	c.SetParamValues("u1")

	require.NoError(t, h.GetPublicProfile(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"ecoPoints":0`)
	require.NotContains(t, rec.Body.String(), "hash")
}

func TestHandler_AddPoints_RequiresPoints(t *testing.T) {
	r, mock := newRepo(t)
	defer mock.Close()
	h := NewHandler(r, zap.NewNop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/users/u1/points", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("u1")

	require.NoError(t, h.AddPoints(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_AddPoints_InsufficientIs400(t *testing.T) {
	r, mock := newRepo(t)
	defer mock.Close()
	h := NewHandler(r, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"eco_points"}).AddRow(5))
	mock.ExpectRollback()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/users/u1/points", strings.NewReader(`{"points":-10}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("u1")

	require.NoError(t, h.AddPoints(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "insufficient eco points")
}

func TestHandler_AddPoints_HugeDeltaIs400(t *testing.T) {
	r, mock := newRepo(t)
	defer mock.Close()
	h := NewHandler(r, zap.NewNop())

	mock.ExpectBegin()
	mock.ExpectRollback()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/users/u1/points", strings.NewReader(`{"points":99999999999}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("u1")

	require.NoError(t, h.AddPoints(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "out of range")
	require.NoError(t, mock.ExpectationsWereMet())
}
