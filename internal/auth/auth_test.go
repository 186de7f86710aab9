package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sudo-init-do/ecosync/internal/user"
	"github.com/sudo-init-do/ecosync/internal/utils"
)

var userCols = []string{"id", "name", "email", "password", "lng", "lat", "address",
	"trust_score", "eco_points", "level", "profile_photo", "created_at"}

func newHandler(t *testing.T) (*Handler, *utils.Tokens, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	tokens := utils.NewTokens("test-secret", time.Hour)
	h := NewHandler(user.NewRepo(mock), tokens, zap.NewNop())
	h.cost = bcrypt.MinCost
	return h, tokens, mock
}

func post(body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func TestRegister_Created(t *testing.T) {
	h, tokens, mock := newHandler(t)
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "Ann", "ann@example.com", pgxmock.AnyArg(), 13.4, 52.5, "Main St",
			0, 0, "seedling", "", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	c, rec := post(`{"name":"Ann","email":"Ann@example.com","password":"pw","coordinates":[13.4,52.5],"address":"Main St"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID       string `json:"id"`
			Email    string `json:"email"`
			Level    string `json:"level"`
			Location struct {
				Coordinates []float64 `json:"coordinates"`
			} `json:"location"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ann@example.com", resp.User.Email)
	require.Equal(t, "seedling", resp.User.Level)
	require.Equal(t, []float64{13.4, 52.5}, resp.User.Location.Coordinates)
	require.NotContains(t, rec.Body.String(), "password")

	claims, err := tokens.Validate(resp.Token)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, claims.UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	h, _, mock := newHandler(t)
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	c, rec := post(`{"name":"Ann","email":"ann@example.com","password":"pw"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "User already exists")
}

func TestRegister_MissingFields(t *testing.T) {
	h, _, mock := newHandler(t)
	defer mock.Close()

	c, rec := post(`{"email":"ann@example.com"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_PasswordTooLong(t *testing.T) {
	h, _, mock := newHandler(t)
	defer mock.Close()

	body := `{"name":"Ann","email":"ann@example.com","password":"` + strings.Repeat("x", 80) + `"}`
	c, rec := post(body)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "at most 72 bytes")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin(t *testing.T) {
	h, _, mock := newHandler(t)
	defer mock.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)
	row := func() *pgxmock.Rows {
		return pgxmock.NewRows(userCols).
			AddRow("u1", "Ann", "ann@example.com", string(hash), 0.0, 0.0, "", 10, 70, "sapling", "", time.Now())
	}

	mock.ExpectQuery(`FROM users WHERE email = \$1`).WithArgs("ann@example.com").WillReturnRows(row())
	c, rec := post(`{"email":"ann@example.com","password":"pw"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"trustScore":10`)

	mock.ExpectQuery(`FROM users WHERE email = \$1`).WithArgs("ann@example.com").WillReturnRows(row())
	c, rec = post(`{"email":"ann@example.com","password":"wrong"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid credentials")

	mock.ExpectQuery(`FROM users WHERE email = \$1`).WithArgs("nobody@example.com").WillReturnError(pgx.ErrNoRows)
	c, rec = post(`{"email":"nobody@example.com","password":"pw"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid credentials")
}

func TestMe_Unauthenticated(t *testing.T) {
	h, _, mock := newHandler(t)
	defer mock.Close()

	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, h.Me(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
