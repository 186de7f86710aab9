// Package auth registers users and exchanges credentials for bearer tokens.
package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sudo-init-do/ecosync/internal/errs"
	"github.com/sudo-init-do/ecosync/internal/geo"
	"github.com/sudo-init-do/ecosync/internal/user"
	"github.com/sudo-init-do/ecosync/internal/utils"
)

// Handler serves /api/auth.
type Handler struct {
	users  *user.Repo
	tokens *utils.Tokens
	logger *zap.Logger
	cost   int
}

// NewHandler constructs a Handler.
func NewHandler(users *user.Repo, tokens *utils.Tokens, logger *zap.Logger) *Handler {
	return &Handler{users: users, tokens: tokens, logger: logger, cost: bcrypt.DefaultCost}
}

type RegisterRequest struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Password    string    `json:"password"`
	Coordinates []float64 `json:"coordinates"` // [lng, lat]
	Address     string    `json:"address"`
}

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(c echo.Context) error {
	req := new(RegisterRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and password are required"})
	}
	if len(req.Password) > maxPasswordBytes {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at most 72 bytes"})
	}

	var pt geo.Point
	if req.Coordinates != nil {
		var err error
		if pt, err = geo.FromLngLat(req.Coordinates); err != nil || !pt.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "coordinates must be [lng, lat]"})
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.cost)
	if err != nil {
		h.logger.Error("hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}

	u := &user.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Location: geo.Location{Point: pt, Address: req.Address},
	}
	err = h.users.Create(c.Request().Context(), u)
	switch {
	case errors.Is(err, errs.ErrAlreadyExists):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "User already exists"})
	case err != nil:
		h.logger.Error("create user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	signed, err := h.tokens.Issue(u.ID)
	if err != nil {
		h.logger.Error("issue token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
	}

	h.logger.Info("user registered", zap.String("user_id", u.ID))
	return c.JSON(http.StatusCreated, AuthResponse{Token: signed, User: u})
}
