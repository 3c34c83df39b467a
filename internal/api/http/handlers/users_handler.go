package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/grievance-service/internal/api/dto"
	"github.com/spec-kit/grievance-service/internal/auth"
	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/service"
	apperrors "github.com/spec-kit/grievance-service/pkg/util"
)

// UsersHandler exposes registration, login and session endpoints.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Register handles POST /users/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, exp, err := h.auth.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(authResponse(user, token, exp))
}

// Login handles POST /users/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, exp, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(authResponse(user, token, exp))
}

// Me handles GET /users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("no token")
	}
	return c.JSON(dto.UserResponse{
		ID:        principal.User.ID,
		Name:      principal.User.Name,
		Email:     principal.User.Email,
		Role:      principal.User.Role,
		CreatedAt: principal.User.CreatedAt,
	})
}

// Logout handles POST /users/logout, revoking the presented token.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("no token")
	}
	if err := h.auth.Logout(c.Context(), principal); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func authResponse(user *domain.User, token string, exp time.Time) dto.AuthResponse {
	return dto.AuthResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Token:     token,
		ExpiresAt: exp,
	}
}
