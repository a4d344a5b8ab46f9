package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/DOUMBISSS/ged-immo-sub001/internal/api/dto"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/auth"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/service"
)

// AuthHandler exposes login, logout and the session heartbeat.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login for tenant principals.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	principal, token, exp, err := h.auth.LoginPrincipal(c.Context(), req.Email, req.Password)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"principal": fiber.Map{
				"id":        principal.ID,
				"name":      principal.Name,
				"email":     principal.Email,
				"role":      principal.Role,
				"tenant_id": principal.TenantID,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// OperatorLogin handles POST /auth/operators/login.
func (h *AuthHandler) OperatorLogin(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	operator, token, exp, err := h.auth.LoginOperator(c.Context(), req.Email, req.Password)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"operator": fiber.Map{
				"id":    operator.ID,
				"name":  operator.Name,
				"email": operator.Email,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Session == nil {
		return fiber.NewError(http.StatusUnauthorized, "no active session")
	}
	if err := h.auth.Logout(c.Context(), principal.Session.Token); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"logged_out": true}})
}

// Session handles GET /auth/session, the heartbeat the UI polls to render
// the "session expiring" countdown.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Session == nil {
		return fiber.NewError(http.StatusUnauthorized, "no active session")
	}

	status, err := h.auth.SessionStatus(principal.Session.Token)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SessionStatusResponse{
		Phase:            string(status.Phase),
		ExpiresAt:        status.ExpiresAt,
		RemainingSeconds: status.RemainingSeconds,
		Warning:          status.Warning,
	}})
}
