package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/DOUMBISSS/ged-immo-sub001/internal/api/dto"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/auth"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/domain"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/service"
)

// PrincipalsHandler exposes principal administration for tenant admins.
type PrincipalsHandler struct {
	principals *service.PrincipalService
}

// NewPrincipalsHandler constructs handler.
func NewPrincipalsHandler(principals *service.PrincipalService) *PrincipalsHandler {
	return &PrincipalsHandler{principals: principals}
}

// Create handles POST /principals. The new principal is owned by the
// calling administrator's tenant.
func (h *PrincipalsHandler) Create(c *fiber.Ctx) error {
	admin, err := requireAdminCaller(c)
	if err != nil {
		return err
	}

	var req dto.CreatePrincipalRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		return fiber.NewError(http.StatusBadRequest, "name, email, password, role required")
	}

	principal, err := h.principals.Create(c.Context(), admin.TenantID, req.Name, req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": principalResponse(principal)})
}

// List handles GET /principals.
func (h *PrincipalsHandler) List(c *fiber.Ctx) error {
	admin, err := requireAdminCaller(c)
	if err != nil {
		return err
	}

	principals, err := h.principals.ListByTenant(c.Context(), admin.TenantID)
	if err != nil {
		return err
	}
	out := make([]dto.PrincipalResponse, 0, len(principals))
	for _, principal := range principals {
		out = append(out, principalResponse(principal))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Get handles GET /principals/:id.
func (h *PrincipalsHandler) Get(c *fiber.Ctx) error {
	admin, err := requireAdminCaller(c)
	if err != nil {
		return err
	}

	principal, err := h.loadOwned(c, admin)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": principalResponse(principal)})
}

// Grant handles POST /principals/:id/grant.
func (h *PrincipalsHandler) Grant(c *fiber.Ctx) error {
	admin, err := requireAdminCaller(c)
	if err != nil {
		return err
	}
	if _, err := h.loadOwned(c, admin); err != nil {
		return err
	}

	var req dto.PermissionChangeRequest
	if err := c.BodyParser(&req); err != nil || req.Permission == "" {
		return fiber.NewError(http.StatusBadRequest, "permission required")
	}

	principal, err := h.principals.Grant(c.Context(), c.Params("id"), domain.Permission(req.Permission))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": principalResponse(principal)})
}

// Revoke handles POST /principals/:id/revoke.
func (h *PrincipalsHandler) Revoke(c *fiber.Ctx) error {
	admin, err := requireAdminCaller(c)
	if err != nil {
		return err
	}
	if _, err := h.loadOwned(c, admin); err != nil {
		return err
	}

	var req dto.PermissionChangeRequest
	if err := c.BodyParser(&req); err != nil || req.Permission == "" {
		return fiber.NewError(http.StatusBadRequest, "permission required")
	}

	principal, err := h.principals.Revoke(c.Context(), c.Params("id"), domain.Permission(req.Permission))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": principalResponse(principal)})
}

// ChangeRole handles POST /principals/:id/role. The permission set is
// replaced wholesale with the new role's defaults.
func (h *PrincipalsHandler) ChangeRole(c *fiber.Ctx) error {
	admin, err := requireAdminCaller(c)
	if err != nil {
		return err
	}
	if _, err := h.loadOwned(c, admin); err != nil {
		return err
	}

	var req dto.ChangeRoleRequest
	if err := c.BodyParser(&req); err != nil || req.Role == "" {
		return fiber.NewError(http.StatusBadRequest, "role required")
	}

	principal, err := h.principals.ChangeRole(c.Context(), c.Params("id"), domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": principalResponse(principal)})
}

// Archive handles POST /principals/:id/archive.
func (h *PrincipalsHandler) Archive(c *fiber.Ctx) error {
	admin, err := requireAdminCaller(c)
	if err != nil {
		return err
	}
	if _, err := h.loadOwned(c, admin); err != nil {
		return err
	}

	if err := h.principals.Archive(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"archived": true}})
}

func requireAdminCaller(c *fiber.Ctx) (*domain.Principal, error) {
	caller, ok := auth.PrincipalFromContext(c)
	if !ok || caller.Principal == nil {
		return nil, fiber.NewError(http.StatusForbidden, "tenant principal required")
	}
	if caller.Principal.Role != domain.RoleAdmin {
		return nil, fiber.NewError(http.StatusForbidden, "admin role required")
	}
	return caller.Principal, nil
}

// loadOwned enforces that the target principal belongs to the caller's
// tenant before any mutation.
func (h *PrincipalsHandler) loadOwned(c *fiber.Ctx, admin *domain.Principal) (*domain.Principal, error) {
	principal, err := h.principals.Get(c.Context(), c.Params("id"))
	if err != nil {
		return nil, err
	}
	if principal.TenantID != admin.TenantID {
		return nil, fiber.NewError(http.StatusForbidden, "tenant scope mismatch")
	}
	return principal, nil
}

func principalResponse(principal *domain.Principal) dto.PrincipalResponse {
	perms := make([]string, 0, len(principal.Permissions))
	for _, p := range principal.Permissions.List() {
		perms = append(perms, string(p))
	}
	return dto.PrincipalResponse{
		ID:          principal.ID,
		TenantID:    principal.TenantID,
		Name:        principal.Name,
		Email:       principal.Email,
		Role:        string(principal.Role),
		Permissions: perms,
		Archived:    principal.Archived,
		CreatedAt:   principal.CreatedAt,
	}
}
