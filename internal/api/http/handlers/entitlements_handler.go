package handlers

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/DOUMBISSS/ged-immo-sub001/internal/api/dto"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/auth"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/entitlement"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/service"
)

// EntitlementsHandler exposes the authorization query surface consumed by
// UI forms.
type EntitlementsHandler struct {
	entitlements *service.EntitlementService
}

// NewEntitlementsHandler constructs handler.
func NewEntitlementsHandler(entitlements *service.EntitlementService) *EntitlementsHandler {
	return &EntitlementsHandler{entitlements: entitlements}
}

// Check handles GET /entitlements/check?action=&usage=. Denials are normal
// outcomes, not errors; the caller renders an upsell prompt or disables a
// button from the reason code.
func (h *EntitlementsHandler) Check(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Principal == nil {
		return fiber.NewError(http.StatusForbidden, "tenant principal required")
	}

	action := entitlement.Action(c.Query("action"))
	if action == "" {
		return fiber.NewError(http.StatusBadRequest, "action required")
	}

	var usage *int
	if raw := c.Query("usage"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return fiber.NewError(http.StatusBadRequest, "invalid usage")
		}
		usage = &parsed
	}

	decision, err := h.entitlements.Check(c.Context(), principal.Principal, action, usage)
	if err != nil {
		return err
	}

	resp := dto.CheckResponse{Allowed: decision.Allowed, Reason: decision.Reason}
	if decision.Reason == entitlement.ReasonQuotaExceeded {
		limit := decision.Limit
		resp.Limit = &limit
	}
	return c.JSON(resp)
}

// Permissions handles GET /entitlements/permissions, returning the
// principal's resolved set with display labels.
func (h *EntitlementsHandler) Permissions(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Principal == nil {
		return fiber.NewError(http.StatusForbidden, "tenant principal required")
	}

	labels := h.entitlements.ResolvedPermissions(principal.Principal)
	entries := make([]dto.PermissionEntry, 0, len(labels))
	for perm, label := range labels {
		entries = append(entries, dto.PermissionEntry{Permission: string(perm), Label: label})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Permission < entries[j].Permission })

	return c.JSON(fiber.Map{"data": entries})
}
