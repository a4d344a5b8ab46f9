package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/DOUMBISSS/ged-immo-sub001/internal/auth"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/repository"
)

var knownMetrics = map[string]struct{}{
	"projects":   {},
	"users":      {},
	"signatures": {},
	"documents":  {},
}

// UsageHandler lets the surrounding CRUD app keep quota counters current.
type UsageHandler struct {
	usage repository.UsageRepository
}

// NewUsageHandler constructs handler.
func NewUsageHandler(usage repository.UsageRepository) *UsageHandler {
	return &UsageHandler{usage: usage}
}

// Increment handles POST /usage/:metric/increment.
func (h *UsageHandler) Increment(c *fiber.Ctx) error {
	tenantID, metric, err := usageScope(c)
	if err != nil {
		return err
	}
	value, err := h.usage.Increment(c.Context(), tenantID, metric)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"metric": metric, "value": value}})
}

// Decrement handles POST /usage/:metric/decrement.
func (h *UsageHandler) Decrement(c *fiber.Ctx) error {
	tenantID, metric, err := usageScope(c)
	if err != nil {
		return err
	}
	value, err := h.usage.Decrement(c.Context(), tenantID, metric)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"metric": metric, "value": value}})
}

func usageScope(c *fiber.Ctx) (string, string, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Principal == nil {
		return "", "", fiber.NewError(http.StatusForbidden, "tenant principal required")
	}
	metric := c.Params("metric")
	if _, known := knownMetrics[metric]; !known {
		return "", "", fiber.NewError(http.StatusBadRequest, "unknown metric")
	}
	return principal.Principal.TenantID, metric, nil
}
