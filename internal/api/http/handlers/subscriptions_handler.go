package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/DOUMBISSS/ged-immo-sub001/internal/api/dto"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/auth"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/domain"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/entitlement"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/service"
)

// SubscriptionsHandler exposes the subscription administration surface.
type SubscriptionsHandler struct {
	subscriptions *service.SubscriptionService
}

// NewSubscriptionsHandler constructs handler.
func NewSubscriptionsHandler(subscriptions *service.SubscriptionService) *SubscriptionsHandler {
	return &SubscriptionsHandler{subscriptions: subscriptions}
}

// Get handles GET /subscriptions/:tenantID.
func (h *SubscriptionsHandler) Get(c *fiber.Ctx) error {
	tenantID := c.Params("tenantID")
	if err := requireTenantScope(c, tenantID); err != nil {
		return err
	}

	sub, err := h.subscriptions.Get(c.Context(), tenantID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": subscriptionResponse(sub)})
}

// Renew handles POST /subscriptions/:tenantID/renew. The live record is
// never mutated here; the outcome is always a pending request.
func (h *SubscriptionsHandler) Renew(c *fiber.Ctx) error {
	tenantID := c.Params("tenantID")
	principal, err := requireBillingManager(c, tenantID)
	if err != nil {
		return err
	}

	var req dto.RenewRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Plan == "" {
		return fiber.NewError(http.StatusBadRequest, "plan required")
	}

	renewal, err := h.subscriptions.RequestRenewal(c.Context(), tenantID, domain.SubscriptionPlan(req.Plan), req.Months, principal.ID)
	if err != nil {
		return err
	}

	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"data":   renewalResponse(renewal),
		"status": "PENDING_APPROVAL",
	})
}

// PendingRenewals handles GET /subscriptions/:tenantID/renewals.
func (h *SubscriptionsHandler) PendingRenewals(c *fiber.Ctx) error {
	tenantID := c.Params("tenantID")
	if err := requireTenantScope(c, tenantID); err != nil {
		return err
	}

	renewals, err := h.subscriptions.ListPendingRenewals(c.Context(), tenantID)
	if err != nil {
		return err
	}
	out := make([]dto.RenewalResponse, 0, len(renewals))
	for _, renewal := range renewals {
		out = append(out, renewalResponse(renewal))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Approve handles POST /subscriptions/:tenantID/approve/:requestID
// (operator only, enforced by the route).
func (h *SubscriptionsHandler) Approve(c *fiber.Ctx) error {
	operator, err := requireOperatorCaller(c)
	if err != nil {
		return err
	}

	var req dto.ApproveRequest
	// body is optional; absence means queue-at-term-end semantics
	_ = c.BodyParser(&req)

	sub, err := h.subscriptions.Approve(c.Context(), c.Params("tenantID"), c.Params("requestID"), operator.ID, req.Immediate)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": subscriptionResponse(sub)})
}

// Reject handles POST /subscriptions/:tenantID/reject/:requestID.
func (h *SubscriptionsHandler) Reject(c *fiber.Ctx) error {
	operator, err := requireOperatorCaller(c)
	if err != nil {
		return err
	}
	if err := h.subscriptions.Reject(c.Context(), c.Params("tenantID"), c.Params("requestID"), operator.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"rejected": true}})
}

// Suspend handles POST /subscriptions/:tenantID/suspend.
func (h *SubscriptionsHandler) Suspend(c *fiber.Ctx) error {
	operator, err := requireOperatorCaller(c)
	if err != nil {
		return err
	}
	sub, err := h.subscriptions.Suspend(c.Context(), c.Params("tenantID"), operator.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": subscriptionResponse(sub)})
}

// Reactivate handles POST /subscriptions/:tenantID/reactivate.
func (h *SubscriptionsHandler) Reactivate(c *fiber.Ctx) error {
	operator, err := requireOperatorCaller(c)
	if err != nil {
		return err
	}
	sub, err := h.subscriptions.Reactivate(c.Context(), c.Params("tenantID"), operator.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": subscriptionResponse(sub)})
}

// requireTenantScope allows operators anywhere and principals only within
// their own tenant.
func requireTenantScope(c *fiber.Ctx, tenantID string) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	if principal.Operator != nil {
		return nil
	}
	if principal.Principal == nil || principal.Principal.TenantID != tenantID {
		return fiber.NewError(http.StatusForbidden, "tenant scope mismatch")
	}
	return nil
}

func requireBillingManager(c *fiber.Ctx, tenantID string) (*domain.Principal, error) {
	caller, ok := auth.PrincipalFromContext(c)
	if !ok || caller.Principal == nil {
		return nil, fiber.NewError(http.StatusForbidden, "tenant principal required")
	}
	if caller.Principal.TenantID != tenantID {
		return nil, fiber.NewError(http.StatusForbidden, "tenant scope mismatch")
	}
	if !caller.Principal.Permissions.Has(entitlement.PermManageBilling) {
		return nil, fiber.NewError(http.StatusForbidden, "billing permission required")
	}
	return caller.Principal, nil
}

func requireOperatorCaller(c *fiber.Ctx) (*domain.Operator, error) {
	caller, ok := auth.PrincipalFromContext(c)
	if !ok || caller.Operator == nil {
		return nil, fiber.NewError(http.StatusForbidden, "operator required")
	}
	return caller.Operator, nil
}

func subscriptionResponse(sub *domain.Subscription) dto.SubscriptionResponse {
	resp := dto.SubscriptionResponse{
		TenantID:  sub.TenantID,
		State:     string(sub.EffectiveState(time.Now())),
		Suspended: sub.Suspended,
	}
	if !sub.Start.IsZero() {
		start, end := sub.Start, sub.End
		resp.Plan = string(sub.Plan)
		resp.Start = &start
		resp.End = &end

		if limits, err := entitlement.LimitsFor(sub.Plan); err == nil {
			resp.Limits = &dto.PlanLimits{
				MaxProjects:           limits.MaxProjects,
				MaxUsers:              limits.MaxUsers,
				MaxSignatures:         limits.MaxSignatures,
				MaxDocumentsPerTenant: limits.MaxDocumentsPerTenant,
				MaxFileSizeMB:         limits.MaxFileSizeMB,
				AllowExport:           limits.AllowExport,
				AllowDuplication:      limits.AllowDuplication,
				AllowEmail:            limits.AllowEmail,
			}
		}
	}
	if sub.HasScheduledRenewal() {
		plan := string(*sub.ScheduledPlan)
		resp.ScheduledPlan = &plan
		resp.ScheduledStart = sub.ScheduledStart
	}
	return resp
}

func renewalResponse(req *domain.RenewalRequest) dto.RenewalResponse {
	return dto.RenewalResponse{
		ID:        req.ID,
		Plan:      string(req.Plan),
		Months:    req.Months,
		Status:    string(req.Status),
		CreatedAt: req.CreatedAt,
		DecidedAt: req.DecidedAt,
	}
}
