package http

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/DOUMBISSS/ged-immo-sub001/internal/entitlement"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/observability"
	apperrors "github.com/DOUMBISSS/ged-immo-sub001/pkg/util"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := classifyError(err)
				if metrics != nil {
					metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
				}
				response := fiber.Map{"error": fiber.Map{
					"code":    domainErr.Code,
					"message": domainErr.Message,
				}}
				if len(domainErr.Details) > 0 {
					response["error"].(fiber.Map)["details"] = domainErr.Details
				}
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}

// classifyError maps entitlement configuration errors to their taxonomy
// codes before the generic DomainError conversion. Unknown roles and plans
// are never defaulted; they surface to operators as 500s.
func classifyError(err error) *apperrors.DomainError {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return apperrors.NewDomainError(statusCode(fiberErr.Code), fiberErr.Message, fiberErr.Code, nil)
	}
	var unknownRole *entitlement.UnknownRoleError
	if errors.As(err, &unknownRole) {
		return apperrors.ToDomainError(apperrors.NewConfigurationError("UNKNOWN_ROLE", err))
	}
	var unknownPlan *entitlement.UnknownPlanError
	if errors.As(err, &unknownPlan) {
		return apperrors.ToDomainError(apperrors.NewConfigurationError("UNKNOWN_PLAN", err))
	}
	var unknownAction *entitlement.UnknownActionError
	if errors.As(err, &unknownAction) {
		return apperrors.NewDomainError("UNKNOWN_ACTION", unknownAction.Error(), http.StatusBadRequest, nil)
	}
	var unknownPerm *entitlement.UnknownPermissionError
	if errors.As(err, &unknownPerm) {
		return apperrors.NewDomainError("UNKNOWN_PERMISSION", unknownPerm.Error(), http.StatusBadRequest, nil)
	}
	return apperrors.ToDomainError(err)
}

func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "INTERNAL_ERROR"
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
