package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/DOUMBISSS/ged-immo-sub001/internal/config"
	"github.com/DOUMBISSS/ged-immo-sub001/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventRenewalRequested, n.handleRenewalRequested)
	n.dispatcher.Subscribe(events.EventRenewalApproved, n.handleRenewalApproved)
	n.dispatcher.Subscribe(events.EventRenewalRejected, n.handleRenewalRejected)
	n.dispatcher.Subscribe(events.EventSubscriptionSuspended, n.handleSubscriptionSuspended)
	n.dispatcher.Subscribe(events.EventSessionExpired, n.handleSessionExpired)
}

func (n *NotificationService) handleRenewalRequested(ctx context.Context, event events.Event) error {
	n.logger.Info("RenewalRequested", zap.String("tenant_id", event.TenantID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleRenewalApproved(ctx context.Context, event events.Event) error {
	n.logger.Info("RenewalApproved", zap.String("tenant_id", event.TenantID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleRenewalRejected(ctx context.Context, event events.Event) error {
	n.logger.Info("RenewalRejected", zap.String("tenant_id", event.TenantID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleSubscriptionSuspended(ctx context.Context, event events.Event) error {
	n.logger.Info("SubscriptionSuspended", zap.String("tenant_id", event.TenantID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleSessionExpired(ctx context.Context, event events.Event) error {
	n.logger.Debug("SessionExpired", zap.String("subject_id", event.SubjectID))
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("tenant_id", event.TenantID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("tenant_id", event.TenantID),
		zap.String("event_type", string(event.Type)))
}
