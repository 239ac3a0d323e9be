package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/expense-tracker/internal/config"
	"github.com/spec-kit/expense-tracker/internal/events"
)

// NotificationService turns account and security events into audit log lines
// and optional webhook notifications.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.WebhookConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.WebhookConfig) *NotificationService {
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
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleAuditEvent)
	n.dispatcher.Subscribe(events.EventUserLoggedIn, n.handleAuditEvent)
	n.dispatcher.Subscribe(events.EventLoginDenied, n.handleLoginDenied)
	n.dispatcher.Subscribe(events.EventRoleChanged, n.handleAuditEvent)
	n.dispatcher.Subscribe(events.EventUserDeleted, n.handleAuditEvent)
}

func (n *NotificationService) handleAuditEvent(ctx context.Context, event events.Event) error {
	n.logger.Info("audit",
		zap.String("event", string(event.Type)),
		zap.String("subject", event.Subject),
		zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleLoginDenied(ctx context.Context, event events.Event) error {
	// denied logins are warn-level so repeated failures stand out
	n.logger.Warn("audit",
		zap.String("event", string(event.Type)),
		zap.String("subject", event.Subject),
		zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.URL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.URL),
		zap.String("event_type", string(event.Type)),
		zap.String("subject", event.Subject))
}
