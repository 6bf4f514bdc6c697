package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/agency-admin/internal/domain"
	"github.com/spec-kit/agency-admin/internal/events"
	"github.com/spec-kit/agency-admin/internal/repository"
)

// AuditService persists security events from the dispatcher.
type AuditService struct {
	dispatcher events.Dispatcher
	repo       repository.AuditRepository
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, repo repository.AuditRepository, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, repo: repo, logger: logger}
}

// RegisterHandlers subscribes the persistence handler to every security
// event type.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventImpersonationStarted,
		events.EventImpersonationDenied,
		events.EventImpersonationTerminated,
		events.EventAccessDenied,
		events.EventEscalationAttempt,
	} {
		a.dispatcher.Subscribe(eventType, a.record)
	}
}

// Recent returns the newest audit entries.
func (a *AuditService) Recent(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	return a.repo.ListRecent(ctx, limit)
}

func (a *AuditService) record(ctx context.Context, event events.Event) error {
	entry := &domain.AuditEvent{
		ID:          event.ID,
		Kind:        domain.AuditKind(event.Type),
		ActorID:     event.ActorID,
		ActorEmail:  event.ActorEmail,
		TargetID:    event.TargetID,
		TargetEmail: event.TargetEmail,
		Path:        event.Path,
		Detail:      event.Detail,
		CreatedAt:   event.Timestamp,
	}
	if err := a.repo.Insert(ctx, entry); err != nil {
		a.logger.Error("audit insert", zap.String("kind", string(entry.Kind)), zap.Error(err))
		return err
	}
	return nil
}
