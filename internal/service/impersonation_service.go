package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/agency-admin/internal/domain"
	"github.com/spec-kit/agency-admin/internal/events"
	"github.com/spec-kit/agency-admin/internal/rbac"
	"github.com/spec-kit/agency-admin/internal/repository"
	apperrors "github.com/spec-kit/agency-admin/pkg/util"
)

// GrantCache tracks which grants are currently usable. Keys carry the
// grant TTL so expiry is enforced by the store itself.
type GrantCache interface {
	Put(ctx context.Context, grantID string, ttl time.Duration) error
	Exists(ctx context.Context, grantID string) (bool, error)
	Remove(ctx context.Context, grantID string) error
}

// Actor identifies the principal requesting an impersonation, under the
// effective role resolved by the guard.
type Actor struct {
	ID    string
	Email string
	Role  rbac.Role
}

// ImpersonationService manages acting-as sessions for super-admins.
type ImpersonationService struct {
	grants     repository.ImpersonationRepository
	principals repository.PrincipalRepository
	cache      GrantCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
	ttl        time.Duration
}

// NewImpersonationService builds the service. ttlMinutes bounds every
// grant; the 30-minute production window comes from configuration.
func NewImpersonationService(
	grants repository.ImpersonationRepository,
	principals repository.PrincipalRepository,
	cache GrantCache,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
	ttlMinutes int,
) *ImpersonationService {
	if ttlMinutes <= 0 {
		ttlMinutes = 30
	}
	return &ImpersonationService{
		grants:     grants,
		principals: principals,
		cache:      cache,
		dispatcher: dispatcher,
		logger:     logger,
		ttl:        time.Duration(ttlMinutes) * time.Minute,
	}
}

// Start creates a time-bounded impersonation grant. A super_admin target
// is always rejected and the attempt is recorded in the audit trail,
// regardless of the actor's privilege.
func (s *ImpersonationService) Start(ctx context.Context, actor Actor, targetID, justification, sourceIP, userAgent string) (*domain.ImpersonationGrant, *domain.Principal, error) {
	if actor.Role != rbac.RoleSuperAdmin {
		return nil, nil, apperrors.NewForbidden(apperrors.CodeInsufficientPermissions, "impersonation requires super_admin")
	}
	if strings.TrimSpace(justification) == "" {
		return nil, nil, apperrors.NewValidationError("justification is required", nil)
	}

	target, err := s.principals.GetByID(ctx, targetID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, apperrors.NewNotFound("principal", map[string]any{"id": targetID})
		}
		return nil, nil, apperrors.MapError(err)
	}

	if target.Role == rbac.RoleSuperAdmin {
		s.logger.Warn("impersonation of super_admin rejected",
			zap.String("actor_id", actor.ID),
			zap.String("target_id", target.ID))
		s.publish(ctx, events.Event{
			Type:        events.EventImpersonationDenied,
			ActorID:     actor.ID,
			ActorEmail:  actor.Email,
			TargetID:    target.ID,
			TargetEmail: target.Email,
			Detail:      "target role super_admin",
		})
		return nil, nil, apperrors.NewForbidden(apperrors.CodeCannotImpersonateSuperAdmin, "super_admin accounts cannot be impersonated")
	}

	now := time.Now().UTC()
	grant := &domain.ImpersonationGrant{
		ID:            uuid.NewString(),
		ActorID:       actor.ID,
		ActorEmail:    actor.Email,
		TargetID:      target.ID,
		TargetEmail:   target.Email,
		TargetRole:    target.Role,
		Justification: strings.TrimSpace(justification),
		StartedAt:     now,
		ExpiresAt:     now.Add(s.ttl),
		SourceIP:      sourceIP,
		UserAgent:     userAgent,
	}

	if err := s.grants.Create(ctx, grant); err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	if err := s.cache.Put(ctx, grant.ID, s.ttl); err != nil {
		s.logger.Error("grant cache put", zap.String("grant_id", grant.ID), zap.Error(err))
	}

	s.publish(ctx, events.Event{
		Type:        events.EventImpersonationStarted,
		ActorID:     actor.ID,
		ActorEmail:  actor.Email,
		TargetID:    target.ID,
		TargetEmail: target.Email,
		Detail:      "expires_at=" + grant.ExpiresAt.Format(time.RFC3339),
	})

	return grant, target, nil
}

// Active reports whether the grant is still usable. The cache key expires
// with the grant, so a missing key means expired or terminated.
func (s *ImpersonationService) Active(ctx context.Context, grantID string) (bool, error) {
	if grantID == "" {
		return false, nil
	}
	return s.cache.Exists(ctx, grantID)
}

// Terminate marks a grant inert immediately. Terminating an already-inert
// or unknown grant is a no-op.
func (s *ImpersonationService) Terminate(ctx context.Context, actor Actor, grantID string) error {
	if grantID == "" {
		return nil
	}
	terminated, err := s.grants.Terminate(ctx, grantID, time.Now().UTC())
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := s.cache.Remove(ctx, grantID); err != nil {
		s.logger.Error("grant cache remove", zap.String("grant_id", grantID), zap.Error(err))
	}
	// Only an actual transition belongs in the audit trail; unknown or
	// already-inert grants stay silent.
	if !terminated {
		return nil
	}

	s.publish(ctx, events.Event{
		Type:       events.EventImpersonationTerminated,
		ActorID:    actor.ID,
		ActorEmail: actor.Email,
		Detail:     "grant_id=" + grantID,
	})
	return nil
}

func (s *ImpersonationService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}
