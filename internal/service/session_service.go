package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/agency-admin/internal/auth"
	"github.com/spec-kit/agency-admin/internal/domain"
	"github.com/spec-kit/agency-admin/internal/repository"
	apperrors "github.com/spec-kit/agency-admin/pkg/util"
)

// SessionService issues self-signed credentials for provisioned accounts.
type SessionService struct {
	principals repository.PrincipalRepository
	tokens     *auth.TokenManager
	bcryptCost int
}

// NewSessionService builds the service.
func NewSessionService(principals repository.PrincipalRepository, tokens *auth.TokenManager, bcryptCost int) *SessionService {
	return &SessionService{principals: principals, tokens: tokens, bcryptCost: bcryptCost}
}

// Login authenticates email/password credentials and issues a token.
func (s *SessionService) Login(ctx context.Context, email, password string) (*domain.Principal, string, time.Time, error) {
	principal, err := s.principals.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid_credentials", "invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if !principal.Active {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid_credentials", "invalid credentials")
	}
	if err := auth.ComparePassword(principal.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid_credentials", "invalid credentials")
	}

	agencyID := ""
	if principal.AgencyID != nil {
		agencyID = *principal.AgencyID
	}
	token, exp, err := s.tokens.Issue(principal.ID, principal.Email, principal.Role, agencyID)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return principal, token, exp, nil
}

// TokenManager exposes the underlying token manager for guard wiring.
func (s *SessionService) TokenManager() *auth.TokenManager {
	return s.tokens
}
