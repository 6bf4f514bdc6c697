package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/agency-admin/internal/auth"
	"github.com/spec-kit/agency-admin/internal/domain"
	"github.com/spec-kit/agency-admin/internal/rbac"
	"github.com/spec-kit/agency-admin/internal/service"
)

type emailPrincipals struct {
	stubPrincipals
	byEmail map[string]*domain.Principal
}

func (s *emailPrincipals) GetByEmail(_ context.Context, email string) (*domain.Principal, error) {
	if p, ok := s.byEmail[email]; ok {
		return p, nil
	}
	return nil, pgx.ErrNoRows
}

func newSessionFixture(t *testing.T) (*service.SessionService, *auth.TokenManager) {
	t.Helper()
	hash, err := auth.HashPassword("correct horse", 4)
	require.NoError(t, err)

	principals := &emailPrincipals{byEmail: map[string]*domain.Principal{
		"mgr@agency.test": {ID: "mgr-1", Name: "Manager", Email: "mgr@agency.test", PasswordHash: hash, Role: rbac.RoleManager, Active: true},
		"off@agency.test": {ID: "off-1", Name: "Inactive", Email: "off@agency.test", PasswordHash: hash, Role: rbac.RoleAgent, Active: false},
	}}
	tokens := auth.NewTokenManager("session-secret", 60)
	return service.NewSessionService(principals, tokens, 4), tokens
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, tokens := newSessionFixture(t)

	principal, token, exp, err := svc.Login(context.Background(), "mgr@agency.test", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "mgr-1", principal.ID)
	assert.True(t, exp.After(time.Now()))

	identity, err := tokens.Verify(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, identity)
	assert.Equal(t, "mgr-1", identity.ID)
	assert.Equal(t, rbac.RoleManager, identity.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newSessionFixture(t)

	_, _, _, err := svc.Login(context.Background(), "mgr@agency.test", "wrong")
	require.Error(t, err)
	assert.Equal(t, "invalid_credentials", domainCode(t, err))
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newSessionFixture(t)

	_, _, _, err := svc.Login(context.Background(), "nobody@agency.test", "correct horse")
	require.Error(t, err)
	assert.Equal(t, "invalid_credentials", domainCode(t, err))
}

func TestLoginInactivePrincipal(t *testing.T) {
	svc, _ := newSessionFixture(t)

	_, _, _, err := svc.Login(context.Background(), "off@agency.test", "correct horse")
	require.Error(t, err)
	assert.Equal(t, "invalid_credentials", domainCode(t, err))
}
