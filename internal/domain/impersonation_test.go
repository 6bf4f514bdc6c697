package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/agency-admin/internal/domain"
)

func TestGrantActiveExpiryBoundary(t *testing.T) {
	now := time.Now()

	expired := &domain.ImpersonationGrant{ExpiresAt: now.Add(-time.Millisecond)}
	assert.False(t, expired.Active(now))

	live := &domain.ImpersonationGrant{ExpiresAt: now.Add(time.Millisecond)}
	assert.True(t, live.Active(now))
	assert.False(t, live.Active(now.Add(time.Millisecond)))
	assert.False(t, live.Active(now.Add(2*time.Millisecond)))
}

func TestGrantActiveAfterTermination(t *testing.T) {
	now := time.Now()
	terminatedAt := now.Add(-time.Minute)
	grant := &domain.ImpersonationGrant{
		ExpiresAt:    now.Add(time.Hour),
		TerminatedAt: &terminatedAt,
	}
	assert.False(t, grant.Active(now))
}

func TestGrantActiveNil(t *testing.T) {
	var grant *domain.ImpersonationGrant
	assert.False(t, grant.Active(time.Now()))
}
