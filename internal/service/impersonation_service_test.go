package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/agency-admin/internal/domain"
	"github.com/spec-kit/agency-admin/internal/events"
	"github.com/spec-kit/agency-admin/internal/rbac"
	"github.com/spec-kit/agency-admin/internal/service"
	apperrors "github.com/spec-kit/agency-admin/pkg/util"
)

type stubPrincipals struct {
	byID map[string]*domain.Principal
}

func (s *stubPrincipals) Create(context.Context, *domain.Principal) error { return nil }
func (s *stubPrincipals) Update(context.Context, *domain.Principal) error { return nil }
func (s *stubPrincipals) GetByID(_ context.Context, id string) (*domain.Principal, error) {
	if p, ok := s.byID[id]; ok {
		return p, nil
	}
	return nil, pgx.ErrNoRows
}
func (s *stubPrincipals) GetByEmail(context.Context, string) (*domain.Principal, error) {
	return nil, pgx.ErrNoRows
}
func (s *stubPrincipals) List(context.Context, *string) ([]domain.Principal, error) {
	return nil, nil
}

type stubGrants struct {
	created    []*domain.ImpersonationGrant
	terminated map[string]int
}

func (s *stubGrants) Create(_ context.Context, grant *domain.ImpersonationGrant) error {
	s.created = append(s.created, grant)
	return nil
}
func (s *stubGrants) GetByID(_ context.Context, id string) (*domain.ImpersonationGrant, error) {
	for _, g := range s.created {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, pgx.ErrNoRows
}
func (s *stubGrants) Terminate(_ context.Context, id string, _ time.Time) (bool, error) {
	if s.terminated == nil {
		s.terminated = map[string]int{}
	}
	s.terminated[id]++
	for _, g := range s.created {
		if g.ID == id {
			// Only the first call transitions the grant.
			return s.terminated[id] == 1, nil
		}
	}
	return false, nil
}

type fakeCache struct {
	keys map[string]time.Duration
}

func newFakeCache() *fakeCache { return &fakeCache{keys: map[string]time.Duration{}} }

func (c *fakeCache) Put(_ context.Context, grantID string, ttl time.Duration) error {
	c.keys[grantID] = ttl
	return nil
}
func (c *fakeCache) Exists(_ context.Context, grantID string) (bool, error) {
	_, ok := c.keys[grantID]
	return ok, nil
}
func (c *fakeCache) Remove(_ context.Context, grantID string) error {
	delete(c.keys, grantID)
	return nil
}

type recordingAudit struct {
	inserted []*domain.AuditEvent
}

func (r *recordingAudit) Insert(_ context.Context, event *domain.AuditEvent) error {
	r.inserted = append(r.inserted, event)
	return nil
}
func (r *recordingAudit) ListRecent(context.Context, int) ([]domain.AuditEvent, error) {
	return nil, nil
}

type fixture struct {
	svc        *service.ImpersonationService
	grants     *stubGrants
	cache      *fakeCache
	audit      *recordingAudit
	superAdmin service.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	agencyID := "ag-1"
	principals := &stubPrincipals{byID: map[string]*domain.Principal{
		"tgt-agent": {ID: "tgt-agent", Name: "Target Agent", Email: "agent@agency.test", Role: rbac.RoleAgent, AgencyID: &agencyID, Active: true},
		"tgt-super": {ID: "tgt-super", Name: "Other Super", Email: "super@agency.test", Role: rbac.RoleSuperAdmin, Active: true},
	}}
	grants := &stubGrants{}
	cache := newFakeCache()
	audit := &recordingAudit{}

	dispatcher := events.NewInMemoryDispatcher()
	auditService := service.NewAuditService(dispatcher, audit, zap.NewNop())
	auditService.RegisterHandlers()

	svc := service.NewImpersonationService(grants, principals, cache, dispatcher, zap.NewNop(), 30)
	return &fixture{
		svc:        svc,
		grants:     grants,
		cache:      cache,
		audit:      audit,
		superAdmin: service.Actor{ID: "sa-1", Email: "sa@agency.test", Role: rbac.RoleSuperAdmin},
	}
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	return de.Code
}

func TestStartImpersonationSuccess(t *testing.T) {
	f := newFixture(t)
	before := time.Now()

	grant, target, err := f.svc.Start(context.Background(), f.superAdmin, "tgt-agent", "support case 4411", "10.0.0.1", "cli-tests")
	require.NoError(t, err)
	require.NotNil(t, grant)
	require.NotNil(t, target)

	assert.Equal(t, "sa-1", grant.ActorID)
	assert.Equal(t, "tgt-agent", grant.TargetID)
	assert.Equal(t, rbac.RoleAgent, grant.TargetRole)
	assert.Equal(t, "support case 4411", grant.Justification)
	assert.Equal(t, "10.0.0.1", grant.SourceIP)

	window := grant.ExpiresAt.Sub(grant.StartedAt)
	assert.Equal(t, 30*time.Minute, window)
	assert.False(t, grant.StartedAt.Before(before.Add(-time.Second)))

	require.Len(t, f.grants.created, 1)
	assert.Equal(t, 30*time.Minute, f.cache.keys[grant.ID])

	require.Len(t, f.audit.inserted, 1)
	assert.Equal(t, domain.AuditImpersonationStarted, f.audit.inserted[0].Kind)

	active, err := f.svc.Active(context.Background(), grant.ID)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestStartImpersonationSuperAdminTarget(t *testing.T) {
	f := newFixture(t)

	grant, target, err := f.svc.Start(context.Background(), f.superAdmin, "tgt-super", "trying", "10.0.0.1", "cli-tests")
	require.Error(t, err)
	assert.Nil(t, grant)
	assert.Nil(t, target)
	assert.Equal(t, apperrors.CodeCannotImpersonateSuperAdmin, domainCode(t, err))

	// Exactly one audit record per attempt, no grant, nothing cached.
	require.Len(t, f.audit.inserted, 1)
	assert.Equal(t, domain.AuditImpersonationDenied, f.audit.inserted[0].Kind)
	assert.Empty(t, f.grants.created)
	assert.Empty(t, f.cache.keys)

	// Repeated attempts each produce their own single record.
	_, _, err = f.svc.Start(context.Background(), f.superAdmin, "tgt-super", "trying again", "10.0.0.1", "cli-tests")
	require.Error(t, err)
	assert.Len(t, f.audit.inserted, 2)
}

func TestStartImpersonationRequiresSuperAdmin(t *testing.T) {
	f := newFixture(t)
	admin := service.Actor{ID: "adm-1", Email: "adm@agency.test", Role: rbac.RoleAdmin}

	_, _, err := f.svc.Start(context.Background(), admin, "tgt-agent", "reason", "", "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInsufficientPermissions, domainCode(t, err))
	assert.Empty(t, f.grants.created)
}

func TestStartImpersonationRequiresJustification(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.svc.Start(context.Background(), f.superAdmin, "tgt-agent", "   ", "", "")
	require.Error(t, err)
	assert.Equal(t, "validation_failed", domainCode(t, err))
}

func TestStartImpersonationUnknownTarget(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.svc.Start(context.Background(), f.superAdmin, "missing", "reason", "", "")
	require.Error(t, err)
	assert.Equal(t, "not_found", domainCode(t, err))
}

func TestTerminateIdempotent(t *testing.T) {
	f := newFixture(t)

	grant, _, err := f.svc.Start(context.Background(), f.superAdmin, "tgt-agent", "reason", "", "")
	require.NoError(t, err)

	require.NoError(t, f.svc.Terminate(context.Background(), f.superAdmin, grant.ID))
	active, err := f.svc.Active(context.Background(), grant.ID)
	require.NoError(t, err)
	assert.False(t, active)

	// Second termination is a no-op, not an error.
	require.NoError(t, f.svc.Terminate(context.Background(), f.superAdmin, grant.ID))

	// Unknown and empty grant IDs are also no-ops.
	require.NoError(t, f.svc.Terminate(context.Background(), f.superAdmin, "unknown"))
	require.NoError(t, f.svc.Terminate(context.Background(), f.superAdmin, ""))

	// For all four calls the audit trail records exactly one termination,
	// on the call that actually changed the grant.
	var terminations int
	for _, e := range f.audit.inserted {
		if e.Kind == domain.AuditImpersonationTerminated {
			terminations++
		}
	}
	assert.Equal(t, 1, terminations)
}

func TestTerminateUnknownGrantNotAudited(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.svc.Terminate(context.Background(), f.superAdmin, "never-issued"))
	assert.Empty(t, f.audit.inserted)
}

func TestActiveUnknownGrant(t *testing.T) {
	f := newFixture(t)
	active, err := f.svc.Active(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, active)

	active, err = f.svc.Active(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, active)
}
