package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/agency-admin/internal/domain"
)

// ImpersonationRepository manages impersonation grant persistence.
type ImpersonationRepository interface {
	Create(ctx context.Context, grant *domain.ImpersonationGrant) error
	GetByID(ctx context.Context, id string) (*domain.ImpersonationGrant, error)
	Terminate(ctx context.Context, id string, at time.Time) (bool, error)
}

type impersonationRepository struct {
	pool *pgxpool.Pool
}

// NewImpersonationRepository constructs repository.
func NewImpersonationRepository(pool *pgxpool.Pool) ImpersonationRepository {
	return &impersonationRepository{pool: pool}
}

func (r *impersonationRepository) Create(ctx context.Context, grant *domain.ImpersonationGrant) error {
	const query = `
        INSERT INTO impersonation_grants
            (id, actor_id, actor_email, target_id, target_email, target_role,
             justification, started_at, expires_at, source_ip, user_agent)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`

	_, err := r.pool.Exec(ctx, query,
		grant.ID,
		grant.ActorID,
		grant.ActorEmail,
		grant.TargetID,
		grant.TargetEmail,
		grant.TargetRole,
		grant.Justification,
		grant.StartedAt,
		grant.ExpiresAt,
		grant.SourceIP,
		grant.UserAgent,
	)
	return err
}

func (r *impersonationRepository) GetByID(ctx context.Context, id string) (*domain.ImpersonationGrant, error) {
	const query = `
        SELECT id, actor_id, actor_email, target_id, target_email, target_role,
               justification, started_at, expires_at, terminated_at, source_ip, user_agent
        FROM impersonation_grants WHERE id=$1`

	var g domain.ImpersonationGrant
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&g.ID,
		&g.ActorID,
		&g.ActorEmail,
		&g.TargetID,
		&g.TargetEmail,
		&g.TargetRole,
		&g.Justification,
		&g.StartedAt,
		&g.ExpiresAt,
		&g.TerminatedAt,
		&g.SourceIP,
		&g.UserAgent,
	); err != nil {
		return nil, err
	}
	return &g, nil
}

// Terminate stamps the grant once; repeated calls leave the original
// timestamp untouched. Reports whether a grant actually transitioned.
func (r *impersonationRepository) Terminate(ctx context.Context, id string, at time.Time) (bool, error) {
	const query = `
        UPDATE impersonation_grants SET terminated_at=$2
        WHERE id=$1 AND terminated_at IS NULL`

	tag, err := r.pool.Exec(ctx, query, id, at)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
