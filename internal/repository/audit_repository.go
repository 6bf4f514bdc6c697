package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/agency-admin/internal/domain"
)

// AuditRepository persists the security audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
	ListRecent(ctx context.Context, limit int) ([]domain.AuditEvent, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository constructs repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	const query = `
        INSERT INTO audit_events
            (id, kind, actor_id, actor_email, target_id, target_email, path, detail, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.Kind,
		event.ActorID,
		event.ActorEmail,
		event.TargetID,
		event.TargetEmail,
		event.Path,
		event.Detail,
		event.CreatedAt,
	)
	return err
}

func (r *auditRepository) ListRecent(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
        SELECT id, kind, actor_id, actor_email, target_id, target_email, path, detail, created_at
        FROM audit_events ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditEvent
	for rows.Next() {
		var e domain.AuditEvent
		if err := rows.Scan(
			&e.ID,
			&e.Kind,
			&e.ActorID,
			&e.ActorEmail,
			&e.TargetID,
			&e.TargetEmail,
			&e.Path,
			&e.Detail,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
