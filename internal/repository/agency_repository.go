package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/agency-admin/internal/domain"
)

// AgencyRepository defines persistence access for tenant agencies.
type AgencyRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Agency, error)
	List(ctx context.Context) ([]domain.Agency, error)
}

type agencyRepository struct {
	pool *pgxpool.Pool
}

// NewAgencyRepository returns a Postgres-backed implementation.
func NewAgencyRepository(pool *pgxpool.Pool) AgencyRepository {
	return &agencyRepository{pool: pool}
}

func (r *agencyRepository) GetByID(ctx context.Context, id string) (*domain.Agency, error) {
	const query = `
        SELECT id, name, slug, status, created_at, updated_at
        FROM agencies WHERE id=$1`

	var a domain.Agency
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.Name,
		&a.Slug,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *agencyRepository) List(ctx context.Context) ([]domain.Agency, error) {
	const query = `
        SELECT id, name, slug, status, created_at, updated_at
        FROM agencies ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agencies []domain.Agency
	for rows.Next() {
		var a domain.Agency
		if err := rows.Scan(
			&a.ID,
			&a.Name,
			&a.Slug,
			&a.Status,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		agencies = append(agencies, a)
	}
	return agencies, rows.Err()
}
