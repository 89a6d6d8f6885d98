package speakers

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/summit-companion/backend/internal/models"
)

// Repository handles speaker persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a speaker repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all speakers ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Speaker, error) {
	const query = `SELECT id, name, COALESCE(image_url, ''), COALESCE(bio, '') FROM speakers ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Speaker
	for rows.Next() {
		var s models.Speaker
		if err := rows.Scan(&s.ID, &s.Name, &s.ImageURL, &s.Bio); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
