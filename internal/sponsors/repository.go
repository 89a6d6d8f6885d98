package sponsors

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/summit-companion/backend/internal/models"
)

// Repository handles sponsor persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a sponsor repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all sponsors ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Sponsor, error) {
	const query = `SELECT id, name, COALESCE(image_url, ''), COALESCE(description, ''),
		COALESCE(website, ''), COALESCE(facebook, ''), COALESCE(instagram, ''), COALESCE(twitter, '')
		FROM sponsors ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Sponsor
	for rows.Next() {
		var s models.Sponsor
		if err := rows.Scan(&s.ID, &s.Name, &s.ImageURL, &s.Description, &s.Website, &s.Facebook, &s.Instagram, &s.Twitter); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
