package prayertimes

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/summit-companion/backend/internal/models"
)

// Repository handles prayer time persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a prayer times repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns prayer times in display order.
func (r *Repository) List(ctx context.Context) ([]models.PrayerTime, error) {
	const query = `SELECT id, name, COALESCE(time, ''), COALESCE(iqama, '') FROM prayer_times ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.PrayerTime
	for rows.Next() {
		var p models.PrayerTime
		if err := rows.Scan(&p.ID, &p.Name, &p.Time, &p.Iqama); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
