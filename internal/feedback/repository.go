package feedback

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/summit-companion/backend/internal/models"
)

// Repository handles feedback submission persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a feedback repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create stores one survey submission.
func (r *Repository) Create(ctx context.Context, f *models.FeedbackSubmission) error {
	const query = `INSERT INTO feedback_submissions (submission_data, ip_address, user_agent)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''))
		RETURNING id, submitted_at`
	return r.pool.QueryRow(ctx, query, f.SubmissionData, f.IPAddress, f.UserAgent).
		Scan(&f.ID, &f.SubmittedAt)
}

// List returns submissions newest first.
func (r *Repository) List(ctx context.Context) ([]models.FeedbackSubmission, error) {
	const query = `SELECT id, submission_data, submitted_at, COALESCE(ip_address, '')
		FROM feedback_submissions ORDER BY submitted_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.FeedbackSubmission
	for rows.Next() {
		var f models.FeedbackSubmission
		if err := rows.Scan(&f.ID, &f.SubmissionData, &f.SubmittedAt, &f.IPAddress); err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	return list, rows.Err()
}
