package qa

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/summit-companion/backend/internal/models"
)

// ErrNotFound is returned when a question does not exist.
var ErrNotFound = errors.New("question not found")

// Sort orders for question listings.
const (
	SortRecent  = "recent"
	SortPopular = "popular"
)

const questionCols = `id, event_id, nickname, question_text, is_visible, is_answered, likes_count, created_at, updated_at`

// Repository handles question and like persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a question repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanQuestion(row pgx.Row) (*models.Question, error) {
	var q models.Question
	err := row.Scan(&q.ID, &q.EventID, &q.Nickname, &q.QuestionText, &q.IsVisible, &q.IsAnswered, &q.LikesCount, &q.CreatedAt, &q.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// Create inserts a new question. Questions always start hidden and
// unanswered regardless of submitter input.
func (r *Repository) Create(ctx context.Context, q *models.Question) error {
	const query = `INSERT INTO questions (event_id, nickname, question_text, is_visible, is_answered, likes_count, ip_address)
		VALUES ($1, $2, $3, FALSE, FALSE, 0, NULLIF($4, ''))
		RETURNING id, is_visible, is_answered, likes_count, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, q.EventID, q.Nickname, q.QuestionText, q.IPAddress).
		Scan(&q.ID, &q.IsVisible, &q.IsAnswered, &q.LikesCount, &q.CreatedAt, &q.UpdatedAt)
}

// GetByID returns a question by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	const query = `SELECT ` + questionCols + ` FROM questions WHERE id = $1`
	return scanQuestion(r.pool.QueryRow(ctx, query, id))
}

// ListByEvent returns an event's questions. Guests list with visibleOnly;
// moderators see every row. Popular sorts by like count, recency as tiebreak.
func (r *Repository) ListByEvent(ctx context.Context, eventID int64, visibleOnly bool, sort string) ([]models.Question, error) {
	query := `SELECT ` + questionCols + ` FROM questions WHERE event_id = $1`
	if visibleOnly {
		query += ` AND is_visible = TRUE`
	}
	if sort == SortPopular {
		query += ` ORDER BY likes_count DESC, created_at DESC`
	} else {
		query += ` ORDER BY created_at DESC`
	}

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Question
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.EventID, &q.Nickname, &q.QuestionText, &q.IsVisible, &q.IsAnswered, &q.LikesCount, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

// ToggleVisibility flips is_visible and returns the updated question.
func (r *Repository) ToggleVisibility(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	const query = `UPDATE questions SET is_visible = NOT is_visible, updated_at = NOW()
		WHERE id = $1 RETURNING ` + questionCols
	return scanQuestion(r.pool.QueryRow(ctx, query, id))
}

// ToggleAnswered flips is_answered and returns the updated question.
func (r *Repository) ToggleAnswered(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	const query = `UPDATE questions SET is_answered = NOT is_answered, updated_at = NOW()
		WHERE id = $1 RETURNING ` + questionCols
	return scanQuestion(r.pool.QueryRow(ctx, query, id))
}

// Delete removes a question; its likes cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM questions WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleLike creates or removes the (question, session) like row and adjusts
// the cached count in the same transaction so concurrent likes cannot drift
// the count. Returns whether the question is now liked and the new count.
func (r *Repository) ToggleLike(ctx context.Context, questionID uuid.UUID, sessionID string) (liked bool, likes int, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM question_likes WHERE question_id = $1 AND session_id = $2`, questionID, sessionID)
	if err != nil {
		return false, 0, err
	}

	if tag.RowsAffected() > 0 {
		err = tx.QueryRow(ctx, `UPDATE questions SET likes_count = GREATEST(likes_count - 1, 0), updated_at = NOW()
			WHERE id = $1 RETURNING likes_count`, questionID).Scan(&likes)
		liked = false
	} else {
		if _, err = tx.Exec(ctx, `INSERT INTO question_likes (question_id, session_id) VALUES ($1, $2)`, questionID, sessionID); err != nil {
			return false, 0, err
		}
		err = tx.QueryRow(ctx, `UPDATE questions SET likes_count = likes_count + 1, updated_at = NOW()
			WHERE id = $1 RETURNING likes_count`, questionID).Scan(&likes)
		liked = true
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return false, 0, ErrNotFound
	}
	if err != nil {
		return false, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, 0, fmt.Errorf("commit: %w", err)
	}
	return liked, likes, nil
}

// LikedQuestionIDs returns the ids of an event's questions the session has liked.
func (r *Repository) LikedQuestionIDs(ctx context.Context, eventID int64, sessionID string) ([]uuid.UUID, error) {
	const query = `SELECT l.question_id FROM question_likes l
		JOIN questions q ON q.id = l.question_id
		WHERE q.event_id = $1 AND l.session_id = $2`
	rows, err := r.pool.Query(ctx, query, eventID, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
