package events

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/summit-companion/backend/internal/models"
)

// ErrNotFound is returned when an event does not exist.
var ErrNotFound = errors.New("event not found")

const eventCols = `id, title, COALESCE(description, ''), start_time, end_time, COALESCE(location, ''), category, is_qa_active`

// Repository handles event persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an event repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.StartTime, &e.EndTime, &e.Location, &e.Category, &e.IsQAActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetByID returns an event with its speakers.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	const query = `SELECT ` + eventCols + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	speakers, err := r.speakersFor(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	e.Speakers = speakers[id]
	return e, nil
}

// List returns all events ordered by start time, with speakers attached.
func (r *Repository) List(ctx context.Context) ([]models.Event, error) {
	const query = `SELECT ` + eventCols + ` FROM events ORDER BY start_time`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Event
	var ids []int64
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.StartTime, &e.EndTime, &e.Location, &e.Category, &e.IsQAActive); err != nil {
			return nil, err
		}
		list = append(list, e)
		ids = append(ids, e.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	speakers, err := r.speakersFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Speakers = speakers[list[i].ID]
	}
	return list, nil
}

func (r *Repository) speakersFor(ctx context.Context, eventIDs []int64) (map[int64][]models.Speaker, error) {
	if len(eventIDs) == 0 {
		return nil, nil
	}
	const query = `SELECT es.event_id, s.id, s.name, COALESCE(s.image_url, ''), COALESCE(s.bio, '')
		FROM event_speakers es JOIN speakers s ON s.id = es.speaker_id
		WHERE es.event_id = ANY($1) ORDER BY s.name`
	rows, err := r.pool.Query(ctx, query, eventIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]models.Speaker)
	for rows.Next() {
		var eventID int64
		var s models.Speaker
		if err := rows.Scan(&eventID, &s.ID, &s.Name, &s.ImageURL, &s.Bio); err != nil {
			return nil, err
		}
		out[eventID] = append(out[eventID], s)
	}
	return out, rows.Err()
}

// Create inserts a new event and links its speakers.
func (r *Repository) Create(ctx context.Context, e *models.Event, speakerIDs []int64) error {
	const query = `INSERT INTO events (title, description, start_time, end_time, location, category, is_qa_active)
		VALUES ($1, NULLIF($2, ''), $3, $4, NULLIF($5, ''), COALESCE(NULLIF($6, ''), 'MAIN'), FALSE)
		RETURNING id, category, is_qa_active`
	if err := r.pool.QueryRow(ctx, query, e.Title, e.Description, e.StartTime, e.EndTime, e.Location, e.Category).
		Scan(&e.ID, &e.Category, &e.IsQAActive); err != nil {
		return err
	}
	return r.setSpeakers(ctx, e.ID, speakerIDs)
}

// Update updates event fields and, when speakerIDs is non-nil, relinks speakers.
func (r *Repository) Update(ctx context.Context, e *models.Event, speakerIDs []int64) error {
	const query = `UPDATE events SET title = $1, description = NULLIF($2, ''), start_time = $3, end_time = $4,
		location = NULLIF($5, ''), category = COALESCE(NULLIF($6, ''), category) WHERE id = $7`
	tag, err := r.pool.Exec(ctx, query, e.Title, e.Description, e.StartTime, e.EndTime, e.Location, e.Category, e.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if speakerIDs == nil {
		return nil
	}
	return r.setSpeakers(ctx, e.ID, speakerIDs)
}

func (r *Repository) setSpeakers(ctx context.Context, eventID int64, speakerIDs []int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM event_speakers WHERE event_id = $1`, eventID); err != nil {
		return err
	}
	for _, sid := range speakerIDs {
		if _, err := r.pool.Exec(ctx, `INSERT INTO event_speakers (event_id, speaker_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, eventID, sid); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an event; questions and speaker links cascade.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleQAActive flips the activation gate and returns the updated event.
func (r *Repository) ToggleQAActive(ctx context.Context, id int64) (*models.Event, error) {
	const query = `UPDATE events SET is_qa_active = NOT is_qa_active WHERE id = $1 RETURNING ` + eventCols
	return scanEvent(r.pool.QueryRow(ctx, query, id))
}
