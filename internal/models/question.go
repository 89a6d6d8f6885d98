package models

import (
	"time"

	"github.com/google/uuid"
)

// Question is an audience question submitted to an event's Q&A session.
// New questions are always hidden until a moderator toggles visibility.
type Question struct {
	ID           uuid.UUID `json:"id"`
	EventID      int64     `json:"event_id"`
	Nickname     string    `json:"nickname"`
	QuestionText string    `json:"question_text"`
	IsVisible    bool      `json:"is_visible"`
	IsAnswered   bool      `json:"is_answered"`
	LikesCount   int       `json:"likes_count"`
	IPAddress    string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// QuestionLike records one like by one browser session. Uniqueness on
// (question, session) makes the like action a toggle.
type QuestionLike struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	SessionID  string    `json:"session_id"`
	CreatedAt  time.Time `json:"created_at"`
}
