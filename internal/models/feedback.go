package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// FeedbackSubmission stores one survey response as raw JSON.
type FeedbackSubmission struct {
	ID             uuid.UUID       `json:"id"`
	SubmissionData json.RawMessage `json:"submission_data"`
	SubmittedAt    time.Time       `json:"submitted_at"`
	IPAddress      string          `json:"ip_address,omitempty"`
	UserAgent      string          `json:"-"`
}
