package models

import "time"

// Event is a scheduled conference session. IsQAActive gates new question
// submission; existing questions keep their own visibility regardless.
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Location    string    `json:"location,omitempty"`
	Category    string    `json:"category"`
	IsQAActive  bool      `json:"is_qa_active"`
	Speakers    []Speaker `json:"speakers,omitempty"`
}

// Speaker presents at one or more events.
type Speaker struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

// Sponsor is shown on the sponsors page.
type Sponsor struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ImageURL    string `json:"image_url,omitempty"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`
	Facebook    string `json:"facebook,omitempty"`
	Instagram   string `json:"instagram,omitempty"`
	Twitter     string `json:"twitter,omitempty"`
}

// PrayerTime is one entry on the prayer times page (e.g. DHUHR, ASR).
type PrayerTime struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Time  string `json:"time,omitempty"`
	Iqama string `json:"iqama,omitempty"`
}
