package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/summit-companion/backend/pkg/response"
)

// ConferenceDay returns a middleware that rejects gated routes outside the
// conference window. A zero window disables the gate entirely, so local
// development and tests do not depend on the calendar.
func ConferenceDay(startsAt, endsAt time.Time) gin.HandlerFunc {
	return ConferenceDayAt(startsAt, endsAt, time.Now)
}

// ConferenceDayAt is ConferenceDay with an injectable clock.
func ConferenceDayAt(startsAt, endsAt time.Time, now func() time.Time) gin.HandlerFunc {
	disabled := startsAt.IsZero() && endsAt.IsZero()
	return func(c *gin.Context) {
		if disabled {
			c.Next()
			return
		}
		t := now()
		if t.Before(startsAt) || t.After(endsAt) {
			response.ServiceUnavailable(c, "available during the conference only")
			c.Abort()
			return
		}
		c.Next()
	}
}
