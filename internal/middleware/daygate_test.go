package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func gatedRouter(startsAt, endsAt time.Time, now func() time.Time) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/gated", ConferenceDayAt(startsAt, endsAt, now), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func gatedStatus(r *gin.Engine) int {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gated", nil))
	return rec.Code
}

func TestConferenceDayGate(t *testing.T) {
	startsAt := time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC)
	endsAt := time.Date(2026, 9, 16, 20, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		now  time.Time
		want int
	}{
		{"before window", startsAt.Add(-time.Hour), http.StatusServiceUnavailable},
		{"at open", startsAt, http.StatusOK},
		{"mid conference", startsAt.Add(24 * time.Hour), http.StatusOK},
		{"at close", endsAt, http.StatusOK},
		{"after window", endsAt.Add(time.Minute), http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gatedRouter(startsAt, endsAt, func() time.Time { return tc.now })
			assert.Equal(t, tc.want, gatedStatus(r))
		})
	}
}

func TestConferenceDayGateDisabledWhenUnset(t *testing.T) {
	r := gatedRouter(time.Time{}, time.Time{}, time.Now)
	assert.Equal(t, http.StatusOK, gatedStatus(r))
}
