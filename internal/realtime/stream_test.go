package realtime

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// syncRecorder makes the recorder body safe to inspect while the stream
// handler is still writing from its own goroutine.
type syncRecorder struct {
	*httptest.ResponseRecorder
	mu sync.Mutex
}

func (r *syncRecorder) Write(b []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ResponseRecorder.Write(b)
}

func (r *syncRecorder) Contents() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Body.String()
}

func newStreamRouter(hub *Hub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/qa/event/:event_id/stream", Stream(hub, zap.NewNop()))
	return r
}

func TestStreamInvalidEventID(t *testing.T) {
	hub := newTestHub()
	router := newStreamRouter(hub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/qa/event/nope/stream", nil))

	require.Equal(t, 400, rec.Code)
}

func TestStreamDeliversFramesAndCleansUp(t *testing.T) {
	hub := newTestHub()
	router := newStreamRouter(hub)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("GET", "/qa/event/7/stream", nil).WithContext(ctx)
	rec := &syncRecorder{ResponseRecorder: httptest.NewRecorder()}

	done := make(chan struct{})
	go func() {
		router.ServeHTTP(rec, req)
		close(done)
	}()

	require.Eventually(t, func() bool { return hub.SubscriberCount(7) == 1 },
		time.Second, 10*time.Millisecond, "handler should subscribe")

	hub.QuestionUpdate(7, ActionCreated, map[string]string{"id": "q1"})

	require.Eventually(t, func() bool {
		return strings.Contains(rec.Contents(), "event: question_update")
	}, time.Second, 10*time.Millisecond, "pushed frame should reach the body")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not terminate on disconnect")
	}

	require.Equal(t, 0, hub.SubscriberCount(7), "disconnect must unsubscribe")

	body := rec.Contents()
	assert.True(t, strings.HasPrefix(body, "event: connected\ndata: "), "connected frame is sent first")
	assert.Contains(t, body, `"status":"connected"`)

	header := rec.Header()
	assert.Equal(t, "text/event-stream", header.Get("Content-Type"))
	assert.Equal(t, "no-cache", header.Get("Cache-Control"))
	assert.Equal(t, "no", header.Get("X-Accel-Buffering"))
}

func TestStreamOtherEventsAreSilent(t *testing.T) {
	hub := newTestHub()
	router := newStreamRouter(hub)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("GET", "/qa/event/7/stream", nil).WithContext(ctx)
	rec := &syncRecorder{ResponseRecorder: httptest.NewRecorder()}

	done := make(chan struct{})
	go func() {
		router.ServeHTTP(rec, req)
		close(done)
	}()

	require.Eventually(t, func() bool { return hub.SubscriberCount(7) == 1 },
		time.Second, 10*time.Millisecond)

	hub.QuestionUpdate(8, ActionCreated, map[string]string{"id": "q1"})
	// Give a misdelivered frame time to show up before asserting absence.
	time.Sleep(50 * time.Millisecond)

	cancel()
	<-done

	assert.NotContains(t, rec.Contents(), "question_update")
}
