package realtime

import (
	"io"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/summit-companion/backend/pkg/response"
)

// keepaliveInterval is how long the stream sits idle before emitting a
// comment frame so proxies and browsers keep the connection open.
const keepaliveInterval = 30 * time.Second

// Stream returns the SSE handler for GET /qa/event/:event_id/stream.
// The stream is a public read-only broadcast channel; moderator pages
// consume the same stream and differ only in how the client reacts.
func Stream(hub *Hub, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, err := strconv.ParseInt(c.Param("event_id"), 10, 64)
		if err != nil {
			response.BadRequest(c, "invalid event id")
			return
		}

		header := c.Writer.Header()
		header.Set("Content-Type", "text/event-stream")
		header.Set("Cache-Control", "no-cache")
		header.Set("Connection", "keep-alive")
		header.Set("X-Accel-Buffering", "no")

		ch := hub.Subscribe(eventID)
		defer hub.Unsubscribe(eventID, ch)

		connected := Message{Event: "connected", Data: map[string]string{"status": "connected"}}
		if _, err := io.WriteString(c.Writer, connected.Format()); err != nil {
			return
		}
		c.Writer.Flush()

		keepalive := time.NewTicker(keepaliveInterval)
		defer keepalive.Stop()

		ctx := c.Request.Context()
		for {
			select {
			case <-ctx.Done():
				// Client went away; normal termination.
				logger.Debug("stream closed", zap.Int64("event_id", eventID))
				return
			case msg := <-ch:
				if _, err := io.WriteString(c.Writer, msg.Format()); err != nil {
					return
				}
				c.Writer.Flush()
			case <-keepalive.C:
				if _, err := io.WriteString(c.Writer, ": keepalive\n\n"); err != nil {
					return
				}
				c.Writer.Flush()
			}
		}
	}
}
