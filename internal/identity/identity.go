// Package identity derives a stable per-browser opaque identifier used to
// deduplicate question likes and remember a display nickname. The identity
// is self-issued via cookie: it labels "the same browser", not a verified
// user, and clearing cookies resets it.
package identity

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionCookie carries the opaque per-browser identity.
	SessionCookie = "qa_session_id"
	// NicknameCookie remembers the last submitted nickname.
	NicknameCookie = "qa_nickname"

	// DefaultNickname is used when the guest leaves the name blank.
	DefaultNickname = "Anonymous"

	sessionMaxAge = 30 * 24 * 60 * 60  // 30 days
	renewedMaxAge = 365 * 24 * 60 * 60 // 1 year, on submission paths
)

// GetOrCreate returns the browser's session identity, minting a new 128-bit
// random value when the cookie is absent, and refreshes the cookie expiry.
func GetOrCreate(c *gin.Context) string {
	id, err := c.Cookie(SessionCookie)
	if err != nil || id == "" {
		id = uuid.NewString()
	}
	c.SetCookie(SessionCookie, id, sessionMaxAge, "/", "", false, true)
	return id
}

// Renew extends the session cookie to the long expiry. Called on submission
// and like paths so active browsers keep their like state.
func Renew(c *gin.Context, id string) {
	c.SetCookie(SessionCookie, id, renewedMaxAge, "/", "", false, true)
}

// Nickname returns the remembered nickname, or DefaultNickname.
func Nickname(c *gin.Context) string {
	name, err := c.Cookie(NicknameCookie)
	if err != nil || strings.TrimSpace(name) == "" {
		return DefaultNickname
	}
	return name
}

// RememberNickname persists the nickname for the next submission.
func RememberNickname(c *gin.Context, name string) {
	c.SetCookie(NicknameCookie, name, renewedMaxAge, "/", "", false, false)
}
