package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(cookies ...*http.Cookie) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		c.Request.AddCookie(ck)
	}
	return c, rec
}

func setCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestGetOrCreateMintsUUID(t *testing.T) {
	c, rec := newContext()

	id := GetOrCreate(c)

	_, err := uuid.Parse(id)
	require.NoError(t, err)

	ck := setCookie(rec, SessionCookie)
	require.NotNil(t, ck)
	assert.Equal(t, id, ck.Value)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, sessionMaxAge, ck.MaxAge)
}

func TestGetOrCreateReusesExistingCookie(t *testing.T) {
	existing := uuid.NewString()
	c, rec := newContext(&http.Cookie{Name: SessionCookie, Value: existing})

	id := GetOrCreate(c)

	assert.Equal(t, existing, id)
	// Expiry is refreshed even when the value is reused.
	ck := setCookie(rec, SessionCookie)
	require.NotNil(t, ck)
	assert.Equal(t, existing, ck.Value)
}

func TestRenewExtendsExpiry(t *testing.T) {
	c, rec := newContext()
	id := uuid.NewString()

	Renew(c, id)

	ck := setCookie(rec, SessionCookie)
	require.NotNil(t, ck)
	assert.Equal(t, id, ck.Value)
	assert.Equal(t, renewedMaxAge, ck.MaxAge)
}

func TestNicknameFallsBackToDefault(t *testing.T) {
	c, _ := newContext()
	assert.Equal(t, DefaultNickname, Nickname(c))

	c, _ = newContext(&http.Cookie{Name: NicknameCookie, Value: "  "})
	assert.Equal(t, DefaultNickname, Nickname(c))
}

func TestNicknameRoundTrip(t *testing.T) {
	c, rec := newContext()

	RememberNickname(c, "Sam")

	ck := setCookie(rec, NicknameCookie)
	require.NotNil(t, ck)
	assert.Equal(t, "Sam", ck.Value)

	c, _ = newContext(&http.Cookie{Name: NicknameCookie, Value: "Sam"})
	assert.Equal(t, "Sam", Nickname(c))
}
