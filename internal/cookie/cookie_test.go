package cookie

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Set(t *testing.T) {
	cfg := NewConfig("shop.test", true)
	rec := httptest.NewRecorder()

	cfg.Set(rec, SessionCookieName, "sess_123", 3600)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	c := cookies[0]
	assert.Equal(t, SessionCookieName, c.Name)
	assert.Equal(t, "sess_123", c.Value)
	assert.Equal(t, "shop.test", c.Domain)
	assert.Equal(t, 3600, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}

func TestConfig_Clear(t *testing.T) {
	cfg := NewConfig("", false)
	rec := httptest.NewRecorder()

	cfg.Clear(rec, CartCookieName)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestGet(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CartCookieName, Value: "cart_9"})

	assert.Equal(t, "cart_9", Get(r, CartCookieName))
	assert.Empty(t, Get(r, TokenCookieName))
}
