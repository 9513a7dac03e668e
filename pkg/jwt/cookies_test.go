package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCookies(t *testing.T) {
	t.Parallel()

	cookies := SessionCookies("a", time.Now().Add(time.Minute), "r", time.Now().Add(time.Hour))
	require.Len(t, cookies, 2)

	assert.Equal(t, AccessCookie, cookies[0].Name)
	assert.Equal(t, "a", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.InDelta(t, 60, cookies[0].MaxAge, 2)

	assert.Equal(t, RefreshCookie, cookies[1].Name)
	assert.Greater(t, cookies[1].MaxAge, cookies[0].MaxAge)
}

func TestExpiredSession(t *testing.T) {
	t.Parallel()

	for _, c := range ExpiredSession() {
		assert.Empty(t, c.Value)
		assert.Equal(t, -1, c.MaxAge)
	}
}
