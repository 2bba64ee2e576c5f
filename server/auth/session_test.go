package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	m := NewSessionManager(time.Hour)
	defer m.Close()

	session := m.Create(7)
	require.NotEmpty(t, session.Token)
	assert.Equal(t, int32(7), session.UserID)

	got := m.Get(session.Token)
	require.NotNil(t, got)
	assert.Equal(t, session.Token, got.Token)

	m.Delete(session.Token)
	assert.Nil(t, m.Get(session.Token))
}

func TestSessionExpiry(t *testing.T) {
	m := NewSessionManager(-time.Second)
	defer m.Close()

	session := m.Create(1)
	assert.Nil(t, m.Get(session.Token))
}

func TestSessionTokensAreUnique(t *testing.T) {
	m := NewSessionManager(time.Hour)
	defer m.Close()

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		session := m.Create(1)
		require.False(t, seen[session.Token])
		seen[session.Token] = true
	}
}

func TestUnknownTokenYieldsNil(t *testing.T) {
	m := NewSessionManager(time.Hour)
	defer m.Close()

	assert.Nil(t, m.Get("not-a-token"))
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, VerifyPassword(hash, "correct horse battery staple"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}
