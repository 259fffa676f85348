package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	now := time.Date(2024, 10, 15, 10, 0, 0, 0, time.UTC)
	staff := &Staff{ID: "s1", Email: "admin@hotel.com", Role: RoleAdmin}

	s, err := NewSession(CreateSessionParams{Token: " tok ", Staff: staff, TTL: time.Hour, Now: now})
	require.NoError(t, err)
	assert.Equal(t, Token("tok"), s.Token)
	assert.True(t, s.IsAdmin())
	assert.False(t, s.Expired(now.Add(59*time.Minute)))
	assert.True(t, s.Expired(now.Add(time.Hour)))
	assert.Equal(t, 30*time.Minute, s.TTL(now.Add(30*time.Minute)))
}

func TestNewSessionErrors(t *testing.T) {
	staff := &Staff{Email: "a@b.c"}
	_, err := NewSession(CreateSessionParams{Staff: staff, TTL: time.Hour})
	assert.ErrorIs(t, err, ErrTokenRequired)
	_, err = NewSession(CreateSessionParams{Token: "t", TTL: time.Hour})
	assert.ErrorIs(t, err, ErrEmailRequired)
	_, err = NewSession(CreateSessionParams{Token: "t", Staff: staff})
	assert.ErrorIs(t, err, ErrTTLInvalid)
}
