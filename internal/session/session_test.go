package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_AnonymousByDefault(t *testing.T) {
	s := New()

	assert.False(t, s.Authenticated())

	_, err := s.Token()
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestSession_EstablishAndClear(t *testing.T) {
	s := New()

	s.Establish("jwt-token-value")
	assert.True(t, s.Authenticated())

	token, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "jwt-token-value", token)

	s.Clear()
	assert.False(t, s.Authenticated())

	_, err = s.Token()
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestSession_ReEstablishReplacesToken(t *testing.T) {
	s := New()

	s.Establish("first")
	s.Establish("second")

	token, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "second", token)
}
