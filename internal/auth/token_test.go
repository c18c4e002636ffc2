package auth

import (
	"testing"
	"time"

	"github.com/safar/vendor-portal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Hour)
	now := time.Date(2024, 7, 10, 12, 0, 0, 0, time.UTC)

	token, err := ti.Issue(&Session{ID: "sid-1", Role: models.RoleAdmin}, now)
	require.NoError(t, err)

	id, err := ti.Parse(token, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "sid-1", id)
}

func TestTokenRejected(t *testing.T) {
	ti := NewTokenIssuer("secret", time.Hour)
	now := time.Date(2024, 7, 10, 12, 0, 0, 0, time.UTC)

	token, err := ti.Issue(&Session{ID: "sid-1", Role: models.RoleAdmin}, now)
	require.NoError(t, err)

	_, err = ti.Parse(token, now.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenIssuer("other", time.Hour).Parse(token, now)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ti.Parse("not-a-token", now)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
