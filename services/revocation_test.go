package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRevoker(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	revoker := NewMemoryRevoker()
	revoker.now = func() time.Time { return now }

	require.NoError(t, revoker.Revoke(ctx, "jti-1", now.Add(time.Hour)))
	require.NoError(t, revoker.Revoke(ctx, "jti-2", now.Add(-time.Hour)))

	revoked, err := revoker.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = revoker.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked, "already expired tokens need no entry")

	now = now.Add(2 * time.Hour)
	revoked, err = revoker.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, revoker.Revoke(ctx, "jti-3", now.Add(time.Hour)))
	assert.Len(t, revoker.revoked, 1)
}
