package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uminion/internal/pkg/auth/jwt"
)

const testSecret = "test-secret"

func TestResolveIdentityWithValidToken(t *testing.T) {
	token, err := jwt.GenerateToken(&jwt.Payload{UserID: "u1", Username: "alice"}, testSecret, time.Hour)
	require.NoError(t, err)

	identity := ResolveIdentity(token, testSecret, "Anonymous001")

	assert.True(t, identity.Authenticated())
	assert.Equal(t, "u1", identity.UserID)
	assert.Equal(t, "alice", identity.Username)
	assert.Equal(t, "Anonymous001", identity.AnonHandle)
	assert.Equal(t, "alice", identity.DisplayName())
}

func TestResolveIdentityWithoutToken(t *testing.T) {
	identity := ResolveIdentity("", testSecret, "Anonymous002")

	assert.False(t, identity.Authenticated())
	assert.Empty(t, identity.UserID)
	assert.Equal(t, "Anonymous002", identity.DisplayName())
}

func TestResolveIdentityDowngradesOnBadToken(t *testing.T) {
	token, err := jwt.GenerateToken(&jwt.Payload{UserID: "u1", Username: "alice"}, "other-secret", time.Hour)
	require.NoError(t, err)

	identity := ResolveIdentity(token, testSecret, "Anonymous003")

	assert.False(t, identity.Authenticated())
	assert.Equal(t, "Anonymous003", identity.DisplayName())
}

func TestResolveIdentityDowngradesOnExpiredToken(t *testing.T) {
	token, err := jwt.GenerateToken(&jwt.Payload{UserID: "u1", Username: "alice"}, testSecret, -time.Minute)
	require.NoError(t, err)

	identity := ResolveIdentity(token, testSecret, "Anonymous004")

	assert.False(t, identity.Authenticated())
}
