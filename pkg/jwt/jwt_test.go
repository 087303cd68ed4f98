package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestGenerateAndParse(t *testing.T) {
	tok, claims, err := GenerateToken(secret, Subject{UserID: 42, Username: "alice", Admin: true}, TypeAccess, time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)

	parsed, err := ParseToken(secret, TypeAccess, tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), parsed.UserID)
	assert.Equal(t, "alice", parsed.Username)
	assert.True(t, parsed.Admin)
	assert.Equal(t, claims.ID, parsed.ID)
}

func TestParseRejectsWrongType(t *testing.T) {
	tok, _, err := GenerateToken(secret, Subject{UserID: 1}, TypeRefresh, time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(secret, TypeAccess, tok)
	assert.ErrorIs(t, err, ErrTokenType)
}

func TestParseRejectsExpired(t *testing.T) {
	tok, _, err := GenerateToken(secret, Subject{UserID: 1}, TypeAccess, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(secret, TypeAccess, tok)
	assert.Error(t, err)
}

func TestParseRejectsOtherSecret(t *testing.T) {
	tok, _, err := GenerateToken(secret, Subject{UserID: 1}, TypeAccess, time.Minute)
	require.NoError(t, err)

	_, err = ParseToken([]byte("other"), TypeAccess, tok)
	assert.Error(t, err)
}

func TestUniqueTokenIDs(t *testing.T) {
	_, a, err := GenerateToken(secret, Subject{UserID: 1}, TypeRefresh, time.Minute)
	require.NoError(t, err)
	_, b, err := GenerateToken(secret, Subject{UserID: 1}, TypeRefresh, time.Minute)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.True(t, a.Remaining() > 0)
}
