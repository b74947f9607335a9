package auth

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasValidShape(t *testing.T) {
	assert.True(t, HasValidShape("a.b.c"))
	assert.False(t, HasValidShape(""))
	assert.False(t, HasValidShape("a.b"))
	assert.False(t, HasValidShape("a.b.c.d"))
	assert.False(t, HasValidShape("opaque-session-token"))
}

func TestIsExpired(t *testing.T) {
	fresh, err := GenerateJWT("u1", "admin", "secret", time.Hour)
	require.NoError(t, err)
	stale, err := GenerateJWT("u1", "admin", "secret", -time.Hour)
	require.NoError(t, err)

	now := time.Now()
	assert.False(t, IsExpired(fresh, now))
	assert.True(t, IsExpired(stale, now))
	assert.True(t, IsExpired("not.a.jwt", now), "undecodable token counts as expired")
	assert.True(t, IsExpired("garbage", now))
}

func TestIsExpired_NoExpClaim(t *testing.T) {
	// {"alg":"HS256","typ":"JWT"} . {"sub":"u1"} . sig
	token := "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJzdWIiOiJ1MSJ9.c2ln"
	assert.False(t, IsExpired(token, time.Now()))
}

func TestParseClaims(t *testing.T) {
	token, err := GenerateJWT("u42", "isv", "another-secret", time.Minute)
	require.NoError(t, err)

	claims, err := ParseClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "u42", claims["user_id"])
	assert.Equal(t, "isv", claims["role"])
	sub, err := claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "u42", sub)

	_, err = ParseClaims("a.b")
	assert.Error(t, err)
}

func unsignedToken(t *testing.T, payload map[string]interface{}) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(body) + ".c2ln"
}

func TestIsExpired_NonStringClaims(t *testing.T) {
	now := time.Now()
	live := unsignedToken(t, map[string]interface{}{"user_id": 42, "role": []string{"admin"}, "exp": now.Add(time.Hour).Unix()})
	assert.False(t, IsExpired(live, now))

	claims, err := ParseClaims(live)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims["user_id"])

	dead := unsignedToken(t, map[string]interface{}{"user_id": 42, "exp": now.Add(-time.Hour).Unix()})
	assert.True(t, IsExpired(dead, now))

	badExp := unsignedToken(t, map[string]interface{}{"exp": "tomorrow"})
	assert.True(t, IsExpired(badExp, now))
}
