package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lunargate/lunargate/internal/auth"
	"github.com/lunargate/lunargate/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-please-rotate"

func signToken(t *testing.T, secret, subject, userType string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	if userType != "" {
		claims["type"] = userType
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return token
}

func TestJWTVerifier_Verify(t *testing.T) {
	verifier := auth.NewJWTVerifier(testSecret)

	t.Run("resolves subject and tier from a valid token", func(t *testing.T) {
		token := signToken(t, testSecret, "user-42", "personal")

		identity, err := verifier.Verify(context.Background(), token)

		require.NoError(t, err)
		assert.Equal(t, "user-42", identity.ID)
		assert.Equal(t, ratelimit.TierPersonal, identity.Tier)
	})

	t.Run("admin type maps to admin tier", func(t *testing.T) {
		token := signToken(t, testSecret, "root", "admin")

		identity, err := verifier.Verify(context.Background(), token)

		require.NoError(t, err)
		assert.Equal(t, ratelimit.TierAdmin, identity.Tier)
	})

	t.Run("authenticated without type defaults to basic", func(t *testing.T) {
		token := signToken(t, testSecret, "user-7", "")

		identity, err := verifier.Verify(context.Background(), token)

		require.NoError(t, err)
		assert.Equal(t, ratelimit.TierBasic, identity.Tier)
	})

	t.Run("wrong signature is rejected", func(t *testing.T) {
		token := signToken(t, "other-secret", "user-42", "admin")

		identity, err := verifier.Verify(context.Background(), token)

		assert.ErrorIs(t, err, auth.ErrInvalidCredential)
		assert.Equal(t, ratelimit.Anonymous, identity)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub": "user-42",
			"exp": time.Now().Add(-time.Hour).Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = verifier.Verify(context.Background(), token)

		assert.ErrorIs(t, err, auth.ErrInvalidCredential)
	})

	t.Run("token without subject is rejected", func(t *testing.T) {
		claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = verifier.Verify(context.Background(), token)

		assert.ErrorIs(t, err, auth.ErrInvalidCredential)
	})
}

func TestResolve(t *testing.T) {
	verifier := auth.NewJWTVerifier(testSecret)

	t.Run("valid bearer header resolves the identity", func(t *testing.T) {
		token := signToken(t, testSecret, "user-42", "personal")

		identity := auth.Resolve(context.Background(), verifier, "Bearer "+token)

		assert.Equal(t, "user-42", identity.ID)
	})

	t.Run("missing header degrades to anonymous", func(t *testing.T) {
		identity := auth.Resolve(context.Background(), verifier, "")

		assert.Equal(t, ratelimit.Anonymous, identity)
	})

	t.Run("non-bearer header degrades to anonymous", func(t *testing.T) {
		identity := auth.Resolve(context.Background(), verifier, "Basic dXNlcjpwYXNz")

		assert.Equal(t, ratelimit.Anonymous, identity)
	})

	t.Run("invalid token degrades to anonymous instead of failing", func(t *testing.T) {
		identity := auth.Resolve(context.Background(), verifier, "Bearer not.a.jwt")

		assert.Equal(t, ratelimit.Anonymous, identity)
	})
}
