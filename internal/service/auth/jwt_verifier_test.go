package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall/mastery-api/internal/config"
)

const testSecret = "test-secret-key-thats-at-least-32-chars"

// signTestToken mints a token the way the identity service does, so the
// verifier can be exercised without importing issuer code.
func signTestToken(
	t *testing.T,
	secret string,
	userID uuid.UUID,
	tokenType string,
	issuedAt, expiresAt time.Time,
) string {
	t.Helper()

	claims := jwtCustomClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestNewJWTVerifier(t *testing.T) {
	t.Parallel()

	t.Run("rejects short secret", func(t *testing.T) {
		t.Parallel()
		_, err := NewJWTVerifier(config.AuthConfig{JWTSecret: "too-short"})
		assert.Error(t, err)
	})

	t.Run("accepts valid secret", func(t *testing.T) {
		t.Parallel()
		v, err := NewJWTVerifier(config.AuthConfig{JWTSecret: testSecret})
		require.NoError(t, err)
		assert.NotNil(t, v)
	})
}

func TestVerifyToken(t *testing.T) {
	t.Parallel()

	verifier, err := NewJWTVerifier(config.AuthConfig{JWTSecret: testSecret})
	require.NoError(t, err)

	userID := uuid.New()
	now := time.Now()
	ctx := context.Background()

	t.Run("valid access token", func(t *testing.T) {
		t.Parallel()

		token := signTestToken(t, testSecret, userID, "access", now, now.Add(time.Hour))

		claims, err := verifier.VerifyToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, "access", claims.TokenType)
		assert.Equal(t, userID.String(), claims.Subject)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()

		token := signTestToken(t, testSecret, userID, "access",
			now.Add(-2*time.Hour), now.Add(-time.Hour))

		_, err := verifier.VerifyToken(ctx, token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		t.Parallel()

		token := signTestToken(t, "a-completely-different-32-char-key!!", userID,
			"access", now, now.Add(time.Hour))

		_, err := verifier.VerifyToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		t.Parallel()

		token := signTestToken(t, testSecret, userID, "refresh", now, now.Add(time.Hour))

		_, err := verifier.VerifyToken(ctx, token)
		assert.ErrorIs(t, err, ErrWrongTokenType)
	})

	t.Run("malformed token", func(t *testing.T) {
		t.Parallel()

		_, err := verifier.VerifyToken(ctx, "not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
