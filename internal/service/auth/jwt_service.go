// Package auth verifies bearer tokens issued by the companion identity
// service. This service never mints tokens; it only checks signatures and
// extracts the user identity for request scoping.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTVerifier defines the token verification operation used by the API
// middleware.
type JWTVerifier interface {
	// VerifyToken validates the provided access token string and extracts
	// the claims. Returns the claims containing user information if the
	// token is valid, or an error if verification fails (expired, invalid
	// signature, wrong token type, etc.).
	VerifyToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the verified claims of an access token.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// TokenType indicates the purpose of the token. Only "access" tokens
	// are accepted here.
	TokenType string `json:"type,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
