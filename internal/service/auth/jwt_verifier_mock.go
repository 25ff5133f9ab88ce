package auth

import (
	"context"
)

// MockJWTVerifier is a configurable JWTVerifier for handler and middleware
// tests.
type MockJWTVerifier struct {
	// VerifyTokenFn allows tests to control verification behavior.
	VerifyTokenFn func(ctx context.Context, tokenString string) (*Claims, error)
}

// Ensure MockJWTVerifier implements JWTVerifier interface
var _ JWTVerifier = (*MockJWTVerifier)(nil)

// VerifyToken implements JWTVerifier.VerifyToken
func (m *MockJWTVerifier) VerifyToken(ctx context.Context, tokenString string) (*Claims, error) {
	if m.VerifyTokenFn != nil {
		return m.VerifyTokenFn(ctx, tokenString)
	}
	return nil, ErrInvalidToken
}
