package auth

import "errors"

// Error constants for token verification failures.
var (
	// ErrInvalidToken is returned when a token is malformed, has an invalid
	// signature, or fails verification for any reason other than expiry.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token is past its expiry claim.
	ErrExpiredToken = errors.New("token expired")

	// ErrTokenNotYetValid is returned when a token's nbf claim is in the future.
	ErrTokenNotYetValid = errors.New("token not yet valid")

	// ErrWrongTokenType is returned when a token verifies but is not an
	// access token, e.g. a refresh token presented on an API request.
	ErrWrongTokenType = errors.New("wrong token type")
)
