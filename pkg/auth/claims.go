package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the JWT payload: the user id travels in the standard subject claim.
type TokenClaims struct {
	jwt.RegisteredClaims
}
