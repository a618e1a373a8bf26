package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the payload of bearer tokens minted by the external
// identity provider. Only the fields the API reads are declared; everything
// else in the token is ignored.
type SessionClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}
