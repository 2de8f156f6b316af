package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims is the access-token payload issued by the identity service.
// This API only validates tokens; it never issues them.
type JWTClaims struct {
	StudentID string `json:"student_id"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}
