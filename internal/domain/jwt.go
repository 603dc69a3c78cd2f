package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// SubscriplyClaims represents custom JWT claims for Subscriply auth.
// UserID doubles as the owner scope for every plan/customer read and write.
type SubscriplyClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}
