package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Username       string   `json:"username" validate:"required,min=3,max=64"`
	Password       string   `json:"password" validate:"required,min=6"`
	DisplayName    *string  `json:"displayName"`
	AvatarInitials *string  `json:"avatarInitials" validate:"omitempty,max=3"`
	Role           UserRole `json:"role" validate:"omitempty,oneof=student faculty"`
	StudentID      *string  `json:"studentId"`
	Department     *string  `json:"department"`
	Semester       *int     `json:"semester" validate:"omitempty,min=1,max=12"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	User        Profile    `json:"user"`
	Message     string     `json:"message"`
	AccessToken string     `json:"accessToken,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID   int64    `json:"uid"`
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
	jwt.RegisteredClaims
}
