package auth

import (
	"github.com/google/uuid"

	"github.com/marisolvega/threadmarket-backend/pkg/enums"
)

// RegisterRequest carries the fields needed to create an account.
type RegisterRequest struct {
	Email       string         `json:"email" validate:"required,email"`
	Password    string         `json:"password" validate:"required,min=8,max=128"`
	DisplayName string         `json:"display_name" validate:"required,min=1,max=120"`
	Phone       *string        `json:"phone" validate:"omitempty,max=32"`
	Role        enums.UserRole `json:"role" validate:"required"`
}

// LoginRequest carries the credentials for an existing account.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse is returned by both register and login.
type SessionResponse struct {
	AccessToken string         `json:"access_token"`
	UserID      uuid.UUID      `json:"user_id"`
	Email       string         `json:"email"`
	DisplayName string         `json:"display_name"`
	Role        enums.UserRole `json:"role"`
}
