package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/marisolvega/threadmarket-backend/pkg/enums"
)

// Principal is the resolved identity every core operation receives explicitly.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   enums.UserRole
}

// IsSeller reports whether the principal may take seller actions.
func (p Principal) IsSeller() bool {
	return p.Role == enums.UserRoleSeller
}

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Email  string
	Role   enums.UserRole
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID uuid.UUID      `json:"user_id"`
	Email  string         `json:"email"`
	Role   enums.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Principal converts validated claims into the explicit identity value.
func (c *AccessTokenClaims) Principal() Principal {
	return Principal{
		UserID: c.UserID,
		Email:  c.Email,
		Role:   c.Role,
	}
}
