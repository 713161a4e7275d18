package models

import (
	"time"
)

// Default role for committee accounts
const RoleCommittee = "panitia"

// LoginRequest defines the structure for login requests
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned on a successful login
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *Session  `json:"user"`
}

// AdminUser is a committee member allowed to manage coupons and run draws.
type AdminUser struct {
	ID           string    `bson:"_id,omitempty" json:"id" db:"id"`
	Username     string    `bson:"username" json:"username" db:"username"`
	PasswordHash string    `bson:"password" json:"-" db:"password"`
	Role         string    `bson:"role" json:"role" db:"role"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt" db:"created_at"`
}

// Session is the authenticated operator attached to a request.
type Session struct {
	TokenID   string    `json:"-"`
	UserID    string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
